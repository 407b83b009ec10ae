// Package netx builds multipart payloads for file and image uploads.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Form is a finished multipart/form-data body together with its content
// type (which carries the boundary).
type Form struct {
	body        []byte
	contentType string
}

// ContentType returns the multipart/form-data header value, boundary included.
func (f *Form) ContentType() string { return f.contentType }

// Reader returns a fresh reader over the encoded body.
func (f *Form) Reader() io.Reader { return bytes.NewReader(f.body) }

// Len is the encoded size in bytes.
func (f *Form) Len() int { return len(f.body) }

// FormBuilder accumulates fields and files. The first error sticks and is
// reported by Build.
type FormBuilder struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func NewFormBuilder() *FormBuilder {
	b := &FormBuilder{}
	b.w = multipart.NewWriter(&b.buf)
	return b
}

// Field adds a plain text field.
func (b *FormBuilder) Field(name, value string) *FormBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.w.WriteField(name, value)
	return b
}

// File adds a file part read from r.
func (b *FormBuilder) File(field, fileName string, r io.Reader) *FormBuilder {
	if b.err != nil {
		return b
	}
	part, err := b.w.CreateFormFile(field, fileName)
	if err != nil {
		b.err = err
		return b
	}
	_, b.err = io.Copy(part, r)
	return b
}

// FileFromPath adds the file at path, named by its base name.
func (b *FormBuilder) FileFromPath(field, path string) *FormBuilder {
	if b.err != nil {
		return b
	}
	f, err := os.Open(path)
	if err != nil {
		b.err = fmt.Errorf("open %s: %w", path, err)
		return b
	}
	defer f.Close()
	return b.File(field, filepath.Base(path), f)
}

// Build closes the multipart writer and returns the form.
func (b *FormBuilder) Build() (*Form, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.w.Close(); err != nil {
		return nil, err
	}
	return &Form{body: b.buf.Bytes(), contentType: b.w.FormDataContentType()}, nil
}
