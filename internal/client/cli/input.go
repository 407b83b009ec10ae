package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt readers are package variables so tests can script the answers.
var (
	readPassword  = term.ReadPassword
	getSimpleText = ReadLine
	getPassword   = ReadPassword
	getMultiline  = ReadBlock
	getMetadata   = ReadFields
)

// ReadLine shows "prompt: " and returns the next line without surrounding
// whitespace. A last line cut short by EOF still counts.
func ReadLine(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", prompt); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadPassword reads a password from the terminal without echo. Callers
// wipe the returned bytes with common.WipeByteArray.
func ReadPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Password (hidden): "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

// ReadBlock collects lines up to the first blank one and returns them as a
// single trimmed string. Request bodies are typed this way.
func ReadBlock(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s, blank line to send:\n", prompt); err != nil {
		return "", err
	}
	lines, err := readUntilBlank(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// ReadFields collects raw "name=value" lines up to the first blank one.
// parsePairs does the splitting.
func ReadFields(r *bufio.Reader, w io.Writer) ([]string, error) {
	if _, err := fmt.Fprintln(w, "Form fields as name=value, blank line to send:"); err != nil {
		return nil, err
	}
	return readUntilBlank(r)
}

// readUntilBlank keeps everything but the line ending, so whitespace-only
// lines are data.
func readUntilBlank(r *bufio.Reader) ([]string, error) {
	lines := []string{}
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return lines, nil
		}
		lines = append(lines, line)
		if err != nil {
			return lines, nil
		}
	}
}
