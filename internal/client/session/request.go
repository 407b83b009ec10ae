package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/client/models"
	"github.com/dmitrijs2005/leadsession/internal/common"
	"github.com/dmitrijs2005/leadsession/internal/netx"
)

// payload is a request body with the content type it must be sent with.
// The zero value sends no body and no Content-Type.
type payload struct {
	body        io.Reader
	contentType string
}

func jsonPayload(v any) (payload, error) {
	if v == nil {
		v = struct{}{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return payload{}, fmt.Errorf("encode body: %w", err)
	}
	return payload{body: bytes.NewReader(b), contentType: common.ContentTypeJSON}, nil
}

func formPayload(f *netx.Form) payload {
	return payload{body: f.Reader(), contentType: f.ContentType()}
}

// Get issues an authenticated GET and returns the raw response body.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...CallOption) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, endpoint, payload{}, opts)
}

// Post issues an authenticated JSON POST. A nil body is sent as {}.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts ...CallOption) (json.RawMessage, error) {
	p, err := jsonPayload(body)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPost, endpoint, p, opts)
}

// PostForm issues an authenticated multipart POST, used for uploads.
func (c *Client) PostForm(ctx context.Context, endpoint string, form *netx.Form, opts ...CallOption) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, endpoint, formPayload(form), opts)
}

// Put issues an authenticated JSON PUT.
func (c *Client) Put(ctx context.Context, endpoint string, body any, opts ...CallOption) (json.RawMessage, error) {
	p, err := jsonPayload(body)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPut, endpoint, p, opts)
}

// PutForm issues an authenticated multipart PUT.
func (c *Client) PutForm(ctx context.Context, endpoint string, form *netx.Form, opts ...CallOption) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPut, endpoint, formPayload(form), opts)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, endpoint string, opts ...CallOption) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, endpoint, payload{}, opts)
}

// PostPublic issues a JSON POST without a session check or Authorization
// header, for pre-login flows.
func (c *Client) PostPublic(ctx context.Context, endpoint string, body any, opts ...CallOption) (json.RawMessage, error) {
	p, err := jsonPayload(body)
	if err != nil {
		return nil, err
	}
	o := newCallOptions(opts)

	start := time.Now()
	raw, err := c.send(ctx, http.MethodPost, endpoint, p, "", o)
	c.recorder.ObserveCall(http.MethodPost, outcome(err), time.Since(start))
	if err != nil {
		c.fail(ctx, err, o)
		return nil, err
	}
	return raw, nil
}

// call gates the request on EnsureSession. When no session can be
// established the request is never sent; the redirect has already been
// signalled to subscribers, so nothing is shown to the user.
func (c *Client) call(ctx context.Context, method, endpoint string, p payload, opts []CallOption) (json.RawMessage, error) {
	o := newCallOptions(opts)

	token, err := c.EnsureSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	start := time.Now()
	raw, err := c.send(ctx, method, endpoint, p, token, o)
	c.recorder.ObserveCall(method, outcome(err), time.Since(start))
	if err != nil {
		c.fail(ctx, err, o)
		return nil, err
	}

	if o.updateUser {
		c.adoptUser(raw)
	}
	return raw, nil
}

func (c *Client) fail(ctx context.Context, err error, o *callOptions) {
	msg := ExtractErrorMessage(nil, err)
	if ce, ok := err.(*CallError); ok {
		msg = ce.Message
		c.logger.Warn(ctx, "call failed", "method", ce.Method, "endpoint", ce.Endpoint, "status", ce.Status, "message", ce.Message)
	}
	if !o.silent {
		c.notifier.Notify(ctx, Notification{Level: LevelError, Title: "Error", Text: msg})
	}
}

// adoptUser replaces the cached user with the response's "user" field.
func (c *Client) adoptUser(raw json.RawMessage) {
	var body struct {
		User *models.User `json:"user"`
	}
	if json.Unmarshal(raw, &body) != nil || body.User == nil {
		return
	}
	c.mu.Lock()
	c.user = body.User.Clone()
	c.mu.Unlock()
}

// send performs one HTTP exchange bounded by the client timeout. A non-2xx
// status or a transport failure comes back as *CallError.
func (c *Client) send(ctx context.Context, method, endpoint string, p payload, token string, o *callOptions) (json.RawMessage, error) {
	if o == nil {
		o = newCallOptions(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := common.JoinURL(c.baseURL, endpoint)
	if len(o.query) > 0 {
		target += "?" + o.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, p.body)
	if err != nil {
		return nil, &CallError{Method: method, Endpoint: endpoint, Message: ExtractErrorMessage(nil, err), Err: err}
	}
	for k, vs := range o.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if p.contentType != "" {
		req.Header.Set(common.ContentTypeHeaderName, p.contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &CallError{Method: method, Endpoint: endpoint, Message: ExtractErrorMessage(nil, err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Method: method, Endpoint: endpoint, Status: resp.StatusCode, Message: ExtractErrorMessage(nil, err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("request failed with status code %d", resp.StatusCode)
		return nil, &CallError{
			Method:   method,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  ExtractErrorMessage(data, statusErr),
			Err:      statusErr,
		}
	}
	return json.RawMessage(data), nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// DecodeJSON unmarshals a response body into T.
func DecodeJSON[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return v, nil
}
