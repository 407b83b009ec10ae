package session

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/logging"
)

// Config carries the values a Client cannot work without.
type Config struct {
	// BaseURL is the backend root every endpoint is relative to.
	BaseURL string
	// Timeout bounds each network call; zero means common.DefaultRequestTimeout.
	Timeout time.Duration
	// SingleFlight collapses concurrent refresh exchanges into one.
	SingleFlight bool
}

// Level is the kind of a user-facing notification.
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Notification is a transient, dismissable message for the user.
type Notification struct {
	Level Level
	Title string
	Text  string
}

// Notifier shows notifications. The UI layer supplies it.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}

// Recorder observes refresh exchanges and calls; see internal/metrics.
type Recorder interface {
	ObserveRefresh(outcome string)
	ObserveCall(method, outcome string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRefresh(string)                      {}
func (nopRecorder) ObserveCall(string, string, time.Duration) {}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. Timeouts are applied per call via
// the request context, so hc.Timeout may stay zero.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// CallOption tunes a single call.
type CallOption func(*callOptions)

type callOptions struct {
	query      url.Values
	headers    http.Header
	silent     bool
	updateUser bool
}

func newCallOptions(opts []CallOption) *callOptions {
	o := &callOptions{headers: http.Header{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithQuery appends query parameters to the endpoint.
func WithQuery(q url.Values) CallOption {
	return func(o *callOptions) { o.query = q }
}

// WithHeader sets an extra request header.
func WithHeader(key, value string) CallOption {
	return func(o *callOptions) { o.headers.Set(key, value) }
}

// Silent suppresses the error notification for this call.
func Silent() CallOption {
	return func(o *callOptions) { o.silent = true }
}

// UpdateUser replaces the cached current user with the response's "user"
// field when one is present.
func UpdateUser() CallOption {
	return func(o *callOptions) { o.updateUser = true }
}
