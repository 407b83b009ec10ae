package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/client/models"
	"github.com/dmitrijs2005/leadsession/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/leadsession/internal/common"
	"github.com/dmitrijs2005/leadsession/internal/logging"
	"golang.org/x/sync/singleflight"
)

const ensureKey = "ensure-session"

// Client is the single writer of the session. See the package doc.
type Client struct {
	baseURL      string
	timeout      time.Duration
	http         *http.Client
	store        credentials.Repository
	notifier     Notifier
	logger       logging.Logger
	recorder     Recorder
	singleFlight bool
	refreshes    singleflight.Group

	// mu guards the fields below and serialises writes to store so that a
	// clear or a login is seen as one step.
	mu          sync.RWMutex
	accessToken string
	user        *models.User
	state       State
	loading     bool
	// gen changes on login, register and logout; a refresh only commits if
	// gen is unchanged since it started.
	gen uint64

	readyOnce sync.Once
	ready     chan struct{}

	subMu    sync.Mutex
	subs     map[int]func(Reason)
	nextID   int
	emitting atomic.Bool
}

// New builds a Client. The store holds the persisted refresh token.
func New(cfg Config, store credentials.Repository, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if store == nil {
		return nil, errors.New("credentials store is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = common.DefaultRequestTimeout
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		timeout:      timeout,
		http:         &http.Client{},
		store:        store,
		notifier:     nopNotifier{},
		logger:       logging.Nop{},
		recorder:     nopRecorder{},
		singleFlight: cfg.SingleFlight,
		state:        StateUninitialized,
		loading:      true,
		ready:        make(chan struct{}),
		subs:         make(map[int]func(Reason)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "session")
	return c, nil
}

// EnsureSession makes sure a fresh access token is held in memory and
// returns it. On failure the session is fully cleared, subscribers are told
// why, and the error wraps ErrNoRefreshToken or ErrRefreshFailed.
func (c *Client) EnsureSession(ctx context.Context) (string, error) {
	token, err := c.ensureOnce(ctx)
	if errors.Is(err, ErrSessionChanged) {
		// A login or logout landed mid-refresh; check again against the new state.
		token, err = c.ensureOnce(ctx)
	}
	return token, err
}

// checkResult is what one session check hands to every caller sharing it.
// announce tells subscribers about a clearing at most once, and only after
// the check has finished, so a subscriber may call back into the client.
type checkResult struct {
	token    string
	announce func()
}

func (c *Client) ensureOnce(ctx context.Context) (string, error) {
	if !c.singleFlight {
		res, err := c.check(ctx)
		res.announce()
		return res.token, err
	}

	// The shared exchange must not die with whichever caller started it.
	ch := c.refreshes.DoChan(ensureKey, func() (any, error) {
		return c.check(context.WithoutCancel(ctx))
	})
	select {
	case r := <-ch:
		res := r.Val.(*checkResult)
		res.announce()
		if r.Err != nil {
			return "", r.Err
		}
		return res.token, nil
	case <-ctx.Done():
		// Subscribers still hear about the outcome once the flight lands.
		go func() {
			r := <-ch
			r.Val.(*checkResult).announce()
		}()
		return "", ctx.Err()
	}
}

func (c *Client) check(ctx context.Context) (*checkResult, error) {
	token, reason, err := c.ensureSession(ctx)
	res := &checkResult{token: token, announce: func() {}}
	if reason != "" {
		res.announce = sync.OnceFunc(func() { c.emit(reason) })
	}
	return res, err
}

// ensureSession runs one check. A non-empty Reason means the session was
// cleared and subscribers are due a notification.
func (c *Client) ensureSession(ctx context.Context) (string, Reason, error) {
	defer c.markReady()

	c.mu.Lock()
	gen := c.gen
	c.state = StateChecking
	c.mu.Unlock()

	refreshToken, err := c.store.Get(ctx, common.RefreshTokenKey)
	if err != nil {
		c.logger.Error(ctx, "refresh token read failed", "error", err)
		return c.invalidate(ctx, gen, ReasonRefreshFailed, fmt.Errorf("%w: %w", ErrRefreshFailed, err))
	}
	if refreshToken == "" {
		return c.invalidate(ctx, gen, ReasonNoRefreshToken, ErrNoRefreshToken)
	}

	resp, err := c.exchange(ctx, refreshToken)
	if err != nil {
		c.recorder.ObserveRefresh("failed")
		c.logger.Warn(ctx, "session check failed", "error", err)
		return c.invalidate(ctx, gen, ReasonRefreshFailed, fmt.Errorf("%w: %w", ErrRefreshFailed, err))
	}
	c.recorder.ObserveRefresh("ok")

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return "", "", ErrSessionChanged
	}
	c.accessToken = resp.AccessToken
	if resp.User != nil {
		c.user = resp.User.Clone()
	}
	c.state = StateAuthenticated
	userID := ""
	if c.user != nil {
		userID = c.user.ID
	}
	c.mu.Unlock()

	c.logger.Debug(ctx, "session refreshed", "user_id", userID)
	return resp.AccessToken, "", nil
}

func (c *Client) exchange(ctx context.Context, refreshToken string) (*models.AccessTokenResponse, error) {
	p, err := jsonPayload(models.AccessTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	raw, err := c.send(ctx, http.MethodPost, common.PathAccessToken, p, "", nil)
	if err != nil {
		return nil, err
	}

	var resp models.AccessTokenResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token", ErrMalformedResponse)
	}
	return &resp, nil
}

// invalidate clears memory and the persisted refresh token in one step and
// returns the reason to announce. A refresh that lost the race to a login or
// logout leaves everything alone.
func (c *Client) invalidate(ctx context.Context, gen uint64, reason Reason, cause error) (string, Reason, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return "", "", ErrSessionChanged
	}
	c.clearLocked(ctx)
	return "", reason, cause
}

// clearLocked must be called with mu held.
func (c *Client) clearLocked(ctx context.Context) {
	c.accessToken = ""
	c.user = nil
	c.state = StateUnauthenticated
	if err := c.store.Delete(ctx, common.RefreshTokenKey); err != nil {
		c.logger.Error(ctx, "refresh token removal failed", "error", err)
	}
}

func (c *Client) markReady() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
	c.readyOnce.Do(func() { close(c.ready) })
}

// OnUnauthenticated registers fn to be called each time the session is
// cleared. The returned func removes the subscription.
func (c *Client) OnUnauthenticated(fn func(Reason)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// emit runs the subscribers. A clearing caused by a subscriber while it is
// still running is not announced again.
func (c *Client) emit(reason Reason) {
	if !c.emitting.CompareAndSwap(false, true) {
		return
	}
	defer c.emitting.Store(false)

	c.subMu.Lock()
	fns := make([]func(Reason), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(reason)
	}
}

// Snapshot returns a copy of the current session.
func (c *Client) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{State: c.state, User: c.user.Clone(), Loading: c.loading}
}

// CurrentUser returns a copy of the cached user, or nil.
func (c *Client) CurrentUser() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.Clone()
}

// Loading is true until the first EnsureSession finishes.
func (c *Client) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Ready is closed when Loading first becomes false.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

// FileURL turns a backend-relative file path into an absolute URL.
// Absolute http(s) URLs are returned unchanged; "" stays "".
func (c *Client) FileURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return common.JoinURL(c.baseURL, path)
}
