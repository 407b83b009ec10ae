package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/leadsession/internal/common"
	"golang.org/x/oauth2"
)

// UserGroups lists the groups of userID, or of the current user when userID
// is empty. Any failure yields an empty slice.
func (c *Client) UserGroups(ctx context.Context, userID string) []json.RawMessage {
	if userID == "" {
		userID = c.userID()
	}
	if userID == "" {
		return []json.RawMessage{}
	}

	raw, err := c.Get(ctx, common.PathGroupsByUser+url.PathEscape(userID), Silent())
	if err != nil {
		c.logger.Debug(ctx, "groups lookup failed", "user_id", userID, "error", err)
		return []json.RawMessage{}
	}

	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		return nonNil(list)
	}
	var wrapped struct {
		Data []json.RawMessage `json:"data"`
	}
	if json.Unmarshal(raw, &wrapped) == nil {
		return nonNil(wrapped.Data)
	}
	return []json.RawMessage{}
}

// CreateGroup posts a new group. A response reporting success raises a
// success notification.
func (c *Client) CreateGroup(ctx context.Context, body any, opts ...CallOption) (json.RawMessage, error) {
	raw, err := c.Post(ctx, common.PathCreateGroup, body, opts...)
	if err != nil {
		return nil, err
	}

	var res struct {
		Success bool `json:"success"`
	}
	if json.Unmarshal(raw, &res) == nil && res.Success {
		c.notifier.Notify(ctx, Notification{Level: LevelSuccess, Title: "Group created successfully"})
	}
	return raw, nil
}

// GroupConversations lists the group chats of the current user.
func (c *Client) GroupConversations(ctx context.Context, opts ...CallOption) (json.RawMessage, error) {
	return c.Get(ctx, common.PathGroupConversations, opts...)
}

// UserGroupIDs lists the ids of the groups userID belongs to, or those of
// the current user when userID is empty.
func (c *Client) UserGroupIDs(ctx context.Context, userID string, opts ...CallOption) (json.RawMessage, error) {
	if userID == "" {
		if _, err := c.EnsureSession(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		userID = c.userID()
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: no current user", ErrUnauthenticated)
	}
	return c.Get(ctx, common.PathUserGroupIDs+url.PathEscape(userID), opts...)
}

func nonNil(l []json.RawMessage) []json.RawMessage {
	if l == nil {
		return []json.RawMessage{}
	}
	return l
}

type tokenSource struct {
	ctx context.Context
	c   *Client
}

// Token runs EnsureSession, so every token handed out is freshly checked.
func (ts tokenSource) Token() (*oauth2.Token, error) {
	access, err := ts.c.EnsureSession(ts.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: access, TokenType: "Bearer"}, nil
}

// TokenSource exposes the session as an oauth2.TokenSource. Tokens carry no
// expiry, so wrapping it in oauth2.ReuseTokenSource would pin the first one;
// use AuthorizedHTTPClient instead.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return tokenSource{ctx: ctx, c: c}
}

// AuthorizedHTTPClient returns an *http.Client that checks the session and
// adds the bearer header on every request.
func (c *Client) AuthorizedHTTPClient(ctx context.Context) *http.Client {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Transport: &oauth2.Transport{Source: c.TokenSource(ctx), Base: base},
		Timeout:   c.timeout,
	}
}
