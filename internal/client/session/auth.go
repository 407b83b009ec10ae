package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/leadsession/internal/client/models"
	"github.com/dmitrijs2005/leadsession/internal/common"
	"github.com/dmitrijs2005/leadsession/internal/netx"
)

// Login exchanges credentials for a refresh token, persists it and then
// establishes the session. On any failure nothing stays persisted, including
// a refresh token left by an earlier session.
func (c *Client) Login(ctx context.Context, creds models.Credentials) error {
	raw, err := c.PostPublic(ctx, common.PathLogin, creds)
	if err == nil {
		var resp models.LoginResponse
		resp, err = DecodeJSON[models.LoginResponse](raw)
		if err == nil && resp.RefreshToken == "" {
			err = fmt.Errorf("%w: no refresh token", ErrMalformedResponse)
		}
		if err == nil {
			return c.adoptRefreshToken(ctx, resp.RefreshToken)
		}
	}

	c.mu.Lock()
	c.gen++
	c.clearLocked(ctx)
	c.mu.Unlock()
	c.refreshes.Forget(ensureKey)
	return err
}

func (c *Client) adoptRefreshToken(ctx context.Context, refreshToken string) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	err := c.store.Set(ctx, common.RefreshTokenKey, refreshToken)
	c.mu.Unlock()
	if err != nil {
		c.discard(ctx, gen)
		return err
	}
	c.refreshes.Forget(ensureKey)

	if _, err := c.EnsureSession(ctx); err != nil {
		c.discard(ctx, gen)
		return err
	}

	c.logger.Info(ctx, "logged in", "user_id", c.userID())
	return nil
}

// discard removes whatever a failed login or registration left behind,
// unless another session has replaced it meanwhile.
func (c *Client) discard(ctx context.Context, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.clearLocked(ctx)
}

// Logout tells the backend, ignoring any failure, then clears the session
// and notifies subscribers. It never refreshes and is safe to repeat.
func (c *Client) Logout(ctx context.Context) {
	c.mu.RLock()
	token := c.accessToken
	userID := ""
	if c.user != nil {
		userID = c.user.ID
	}
	c.mu.RUnlock()

	if token != "" {
		p, err := jsonPayload(map[string]string{"userId": userID})
		if err == nil {
			_, err = c.send(ctx, http.MethodPost, common.PathLogout, p, token, nil)
		}
		if err != nil {
			c.logger.Warn(ctx, "logout notification failed", "error", err)
		}
	}

	c.mu.Lock()
	c.gen++
	c.clearLocked(ctx)
	c.mu.Unlock()
	c.refreshes.Forget(ensureKey)

	c.logger.Info(ctx, "logged out", "user_id", userID)
	c.emit(ReasonLoggedOut)
}

// Register creates an account and signs it in from the response.
func (c *Client) Register(ctx context.Context, body any) (*models.User, error) {
	raw, err := c.PostPublic(ctx, common.PathRegister, body)
	if err != nil {
		return nil, err
	}

	resp, err := DecodeJSON[models.RegisterResponse](raw)
	if err == nil && (resp.User == nil || resp.RefreshToken == "") {
		err = fmt.Errorf("%w: no user or refresh token", ErrMalformedResponse)
	}
	if err != nil {
		c.notifier.Notify(ctx, Notification{Level: LevelError, Title: "Registration failed", Text: ExtractErrorMessage(nil, err)})
		return nil, err
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	if err := c.store.Set(ctx, common.RefreshTokenKey, resp.RefreshToken); err != nil {
		c.mu.Unlock()
		c.discard(ctx, gen)
		return nil, err
	}
	c.user = resp.User.Clone()
	c.accessToken = resp.AccessToken
	c.state = StateAuthenticated
	if resp.AccessToken == "" {
		// Never pair the new user with a bearer left from a previous session.
		c.state = StateChecking
	}
	c.mu.Unlock()
	c.refreshes.Forget(ensureKey)

	if resp.AccessToken == "" {
		if _, err := c.EnsureSession(ctx); err != nil {
			c.discard(ctx, gen)
			c.notifier.Notify(ctx, Notification{Level: LevelError, Title: "Registration failed", Text: ExtractErrorMessage(nil, err)})
			return nil, err
		}
	}

	c.notifier.Notify(ctx, Notification{
		Level: LevelSuccess,
		Title: "Registration Successful",
		Text:  fmt.Sprintf("Welcome, %s!", resp.User.Name),
	})
	c.logger.Info(ctx, "registered", "user_id", resp.User.ID)
	if u := c.CurrentUser(); u != nil {
		return u, nil
	}
	return resp.User.Clone(), nil
}

// UpdateProfile sends the profile form and returns the refreshed user.
func (c *Client) UpdateProfile(ctx context.Context, form *netx.Form) (*models.User, error) {
	_, err := c.PutForm(ctx, common.PathProfileUpdate, form, Silent(), UpdateUser())
	if err != nil {
		if !errors.Is(err, ErrUnauthenticated) {
			msg := ExtractErrorMessage(nil, err)
			var ce *CallError
			if errors.As(err, &ce) {
				msg = ce.Message
			}
			c.notifier.Notify(ctx, Notification{Level: LevelError, Title: "Profile update failed", Text: msg})
		}
		return nil, err
	}
	return c.CurrentUser(), nil
}

// ForgotPassword asks the backend to send a one-time code to email.
func (c *Client) ForgotPassword(ctx context.Context, email string, opts ...CallOption) (json.RawMessage, error) {
	return c.PostPublic(ctx, common.PathForgotPassword, map[string]string{"email": normalizeEmail(email)}, opts...)
}

// ResetPassword sets a new password using the code from ForgotPassword.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string, opts ...CallOption) (json.RawMessage, error) {
	return c.PostPublic(ctx, common.PathResetPassword, models.ResetPasswordRequest{
		Email:       normalizeEmail(email),
		OTP:         strings.TrimSpace(otp),
		NewPassword: newPassword,
	}, opts...)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (c *Client) userID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return ""
	}
	return c.user.ID
}
