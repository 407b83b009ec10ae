package devserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/common"
	"github.com/dmitrijs2005/leadsession/internal/cryptox"
	"github.com/dmitrijs2005/leadsession/internal/devserver/auth"
	"github.com/dmitrijs2005/leadsession/internal/devserver/config"
	"github.com/dmitrijs2005/leadsession/internal/devserver/refreshtokens"
	"github.com/dmitrijs2005/leadsession/internal/devserver/users"
	"github.com/dmitrijs2005/leadsession/internal/logging"
)

// ErrInvalidInput marks a request that is missing required fields.
var ErrInvalidInput = errors.New("invalid input")

const otpValidity = 10 * time.Minute

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type otpEntry struct {
	code    string
	expires time.Time
}

// UserService handles registration, login, the refresh exchange and
// password recovery. Refresh tokens are not rotated on exchange: the client
// keeps the one it got at login until logout or expiry.
type UserService struct {
	users                        users.Repository
	refreshTokens                refreshtokens.Repository
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration

	otpMu sync.Mutex
	otps  map[string]otpEntry
}

func NewUserService(u users.Repository, rt refreshtokens.Repository, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		users:                        u,
		refreshTokens:                rt,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		otps:                         map[string]otpEntry{},
	}
}

// Register creates a regular user and signs it in.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*users.User, *TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if name == "" {
		name = email
	}
	return s.create(ctx, name, email, password, "user")
}

// Seed creates an admin account unless the email is already taken.
func (s *UserService) Seed(ctx context.Context, name, email, password string) error {
	_, _, err := s.create(ctx, name, normalizeEmail(email), password, "admin")
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil
	}
	return err
}

func (s *UserService) create(ctx context.Context, name, email, password, userType string) (*users.User, *TokenPair, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := s.users.Create(ctx, &users.User{
		Email:        email,
		Name:         name,
		UserType:     userType,
		GroupID:      "g-default",
		PasswordHash: hash,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	pair, err := s.generateTokenPair(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Login verifies credentials and returns a new refresh token. Unknown users
// and wrong passwords look the same to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		return "", err
	}
	if !cryptox.VerifyPassword(u.PasswordHash, password) {
		return "", common.ErrorInvalidCredentials
	}

	refresh, err := s.newRefreshToken(ctx, u.ID)
	if err != nil {
		return "", err
	}
	s.logger.Info(ctx, "user logged in", "user_id", u.ID)
	return refresh, nil
}

// AccessToken exchanges a refresh token for an access token and the user.
func (s *UserService) AccessToken(ctx context.Context, refreshToken string) (string, *users.User, error) {
	if refreshToken == "" {
		return "", nil, common.ErrInvalidToken
	}
	token, err := s.refreshTokens.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrInvalidToken
		}
		return "", nil, err
	}
	if token.Expires.Before(time.Now()) {
		_ = s.refreshTokens.Delete(ctx, refreshToken)
		return "", nil, common.ErrRefreshTokenExpired
	}

	u, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return "", nil, common.ErrInvalidToken
	}
	access, err := auth.GenerateToken(u.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, err
	}
	return access, u, nil
}

// Authenticate returns the user id carried by a valid access token.
func (s *UserService) Authenticate(accessToken string) (string, error) {
	return auth.GetUserIDFromToken(accessToken, s.jwtSecret)
}

// Logout revokes every refresh token of userID.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.refreshTokens.DeleteByUser(ctx, userID)
}

// ForgotPassword issues a one-time code for email. The code is only logged.
// Unknown emails succeed silently.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	code, err := cryptox.NewOTP()
	if err != nil {
		return err
	}
	s.otpMu.Lock()
	s.otps[email] = otpEntry{code: code, expires: time.Now().Add(otpValidity)}
	s.otpMu.Unlock()

	s.logger.Info(ctx, "password reset code issued", "email", email, "otp", code)
	return nil
}

// ResetPassword sets a new password if otp matches, then revokes the
// user's refresh tokens.
func (s *UserService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || otp == "" || newPassword == "" {
		return fmt.Errorf("%w: email, otp and newPassword are required", ErrInvalidInput)
	}

	s.otpMu.Lock()
	entry, ok := s.otps[email]
	valid := ok && otpMatches(entry.code, otp) && time.Now().Before(entry.expires)
	if valid {
		delete(s.otps, email)
	}
	s.otpMu.Unlock()
	if !valid {
		return common.ErrorInvalidOTP
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return common.ErrorInvalidOTP
	}
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}
	return s.refreshTokens.DeleteByUser(ctx, u.ID)
}

// UpdateProfile changes the display name.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name string) (*users.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Name = name
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) User(ctx context.Context, userID string) (*users.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := s.newRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *UserService) newRefreshToken(ctx context.Context, userID string) (string, error) {
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}
	if err := s.refreshTokens.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return "", err
	}
	return refresh, nil
}

func otpMatches(want, got string) bool {
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.TrimSpace(got))) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
