// Package common defines shared constants and sentinel errors used across
// client and backend layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Credential errors.
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorInvalidOTP         = errors.New("invalid or expired code")

	// Token lifecycle errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
