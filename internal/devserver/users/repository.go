// Package users stores the development backend's accounts.
package users

import (
	"context"
	"time"
)

// User is a stored account. PasswordHash is bcrypt.
type User struct {
	ID           string
	Email        string
	Name         string
	UserType     string
	GroupID      string
	PasswordHash string
	CreatedAt    time.Time
}

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}
