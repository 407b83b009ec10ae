// Package models holds the client-side records exchanged with the backend.
package models

// UserType is the role of a logged-in user.
type UserType string

const (
	UserTypeAdmin UserType = "admin"
	UserTypeUser  UserType = "user"
)

// User is the identity cached in memory for the current session. The backend
// names its id field "_id".
type User struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	UserType UserType `json:"userType"`
	GroupID  string   `json:"groupId,omitempty"`
}

// Clone returns a copy so callers never share the session's record.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.UserType == UserTypeAdmin
}
