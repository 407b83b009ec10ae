package models

// Credentials is the body of POST /login.
type Credentials struct {
	Identifier string `json:"email"`
	Secret     string `json:"password"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	RefreshToken string `json:"refreshToken"`
}

// AccessTokenRequest is the body of POST /get-access-token.
type AccessTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AccessTokenResponse is returned by POST /get-access-token. User is optional.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"my_user,omitempty"`
}

// RegisterResponse is returned by POST /register.
type RegisterResponse struct {
	User         *User  `json:"user,omitempty"`
	RefreshToken string `json:"refreshToken"`
	AccessToken  string `json:"accessToken,omitempty"`
}

// ResetPasswordRequest is the body of POST /reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ErrorBody is the shape backends use for failures; either field may be set.
type ErrorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
