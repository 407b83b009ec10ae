// Package common contains shared constants used across the client and the
// reference backend.
package common

import "time"

// RefreshTokenKey is the only key the client ever writes to durable storage.
const RefreshTokenKey = "refreshToken"

// AuthorizationHeaderName and BearerPrefix form the header carried by every
// authenticated request.
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
	ContentTypeHeaderName   = "Content-Type"
	ContentTypeJSON         = "application/json"
)

// DefaultRequestTimeout bounds every outbound call, including the refresh
// exchange.
const DefaultRequestTimeout = 10 * time.Second

// Backend endpoints the session core relies on.
const (
	PathLogin          = "/login"
	PathRegister       = "/register"
	PathAccessToken    = "/get-access-token"
	PathLogout         = "/logout"
	PathForgotPassword = "/forgot-password"
	PathResetPassword  = "/reset-password"
	PathProfileUpdate  = "/profile/update"
	PathGroupsByUser   = "/groups/by-user/"
)

// Group endpoints.
const (
	PathCreateGroup        = "/create-group"
	PathGroupConversations = "/get-group-conversation"
	PathUserGroupIDs       = "/get-group-userGroup/"
)

// GenericErrorMessage is shown when neither the server nor the transport
// produced anything readable.
const GenericErrorMessage = "Something went wrong. Please try again."
