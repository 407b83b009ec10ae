// Package session owns the client's authentication state and the
// authenticated call contract every screen depends on.
//
// # Overview
//
// A Client holds exactly one in-memory access token, obtained by exchanging
// the refresh token persisted in a credentials.Repository with the backend
// (POST /get-access-token). Every authenticated call (Get, Post, PostForm,
// Put, PutForm, Delete) first runs EnsureSession and only then issues the
// request with "Authorization: Bearer <token>". There is no 401-driven retry:
// the refresh happens before each call.
//
// Public calls (PostPublic, ForgotPassword, ResetPassword) skip the session
// check and carry no Authorization header.
//
// # State
//
// Uninitialized -> Checking -> {Authenticated, Unauthenticated}. Only
// EnsureSession, Login, Register and Logout change it. Whenever the session is
// cleared, subscribers registered with OnUnauthenticated are told why, so the
// UI can route to its login screen.
//
// # Error Handling
//
// Operations never panic. A failed operation returns a non-nil error and the
// zero value; match ErrNoRefreshToken, ErrRefreshFailed, ErrUnauthenticated
// with errors.Is and *CallError with errors.As. Failed authenticated calls are
// also reported to the Notifier unless the call was made with Silent().
//
// # Concurrency
//
// Client is safe for concurrent use. With Config.SingleFlight set, concurrent
// EnsureSession callers share one refresh exchange.
package session
