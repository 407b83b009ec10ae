// Package credentials persists the client's long-lived credential.
//
// Only the refresh token is ever written here (under common.RefreshTokenKey);
// access tokens stay in memory.
package credentials

import "context"

// Repository is a small string key/value store.
//
// Get returns ("", nil) when the key is absent. Delete of a missing key is
// not an error, and Set overwrites.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
