// Package auth defines API key authentication types.
package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrKeyNotFound is returned when no active key matches a hash.
var ErrKeyNotFound = errors.New("api key not found")

// APIKeyInfo holds the identity data for a validated API key. The key row
// binds to a user account, which becomes the request's explicit identity.
type APIKeyInfo struct {
	ID      string
	UserID  int64
	KeyHash string
	Name    string
}

// Repository provides lookup of active API keys by their HMAC-SHA256 hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKeyInfo, error)
}
