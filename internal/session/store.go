// Package session provides opaque-token session storage backed by Redis.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a token does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store maps opaque session tokens to user IDs.
type Store interface {
	// Create issues a fresh token for the user, valid for the store's TTL.
	Create(ctx context.Context, userID uint) (string, error)
	// Get resolves a token to a user ID. Returns ErrNotFound for unknown or
	// expired tokens.
	Get(ctx context.Context, token string) (uint, error)
	// Destroy invalidates a token. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}

// DefaultTTL is used when a store is constructed with a non-positive TTL.
const DefaultTTL = 7 * 24 * time.Hour
