// Package session owns the client-side authentication state: durable storage
// of the cached session and the in-memory lifecycle around it (restore,
// verify, login, logout, global invalidation).
package session

import (
	"context"

	"notectl/internal/models"
)

// storageKey is the single well-known key the serialized session lives under.
const storageKey = "session"

// Store persists at most one session in durable client storage.
//
// Load returns (nil, nil) when nothing usable is stored: absence and a
// malformed value both read as logged-out, they never surface as errors.
type Store interface {
	Save(ctx context.Context, s *models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}
