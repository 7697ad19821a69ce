package session

import (
	"context"

	"github.com/spec-kit/station-console/internal/domain"
)

// Storage persists the single session record across process restarts.
// Only the Store writes to it.
type Storage interface {
	// Load returns the persisted session, or nil when none exists.
	Load(ctx context.Context) (*domain.Session, error)
	// Save replaces the persisted session.
	Save(ctx context.Context, sess *domain.Session) error
	// Clear removes the persisted session. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
