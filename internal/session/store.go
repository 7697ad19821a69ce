package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/station-console/internal/domain"
)

// ErrSuperseded is returned when a login resolves after a logout or a newer
// login already changed the session. The stale result is discarded.
var ErrSuperseded = errors.New("login superseded by a newer session change")

// Authenticator is the remote authority's login call.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Session, error)
}

// Store is the single source of truth for the signed-in identity. It caches
// the session in memory and mirrors it into Storage; no other component
// writes the persisted copy.
type Store struct {
	mu         sync.Mutex
	authority  Authenticator
	storage    Storage
	logger     *zap.Logger
	current    *domain.Session
	generation uint64
	now        func() time.Time
}

// NewStore builds the store and reads the persisted session once. A persisted
// session whose token already expired is cleared instead of restored.
func NewStore(ctx context.Context, authority Authenticator, storage Storage, logger *zap.Logger) (*Store, error) {
	s := &Store{
		authority: authority,
		storage:   storage,
		logger:    logger,
		now:       time.Now,
	}

	sess, err := storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		if sess.Expired(s.now()) {
			logger.Info("persisted session expired, clearing", zap.String("identifier", sess.Identifier))
			if err := storage.Clear(ctx); err != nil {
				return nil, err
			}
		} else {
			s.current = sess
			logger.Info("session restored", zap.String("identifier", sess.Identifier))
		}
	}
	return s, nil
}

// Current returns the cached session, or nil when nobody is signed in.
// The read has no side effects; an expired session reads as absent.
func (s *Store) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.Expired(s.now()) {
		return nil
	}
	copy := *s.current
	return &copy
}

// Login authenticates against the remote authority and, on success, replaces
// both the cached and the persisted session. On failure the prior state is
// left untouched and the authority's error is returned as-is.
//
// A logout or another login finishing while the call is in flight supersedes
// it: the result is dropped and ErrSuperseded returned.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	sess, err := s.authority.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}
	sess.Remember = creds.Remember

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != generation {
		s.logger.Info("discarding superseded login", zap.String("identifier", sess.Identifier))
		return nil, ErrSuperseded
	}

	s.generation++
	s.current = sess
	if err := s.storage.Save(ctx, sess); err != nil {
		s.logger.Warn("failed to persist session", zap.Error(err))
	}

	s.logger.Info("signed in",
		zap.String("identifier", sess.Identifier),
		zap.String("role", sess.Role),
	)

	copy := *sess
	return &copy, nil
}

// Logout clears the cached and persisted session. Logging out with no
// session is a no-op; in-flight logins are superseded either way.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if s.current == nil {
		return nil
	}

	// Persisted copy goes first: a reload must never resolve a session the
	// operator already signed out of.
	if err := s.storage.Clear(ctx); err != nil {
		return err
	}
	identifier := s.current.Identifier
	s.current = nil

	s.logger.Info("signed out", zap.String("identifier", identifier))
	return nil
}
