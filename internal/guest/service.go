package guest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	GuestSessionKey(token string) string
}

// Service issues and tracks guest session tokens. A token only exists for as
// long as its redis key lives; expiry makes the guest cart unreachable and
// the sweeper reclaims the rows later.
type Service struct {
	store sessionStore
	ttl   time.Duration
}

// NewService builds the guest session service.
func NewService(store sessionStore, ttl time.Duration) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Service{store: store, ttl: ttl}, nil
}

// Create issues a fresh opaque guest token.
func (s *Service) Create(ctx context.Context) (string, error) {
	token := uuid.NewString()
	if err := s.store.Set(ctx, s.store.GuestSessionKey(token), "1", s.ttl); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating guest session")
	}
	return token, nil
}

// Validate reports whether the token names a live guest session.
func (s *Service) Validate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	ok, err := s.store.Exists(ctx, s.store.GuestSessionKey(token))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking guest session")
	}
	return ok, nil
}

// Delete consumes the token, typically right after a merge.
func (s *Service) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Del(ctx, s.store.GuestSessionKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting guest session")
	}
	return nil
}
