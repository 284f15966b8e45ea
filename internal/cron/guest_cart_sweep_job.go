package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/internal/cart"
	"github.com/soniamehta/trendora-backend/internal/wishlist"
	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/logger"
)

// defaultSweepGrace keeps carts untouched for a while after their last
// write, so a cart created just before its session key lands in Redis is
// never mistaken for expired.
const defaultSweepGrace = time.Hour

// GuestCartSweepJobParams configures the guest-cart expiry sweep.
type GuestCartSweepJobParams struct {
	Logger       *logger.Logger
	DB           txRunner
	CartRepo     guestCartRepository
	WishlistRepo guestWishlistRepository
	Sessions     sessionChecker
	Grace        time.Duration
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type guestCartRepository interface {
	WithTx(tx *gorm.DB) cart.Repository
	ListGuestCarts(ctx context.Context, updatedBefore time.Time) ([]models.Cart, error)
}

type guestWishlistRepository interface {
	WithTx(tx *gorm.DB) wishlist.Repository
}

// sessionChecker is the Redis surface the sweep consults: a guest session is
// alive exactly as long as its key exists.
type sessionChecker interface {
	Exists(ctx context.Context, key string) (bool, error)
	GuestSessionKey(token string) string
}

// NewGuestCartSweepJob constructs the job that deletes carts and wishlists
// whose guest session TTL has lapsed.
func NewGuestCartSweepJob(params GuestCartSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.WishlistRepo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session checker required")
	}
	grace := params.Grace
	if grace <= 0 {
		grace = defaultSweepGrace
	}
	return &guestCartSweepJob{
		logg:     params.Logger,
		db:       params.DB,
		carts:    params.CartRepo,
		wishes:   params.WishlistRepo,
		sessions: params.Sessions,
		grace:    grace,
		now:      time.Now,
	}, nil
}

type guestCartSweepJob struct {
	logg     *logger.Logger
	db       txRunner
	carts    guestCartRepository
	wishes   guestWishlistRepository
	sessions sessionChecker
	grace    time.Duration
	now      func() time.Time
}

func (j *guestCartSweepJob) Name() string { return "guest-cart-sweep" }

func (j *guestCartSweepJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.grace)
	carts, err := j.carts.ListGuestCarts(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("listing guest carts: %w", err)
	}

	var swept, alive int
	var errs error
	for _, candidate := range carts {
		live, err := j.sessions.Exists(ctx, j.sessions.GuestSessionKey(candidate.OwnerKey))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("session check for cart %s: %w", candidate.ID, err))
			continue
		}
		if live {
			alive++
			continue
		}
		if err := j.sweep(ctx, candidate); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sweeping cart %s: %w", candidate.ID, err))
			continue
		}
		swept++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":     cutoff,
		"candidates": len(carts),
		"alive":      alive,
		"swept":      swept,
	})
	j.logg.Info(logCtx, "guest cart sweep complete")
	return errs
}

func (j *guestCartSweepJob) sweep(ctx context.Context, candidate models.Cart) error {
	owner := cart.GuestOwner(candidate.OwnerKey)
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := j.carts.WithTx(tx).DeleteCart(ctx, candidate.ID); err != nil {
			return err
		}
		return j.wishes.WithTx(tx).DeleteByOwner(ctx, owner)
	})
}
