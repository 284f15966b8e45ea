package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/internal/users"
	pkgauth "github.com/soniamehta/trendora-backend/pkg/auth"
	"github.com/soniamehta/trendora-backend/pkg/config"
	"github.com/soniamehta/trendora-backend/pkg/db"
	"github.com/soniamehta/trendora-backend/pkg/db/models"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
	"github.com/soniamehta/trendora-backend/pkg/logger"
	"github.com/soniamehta/trendora-backend/pkg/security"
)

// merger is the guest→user consume-once merge hook carts and wishlists share.
type merger interface {
	Merge(ctx context.Context, guestToken string, userID uuid.UUID) error
}

type guestSessions interface {
	Delete(ctx context.Context, token string) error
}

// Service defines account registration and login.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Result, error)
	Login(ctx context.Context, input LoginInput) (*Result, error)
}

type service struct {
	users    users.Repository
	carts    merger
	wishes   merger
	sessions guestSessions
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(userRepo users.Repository, carts, wishes merger, sessions guestSessions, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if carts == nil || wishes == nil {
		return nil, fmt.Errorf("cart and wishlist mergers required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("guest sessions required")
	}
	return &service{
		users:    userRepo,
		carts:    carts,
		wishes:   wishes,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating account")
	}

	s.adoptGuestState(ctx, input.GuestToken, user.ID)
	return s.mint(user)
}

func (s *service) Login(ctx context.Context, input LoginInput) (*Result, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	s.adoptGuestState(ctx, input.GuestToken, user.ID)
	return s.mint(user)
}

// adoptGuestState performs the one-time guest→user merge. Merge failures do
// not fail the login: the guest rows stay untouched and the merge can be
// retried on the next login with the same token.
func (s *service) adoptGuestState(ctx context.Context, guestToken string, userID uuid.UUID) {
	if guestToken == "" {
		return
	}
	if s.logg != nil {
		ctx = s.logg.WithGuestToken(s.logg.WithUserID(ctx, userID.String()), guestToken)
	}

	if err := s.carts.Merge(ctx, guestToken, userID); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "guest cart merge failed", err)
		}
		return
	}
	if err := s.wishes.Merge(ctx, guestToken, userID); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "guest wishlist merge failed", err)
		}
		return
	}

	// Both merges landed; consume the token.
	if err := s.sessions.Delete(ctx, guestToken); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "guest session cleanup failed")
	} else if s.logg != nil {
		s.logg.Info(ctx, "guest state merged into account")
	}
}

func (s *service) mint(user *models.User) (*Result, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		JTI:     uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	return &Result{
		Token: token,
		User: UserInfo{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			IsAdmin:   user.IsAdmin,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}
