package offers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/pkg/db/models"
)

// Repository defines persistence operations for promotional offers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	Update(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	ListAll(ctx context.Context) ([]models.Offer, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Offer, error)
}
