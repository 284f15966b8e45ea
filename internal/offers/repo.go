package offers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an offers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// Update writes the whole row. The rule and targeting columns carry JSON
// serializers, which GORM only runs for struct-based writes — map updates
// would hand the raw structs to the driver.
func (r *repository) Update(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if err := r.db.WithContext(ctx).Save(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Offer{}).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Offer, error) {
	var rows []models.Offer
	err := r.db.WithContext(ctx).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// ListActive returns offers whose kill switch is on and whose half-open
// [start_date, end_date) window contains now, already in precedence order.
func (r *repository) ListActive(ctx context.Context, now time.Time) ([]models.Offer, error) {
	var rows []models.Offer
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("start_date <= ?", now).
		Where("end_date > ?", now).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
