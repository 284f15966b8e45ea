package offers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/enums"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
)

// Service defines the admin back-office operations over offers plus the
// storefront reads.
type Service interface {
	Create(ctx context.Context, input CreateOfferInput) (*models.Offer, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOfferInput) (*models.Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	ListAll(ctx context.Context) ([]models.Offer, error)
	ListActive(ctx context.Context) ([]models.Offer, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the offers service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateOfferInput) (*models.Offer, error) {
	offerType, err := enums.ParseOfferType(input.OfferType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid offer type")
	}
	if err := input.Rule.Validate(offerType); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid offer rule")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate must be after startDate")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	offer := &models.Offer{
		Name:              input.Name,
		Description:       input.Description,
		OfferType:         offerType,
		Rule:              input.Rule,
		ProductIDs:        input.ProductIDs,
		CategoryIDs:       input.CategoryIDs,
		SubcategoryIDs:    input.SubcategoryIDs,
		GenderIDs:         input.GenderIDs,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		IsActive:          active,
		Priority:          input.Priority,
		Image:             input.Image,
		HomepageTitle:     input.HomepageTitle,
		HomepageSubtitle:  input.HomepageSubtitle,
		DisplayOnHomepage: input.DisplayOnHomepage,
		DisplayInNavbar:   input.DisplayInNavbar,
	}
	created, err := s.repo.Create(ctx, offer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating offer")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOfferInput) (*models.Offer, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	offerType := existing.OfferType
	if input.OfferType != nil {
		offerType, err = enums.ParseOfferType(*input.OfferType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid offer type")
		}
	}
	rule := existing.Rule
	if input.Rule != nil {
		rule = *input.Rule
	}
	// The type/rule pair must stay valid whichever side of it changed.
	if input.OfferType != nil || input.Rule != nil {
		if err := rule.Validate(offerType); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid offer rule")
		}
	}

	startDate := existing.StartDate
	if input.StartDate != nil {
		startDate = *input.StartDate
	}
	endDate := existing.EndDate
	if input.EndDate != nil {
		endDate = *input.EndDate
	}
	if !endDate.After(startDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate must be after startDate")
	}

	existing.OfferType = offerType
	existing.Rule = rule
	existing.StartDate = startDate
	existing.EndDate = endDate
	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.Description != nil {
		existing.Description = input.Description
	}
	if input.ProductIDs != nil {
		existing.ProductIDs = *input.ProductIDs
	}
	if input.CategoryIDs != nil {
		existing.CategoryIDs = *input.CategoryIDs
	}
	if input.SubcategoryIDs != nil {
		existing.SubcategoryIDs = *input.SubcategoryIDs
	}
	if input.GenderIDs != nil {
		existing.GenderIDs = *input.GenderIDs
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	if input.Priority != nil {
		existing.Priority = *input.Priority
	}
	if input.Image != nil {
		existing.Image = input.Image
	}
	if input.HomepageTitle != nil {
		existing.HomepageTitle = input.HomepageTitle
	}
	if input.HomepageSubtitle != nil {
		existing.HomepageSubtitle = input.HomepageSubtitle
	}
	if input.DisplayOnHomepage != nil {
		existing.DisplayOnHomepage = *input.DisplayOnHomepage
	}
	if input.DisplayInNavbar != nil {
		existing.DisplayInNavbar = *input.DisplayInNavbar
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating offer")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting offer")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading offer")
	}
	return offer, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Offer, error) {
	offers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing offers")
	}
	return offers, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Offer, error) {
	offers, err := s.repo.ListActive(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing active offers")
	}
	SortByPrecedence(offers)
	return offers, nil
}
