package offers

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/pkg/db/models"
)

// Applies reports whether the offer can price the given product at the given
// instant. The validity window is half-open: live from startDate up to but
// not including endDate. An offer with no targeting at all is catalog-wide;
// otherwise the four targeting sets are a union, any single match is enough.
func Applies(offer models.Offer, product models.Product, now time.Time) bool {
	if !offer.IsActive {
		return false
	}
	if now.Before(offer.StartDate) || !now.Before(offer.EndDate) {
		return false
	}
	if len(offer.ProductIDs) == 0 &&
		len(offer.CategoryIDs) == 0 &&
		len(offer.SubcategoryIDs) == 0 &&
		len(offer.GenderIDs) == 0 {
		return true
	}
	return containsID(offer.ProductIDs, product.ID) ||
		containsID(offer.CategoryIDs, product.CategoryID) ||
		containsID(offer.SubcategoryIDs, product.SubcategoryID) ||
		containsID(offer.GenderIDs, product.GenderID)
}

// SortByPrecedence orders offers by priority descending, ties broken by the
// newest created_at, then id for a stable total order.
func SortByPrecedence(offers []models.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].Priority != offers[j].Priority {
			return offers[i].Priority > offers[j].Priority
		}
		if !offers[i].CreatedAt.Equal(offers[j].CreatedAt) {
			return offers[i].CreatedAt.After(offers[j].CreatedAt)
		}
		return offers[i].ID.String() < offers[j].ID.String()
	})
}

// Eligible filters offers down to those applying to the product, preserving
// precedence order.
func Eligible(offers []models.Offer, product models.Product, now time.Time) []models.Offer {
	var out []models.Offer
	for _, offer := range offers {
		if Applies(offer, product, now) {
			out = append(out, offer)
		}
	}
	SortByPrecedence(out)
	return out
}

// Resolver answers "which offers could price this product right now" against
// the offer store.
type Resolver struct {
	repo Repository
}

// NewResolver builds a resolver over the offers repository.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// ActiveOffers returns the currently live offers in precedence order.
func (r *Resolver) ActiveOffers(ctx context.Context, now time.Time) ([]models.Offer, error) {
	offers, err := r.repo.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	SortByPrecedence(offers)
	return offers, nil
}

// OffersForProduct returns the live offers applying to one product.
func (r *Resolver) OffersForProduct(ctx context.Context, product models.Product, now time.Time) ([]models.Offer, error) {
	offers, err := r.repo.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	return Eligible(offers, product, now), nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
