package offers

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/enums"
	"github.com/soniamehta/trendora-backend/pkg/types"
)

func makeOffer(mutate func(*models.Offer)) models.Offer {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	offer := models.Offer{
		ID:        uuid.New(),
		Name:      "Test Offer",
		OfferType: enums.OfferTypePercentageOff,
		Rule:      types.OfferRule{DiscountPercent: 10},
		StartDate: now,
		EndDate:   now.AddDate(0, 1, 0),
		IsActive:  true,
		CreatedAt: now,
	}
	if mutate != nil {
		mutate(&offer)
	}
	return offer
}

func makeProduct() models.Product {
	return models.Product{
		ID:            uuid.New(),
		SKU:           "SKU-1",
		GenderID:      uuid.New(),
		CategoryID:    uuid.New(),
		SubcategoryID: uuid.New(),
		PriceCents:    2000,
		StockQty:      10,
		IsActive:      true,
	}
}

func TestAppliesDateWindow(t *testing.T) {
	product := makeProduct()
	offer := makeOffer(nil)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", offer.StartDate.Add(-time.Second), false},
		{"at start", offer.StartDate, true},
		{"inside window", offer.StartDate.AddDate(0, 0, 10), true},
		{"just before end", offer.EndDate.Add(-time.Second), true},
		{"at end", offer.EndDate, false},
		{"after end", offer.EndDate.Add(time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Applies(offer, product, tc.now); got != tc.want {
				t.Fatalf("Applies at %v = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestAppliesKillSwitch(t *testing.T) {
	product := makeProduct()
	offer := makeOffer(func(o *models.Offer) { o.IsActive = false })

	if Applies(offer, product, offer.StartDate.AddDate(0, 0, 1)) {
		t.Fatal("inactive offer should never apply")
	}
}

func TestAppliesTargeting(t *testing.T) {
	product := makeProduct()
	now := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(*models.Offer)
		want   bool
	}{
		{"catalog wide", nil, true},
		{"product id match", func(o *models.Offer) { o.ProductIDs = []uuid.UUID{product.ID} }, true},
		{"category match", func(o *models.Offer) { o.CategoryIDs = []uuid.UUID{product.CategoryID} }, true},
		{"subcategory match", func(o *models.Offer) { o.SubcategoryIDs = []uuid.UUID{product.SubcategoryID} }, true},
		{"gender match", func(o *models.Offer) { o.GenderIDs = []uuid.UUID{product.GenderID} }, true},
		{
			"union needs only one match",
			func(o *models.Offer) {
				o.ProductIDs = []uuid.UUID{uuid.New()}
				o.GenderIDs = []uuid.UUID{product.GenderID}
			},
			true,
		},
		{
			"no match",
			func(o *models.Offer) { o.ProductIDs = []uuid.UUID{uuid.New()} },
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offer := makeOffer(tc.mutate)
			if got := Applies(offer, product, now); got != tc.want {
				t.Fatalf("Applies = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSortByPrecedence(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	low := makeOffer(func(o *models.Offer) { o.Name = "low"; o.Priority = 1; o.CreatedAt = base })
	highOld := makeOffer(func(o *models.Offer) { o.Name = "high-old"; o.Priority = 5; o.CreatedAt = base })
	highNew := makeOffer(func(o *models.Offer) { o.Name = "high-new"; o.Priority = 5; o.CreatedAt = base.Add(time.Hour) })

	offers := []models.Offer{low, highOld, highNew}
	SortByPrecedence(offers)

	got := []string{offers[0].Name, offers[1].Name, offers[2].Name}
	want := []string{"high-new", "high-old", "low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestEligiblePreservesPrecedence(t *testing.T) {
	product := makeProduct()
	now := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	applies := makeOffer(func(o *models.Offer) { o.Name = "applies"; o.Priority = 2 })
	excluded := makeOffer(func(o *models.Offer) {
		o.Name = "excluded"
		o.Priority = 9
		o.ProductIDs = []uuid.UUID{uuid.New()}
	})
	winner := makeOffer(func(o *models.Offer) { o.Name = "winner"; o.Priority = 7 })

	out := Eligible([]models.Offer{applies, excluded, winner}, product, now)
	if len(out) != 2 {
		t.Fatalf("expected 2 eligible offers, got %d", len(out))
	}
	if out[0].Name != "winner" || out[1].Name != "applies" {
		t.Fatalf("unexpected order: %s, %s", out[0].Name, out[1].Name)
	}
}
