package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soniamehta/trendora-backend/api/controllers"
	"github.com/soniamehta/trendora-backend/api/middleware"
	"github.com/soniamehta/trendora-backend/internal/auth"
	"github.com/soniamehta/trendora-backend/internal/cart"
	"github.com/soniamehta/trendora-backend/internal/catalog"
	"github.com/soniamehta/trendora-backend/internal/guest"
	"github.com/soniamehta/trendora-backend/internal/offers"
	"github.com/soniamehta/trendora-backend/internal/orders"
	"github.com/soniamehta/trendora-backend/internal/wishlist"
	"github.com/soniamehta/trendora-backend/pkg/config"
	"github.com/soniamehta/trendora-backend/pkg/logger"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Guest    *guest.Service
	Auth     auth.Service
	Cart     cart.Service
	Wishlist wishlist.Service
	Offers   offers.Service
	Resolver *offers.Resolver
	Catalog  catalog.Repository
	Orders   orders.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(p.Auth, logg))
			r.Post("/login", controllers.AuthLogin(p.Auth, logg))
		})

		r.Post("/guest/session", controllers.GuestSessionCreate(p.Guest, logg))

		r.Route("/offers", func(r chi.Router) {
			r.Get("/active", controllers.OffersActive(p.Offers, logg))
			r.Get("/product/{productID}", controllers.OffersForProduct(p.Resolver, p.Catalog, logg))
		})

		// Authenticated storefront.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(p.Cart, logg))
				r.Post("/", controllers.CartAddItem(p.Cart, logg))
				r.Delete("/", controllers.CartClear(p.Cart, logg))
				r.Patch("/items/{itemID}", controllers.CartUpdateItem(p.Cart, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(p.Cart, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(p.Wishlist, logg))
				r.Post("/", controllers.WishlistAdd(p.Wishlist, logg))
				r.Delete("/{productID}", controllers.WishlistRemove(p.Wishlist, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCheckout(p.Orders, logg))
				r.Get("/", controllers.OrdersList(p.Orders, logg))
				r.Get("/{orderID}", controllers.OrderGet(p.Orders, logg))
			})
		})

		// Guest storefront: same handlers, owner resolved from the token.
		r.Route("/guest", func(r chi.Router) {
			r.Use(middleware.GuestSession(p.Guest, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(p.Cart, logg))
				r.Post("/", controllers.CartAddItem(p.Cart, logg))
				r.Delete("/", controllers.CartClear(p.Cart, logg))
				r.Patch("/items/{itemID}", controllers.CartUpdateItem(p.Cart, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(p.Cart, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(p.Wishlist, logg))
				r.Post("/", controllers.WishlistAdd(p.Wishlist, logg))
				r.Delete("/{productID}", controllers.WishlistRemove(p.Wishlist, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.AdminOnly(logg))

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", controllers.AdminOffersList(p.Offers, logg))
			r.Post("/", controllers.AdminOfferCreate(p.Offers, logg))
			r.Get("/{offerID}", controllers.AdminOfferGet(p.Offers, logg))
			r.Patch("/{offerID}", controllers.AdminOfferUpdate(p.Offers, logg))
			r.Delete("/{offerID}", controllers.AdminOfferDelete(p.Offers, logg))
		})

		r.Patch("/orders/{orderID}/status", controllers.AdminOrderUpdateStatus(p.Orders, logg))
	})

	return r
}
