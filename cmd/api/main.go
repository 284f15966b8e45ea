package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/soniamehta/trendora-backend/api/routes"
	"github.com/soniamehta/trendora-backend/internal/auth"
	"github.com/soniamehta/trendora-backend/internal/cart"
	"github.com/soniamehta/trendora-backend/internal/catalog"
	"github.com/soniamehta/trendora-backend/internal/guest"
	"github.com/soniamehta/trendora-backend/internal/offers"
	"github.com/soniamehta/trendora-backend/internal/orders"
	"github.com/soniamehta/trendora-backend/internal/users"
	"github.com/soniamehta/trendora-backend/internal/wishlist"
	"github.com/soniamehta/trendora-backend/pkg/config"
	"github.com/soniamehta/trendora-backend/pkg/db"
	"github.com/soniamehta/trendora-backend/pkg/logger"
	"github.com/soniamehta/trendora-backend/pkg/migrate"
	"github.com/soniamehta/trendora-backend/pkg/outbox"
	"github.com/soniamehta/trendora-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	catalogRepo := catalog.NewRepository(dbClient.DB())
	offersRepo := offers.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	resolver := offers.NewResolver(offersRepo)

	offersService, err := offers.NewService(offersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create offers service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, catalogRepo, resolver, redisClient, dbClient, cfg.Guest.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlistRepo, catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	guestService, err := guest.NewService(redisClient, cfg.Guest.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest session service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(usersRepo, cartService, wishlistService, guestService, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, cartRepo, catalogRepo, resolver, redisClient, dbClient, outboxSvc, cfg.Guest.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Guest:    guestService,
			Auth:     authService,
			Cart:     cartService,
			Wishlist: wishlistService,
			Offers:   offersService,
			Resolver: resolver,
			Catalog:  catalogRepo,
			Orders:   ordersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
