package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/urbanshop/urbanshop-backend/api/routes"
	authsvc "github.com/urbanshop/urbanshop-backend/internal/auth"
	cartsvc "github.com/urbanshop/urbanshop-backend/internal/cart"
	"github.com/urbanshop/urbanshop-backend/internal/catalog"
	"github.com/urbanshop/urbanshop-backend/internal/feed"
	ordersvc "github.com/urbanshop/urbanshop-backend/internal/orders"
	profilesvc "github.com/urbanshop/urbanshop-backend/internal/profile"
	"github.com/urbanshop/urbanshop-backend/pkg/auth/session"
	"github.com/urbanshop/urbanshop-backend/pkg/config"
	"github.com/urbanshop/urbanshop-backend/pkg/db"
	"github.com/urbanshop/urbanshop-backend/pkg/logger"
	"github.com/urbanshop/urbanshop-backend/pkg/migrate"
	"github.com/urbanshop/urbanshop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := authsvc.NewUserRepository(dbClient.DB())
	grantRepo := authsvc.NewAdminGrantRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Users:          userRepo,
		Grants:         grantRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	if err := authsvc.BootstrapAdminGrants(context.Background(), userRepo, grantRepo, cfg.Admin.BootstrapEmails, logg); err != nil {
		logg.Error(context.Background(), "failed to bootstrap admin grants", err)
		os.Exit(1)
	}

	notifier, err := feed.NewNotifier(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create feed notifier", err)
		os.Exit(1)
	}

	feedSource, err := feed.NewRedisSource(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create feed source", err)
		os.Exit(1)
	}

	feedHub, err := feed.NewHub(feedSource, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create feed hub", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartStore, err := cartsvc.NewStore(redisClient, redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartStore, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := ordersvc.NewService(ordersvc.NewRepository(dbClient.DB()), dbClient, cartService, notifier, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	profileService, err := profilesvc.NewService(profilesvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, routes.Services{
			Auth:    authService,
			Catalog: catalogService,
			Cart:    cartService,
			Orders:  ordersService,
			Profile: profileService,
			Feed:    feedHub,
		}),
	}

	// SSE connections stay open indefinitely, so shut down on signal instead
	// of letting the platform kill in-flight streams.
	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}
