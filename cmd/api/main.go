package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/fireplay/fireplay-backend/api/controllers"
	"github.com/fireplay/fireplay-backend/api/routes"
	"github.com/fireplay/fireplay-backend/internal/cart"
	"github.com/fireplay/fireplay-backend/internal/catalog"
	"github.com/fireplay/fireplay-backend/internal/dashboard"
	"github.com/fireplay/fireplay-backend/internal/favorites"
	"github.com/fireplay/fireplay-backend/internal/identity"
	"github.com/fireplay/fireplay-backend/internal/messages"
	"github.com/fireplay/fireplay-backend/pkg/config"
	"github.com/fireplay/fireplay-backend/pkg/db"
	"github.com/fireplay/fireplay-backend/pkg/firebase"
	"github.com/fireplay/fireplay-backend/pkg/firestore"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/fireplay/fireplay-backend/pkg/metrics"
	"github.com/fireplay/fireplay-backend/pkg/migrate"
	"github.com/fireplay/fireplay-backend/pkg/pubsub"
	"github.com/fireplay/fireplay-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	var closers []func() error

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	closers = append(closers, redisClient.Close)

	fsClient, err := firestore.New(ctx, cfg.GCP, logg)
	requireResource(ctx, logg, "firestore", err)
	closers = append(closers, fsClient.Close)

	readiness := map[string]controllers.Pinger{
		"redis":     redisClient,
		"firestore": fsClient,
	}

	verifier, err := buildVerifier(ctx, cfg, logg)
	requireResource(ctx, logg, "identity verifier", err)

	var remote cart.RemoteRepository
	if cfg.Cart.UsesSQLCart() {
		dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
		requireResource(ctx, logg, "database", err)
		closers = append(closers, dbClient.Close)
		readiness["database"] = dbClient

		requireResource(ctx, logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

		remote, err = cart.NewSQLRemoteRepository(dbClient.DB())
		requireResource(ctx, logg, "sql cart repository", err)
	} else {
		remote, err = cart.NewFirestoreRemoteRepository(fsClient.Firestore())
		requireResource(ctx, logg, "firestore cart repository", err)
	}

	var publisher messages.Publisher
	if strings.TrimSpace(cfg.PubSub.ContactTopic) != "" {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, false, logg)
		requireResource(ctx, logg, "pubsub", err)
		contactPublisher, err := messages.NewPubSubPublisher(pubsubClient.ContactPublisher())
		requireResource(ctx, logg, "contact publisher", err)
		// Stop flushes pending publishes, so it must run before the client closes.
		closers = append(closers, pubsubClient.Close, func() error { contactPublisher.Stop(); return nil })
		readiness["pubsub"] = pubsubClient
		publisher = contactPublisher
	} else {
		logg.Warn(ctx, "contact topic not configured, contact events will not be published")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	source, err := buildCatalogSource(cfg)
	requireResource(ctx, logg, "catalog source", err)
	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Source:   source,
		Cache:    redisClient,
		CacheTTL: cfg.Catalog.CacheTTL,
		Logger:   logg,
		Metrics:  metrics.NewCatalogMetrics(registry),
	})
	requireResource(ctx, logg, "catalog service", err)

	sessions, err := cart.NewSessions(cart.SessionsParams{
		LocalStores: cart.RedisLocalStores(redisClient, cfg.Cart.LocalTTL),
		Remote:      remote,
		IdleTTL:     cfg.Cart.SessionIdleTTL,
		Logger:      logg,
		Metrics:     metrics.NewCartMetrics(registry),
	})
	requireResource(ctx, logg, "cart sessions", err)

	favoritesRepo, err := favorites.NewFirestoreRepository(fsClient.Firestore())
	requireResource(ctx, logg, "favorites repository", err)
	favoritesSvc, err := favorites.NewService(favoritesRepo, catalogSvc, logg)
	requireResource(ctx, logg, "favorites service", err)

	messagesRepo, err := messages.NewFirestoreRepository(fsClient.Firestore())
	requireResource(ctx, logg, "messages repository", err)
	messagesSvc, err := messages.NewService(messagesRepo, publisher, logg)
	requireResource(ctx, logg, "messages service", err)

	dashboardSvc, err := dashboard.NewService(favoritesSvc, messagesSvc, sessions)
	requireResource(ctx, logg, "dashboard service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"catalog_source": cfg.Catalog.Source,
		"cart_remote":    cfg.Cart.RemoteStore,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			Verifier:  verifier,
			Catalog:   catalogSvc,
			Carts:     sessions,
			Favorites: favoritesSvc,
			Messages:  messagesSvc,
			Dashboard: dashboardSvc,
			RateStore: redisClient,
			Readiness: readiness,
			Gatherer:  registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitorCtx, stopJanitor := context.WithCancel(runCtx)
	defer stopJanitor()
	go sessions.RunJanitor(janitorCtx, cfg.Cart.JanitorInterval)

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-runCtx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(serverCtx, "graceful shutdown failed", err)
		exitCode = 1
	}
	stopJanitor()
	sessions.Wait()

	var closeErr error
	for i := len(closers) - 1; i >= 0; i-- {
		closeErr = multierr.Append(closeErr, closers[i]())
	}
	if closeErr != nil {
		logg.Error(serverCtx, "error releasing resources", closeErr)
		exitCode = 1
	}
	logg.Info(serverCtx, "api server stopped")
	os.Exit(exitCode)
}

func buildVerifier(ctx context.Context, cfg *config.Config, logg *logger.Logger) (identity.Verifier, error) {
	if strings.EqualFold(cfg.Auth.Provider, config.AuthProviderJWT) {
		return identity.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	}
	authClient, err := firebase.NewAuthClient(ctx, cfg.GCP, logg)
	if err != nil {
		return nil, err
	}
	return identity.NewFirebaseVerifier(authClient)
}

func buildCatalogSource(cfg *config.Config) (catalog.Source, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Catalog.Source)) {
	case config.CatalogSourceRAWG:
		return catalog.NewRAWGSource(cfg.Catalog, nil)
	case config.CatalogSourceMock, "":
		return catalog.NewMockSource(), nil
	default:
		return nil, fmt.Errorf("unsupported catalog source %q", cfg.Catalog.Source)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
