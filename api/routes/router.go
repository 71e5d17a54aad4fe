package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fireplay/fireplay-backend/api/controllers"
	"github.com/fireplay/fireplay-backend/api/middleware"
	"github.com/fireplay/fireplay-backend/internal/catalog"
	"github.com/fireplay/fireplay-backend/internal/dashboard"
	"github.com/fireplay/fireplay-backend/internal/favorites"
	"github.com/fireplay/fireplay-backend/internal/identity"
	"github.com/fireplay/fireplay-backend/internal/messages"
	"github.com/fireplay/fireplay-backend/pkg/config"
	"github.com/fireplay/fireplay-backend/pkg/logger"
)

// Deps carries everything the HTTP surface needs. Gatherer may be nil to skip /metrics.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Verifier  identity.Verifier
	Catalog   catalog.Service
	Carts     controllers.CartSessions
	Favorites favorites.Service
	Messages  messages.Service
	Dashboard *dashboard.Service
	RateStore middleware.RateLimiterStore
	Readiness map[string]controllers.Pinger
	Gatherer  prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Recoverer(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	contactPolicy := middleware.NewRateLimitPolicy(
		"contact",
		cfg.Contact.RateLimitWindow,
		cfg.Contact.RateLimitPerIP,
		cfg.Contact.RateLimitPerEmail,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Readiness))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.DeviceCookie(cfg.Cart, logg),
			middleware.Identity(d.Verifier, logg),
		)

		r.Get("/games", controllers.GamesList(d.Catalog, logg))
		r.Get("/games/{slug}", controllers.GameDetail(d.Catalog, logg))
		r.Get("/search", controllers.GamesSearch(d.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(d.Carts, logg))
			r.Delete("/", controllers.CartClear(d.Carts, logg))
			r.Post("/items", controllers.CartAddItem(d.Carts, d.Catalog, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(d.Carts, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(d.Carts, logg))
		})

		r.With(middleware.RateLimit(contactPolicy, d.RateStore, logg)).
			Post("/contact", controllers.ContactSubmit(d.Messages, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAccount(logg))

			r.Get("/favorites", controllers.FavoritesList(d.Favorites, logg))
			r.Get("/favorites/{gameId}", controllers.FavoriteStatus(d.Favorites, logg))
			r.Post("/favorites/toggle", controllers.FavoriteToggle(d.Favorites, logg))
			r.Get("/messages", controllers.MessagesList(d.Messages, logg))
			r.Get("/dashboard", controllers.Dashboard(d.Dashboard, logg))
		})
	})

	return r
}
