package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/promolang/promolang/internal/cache"
	"github.com/promolang/promolang/internal/core/db"
	"github.com/promolang/promolang/internal/types"
)

// Store is the persistence surface the API needs. Declared here (consumer
// side) so tests can substitute a fake without a database.
type Store interface {
	CreatePromotion(name, source string, active bool, start, end *time.Time) (*db.Promotion, error)
	GetPromotion(id types.PromotionID) (*db.Promotion, error)
	ListPromotions() ([]*db.Promotion, error)
	UpdatePromotion(p *db.Promotion) error
	DeletePromotion(id types.PromotionID) error
}

// Authenticator guards the /api/v1 surface. Satisfied by *auth.Authenticator.
type Authenticator interface {
	Middleware(next http.Handler) http.Handler
}

// Pinger is the storage liveness probe consulted by the health endpoint.
// Satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// API holds dependencies and the router for the promotion service.
type API struct {
	// Router is the chi multiplexer that handles HTTP requests.
	Router *chi.Mux

	store  Store
	cache  cache.Service
	pinger Pinger
	log    *slog.Logger
}

// NewAPI creates an API instance. cacheSvc may be nil to disable result
// caching; authn may be nil to disable authentication (test/dev only);
// pinger may be nil to skip the storage probe in /health.
func NewAPI(store Store, cacheSvc cache.Service, authn Authenticator, pinger Pinger, log *slog.Logger) *API {
	if store == nil {
		panic("api: store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	a := &API{
		Router: chi.NewRouter(),
		store:  store,
		cache:  cacheSvc,
		pinger: pinger,
		log:    log,
	}

	a.configureRoutes(authn)
	return a
}

// configureRoutes registers the global middleware stack and API endpoints.
func (a *API) configureRoutes(authn Authenticator) {
	// RequestID and RealIP first so the logger sees them
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.RealIP)
	a.Router.Use(a.requestLogger)
	// Recoverer turns panics into 500s instead of killing the server
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(render.SetContentType(render.ContentTypeJSON))

	// Public routes
	a.Router.Get("/health", a.handleHealthCheck)

	// Protected API v1 routes
	a.Router.Route("/api/v1", func(r chi.Router) {
		if authn != nil {
			r.Use(authn.Middleware)
		}

		r.Route("/promotions", func(r chi.Router) {
			r.Post("/", a.handleCreatePromotion)
			r.Get("/", a.handleListPromotions)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.handleGetPromotion)
				r.Put("/", a.handleUpdatePromotion)
				r.Delete("/", a.handleDeletePromotion)
				r.Post("/apply", a.handleApplyPromotion)
			})
		})

		r.Post("/evaluate", a.handleEvaluate)
	})
}

// handleHealthCheck reports whether the service is up, including a
// storage ping when a pinger is configured.
func (a *API) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if a.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := a.pinger.PingContext(ctx); err != nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{"status": "degraded", "database": err.Error()})
			return
		}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}
