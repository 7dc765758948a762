// Package httpapi exposes the record store over HTTP/JSON. Routes live under
// /api; /metrics serves Prometheus metrics.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/taxdesk/internal/logging"
	"github.com/dmitrijs2005/taxdesk/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service is the record-store behaviour the handlers need.
type Service interface {
	Ping(ctx context.Context) error
	ListRecords(ctx context.Context) ([]models.Record, error)
	GetRecord(ctx context.Context, id string) (*models.Record, error)
	UpdateRecord(ctx context.Context, id string, rec models.Record) (*models.Record, error)
	ListCountries(ctx context.Context) ([]models.Country, error)
	RenameCountry(ctx context.Context, id, name string) (*models.Country, error)
}

// Options configures NewRouter. A nil Metrics disables /metrics.
type Options struct {
	SecretKey []byte
	RateLimit RateLimitConfig
	Metrics   *Metrics
	Logger    logging.Logger
}

type Handler struct {
	svc Service
	log logging.Logger
}

// NewRouter wires the middleware chain and routes.
func NewRouter(svc Service, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	h := &Handler{svc: svc, log: log.With("module", "httpapi")}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(h.log))
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(RateLimiter(opts.RateLimit))
		api.Use(BearerAuth(opts.SecretKey))

		api.Get("/ping", h.handlePing)
		api.Get("/records", h.handleListRecords)
		api.Get("/records/{id}", h.handleGetRecord)
		api.Put("/records/{id}", h.handleUpdateRecord)
		api.Get("/countries", h.handleListCountries)
		api.Put("/countries/{id}", h.handleRenameCountry)
	})

	return r
}
