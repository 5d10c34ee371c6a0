// Package httpapi exposes the listing, tour and lead endpoints over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/julianbeese/luxury_estate/internal/cache"
	"github.com/julianbeese/luxury_estate/internal/catalog"
	"github.com/julianbeese/luxury_estate/internal/filter"
	"github.com/julianbeese/luxury_estate/internal/leads"
	"github.com/julianbeese/luxury_estate/internal/listing"
	"github.com/julianbeese/luxury_estate/internal/paging"
)

const apiPrefix = "/api/v1"

// Deps are the collaborators the HTTP layer dispatches to
type Deps struct {
	Catalog  *catalog.Catalog
	Engine   *filter.Engine
	Pager    *paging.Paginator
	Sessions *listing.Registry
	Leads    *leads.Service

	// Cache is optional; nil disables response caching.
	Cache    cache.Cache
	CacheTTL time.Duration

	AllowedOrigins []string
	// TrustProxy enables middleware.RealIP; otherwise clients are keyed on
	// the TCP peer address.
	TrustProxy bool
	Logger     *slog.Logger
}

// Server holds the HTTP handlers
type Server struct {
	deps   Deps
	logger *slog.Logger
}

func NewServer(deps Deps) *Server {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Server{deps: deps, logger: deps.Logger}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	if s.deps.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(LoggerMiddleware(s.logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID", "X-Cache"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Get("/properties", s.listProperties)
		r.Get("/properties/{id}", s.getProperty)
		r.Get("/filters/options", s.filterOptions)

		r.Get("/tours", s.listTours)
		r.Get("/tours/{id}", s.getTour)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Get("/{id}", s.getSession)
			r.Delete("/{id}", s.deleteSession)
			r.Put("/{id}/criteria", s.setSessionCriteria)
			r.Post("/{id}/navigate", s.navigateSession)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Post("/contact", s.submitContact)
			r.Post("/inquiry", s.submitInquiry)
			r.Post("/tour-booking", s.submitBooking)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"properties": s.deps.Catalog.Len(),
		"sessions":   s.deps.Sessions.Len(),
	})
}
