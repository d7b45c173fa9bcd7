package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/internal/ratelimit"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig holds everything NewRouter wires into the route tree
type RouterConfig struct {
	Service        Service
	Identity       contracts.IdentityProvider
	Limiter        *ratelimit.Limiter
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP route tree
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	h := NewHandler(cfg.Service, cfg.Logger)

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Observe(cfg.Metrics, cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", cfg.Metrics.Handler())

	auth := Authenticate(cfg.Identity)
	limit := RateLimit(cfg.Limiter, cfg.Metrics, cfg.Logger)

	r.Route("/clubs", func(r chi.Router) {
		r.Get("/search/{name}", h.SearchClubs)
		r.Get("/search/{name}/injured", h.InjuredPlayers)

		r.Get("/{id}/profile", h.ClubProfile)
		r.Get("/{id}/stadium", h.ClubStadium)
		r.Get("/{id}/players", h.ClubPlayers)
		r.Get("/{id}/staffs", h.ClubStaffs)

		r.With(auth, limit).Get("/compare/{home}/{away}", h.CompareLineups)
		r.With(auth, limit).Post("/compare_with_lineup", h.CompareWithLineup)
	})

	r.Route("/odds", func(r chi.Router) {
		r.Use(auth)
		r.Get("/odds/{league}", h.GetOdds)
		r.Get("/odds/{league}/matches/{matchID}", h.GetMatchOdds)
	})

	return r
}
