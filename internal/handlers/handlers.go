package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/XavierBriggs/Janus/internal/clubs"
	"github.com/XavierBriggs/Janus/internal/ratelimit"
	"github.com/XavierBriggs/Janus/pkg/models"
)

// Service is the set of operations the HTTP layer exposes
type Service interface {
	CompareLineups(ctx context.Context, homeTeam, awayTeam string) (*models.ComparisonResult, error)
	CompareWithLineup(ctx context.Context, homeTeam, awayTeam string, lineups *models.Lineups) (*models.ComparisonResult, error)
	GetOdds(ctx context.Context, competition string, bookmakers []string, allMatches bool) ([]models.Match, error)
	GetMatchOdds(ctx context.Context, competition, matchID string) (*models.Match, error)
	InjuredPlayers(ctx context.Context, clubName string) (map[string][]models.Player, error)

	SearchClubs(ctx context.Context, name string, page int) (*models.ClubSearchResponse, error)
	ClubPlayers(ctx context.Context, clubID, seasonID string) (*models.Roster, error)
	ClubProfile(ctx context.Context, clubID string) (json.RawMessage, error)
	ClubStadium(ctx context.Context, clubID string) (json.RawMessage, error)
	ClubStaffs(ctx context.Context, clubID string) (json.RawMessage, error)

	Ping(ctx context.Context) error
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new handler with dependencies
func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// Check cache connectivity
	if err := h.service.Ping(ctx); err != nil {
		h.respondError(w, http.StatusServiceUnavailable, "cache unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "janus",
	})
}

// fail maps an operation error to its HTTP status
func (h *Handler) fail(w http.ResponseWriter, err error) {
	var (
		unknown  *clubs.UnknownTeamError
		upstream *models.UpstreamError
	)

	switch {
	case errors.As(err, &unknown):
		h.respondError(w, http.StatusBadRequest, unknown.Error(), nil)
	case errors.Is(err, ratelimit.ErrRateLimitExceeded):
		h.respondError(w, http.StatusTooManyRequests, "rate limit exceeded", nil)
	case errors.Is(err, models.ErrMatchNotFound):
		h.respondError(w, http.StatusNotFound, "match not found", err)
	case errors.As(err, &upstream):
		h.respondError(w, http.StatusBadGateway, "upstream "+upstream.Service+" failed", err)
	case errors.Is(err, context.DeadlineExceeded):
		h.respondError(w, http.StatusGatewayTimeout, "request timed out", err)
	default:
		h.respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseBoolParam(r *http.Request, param string, defaultValue bool) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(param))
	if err != nil {
		return defaultValue
	}
	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		h.logger.Warn(message, "status", status, "error", err)
	}
	writeError(w, status, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
