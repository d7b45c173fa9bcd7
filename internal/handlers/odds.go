package handlers

import (
	"net/http"

	"github.com/XavierBriggs/Janus/internal/odds"
	"github.com/go-chi/chi/v5"
)

// GetOdds returns fair-priced odds for a league
// Query params: bookmakers (csv, default pinnacle), allMatches (bool)
func (h *Handler) GetOdds(w http.ResponseWriter, r *http.Request) {
	league := chi.URLParam(r, "league")
	bookmakers := odds.ParseBookmakers(r.URL.Query().Get("bookmakers"))
	allMatches := parseBoolParam(r, "allMatches", false)

	matches, err := h.service.GetOdds(r.Context(), league, bookmakers, allMatches)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, matches)
}

// GetMatchOdds returns one match priced by the reference bookmaker
func (h *Handler) GetMatchOdds(w http.ResponseWriter, r *http.Request) {
	match, err := h.service.GetMatchOdds(r.Context(), chi.URLParam(r, "league"), chi.URLParam(r, "matchID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}
