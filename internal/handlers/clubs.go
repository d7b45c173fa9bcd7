package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/XavierBriggs/Janus/pkg/models"
	"github.com/go-chi/chi/v5"
)

// SearchClubs proxies a club directory search
// Query params: page_number
func (h *Handler) SearchClubs(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	page := parseIntParam(r, "page_number", 0)

	resp, err := h.service.SearchClubs(r.Context(), name, page)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// InjuredPlayers lists a club's players with a non-captain status
func (h *Handler) InjuredPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.InjuredPlayers(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

// ClubPlayers proxies a club roster
// Query params: season_id
func (h *Handler) ClubPlayers(w http.ResponseWriter, r *http.Request) {
	roster, err := h.service.ClubPlayers(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("season_id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, roster)
}

// ClubProfile proxies a club profile
func (h *Handler) ClubProfile(w http.ResponseWriter, r *http.Request) {
	h.document(w, r, h.service.ClubProfile)
}

// ClubStadium proxies a club stadium
func (h *Handler) ClubStadium(w http.ResponseWriter, r *http.Request) {
	h.document(w, r, h.service.ClubStadium)
}

// ClubStaffs proxies a club staff list
func (h *Handler) ClubStaffs(w http.ResponseWriter, r *http.Request) {
	h.document(w, r, h.service.ClubStaffs)
}

func (h *Handler) document(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) (json.RawMessage, error)) {
	doc, err := fetch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// CompareLineups compares the starting lineups of homeTeam's fixture against awayTeam
func (h *Handler) CompareLineups(w http.ResponseWriter, r *http.Request) {
	home := chi.URLParam(r, "home")
	away := chi.URLParam(r, "away")

	result, err := h.service.CompareLineups(r.Context(), home, away)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// CompareWithLineup compares two clubs using lineups from the request body
// Query params: club_home_name, club_away_name
func (h *Handler) CompareWithLineup(w http.ResponseWriter, r *http.Request) {
	home := strings.TrimSpace(r.URL.Query().Get("club_home_name"))
	away := strings.TrimSpace(r.URL.Query().Get("club_away_name"))
	if home == "" || away == "" {
		h.respondError(w, http.StatusBadRequest, "club_home_name and club_away_name are required", nil)
		return
	}

	var lineups models.Lineups
	if err := json.NewDecoder(r.Body).Decode(&lineups); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid lineups body", err)
		return
	}
	if lineups.HomeTeam == nil || lineups.AwayTeam == nil {
		h.respondError(w, http.StatusBadRequest, "lineups must contain home_team and away_team", nil)
		return
	}

	result, err := h.service.CompareWithLineup(r.Context(), home, away, &lineups)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
