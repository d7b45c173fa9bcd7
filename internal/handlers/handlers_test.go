package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/XavierBriggs/Janus/adapters/identity"
	"github.com/XavierBriggs/Janus/internal/clubs"
	"github.com/XavierBriggs/Janus/internal/handlers"
	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/internal/ratelimit"
	"github.com/XavierBriggs/Janus/pkg/models"
	"github.com/XavierBriggs/Janus/pkg/testutil"
	"github.com/golang-jwt/jwt/v4"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockService is a mock implementation of handlers.Service
type MockService struct {
	CompareErr   error
	OddsErr      error
	MatchErr     error
	PingErr      error
	GotLineups   *models.Lineups
	GotBooks     []string
	GotAll       bool
	CompareCalls int
}

func (m *MockService) CompareLineups(ctx context.Context, home, away string) (*models.ComparisonResult, error) {
	m.CompareCalls++
	if m.CompareErr != nil {
		return nil, m.CompareErr
	}
	return &models.ComparisonResult{
		HomeTeam:       home,
		AwayTeam:       away,
		HomeTotalValue: "€10.00m",
		AwayTotalValue: "€5.00m",
		Comparison:     []models.ComparisonRecord{},
	}, nil
}

func (m *MockService) CompareWithLineup(ctx context.Context, home, away string, lineups *models.Lineups) (*models.ComparisonResult, error) {
	m.GotLineups = lineups
	return m.CompareLineups(ctx, home, away)
}

func (m *MockService) GetOdds(ctx context.Context, competition string, bookmakers []string, allMatches bool) ([]models.Match, error) {
	m.GotBooks = bookmakers
	m.GotAll = allMatches
	if m.OddsErr != nil {
		return nil, m.OddsErr
	}
	return []models.Match{{ID: "e1", SportKey: competition}}, nil
}

func (m *MockService) GetMatchOdds(ctx context.Context, competition, matchID string) (*models.Match, error) {
	if m.MatchErr != nil {
		return nil, m.MatchErr
	}
	return &models.Match{ID: matchID, SportKey: competition}, nil
}

func (m *MockService) InjuredPlayers(ctx context.Context, club string) (map[string][]models.Player, error) {
	return map[string][]models.Player{club: {{Name: "Jesus", Status: "Knee injury"}}}, nil
}

func (m *MockService) SearchClubs(ctx context.Context, name string, page int) (*models.ClubSearchResponse, error) {
	return &models.ClubSearchResponse{Query: name, PageNumber: page, Results: []models.ClubSearchResult{{ID: "11", Name: "Arsenal FC"}}}, nil
}

func (m *MockService) ClubPlayers(ctx context.Context, clubID, seasonID string) (*models.Roster, error) {
	return &models.Roster{ID: clubID, Players: []models.Player{}}, nil
}

func (m *MockService) ClubProfile(ctx context.Context, clubID string) (json.RawMessage, error) {
	return json.RawMessage(`{"id":"` + clubID + `"}`), nil
}

func (m *MockService) ClubStadium(ctx context.Context, clubID string) (json.RawMessage, error) {
	return nil, &models.UpstreamError{Service: "clubdata", StatusCode: 404, Message: "not found"}
}

func (m *MockService) ClubStaffs(ctx context.Context, clubID string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (m *MockService) Ping(ctx context.Context) error {
	return m.PingErr
}

const secret = "test-secret"

type fixture struct {
	server  http.Handler
	service *MockService
	metrics *metrics.Metrics
	token   string
}

func setup(t *testing.T) *fixture {
	t.Helper()

	verifier, err := identity.NewVerifier(secret, "", "")
	require.NoError(t, err)
	token, err := verifier.Sign("user-1", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	svc := &MockService{}
	m := metrics.New()
	router := handlers.NewRouter(handlers.RouterConfig{
		Service:  svc,
		Identity: verifier,
		Limiter:  ratelimit.NewLimiter(testutil.NewMemoryCache(), 5, 24*time.Hour),
		Metrics:  m,
	})

	return &fixture{server: router, service: svc, metrics: m, token: token}
}

func (f *fixture) do(method, target, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])

	f.service.PingErr = errors.New("connection refused")
	w = f.do(http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCompareLineups(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/clubs/compare/Arsenal/Chelsea", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result models.ComparisonResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, "Arsenal", result.HomeTeam)
	assert.Equal(t, "Chelsea", result.AwayTeam)
	assert.Equal(t, "€10.00m", result.HomeTotalValue)
}

func TestCompareLineups_Unauthorized(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			req := httptest.NewRequest(http.MethodGet, "/clubs/compare/Arsenal/Chelsea", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			f.server.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, http.StatusUnauthorized, decodeError(t, w).Code)
			assert.Equal(t, 0, f.service.CompareCalls)
		})
	}
}

func TestCompareLineups_RateLimit(t *testing.T) {
	f := setup(t)

	for i := 0; i < 5; i++ {
		w := f.do(http.MethodGet, "/clubs/compare/Arsenal/Chelsea", "", true)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := f.do(http.MethodGet, "/clubs/compare/Arsenal/Chelsea", "", true)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", decodeError(t, w).Message)
	assert.Equal(t, 5, f.service.CompareCalls, "rejected request does no work")
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.RateLimited.WithLabelValues("/clubs/compare/{home}/{away}")))

	// a different team pair has its own quota
	w = f.do(http.MethodGet, "/clubs/compare/Liverpool/Everton", "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	// a different route has its own quota
	w = f.do(http.MethodPost, "/clubs/compare_with_lineup?club_home_name=Arsenal&club_away_name=Chelsea",
		`{"home_team":{"7":"Saka"},"away_team":{}}`, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCompareLineups_RateLimitPerPath(t *testing.T) {
	f := setup(t)

	pairs := []string{
		"Arsenal/Chelsea", "Liverpool/Everton", "Fulham/Brentford",
		"Wolves/Burnley", "Leeds/Sunderland", "Bournemouth/Brighton",
	}
	for _, pair := range pairs {
		w := f.do(http.MethodGet, "/clubs/compare/"+pair, "", true)
		assert.Equal(t, http.StatusOK, w.Code, pair)
	}

	for i := 0; i < 4; i++ {
		w := f.do(http.MethodGet, "/clubs/compare/Arsenal/Chelsea", "", true)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+2)
	}
	w := f.do(http.MethodGet, "/clubs/compare/Arsenal/Chelsea", "", true)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = f.do(http.MethodGet, "/clubs/compare/Liverpool/Everton", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCompareLineups_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown team", &clubs.UnknownTeamError{Sides: []string{"home"}, Names: []string{"Atlantis"}}, http.StatusBadRequest},
		{"match not found", models.ErrMatchNotFound, http.StatusNotFound},
		{"upstream", &models.UpstreamError{Service: "clubdata", StatusCode: 503}, http.StatusBadGateway},
		{"wrapped upstream", errors.Join(errors.New("fetch rosters"), &models.UpstreamError{Service: "lineups"}), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			f.service.CompareErr = tt.err

			w := f.do(http.MethodGet, "/clubs/compare/Atlantis/Chelsea", "", true)
			assert.Equal(t, tt.want, w.Code)

			resp := decodeError(t, w)
			assert.Equal(t, tt.want, resp.Code)
			assert.Equal(t, http.StatusText(tt.want), resp.Error)
		})
	}
}

func TestCompareWithLineup(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/clubs/compare_with_lineup?club_home_name=Arsenal&club_away_name=Chelsea",
		`{"home_team":{"7":"Saka"},"away_team":{"20":"Palmer"}}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.service.GotLineups)
	assert.Equal(t, "Saka", f.service.GotLineups.HomeTeam["7"])
	assert.Equal(t, "Palmer", f.service.GotLineups.AwayTeam["20"])
}

func TestCompareWithLineup_BadRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
	}{
		{"missing away", "/clubs/compare_with_lineup?club_home_name=Arsenal", `{"home_team":{},"away_team":{}}`},
		{"invalid json", "/clubs/compare_with_lineup?club_home_name=Arsenal&club_away_name=Chelsea", `{"home_team":`},
		{"missing side", "/clubs/compare_with_lineup?club_home_name=Arsenal&club_away_name=Chelsea", `{"home_team":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			w := f.do(http.MethodPost, tt.target, tt.body, true)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 0, f.service.CompareCalls)
		})
	}
}

func TestGetOdds(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/odds/odds/soccer_epl?bookmakers=bet365,%20Unibet&allMatches=true", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"bet365", "Unibet"}, f.service.GotBooks)
	assert.True(t, f.service.GotAll)

	var matches []models.Match
	require.NoError(t, json.NewDecoder(w.Body).Decode(&matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "soccer_epl", matches[0].SportKey)

	w = f.do(http.MethodGet, "/odds/odds/soccer_epl", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.service.GotAll)

	w = f.do(http.MethodGet, "/odds/odds/soccer_epl", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMatchOdds(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/odds/odds/soccer_epl/matches/e1", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	f.service.MatchErr = models.ErrMatchNotFound
	w = f.do(http.MethodGet, "/odds/odds/soccer_epl/matches/nope", "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClubPassThrough(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/clubs/search/Arsenal?page_number=2", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var search models.ClubSearchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&search))
	assert.Equal(t, 2, search.PageNumber)

	w = f.do(http.MethodGet, "/clubs/11/profile", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"11"}`, w.Body.String())

	w = f.do(http.MethodGet, "/clubs/11/stadium", "", false)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = f.do(http.MethodGet, "/clubs/search/Arsenal/injured", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Knee injury")
}

func TestMetricsEndpoint(t *testing.T) {
	f := setup(t)

	f.do(http.MethodGet, "/health", "", false)
	w := f.do(http.MethodGet, "/metrics", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "janus_http_requests_total")
}
