package lineups

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/XavierBriggs/Janus/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/matches/search", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("team") {
		case "arsenal":
			w.Write([]byte(`{"matches":[
				{"id":"m0","home_team":"Chelsea","away_team":"Arsenal"},
				{"id":"m1","home_team":"Arsenal","away_team":"Chelsea"}
			]}`))
		case "atl. madrid":
			w.Write([]byte(`{"matches":[{"id":"m2","home_team":"Atl. Madrid","away_team":"Sevilla"}]}`))
		default:
			w.Write([]byte(`{"matches":[]}`))
		}
	})
	mux.HandleFunc("/matches/m1/lineups", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"home_team":{"1":"David","7":"Bukayo"},"away_team":{"10":"Cole"}}`))
	})
	mux.HandleFunc("/matches/empty/lineups", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFindMatchID(t *testing.T) {
	client := NewClient(newServer(t).URL)

	id, err := client.FindMatchID(context.Background(), "Arsenal")
	require.NoError(t, err)
	assert.Equal(t, "m1", id, "prefers the fixture hosted by the team")

	id, err = client.FindMatchID(context.Background(), "Atletico Madrid")
	require.NoError(t, err)
	assert.Equal(t, "m2", id)
}

func TestFindMatchID_NoFixture(t *testing.T) {
	client := NewClient(newServer(t).URL)

	_, err := client.FindMatchID(context.Background(), "Nobody FC")
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestLineups(t *testing.T) {
	client := NewClient(newServer(t).URL)

	lineups, err := client.Lineups(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "David", "7": "Bukayo"}, lineups.HomeTeam)
	assert.Equal(t, map[string]string{"10": "Cole"}, lineups.AwayTeam)

	empty, err := client.Lineups(context.Background(), "empty")
	require.NoError(t, err)
	assert.NotNil(t, empty.HomeTeam)
	assert.NotNil(t, empty.AwayTeam)
}

func TestLineups_UnknownMatch(t *testing.T) {
	client := NewClient(newServer(t).URL)

	_, err := client.Lineups(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestNormalizeTeamName(t *testing.T) {
	tests := map[string]string{
		"Atletico Madrid":           "atl. madrid",
		"  Borussia Monchengladbach": "b. monchengladbach",
		"Arsenal":                   "arsenal",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTeamName(in), in)
	}
}
