package clubdata

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
	mux.HandleFunc("/clubs/search/Arsenal", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page_number"))
		w.Write([]byte(`{"query":"Arsenal","pageNumber":2,"lastPageNumber":3,"results":[{"id":"11","name":"Arsenal FC","country":"England"}]}`))
	})
	mux.HandleFunc("/clubs/11/players", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024", r.URL.Query().Get("season_id"))
		w.Write([]byte(`{"id":"11","players":[{"id":"1","name":"David Raya","jersey_number":"22","position":"Goalkeeper","marketValue":"€35.00m","status":"Team captain"}]}`))
	})
	mux.HandleFunc("/clubs/11/profile", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"11","name":"Arsenal FC","stadiumSeats":60704}`))
	})
	mux.HandleFunc("/clubs/11/stadium", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})
	mux.HandleFunc("/clubs/99/players", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchClubs(t *testing.T) {
	client := NewClient(newServer(t).URL)

	resp, err := client.SearchClubs(context.Background(), "Arsenal", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.LastPage)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "11", resp.Results[0].ID)
	assert.Equal(t, "Arsenal FC", resp.Results[0].Name)
}

func TestClubPlayers(t *testing.T) {
	client := NewClient(newServer(t).URL)

	roster, err := client.ClubPlayers(context.Background(), "11", "2024")
	require.NoError(t, err)
	require.Len(t, roster.Players, 1)

	p := roster.Players[0]
	assert.Equal(t, "David Raya", p.Name)
	assert.Equal(t, "22", p.JerseyNumber)
	assert.Equal(t, "€35.00m", p.MarketValue)
	assert.Equal(t, "Team captain", p.Status)
}

func TestClubPlayers_NotFound(t *testing.T) {
	client := NewClient(newServer(t).URL)

	_, err := client.ClubPlayers(context.Background(), "99", "")
	var upErr *models.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusNotFound, upErr.StatusCode)
}

func TestDocuments(t *testing.T) {
	client := NewClient(newServer(t).URL)

	profile, err := client.ClubProfile(context.Background(), "11")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"11","name":"Arsenal FC","stadiumSeats":60704}`, string(profile))

	_, err = client.ClubStadium(context.Background(), "11")
	var upErr *models.UpstreamError
	assert.ErrorAs(t, err, &upErr)
}

func TestUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.SearchClubs(context.Background(), "Arsenal", 0)
	var upErr *models.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, 0, upErr.StatusCode)
}
