// Package lineups is an HTTP client for the live-score lineup service.
package lineups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/XavierBriggs/Janus/adapters/internal/upstream"
	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/models"
)

const (
	timeout     = 30 * time.Second
	serviceName = "lineups"
)

// teamAliases maps common club names to the short form the lineup service indexes
var teamAliases = map[string]string{
	"atletico madrid":          "atl. madrid",
	"athletic bilbao":          "ath bilbao",
	"borussia monchengladbach": "b. monchengladbach",
	"atletico tucuman":         "atl. tucuman",
}

// NormalizeTeamName lowercases a team name and applies known aliases
func NormalizeTeamName(team string) string {
	name := strings.ToLower(strings.TrimSpace(team))
	if alias, ok := teamAliases[name]; ok {
		return alias
	}
	return name
}

// Client implements contracts.LineupSource
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

var _ contracts.LineupSource = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a lineup client rooted at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type matchSummary struct {
	ID       string `json:"id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

type searchResponse struct {
	Matches []matchSummary `json:"matches"`
}

// FindMatchID returns the id of the fixture hosted by homeTeam
// Prefers a match whose home side contains the name; otherwise the first result
func (c *Client) FindMatchID(ctx context.Context, homeTeam string) (string, error) {
	team := NormalizeTeamName(homeTeam)

	params := url.Values{}
	params.Set("team", team)

	body, err := c.get(ctx, "/matches/search?"+params.Encode())
	if err != nil {
		return "", fmt.Errorf("find match for %q: %w", homeTeam, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &models.UpstreamError{Service: serviceName, Message: "malformed search response", Err: err}
	}

	if len(resp.Matches) == 0 {
		return "", fmt.Errorf("find match for %q: %w", homeTeam, models.ErrMatchNotFound)
	}

	for _, m := range resp.Matches {
		if strings.Contains(strings.ToLower(m.HomeTeam), team) {
			return m.ID, nil
		}
	}
	return resp.Matches[0].ID, nil
}

// Lineups returns the starting lineups of a match
func (c *Client) Lineups(ctx context.Context, matchID string) (*models.Lineups, error) {
	body, err := c.get(ctx, "/matches/"+url.PathEscape(matchID)+"/lineups")
	if err != nil {
		return nil, fmt.Errorf("lineups for match %s: %w", matchID, err)
	}

	var lineups models.Lineups
	if err := json.Unmarshal(body, &lineups); err != nil {
		return nil, &models.UpstreamError{Service: serviceName, Message: "malformed lineups response", Err: err}
	}
	if lineups.HomeTeam == nil {
		lineups.HomeTeam = map[string]string{}
	}
	if lineups.AwayTeam == nil {
		lineups.AwayTeam = map[string]string{}
	}
	return &lineups, nil
}

// get maps a 404 to models.ErrMatchNotFound
func (c *Client) get(ctx context.Context, pathAndQuery string) ([]byte, error) {
	body, err := upstream.Get(ctx, c.httpClient, c.metrics, serviceName, c.baseURL+pathAndQuery)
	var upErr *models.UpstreamError
	if errors.As(err, &upErr) && upErr.StatusCode == http.StatusNotFound {
		return nil, models.ErrMatchNotFound
	}
	return body, err
}
