// Package clubdata is an HTTP client for the club directory and roster service.
package clubdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/Janus/adapters/internal/upstream"
	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/models"
)

const (
	timeout     = 15 * time.Second
	serviceName = "clubdata"
)

// Client implements contracts.ClubDataSource
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

var _ contracts.ClubDataSource = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithMetrics records upstream calls
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client rooted at baseURL (e.g. "http://127.0.0.1:9000")
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

// SearchClubs queries the directory by name; page <= 0 means the first page
func (c *Client) SearchClubs(ctx context.Context, name string, page int) (*models.ClubSearchResponse, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page_number", strconv.Itoa(page))
	}

	body, err := c.get(ctx, "/clubs/search/"+url.PathEscape(name), params)
	if err != nil {
		return nil, fmt.Errorf("search clubs %q: %w", name, err)
	}

	var resp models.ClubSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, c.decodeError("search", err)
	}
	return &resp, nil
}

// ClubPlayers returns the roster of a club, optionally for a season
func (c *Client) ClubPlayers(ctx context.Context, clubID, seasonID string) (*models.Roster, error) {
	params := url.Values{}
	if seasonID != "" {
		params.Set("season_id", seasonID)
	}

	body, err := c.get(ctx, "/clubs/"+url.PathEscape(clubID)+"/players", params)
	if err != nil {
		return nil, fmt.Errorf("club players %s: %w", clubID, err)
	}

	var roster models.Roster
	if err := json.Unmarshal(body, &roster); err != nil {
		return nil, c.decodeError("players", err)
	}
	return &roster, nil
}

// ClubProfile returns the club's profile document as received
func (c *Client) ClubProfile(ctx context.Context, clubID string) (json.RawMessage, error) {
	return c.document(ctx, clubID, "profile")
}

// ClubStadium returns the club's stadium document as received
func (c *Client) ClubStadium(ctx context.Context, clubID string) (json.RawMessage, error) {
	return c.document(ctx, clubID, "stadium")
}

// ClubStaffs returns the club's staff list as received
func (c *Client) ClubStaffs(ctx context.Context, clubID string) (json.RawMessage, error) {
	return c.document(ctx, clubID, "staffs")
}

// document fetches a pass-through document, checking only that it is JSON
func (c *Client) document(ctx context.Context, clubID, kind string) (json.RawMessage, error) {
	body, err := c.get(ctx, "/clubs/"+url.PathEscape(clubID)+"/"+kind, nil)
	if err != nil {
		return nil, fmt.Errorf("club %s %s: %w", kind, clubID, err)
	}
	if !json.Valid(body) {
		return nil, &models.UpstreamError{Service: serviceName, Message: "malformed " + kind + " response"}
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	return upstream.Get(ctx, c.httpClient, c.metrics, serviceName, fullURL)
}

func (c *Client) decodeError(what string, err error) error {
	return &models.UpstreamError{Service: serviceName, Message: "malformed " + what + " response", Err: err}
}
