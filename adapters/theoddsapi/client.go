package theoddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/models"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com"
	apiVersion     = "v4"
	userAgent      = "Janus/1.0 (club comparison and odds)"
	timeout        = 10 * time.Second
	serviceName    = "theoddsapi"
)

// Client implements the OddsProvider interface for The Odds API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *metrics.Metrics

	rateLimits *models.RateLimits
	mu         sync.RWMutex
}

// Ensure Client implements OddsProvider
var _ contracts.OddsProvider = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another host (tests, proxies)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithRateLimit caps outbound requests per second (burst 1)
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger used for dropped records
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics records upstream calls
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a new The Odds API client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		logger:  slog.Default(),
		rateLimits: &models.RateLimits{
			RequestsRemaining: 500, // Default quota
			RequestsUsed:      0,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchOdds retrieves head-to-head odds in decimal format for a competition
func (c *Client) FetchOdds(ctx context.Context, opts *models.FetchOddsOptions) ([]models.Match, error) {
	if opts == nil || opts.Sport == "" {
		return nil, fmt.Errorf("fetch odds: sport is required")
	}

	endpoint := fmt.Sprintf("%s/%s/sports/%s/odds", c.baseURL, apiVersion, url.PathEscape(opts.Sport))

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", strings.Join(opts.Regions, ","))
	params.Set("markets", strings.Join(opts.Markets, ","))
	params.Set("oddsFormat", "decimal")
	params.Set("dateFormat", "iso")

	body, err := c.doRequest(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch odds failed: %w", err)
	}

	var apiResp []oddsResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, &models.UpstreamError{
			Service: serviceName,
			Message: "malformed odds response",
			Err:     err,
		}
	}

	return c.parseOddsResponse(apiResp), nil
}

// GetRateLimits returns current rate limit information
func (c *Client) GetRateLimits() *models.RateLimits {
	c.mu.RLock()
	defer c.mu.RUnlock()
	limits := *c.rateLimits
	return &limits
}

// doRequest performs a single HTTP request; there are no retries
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &models.UpstreamError{Service: serviceName, Message: "rate limiter", Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Upstream(serviceName, 0, time.Since(start))
		return nil, &models.UpstreamError{Service: serviceName, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()
	c.metrics.Upstream(serviceName, resp.StatusCode, time.Since(start))

	// Update rate limits from headers
	c.updateRateLimits(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode, Message: "read body", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &models.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}

// updateRateLimits extracts rate limit info from response headers
func (c *Client) updateRateLimits(headers http.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remaining := headers.Get("x-requests-remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimits.RequestsRemaining = val
		}
	}

	if used := headers.Get("x-requests-used"); used != "" {
		if val, err := strconv.Atoi(used); err == nil {
			c.rateLimits.RequestsUsed = val
		}
	}
}

// parseOddsResponse converts the vendor payload to matches, dropping malformed events
func (c *Client) parseOddsResponse(apiResp []oddsResponse) []models.Match {
	matches := make([]models.Match, 0, len(apiResp))

	for _, event := range apiResp {
		if event.HomeTeam == "" || event.AwayTeam == "" || event.CommenceTime == "" {
			c.logger.Warn("dropping odds record with missing fields", "event_id", event.ID)
			continue
		}

		commenceTime, err := time.Parse(time.RFC3339, event.CommenceTime)
		if err != nil {
			c.logger.Warn("dropping odds record with invalid commence time",
				"event_id", event.ID, "commence_time", event.CommenceTime)
			continue
		}

		match := models.Match{
			ID:           event.ID,
			SportKey:     event.SportKey,
			HomeTeam:     event.HomeTeam,
			AwayTeam:     event.AwayTeam,
			CommenceTime: commenceTime.UTC(),
			Bookmakers:   make([]models.Bookmaker, 0, len(event.Bookmakers)),
		}

		for _, bm := range event.Bookmakers {
			book := models.Bookmaker{
				Name:    bm.Key,
				Title:   bm.Title,
				Markets: make([]models.H2HMarket, 0, len(bm.Markets)),
			}
			for _, mk := range bm.Markets {
				market := models.H2HMarket{
					Key:      mk.Key,
					Outcomes: make([]models.Outcome, 0, len(mk.Outcomes)),
				}
				for _, o := range mk.Outcomes {
					market.Outcomes = append(market.Outcomes, models.Outcome{Name: o.Name, Price: o.Price})
				}
				book.Markets = append(book.Markets, market)
			}
			match.Bookmakers = append(match.Bookmakers, book)
		}

		matches = append(matches, match)
	}

	return matches
}

// API response structures matching The Odds API JSON format

type oddsResponse struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	LastUpdate string   `json:"last_update"`
	Markets    []market `json:"markets"`
}

type market struct {
	Key        string    `json:"key"`
	LastUpdate string    `json:"last_update"`
	Outcomes   []outcome `json:"outcomes"`
}

type outcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
