// Package upstream holds the GET helper shared by the JSON service clients.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/pkg/models"
)

// UserAgent is sent on every upstream request
const UserAgent = "Janus/1.0 (club comparison and odds)"

// Get fetches rawURL and returns the body of a 200 response
// Any other outcome is a *models.UpstreamError tagged with service
func Get(ctx context.Context, httpClient *http.Client, m *metrics.Metrics, service, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		m.Upstream(service, 0, time.Since(start))
		return nil, &models.UpstreamError{Service: service, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()
	m.Upstream(service, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.UpstreamError{Service: service, StatusCode: resp.StatusCode, Message: "read body", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &models.UpstreamError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
