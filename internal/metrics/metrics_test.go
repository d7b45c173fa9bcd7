package metrics_test

import (
	"testing"
	"time"

	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheLookup(t *testing.T) {
	m := metrics.New()

	m.CacheLookup("odds", true)
	m.CacheLookup("odds", false)
	m.CacheLookup("odds", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("odds", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("odds", "miss")))
}

func TestUpstream(t *testing.T) {
	m := metrics.New()

	m.Upstream("theoddsapi", 200, 50*time.Millisecond)
	m.Upstream("theoddsapi", 0, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("theoddsapi", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("theoddsapi", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.CacheLookup("odds", true)
		m.Upstream("clubdata", 500, time.Second)
		m.HTTP("/health", 200, time.Millisecond)
		m.RateLimitHit("/clubs/compare")
		m.DevigFailed()
		m.ParseFailed()
		_ = m.Handler()
	})
}
