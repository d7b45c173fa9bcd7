// Package odds fetches competition odds and turns them into fair prices.
package odds

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XavierBriggs/Janus/internal/cache"
	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/internal/registry"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/models"
)

// Fetcher reads competition odds through the cache
type Fetcher struct {
	provider contracts.OddsProvider
	cache    contracts.CacheStore
	registry *registry.CompetitionRegistry
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewFetcher creates an odds fetcher
func NewFetcher(provider contracts.OddsProvider, store contracts.CacheStore, reg *registry.CompetitionRegistry, logger *slog.Logger, m *metrics.Metrics) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		provider: provider,
		cache:    store,
		registry: reg,
		logger:   logger,
		metrics:  m,
	}
}

// Competition returns the settings for a competition key
func (f *Fetcher) Competition(competition string) (contracts.CompetitionModule, error) {
	return f.registry.Resolve(competition)
}

// Matches returns the provider's match list for a competition, from cache when fresh
func (f *Fetcher) Matches(ctx context.Context, competition string) ([]models.Match, error) {
	var matches []models.Match
	found, err := cache.GetJSON(ctx, f.cache, cache.OddsKey(competition), &matches)
	if err != nil {
		return nil, fmt.Errorf("odds cache: %w", err)
	}
	f.metrics.CacheLookup("odds", found)
	if found {
		return matches, nil
	}

	return f.Refresh(ctx, competition)
}

// Refresh fetches from the provider and overwrites the cache entry
// Nothing is cached when the provider fails
func (f *Fetcher) Refresh(ctx context.Context, competition string) ([]models.Match, error) {
	module, err := f.Competition(competition)
	if err != nil {
		return nil, err
	}

	matches, err := f.provider.FetchOdds(ctx, &models.FetchOddsOptions{
		Sport:   module.GetSportKey(),
		Regions: module.GetRegions(),
		Markets: module.GetMarkets(),
	})
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []models.Match{}
	}

	if err := cache.SetJSON(ctx, f.cache, cache.OddsKey(competition), matches, cache.OddsTTL); err != nil {
		return nil, fmt.Errorf("odds cache: %w", err)
	}

	remaining := -1
	if limits := f.provider.GetRateLimits(); limits != nil {
		remaining = limits.RequestsRemaining
	}
	f.logger.Debug("fetched odds",
		"competition", competition,
		"matches", len(matches),
		"requests_remaining", remaining)

	return matches, nil
}
