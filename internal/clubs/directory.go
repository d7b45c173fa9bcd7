// Package clubs resolves club names to directory ids and fetches rosters.
package clubs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/XavierBriggs/Janus/internal/cache"
	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/models"
)

// ErrUnresolved is returned when the directory has no result for a name
var ErrUnresolved = errors.New("club not found")

// UnknownTeamError names the sides whose clubs could not be resolved
type UnknownTeamError struct {
	Sides []string // e.g. ["home"], ["home", "away"]
	Names []string
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("unknown team(s): %s (%s)", strings.Join(e.Names, ", "), strings.Join(e.Sides, ", "))
}

// Directory wraps the club-data service with a cache-aside id lookup
type Directory struct {
	source  contracts.ClubDataSource
	cache   contracts.CacheStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewDirectory creates a club directory
func NewDirectory(source contracts.ClubDataSource, store contracts.CacheStore, logger *slog.Logger, m *metrics.Metrics) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{source: source, cache: store, logger: logger, metrics: m}
}

// ResolveID returns the directory id for name
// The first result whose name contains name (case-insensitive) wins, else the first result
func (d *Directory) ResolveID(ctx context.Context, name string) (*models.ClubIdentifier, error) {
	key := cache.ClubIDKey(name)

	cached, err := d.cache.Get(ctx, key)
	switch {
	case err == nil && len(cached) > 0:
		d.metrics.CacheLookup("club_id", true)
		return &models.ClubIdentifier{Name: name, ID: string(cached)}, nil
	case err != nil && !errors.Is(err, contracts.ErrCacheMiss):
		return nil, fmt.Errorf("club id cache: %w", err)
	}
	d.metrics.CacheLookup("club_id", false)

	resp, err := d.source.SearchClubs(ctx, name, 0)
	if err != nil {
		return nil, err
	}

	id, ok := pickClub(resp.Results, name)
	if !ok {
		d.logger.Info("no club matches name", "club", name)
		return nil, fmt.Errorf("%q: %w", name, ErrUnresolved)
	}

	if err := d.cache.Set(ctx, key, []byte(id), cache.ClubIDTTL); err != nil {
		return nil, fmt.Errorf("club id cache: %w", err)
	}
	return &models.ClubIdentifier{Name: name, ID: id}, nil
}

func pickClub(results []models.ClubSearchResult, name string) (string, bool) {
	if len(results) == 0 {
		return "", false
	}
	needle := strings.ToLower(name)
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			return r.ID, true
		}
	}
	return results[0].ID, true
}

// Roster returns the current players of a club
func (d *Directory) Roster(ctx context.Context, clubID string) ([]models.Player, error) {
	roster, err := d.source.ClubPlayers(ctx, clubID, "")
	if err != nil {
		return nil, err
	}
	return roster.Players, nil
}

// Search passes a directory search through unchanged
func (d *Directory) Search(ctx context.Context, name string, page int) (*models.ClubSearchResponse, error) {
	return d.source.SearchClubs(ctx, name, page)
}

// Source exposes the underlying club-data service for pass-through documents
func (d *Directory) Source() contracts.ClubDataSource {
	return d.source
}
