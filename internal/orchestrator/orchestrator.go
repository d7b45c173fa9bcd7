// Package orchestrator composes the club, lineup and odds components into
// the operations served over HTTP.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/XavierBriggs/Janus/internal/cache"
	"github.com/XavierBriggs/Janus/internal/clubs"
	"github.com/XavierBriggs/Janus/internal/comparison"
	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/internal/odds"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/models"
	"golang.org/x/sync/errgroup"
)

// CaptainStatus marks roster entries that are not absences
const CaptainStatus = "Team captain"

// Orchestrator serves compareLineups, getOdds and the club pass-through operations
type Orchestrator struct {
	directory *clubs.Directory
	engine    *comparison.Engine
	pipeline  *odds.Pipeline
	lineups   contracts.LineupSource
	cache     contracts.CacheStore
	sink      contracts.ExportSink
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Config holds the orchestrator's collaborators
type Config struct {
	Directory *clubs.Directory
	Engine    *comparison.Engine
	Pipeline  *odds.Pipeline
	Lineups   contracts.LineupSource
	Cache     contracts.CacheStore
	Sink      contracts.ExportSink // optional
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// New creates an orchestrator
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	engine := cfg.Engine
	if engine == nil {
		engine = comparison.NewEngine(logger, cfg.Metrics)
	}
	return &Orchestrator{
		directory: cfg.Directory,
		engine:    engine,
		pipeline:  cfg.Pipeline,
		lineups:   cfg.Lineups,
		cache:     cfg.Cache,
		sink:      cfg.Sink,
		logger:    logger,
		metrics:   cfg.Metrics,
	}
}

// CompareLineups compares the starting lineups of the match hosted by homeTeam
func (o *Orchestrator) CompareLineups(ctx context.Context, homeTeam, awayTeam string) (*models.ComparisonResult, error) {
	if result, ok, err := o.cachedComparison(ctx, homeTeam, awayTeam); err != nil || ok {
		return result, err
	}

	lineups, err := o.resolveLineups(ctx, homeTeam, awayTeam)
	if err != nil {
		return nil, err
	}

	return o.compute(ctx, homeTeam, awayTeam, lineups)
}

// CompareWithLineup compares two clubs restricted to caller-supplied lineups
// It shares the comparison cache entry with CompareLineups
func (o *Orchestrator) CompareWithLineup(ctx context.Context, homeTeam, awayTeam string, lineups *models.Lineups) (*models.ComparisonResult, error) {
	if lineups == nil {
		return nil, fmt.Errorf("lineups are required")
	}

	if result, ok, err := o.cachedComparison(ctx, homeTeam, awayTeam); err != nil || ok {
		return result, err
	}

	return o.compute(ctx, homeTeam, awayTeam, lineups)
}

func (o *Orchestrator) cachedComparison(ctx context.Context, homeTeam, awayTeam string) (*models.ComparisonResult, bool, error) {
	var records []models.ComparisonRecord
	found, err := cache.GetJSON(ctx, o.cache, cache.ComparisonKey(homeTeam, awayTeam), &records)
	if err != nil {
		return nil, false, fmt.Errorf("comparison cache: %w", err)
	}
	o.metrics.CacheLookup("comparison", found)
	if !found {
		return nil, false, nil
	}
	return newResult(homeTeam, awayTeam, records), true, nil
}

// resolveLineups reads lineups through the cache, asking the lineup source on a miss
func (o *Orchestrator) resolveLineups(ctx context.Context, homeTeam, awayTeam string) (*models.Lineups, error) {
	key := cache.LineupsKey(homeTeam, awayTeam)

	var lineups models.Lineups
	found, err := cache.GetJSON(ctx, o.cache, key, &lineups)
	if err != nil {
		return nil, fmt.Errorf("lineups cache: %w", err)
	}
	o.metrics.CacheLookup("lineups", found)
	if found {
		return &lineups, nil
	}

	matchID, err := o.lineups.FindMatchID(ctx, homeTeam)
	if err != nil {
		return nil, err
	}

	fetched, err := o.lineups.Lineups(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, o.cache, key, fetched, cache.LineupsTTL); err != nil {
		return nil, fmt.Errorf("lineups cache: %w", err)
	}
	return fetched, nil
}

// compute runs the uncached part of a comparison and stores the result
func (o *Orchestrator) compute(ctx context.Context, homeTeam, awayTeam string, lineups *models.Lineups) (*models.ComparisonResult, error) {
	homeID, awayID, err := o.resolveClubs(ctx, homeTeam, awayTeam)
	if err != nil {
		return nil, err
	}

	var homeRoster, awayRoster []models.Player
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		players, err := o.directory.Roster(gctx, homeID)
		homeRoster = players
		return err
	})
	g.Go(func() error {
		players, err := o.directory.Roster(gctx, awayID)
		awayRoster = players
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch rosters: %w", err)
	}

	home := comparison.FilterByLineup(homeRoster, lineups.HomeTeam)
	away := comparison.FilterByLineup(awayRoster, lineups.AwayTeam)

	records, err := o.engine.Compare(ctx, home, away)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, o.cache, cache.ComparisonKey(homeTeam, awayTeam), records, cache.ComparisonTTL); err != nil {
		return nil, fmt.Errorf("comparison cache: %w", err)
	}

	result := newResult(homeTeam, awayTeam, records)
	o.export(ctx, contracts.ExportKindComparison, homeTeam+":"+awayTeam, result)
	return result, nil
}

// resolveClubs resolves both club ids concurrently
// Sides the directory does not know are reported together in an UnknownTeamError
func (o *Orchestrator) resolveClubs(ctx context.Context, homeTeam, awayTeam string) (string, string, error) {
	names := [2]string{homeTeam, awayTeam}
	var ids [2]string
	var errs [2]error

	var g errgroup.Group
	for i := range names {
		i := i
		g.Go(func() error {
			id, err := o.directory.ResolveID(ctx, names[i])
			if err != nil {
				errs[i] = err
				return nil
			}
			ids[i] = id.ID
			return nil
		})
	}
	_ = g.Wait()

	unknown := &clubs.UnknownTeamError{}
	for i, side := range []string{"home", "away"} {
		if errs[i] == nil {
			continue
		}
		if !errors.Is(errs[i], clubs.ErrUnresolved) {
			return "", "", fmt.Errorf("resolve %s team: %w", side, errs[i])
		}
		unknown.Sides = append(unknown.Sides, side)
		unknown.Names = append(unknown.Names, names[i])
	}
	if len(unknown.Sides) > 0 {
		return "", "", unknown
	}
	return ids[0], ids[1], nil
}

func newResult(homeTeam, awayTeam string, records []models.ComparisonRecord) *models.ComparisonResult {
	if records == nil {
		records = []models.ComparisonRecord{}
	}
	homeTotal, awayTotal := comparison.Totals(records)
	return &models.ComparisonResult{
		HomeTeam:       homeTeam,
		AwayTeam:       awayTeam,
		HomeTotalValue: homeTotal,
		AwayTotalValue: awayTotal,
		Comparison:     records,
	}
}

// GetOdds returns fair-priced matches for a competition
// allMatches selects the whole reference-zone day instead of the next-hour window
func (o *Orchestrator) GetOdds(ctx context.Context, competition string, bookmakers []string, allMatches bool) ([]models.Match, error) {
	return o.pipeline.Run(ctx, models.OddsQuery{
		Competition: competition,
		Bookmakers:  bookmakers,
		AllMatches:  allMatches,
	})
}

// GetMatchOdds returns one match priced by the reference bookmaker
func (o *Orchestrator) GetMatchOdds(ctx context.Context, competition, matchID string) (*models.Match, error) {
	return o.pipeline.Match(ctx, competition, matchID)
}

// InjuredPlayers lists roster players carrying a status other than captaincy
func (o *Orchestrator) InjuredPlayers(ctx context.Context, clubName string) (map[string][]models.Player, error) {
	id, err := o.directory.ResolveID(ctx, clubName)
	if err != nil {
		if errors.Is(err, clubs.ErrUnresolved) {
			return nil, &clubs.UnknownTeamError{Sides: []string{"club"}, Names: []string{clubName}}
		}
		return nil, err
	}

	roster, err := o.directory.Roster(ctx, id.ID)
	if err != nil {
		return nil, err
	}

	injured := make([]models.Player, 0)
	for _, p := range roster {
		if p.Status != "" && p.Status != CaptainStatus {
			injured = append(injured, p)
		}
	}
	return map[string][]models.Player{clubName: injured}, nil
}

// SearchClubs passes a directory search through
func (o *Orchestrator) SearchClubs(ctx context.Context, name string, page int) (*models.ClubSearchResponse, error) {
	return o.directory.Search(ctx, name, page)
}

// ClubPlayers passes a roster through
func (o *Orchestrator) ClubPlayers(ctx context.Context, clubID, seasonID string) (*models.Roster, error) {
	return o.directory.Source().ClubPlayers(ctx, clubID, seasonID)
}

// ClubProfile passes a club profile document through
func (o *Orchestrator) ClubProfile(ctx context.Context, clubID string) (json.RawMessage, error) {
	return o.directory.Source().ClubProfile(ctx, clubID)
}

// ClubStadium passes a club stadium document through
func (o *Orchestrator) ClubStadium(ctx context.Context, clubID string) (json.RawMessage, error) {
	return o.directory.Source().ClubStadium(ctx, clubID)
}

// ClubStaffs passes a club staff list through
func (o *Orchestrator) ClubStaffs(ctx context.Context, clubID string) (json.RawMessage, error) {
	return o.directory.Source().ClubStaffs(ctx, clubID)
}

// Ping checks the cache store is reachable
func (o *Orchestrator) Ping(ctx context.Context) error {
	return o.cache.Ping(ctx)
}

func (o *Orchestrator) export(ctx context.Context, kind, subject string, payload any) {
	if o.sink == nil {
		return
	}
	if err := o.sink.Export(ctx, kind, subject, payload); err != nil {
		o.logger.Warn("export failed", "kind", kind, "subject", subject, "error", err)
	}
}
