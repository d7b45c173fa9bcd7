// Package comparison pairs two squads position by position and compares
// player market values.
package comparison

import (
	"context"
	"log/slog"

	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/pkg/marketvalue"
	"github.com/XavierBriggs/Janus/pkg/models"
	"golang.org/x/sync/errgroup"
)

// PositionGroup is the ordered set of players at one position
type PositionGroup struct {
	Position string
	Players  []models.Player
}

// Engine compares squads
type Engine struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewEngine creates a comparison engine
func NewEngine(logger *slog.Logger, m *metrics.Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, metrics: m}
}

// FilterByLineup keeps players whose jersey number appears in lineup
// Source order is preserved and only the first player per jersey number is kept.
// A nil lineup keeps every player.
func FilterByLineup(players []models.Player, lineup map[string]string) []models.Player {
	if lineup == nil {
		return players
	}

	seen := make(map[string]bool, len(lineup))
	out := make([]models.Player, 0, len(lineup))
	for _, p := range players {
		if _, ok := lineup[p.JerseyNumber]; !ok || seen[p.JerseyNumber] {
			continue
		}
		seen[p.JerseyNumber] = true
		out = append(out, p)
	}
	return out
}

// GroupByPosition groups players by position in first-seen order
func GroupByPosition(players []models.Player) []PositionGroup {
	index := make(map[string]int)
	var groups []PositionGroup
	for _, p := range players {
		i, ok := index[p.Position]
		if !ok {
			i = len(groups)
			index[p.Position] = i
			groups = append(groups, PositionGroup{Position: p.Position})
		}
		groups[i].Players = append(groups[i].Players, p)
	}
	return groups
}

// Compare produces comparison records for the union of positions of both squads
// Positions follow the home squad's first-seen order, then positions only the away squad has
func (e *Engine) Compare(ctx context.Context, home, away []models.Player) ([]models.ComparisonRecord, error) {
	homeGroups := GroupByPosition(home)
	awayGroups := GroupByPosition(away)

	awayByPos := make(map[string][]models.Player, len(awayGroups))
	for _, g := range awayGroups {
		awayByPos[g.Position] = g.Players
	}

	type pair struct {
		position   string
		home, away []models.Player
	}

	var positions []pair
	covered := make(map[string]bool)
	for _, g := range homeGroups {
		positions = append(positions, pair{g.Position, g.Players, awayByPos[g.Position]})
		covered[g.Position] = true
	}
	for _, g := range awayGroups {
		if !covered[g.Position] {
			positions = append(positions, pair{g.Position, nil, g.Players})
		}
	}

	results := make([][]models.ComparisonRecord, len(positions))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range positions {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.comparePosition(p.position, p.home, p.away)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]models.ComparisonRecord, 0, len(home)*2)
	for _, r := range results {
		records = append(records, r...)
	}
	return records, nil
}

func (e *Engine) comparePosition(position string, home, away []models.Player) []models.ComparisonRecord {
	switch {
	case len(home) > 0 && len(away) > 0:
		homeVals := e.values(home)
		awayVals := e.values(away)

		records := make([]models.ComparisonRecord, 0, len(home)*len(away))
		for i, hp := range home {
			for j, ap := range away {
				hv, av := homeVals[i], awayVals[j]
				records = append(records, models.ComparisonRecord{
					Position:   position,
					HomePlayer: compared(hp, hv),
					AwayPlayer: compared(ap, av),
					HomeValue:  ptr(hv),
					AwayValue:  ptr(av),
					Result:     verdict(hv, av),
				})
			}
		}
		return records

	case len(home) > 0:
		vals := e.values(home)
		records := make([]models.ComparisonRecord, len(home))
		for i, hp := range home {
			records[i] = models.ComparisonRecord{
				Position:   position,
				HomePlayer: compared(hp, vals[i]),
				HomeValue:  ptr(vals[i]),
				Result:     models.ResultHomeOnly,
			}
		}
		return records

	case len(away) > 0:
		vals := e.values(away)
		records := make([]models.ComparisonRecord, len(away))
		for i, ap := range away {
			records[i] = models.ComparisonRecord{
				Position:   position,
				AwayPlayer: compared(ap, vals[i]),
				AwayValue:  ptr(vals[i]),
				Result:     models.ResultAwayOnly,
			}
		}
		return records
	}

	// Unreachable from Compare: every position comes from at least one squad
	return []models.ComparisonRecord{{Position: position, Result: models.ResultNoPlayers}}
}

// values parses market values once per player, degrading failures to 0
func (e *Engine) values(players []models.Player) []float64 {
	out := make([]float64, len(players))
	for i, p := range players {
		v, err := marketvalue.Parse(p.MarketValue)
		if err != nil {
			e.logger.Warn("unparseable market value, using 0",
				"player", p.Name, "market_value", p.MarketValue, "error", err)
			e.metrics.ParseFailed()
			v = 0
		}
		out[i] = v
	}
	return out
}

func verdict(home, away float64) models.ComparisonOutcome {
	switch {
	case home > away:
		return models.ResultHomeHigher
	case home < away:
		return models.ResultAwayHigher
	default:
		return models.ResultEqual
	}
}

func compared(p models.Player, value float64) *models.ComparedPlayer {
	return &models.ComparedPlayer{Name: p.Name, JerseyNumber: p.JerseyNumber, MarketValue: value}
}

func ptr(v float64) *float64 { return &v }

// Totals sums the market value of the distinct players on each side and formats it
func Totals(records []models.ComparisonRecord) (home, away string) {
	var homeSum, awaySum float64
	seenHome := make(map[string]bool)
	seenAway := make(map[string]bool)

	for _, r := range records {
		if r.HomePlayer != nil {
			k := r.HomePlayer.JerseyNumber + "|" + r.HomePlayer.Name
			if !seenHome[k] {
				seenHome[k] = true
				homeSum += r.HomePlayer.MarketValue
			}
		}
		if r.AwayPlayer != nil {
			k := r.AwayPlayer.JerseyNumber + "|" + r.AwayPlayer.Name
			if !seenAway[k] {
				seenAway[k] = true
				awaySum += r.AwayPlayer.MarketValue
			}
		}
	}
	return marketvalue.Format(homeSum), marketvalue.Format(awaySum)
}
