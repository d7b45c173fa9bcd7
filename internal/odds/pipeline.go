package odds

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/models"
	"github.com/XavierBriggs/Janus/pkg/oddsmath"
)

// Pipeline runs fetch -> window -> extract -> devig -> export
type Pipeline struct {
	fetcher  *Fetcher
	sink     contracts.ExportSink
	devigger *Devigger
	logger   *slog.Logger
	now      func() time.Time
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithClock overrides the clock used for windows
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// WithMethod selects the devig method
func WithMethod(method oddsmath.Method) PipelineOption {
	return func(p *Pipeline) { p.devigger.Method = method }
}

// NewPipeline creates an odds pipeline; sink may be nil
func NewPipeline(fetcher *Fetcher, sink contracts.ExportSink, logger *slog.Logger, m *metrics.Metrics, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		fetcher: fetcher,
		sink:    sink,
		devigger: &Devigger{
			Method:  oddsmath.MethodShin,
			Stake:   oddsmath.DefaultStake,
			Logger:  logger,
			Metrics: m,
		},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run returns fair-priced matches for a competition
// The reference bookmaker is always part of the selection
func (p *Pipeline) Run(ctx context.Context, query models.OddsQuery) ([]models.Match, error) {
	module, err := p.fetcher.Competition(query.Competition)
	if err != nil {
		return nil, err
	}

	matches, err := p.fetcher.Matches(ctx, query.Competition)
	if err != nil {
		return nil, err
	}

	window := WindowHour
	if query.AllMatches {
		window = WindowDay
	}

	reference := module.GetReferenceBookmaker()
	selected := FilterByWindow(clone(matches), window, p.now())
	selected = ExtractBookmakers(selected, query.Bookmakers, reference)
	selected = p.devigger.RemoveVig(selected, reference)

	p.export(ctx, query.Competition, selected)
	return selected, nil
}

// Match returns one match priced by the reference bookmaker only, ignoring windows
func (p *Pipeline) Match(ctx context.Context, competition, matchID string) (*models.Match, error) {
	module, err := p.fetcher.Competition(competition)
	if err != nil {
		return nil, err
	}

	matches, err := p.fetcher.Matches(ctx, competition)
	if err != nil {
		return nil, err
	}

	for _, m := range matches {
		if m.ID != matchID {
			continue
		}

		reference := module.GetReferenceBookmaker()
		extracted := ExtractBookmakers([]models.Match{m.Clone()}, nil, reference)
		if len(extracted) == 0 {
			// Known match, but the reference bookmaker has no h2h prices for it
			return &models.Match{
				ID:           m.ID,
				SportKey:     m.SportKey,
				HomeTeam:     m.HomeTeam,
				AwayTeam:     m.AwayTeam,
				CommenceTime: m.CommenceTime,
				Bookmakers:   []models.Bookmaker{},
			}, nil
		}

		priced := p.devigger.RemoveVig(extracted, reference)
		return &priced[0], nil
	}

	return nil, fmt.Errorf("match %s in %s: %w", matchID, competition, models.ErrMatchNotFound)
}

func (p *Pipeline) export(ctx context.Context, competition string, matches []models.Match) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Export(ctx, contracts.ExportKindOdds, competition, matches); err != nil {
		p.logger.Warn("odds export failed", "competition", competition, "error", err)
	}
}

func clone(matches []models.Match) []models.Match {
	out := make([]models.Match, len(matches))
	for i, m := range matches {
		out[i] = m.Clone()
	}
	return out
}
