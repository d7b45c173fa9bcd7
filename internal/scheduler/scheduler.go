// Package scheduler keeps the odds cache warm for registered competitions.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/XavierBriggs/Janus/internal/registry"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/models"
)

// Refresher refetches a competition's odds and overwrites its cache entry
type Refresher interface {
	Refresh(ctx context.Context, competition string) ([]models.Match, error)
}

// Scheduler refreshes each competition on its own warm interval
type Scheduler struct {
	refresher Refresher
	registry  *registry.CompetitionRegistry
	only      map[string]bool
	jitter    int
	logger    *slog.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithCompetitions restricts warming to the given sport keys
func WithCompetitions(keys ...string) Option {
	return func(s *Scheduler) {
		if len(keys) == 0 {
			return
		}
		s.only = make(map[string]bool, len(keys))
		for _, k := range keys {
			s.only[k] = true
		}
	}
}

// WithJitter adds up to seconds of random delay to each interval
func WithJitter(seconds int) Option {
	return func(s *Scheduler) { s.jitter = seconds }
}

// NewScheduler creates a new cache warmer
func NewScheduler(refresher Refresher, reg *registry.CompetitionRegistry, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		refresher: refresher,
		registry:  reg,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins warming every selected competition
func (s *Scheduler) Start(ctx context.Context) error {
	var selected []contracts.CompetitionModule
	for _, comp := range s.registry.GetAll() {
		if s.only != nil && !s.only[comp.GetSportKey()] {
			continue
		}
		if comp.GetWarmInterval() <= 0 {
			continue
		}
		selected = append(selected, comp)
	}
	if len(selected) == 0 {
		return fmt.Errorf("no competitions to warm")
	}

	for _, comp := range selected {
		s.wg.Add(1)
		go func(comp contracts.CompetitionModule) {
			defer s.wg.Done()
			s.warm(ctx, comp)
		}(comp)

		s.logger.Info("warming competition",
			"competition", comp.GetSportKey(),
			"interval", comp.GetWarmInterval())
	}

	return nil
}

// Stop waits for every warm loop to exit
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

// warm refreshes a competition immediately, then once per interval
func (s *Scheduler) warm(ctx context.Context, comp contracts.CompetitionModule) {
	s.refresh(ctx, comp)

	ticker := time.NewTicker(addJitter(comp.GetWarmInterval(), s.jitter))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh(ctx, comp)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context, comp contracts.CompetitionModule) {
	start := time.Now()
	matches, err := s.refresher.Refresh(ctx, comp.GetSportKey())
	if err != nil {
		s.logger.Warn("warm refresh failed", "competition", comp.GetSportKey(), "error", err)
		return
	}
	s.logger.Debug("warm refresh complete",
		"competition", comp.GetSportKey(),
		"matches", len(matches),
		"duration", time.Since(start))
}

// addJitter adds random jitter to prevent synchronization
func addJitter(duration time.Duration, jitterSeconds int) time.Duration {
	if jitterSeconds <= 0 {
		return duration
	}

	jitter := time.Duration(rand.Intn(jitterSeconds)) * time.Second
	return duration + jitter
}
