package snapshot

import (
	"context"
	"time"

	"server/internal/domain"
	"server/internal/infra"
)

// triggers is the service surface the scheduler drives.
type triggers interface {
	RefreshCache(ctx context.Context) (*domain.Snapshot, error)
	PersistCurrent(ctx context.Context) (int64, error)
}

// SchedulerOptions sets the timing of the background capture loops.
type SchedulerOptions struct {
	StartupDelay    time.Duration
	FetchInterval   time.Duration
	PersistInterval time.Duration
	Logger          infra.Logger
}

// Scheduler drives periodic cache refreshes and the coarser persistence
// cadence. It owns no state of its own; every trigger goes through the
// service, which serializes overlapping cycles.
type Scheduler struct {
	svc             triggers
	startupDelay    time.Duration
	fetchInterval   time.Duration
	persistInterval time.Duration
	logger          infra.Logger
}

// NewScheduler builds a scheduler over the given service.
func NewScheduler(svc triggers, opts SchedulerOptions) *Scheduler {
	fetch := opts.FetchInterval
	if fetch <= 0 {
		fetch = 15 * time.Minute
	}
	persist := opts.PersistInterval
	if persist <= 0 {
		persist = 24 * time.Hour
	}
	return &Scheduler{
		svc:             svc,
		startupDelay:    opts.StartupDelay,
		fetchInterval:   fetch,
		persistInterval: persist,
		logger:          opts.Logger,
	}
}

// Run blocks until ctx is cancelled. After the startup delay it performs an
// initial refresh and persist, then ticks both loops independently.
func (s *Scheduler) Run(ctx context.Context) {
	if s.startupDelay > 0 {
		timer := time.NewTimer(s.startupDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	s.refresh(ctx)
	s.persist(ctx)

	fetchTicker := time.NewTicker(s.fetchInterval)
	defer fetchTicker.Stop()
	persistTicker := time.NewTicker(s.persistInterval)
	defer persistTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fetchTicker.C:
			s.refresh(ctx)
		case <-persistTicker.C:
			s.persist(ctx)
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	snap, err := s.svc.RefreshCache(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error().Err(err).Msg("scheduled refresh failed")
		}
		return
	}
	s.logger.Info().
		Int("games", len(snap.Games)).
		Int("groups", len(snap.Groups)).
		Bool("fallback", snap.IsFallback).
		Msg("cache refreshed")
}

func (s *Scheduler) persist(ctx context.Context) {
	if _, err := s.svc.PersistCurrent(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error().Err(err).Msg("scheduled persist failed")
	}
}
