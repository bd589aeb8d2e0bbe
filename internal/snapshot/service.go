package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"server/internal/domain"
	"server/internal/infra"
)

// assembler is the capture side of the pipeline as the service sees it.
type assembler interface {
	Assemble(ctx context.Context, games []domain.ActiveGame, groups []domain.ActiveGroup) *domain.Snapshot
	Fallback(games []domain.ActiveGame, groups []domain.ActiveGroup) *domain.Snapshot
}

// Service coordinates capture cycles, the in-memory cache and the durable
// store. At most one capture cycle runs at a time; concurrent triggers
// coalesce onto the in-flight cycle and share its result.
type Service struct {
	assembler assembler
	cache     *Cache
	store     domain.SnapshotRepository
	config    domain.ConfigRepository
	logger    infra.Logger

	mu       sync.Mutex
	inflight *cycleRun
}

type cycleRun struct {
	done chan struct{}
	snap *domain.Snapshot
	err  error
}

// NewService wires the pipeline together.
func NewService(a assembler, cache *Cache, store domain.SnapshotRepository, config domain.ConfigRepository, logger infra.Logger) *Service {
	return &Service{
		assembler: a,
		cache:     cache,
		store:     store,
		config:    config,
		logger:    logger,
	}
}

// runCycle executes one capture cycle, or joins the cycle already in flight
// and returns its result.
func (s *Service) runCycle(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	if run := s.inflight; run != nil {
		s.mu.Unlock()
		select {
		case <-run.done:
			return run.snap, run.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	run := &cycleRun{done: make(chan struct{})}
	s.inflight = run
	s.mu.Unlock()

	snap, err := s.assembleOnce(ctx)

	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()
	run.snap = snap
	run.err = err
	close(run.done)
	return snap, err
}

func (s *Service) assembleOnce(ctx context.Context) (*domain.Snapshot, error) {
	games, gamesErr := s.config.ActiveGames(ctx)
	groups, groupsErr := s.config.ActiveGroups(ctx)
	if gamesErr != nil && groupsErr != nil {
		// With no configuration at all the cycle still yields a well-formed
		// snapshot; consumers branch on IsFallback, never on a raised error.
		s.logger.Error().Err(gamesErr).AnErr("groups_error", groupsErr).Msg("active configuration unreadable, producing fallback snapshot")
		return s.assembler.Fallback(nil, nil), nil
	}
	if gamesErr != nil {
		s.logger.Error().Err(gamesErr).Msg("active games unavailable, capturing groups only")
		games = nil
	}
	if groupsErr != nil {
		s.logger.Error().Err(groupsErr).Msg("active groups unavailable, capturing games only")
		groups = nil
	}
	return s.assembler.Assemble(ctx, games, groups), nil
}

// RefreshCache runs a cycle and installs the result in the cache. A fallback
// snapshot never overwrites previously cached live data.
func (s *Service) RefreshCache(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.runCycle(ctx)
	if err != nil {
		return nil, err
	}
	if _, populated := s.cache.Age(); !snap.IsFallback || !populated {
		s.cache.Set(snap)
	}
	return snap, nil
}

// ForceRefresh is the manual trigger. On top of a scheduled refresh it also
// persists the fresh snapshot before returning, so the caller sees the same
// data in cache and store. A concurrent scheduled cycle is joined rather
// than duplicated, and a persistence failure does not invalidate the
// refreshed cache.
func (s *Service) ForceRefresh(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.RefreshCache(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.IsFallback {
		if id, err := s.store.Insert(ctx, snap); err != nil {
			s.logger.Error().Err(err).Msg("manual refresh persisted to cache only")
		} else {
			s.logger.Info().Int64("log_id", id).Msg("manual refresh persisted")
		}
	}
	return snap, nil
}

// PersistCurrent writes the current snapshot to the durable store, running a
// fresh cycle if the cache is stale. Fallback snapshots are not persisted;
// the store holds real observations only.
func (s *Service) PersistCurrent(ctx context.Context) (int64, error) {
	snap := s.cache.Get()
	if snap == nil {
		var err error
		snap, err = s.RefreshCache(ctx)
		if err != nil {
			return 0, err
		}
	}
	if snap.IsFallback {
		return 0, errors.New("persist skipped: no live data")
	}
	id, err := s.store.Insert(ctx, snap)
	if err != nil {
		return 0, fmt.Errorf("persist snapshot: %w", err)
	}
	s.logger.Info().Int64("log_id", id).Time("captured_at", snap.CapturedAt).Msg("snapshot persisted")
	return id, nil
}

// Latest serves the freshest snapshot available: the cache when fresh, the
// durable store otherwise. A store hit repopulates the cache so subsequent
// reads stay in memory.
func (s *Service) Latest(ctx context.Context) (*domain.Snapshot, error) {
	if snap := s.cache.Get(); snap != nil {
		return snap, nil
	}
	snap, err := s.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoData
		}
		return nil, err
	}
	s.cache.Set(snap)
	return snap, nil
}

// Recent returns up to limit persisted snapshots, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	return s.store.Recent(ctx, limit)
}

// Range returns persisted snapshots captured inside [from, to], newest first.
func (s *Service) Range(ctx context.Context, from, to time.Time) ([]*domain.Snapshot, error) {
	return s.store.Range(ctx, from, to)
}

// GameSeries returns one game's historical series, oldest first.
func (s *Service) GameSeries(ctx context.Context, universeID int64, from, to time.Time) ([]domain.GamePoint, error) {
	return s.store.GameSeries(ctx, universeID, from, to)
}

// GroupSeries returns one group's historical series, oldest first.
func (s *Service) GroupSeries(ctx context.Context, groupID int64, from, to time.Time) ([]domain.GroupPoint, error) {
	return s.store.GroupSeries(ctx, groupID, from, to)
}

// RevenueSeries returns one game's derived revenue series, oldest first.
func (s *Service) RevenueSeries(ctx context.Context, universeID int64, from, to time.Time) ([]domain.RevenuePoint, error) {
	return s.store.RevenueSeries(ctx, universeID, from, to)
}

// CacheStatus reports the cache slot's age for health checks. ok is false
// when nothing has been cached since startup.
func (s *Service) CacheStatus() (time.Duration, bool) {
	return s.cache.Age()
}
