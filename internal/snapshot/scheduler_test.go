package snapshot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

type fakeTriggers struct {
	refreshes atomic.Int32
	persists  atomic.Int32
}

func (f *fakeTriggers) RefreshCache(context.Context) (*domain.Snapshot, error) {
	f.refreshes.Add(1)
	return &domain.Snapshot{CapturedAt: time.Now()}, nil
}

func (f *fakeTriggers) PersistCurrent(context.Context) (int64, error) {
	f.persists.Add(1)
	return 1, nil
}

func TestSchedulerInitialCycleAndTicks(t *testing.T) {
	ft := &fakeTriggers{}
	sched := NewScheduler(ft, SchedulerOptions{
		StartupDelay:    time.Millisecond,
		FetchInterval:   20 * time.Millisecond,
		PersistInterval: time.Hour,
		Logger:          zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for ft.refreshes.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("refreshes = %d after deadline, want >= 3", ft.refreshes.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	if got := ft.persists.Load(); got != 1 {
		t.Errorf("persists = %d, want exactly the initial one", got)
	}
}

func TestSchedulerCancelDuringStartupDelay(t *testing.T) {
	ft := &fakeTriggers{}
	sched := NewScheduler(ft, SchedulerOptions{
		StartupDelay:  time.Hour,
		FetchInterval: time.Hour,
		Logger:        zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation during startup delay")
	}
	if ft.refreshes.Load() != 0 || ft.persists.Load() != 0 {
		t.Error("no cycle may run before the startup delay elapses")
	}
}
