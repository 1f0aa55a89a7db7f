package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeAdvancer struct {
	calls atomic.Int64
}

func (f *fakeAdvancer) AdvancePendingReleases(_ context.Context, _ time.Time) ([]uint, error) {
	f.calls.Add(1)
	return nil, nil
}

func TestStartReleaseLoop_RunsImmediatelyAndOnTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := &fakeAdvancer{}
	StartReleaseLoop(ctx, engine, 10*time.Millisecond)

	deadline := time.After(time.Second)
	for engine.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d release checks within deadline", engine.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStartReleaseLoop_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	engine := &fakeAdvancer{}
	StartReleaseLoop(ctx, engine, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	after := engine.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := engine.calls.Load(); got != after {
		t.Errorf("release checks continued after cancel: %d -> %d", after, got)
	}
}
