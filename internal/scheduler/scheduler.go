// Package scheduler owns the periodic release check. Running it as a server
// background task (instead of piggybacking on client requests) gives the
// release state machine a single timely trigger; the engine itself stays
// safe under extra manual invocations.
package scheduler

import (
	"context"
	"log"
	"time"
)

// Advancer is the release engine surface the loop drives.
type Advancer interface {
	AdvancePendingReleases(ctx context.Context, asOf time.Time) ([]uint, error)
}

// StartReleaseLoop runs one advance immediately, then one per interval, until
// ctx is cancelled. Errors are logged and retried on the next tick.
func StartReleaseLoop(ctx context.Context, engine Advancer, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		run := func() {
			released, err := engine.AdvancePendingReleases(ctx, time.Now())
			if err != nil {
				log.Printf("scheduler: release check failed: %v", err)
				return
			}
			if len(released) > 0 {
				log.Printf("scheduler: released %d game(s): %v", len(released), released)
			}
		}

		run()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
