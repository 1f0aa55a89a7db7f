// Package release advances games through their lifecycle. A game in state
// "upcoming" whose release date has arrived is flipped to "released", and
// only a flip that this process actually performed triggers notification
// fan-out. That makes the operation idempotent and safe to run from any
// number of concurrent callers.
package release

import (
	"context"
	"log"
	"time"

	"gamewatch/backend/internal/models"
)

// Store is the persistence surface the engine needs.
type Store interface {
	// PendingReleases lists games still in "upcoming" whose release date is
	// on or before asOf.
	PendingReleases(ctx context.Context, asOf time.Time) ([]models.Game, error)

	// MarkReleased conditionally flips one game to "released". It must only
	// update a row still in "upcoming" state and report whether this call
	// performed the flip, so a race between two callers resolves to exactly
	// one winner.
	MarkReleased(ctx context.Context, gameID uint) (bool, error)
}

// Notifier fans a release event out to interested users.
type Notifier interface {
	NotifyRelease(ctx context.Context, game models.Game) (int, error)
}

// Engine runs release transitions.
type Engine struct {
	store    Store
	notifier Notifier
}

// Default is the singleton instance wired up in main.
var Default *Engine

// NewEngine creates a release engine.
func NewEngine(store Store, notifier Notifier) *Engine {
	return &Engine{store: store, notifier: notifier}
}

// AdvancePendingReleases flips every due game to "released" and triggers
// fan-out for each flip this call performed. Returns the ids of the games it
// released.
//
// A fan-out failure after the flip committed is logged and does not roll the
// status back: the release genuinely happened, and fan-out is exactly-once
// per recipient so the next invocation (or a manual retry) fills in the
// missing notifications.
func (e *Engine) AdvancePendingReleases(ctx context.Context, asOf time.Time) ([]uint, error) {
	pending, err := e.store.PendingReleases(ctx, asOf)
	if err != nil {
		return nil, err
	}

	var released []uint
	for _, game := range pending {
		flipped, err := e.store.MarkReleased(ctx, game.ID)
		if err != nil {
			log.Printf("release: flip failed for game %d: %v", game.ID, err)
			continue
		}
		if !flipped {
			// Another caller won the race; it owns the fan-out.
			continue
		}

		released = append(released, game.ID)
		log.Printf("release: game %d (%s) is now released", game.ID, game.Title)

		if e.notifier == nil {
			continue
		}
		if _, err := e.notifier.NotifyRelease(ctx, game); err != nil {
			log.Printf("release: fan-out failed for game %d: %v", game.ID, err)
		}
	}

	return released, nil
}
