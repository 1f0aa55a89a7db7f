// Package interest implements the interest ledger: which users follow which
// games. The ledger is the source of truth; games.interest_count is a
// denormalized copy maintained inside the same transaction as every ledger
// mutation and repairable via Reconcile.
package interest

import (
	"context"
	"errors"
	"log"

	"gamewatch/backend/internal/hub"
)

// ErrGameNotFound is returned when toggling interest on a nonexistent game.
var ErrGameNotFound = errors.New("game not found")

// Invalidator drops derived ranking state after a ledger write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Service mutates the interest ledger.
type Service struct {
	store Store
	hub   *hub.Hub
	inv   Invalidator
}

// Default is the singleton instance wired up in main.
var Default *Service

// NewService creates a ledger service. inv may be nil.
func NewService(store Store, h *hub.Hub, inv Invalidator) *Service {
	return &Service{store: store, hub: h, inv: inv}
}

// Toggle flips the interest state for (userID, gameID) and returns the new
// state along with the updated counter.
//
// The membership pre-read, ledger mutation and counter update run in a single
// transaction, and the pre-read fixes the toggle's direction: a caller that
// saw no row is a like, a caller that saw one is an un-like. The insert is
// conflict-keyed on the composite primary key; when the pre-read saw no row
// but the insert reports zero rows, a concurrent like won the race. The
// desired state already holds, so the counter is left alone and the call
// still reports liked=true.
func (s *Service) Toggle(ctx context.Context, userID, gameID uint) (liked bool, newCount int64, err error) {
	err = s.store.InTx(ctx, func(tx Store) error {
		exists, err := tx.GameExists(ctx, gameID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrGameNotFound
		}

		had, err := tx.HasInterest(ctx, userID, gameID)
		if err != nil {
			return err
		}

		if !had {
			inserted, err := tx.InsertInterest(ctx, userID, gameID)
			if err != nil {
				return err
			}
			if inserted {
				if err := tx.MoveCount(ctx, gameID, 1); err != nil {
					return err
				}
			}
			liked = true
		} else {
			deleted, err := tx.DeleteInterest(ctx, userID, gameID)
			if err != nil {
				return err
			}
			// A lost delete race mirrors the insert case: the row is
			// already gone, so only the caller that removed it decrements.
			if deleted {
				if err := tx.MoveCount(ctx, gameID, -1); err != nil {
					return err
				}
			}
			liked = false
		}

		newCount, err = tx.InterestCount(ctx, gameID)
		return err
	})
	if err != nil {
		return false, 0, err
	}

	if s.inv != nil {
		s.inv.Invalidate(ctx)
	}
	if s.hub != nil {
		s.hub.Broadcast(hub.TopicInterest, hub.Event{
			Type:    "interest.changed",
			Payload: map[string]interface{}{"game_id": gameID, "interest_count": newCount},
		})
	}

	return liked, newCount, nil
}

// Reconcile recomputes interest_count for one game from ledger cardinality
// and returns the corrected value. Used for drift repair when a past partial
// failure left the counter out of sync.
func (s *Service) Reconcile(ctx context.Context, gameID uint) (int64, error) {
	found, err := s.store.ReconcileGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrGameNotFound
	}
	return s.store.InterestCount(ctx, gameID)
}

// ReconcileAll repairs interest_count for every game. Returns the number of
// rows whose counter changed.
func (s *Service) ReconcileAll(ctx context.Context) (int64, error) {
	repaired, err := s.store.ReconcileAll(ctx)
	if err != nil {
		return 0, err
	}
	if repaired > 0 {
		log.Printf("interest: reconciled %d drifted counters", repaired)
	}
	return repaired, nil
}
