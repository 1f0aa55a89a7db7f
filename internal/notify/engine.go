// Package notify fans release events out to interested users. Each (user,
// game, event) triple produces at most one notification regardless of how
// many times the fan-out runs, which makes partial failures safe to retry.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"gamewatch/backend/internal/hub"
	"gamewatch/backend/internal/models"
)

// Store is the persistence surface the engine needs.
type Store interface {
	// InterestedUserIDs lists every user with a ledger row for the game.
	InterestedUserIDs(ctx context.Context, gameID uint) ([]uint, error)

	// CreateReleaseNotifications inserts one notification per user, skipping
	// pairs that already have one for this event, and returns the user ids
	// it actually created rows for.
	CreateReleaseNotifications(ctx context.Context, game models.Game, userIDs []uint, message string) ([]uint, error)

	// MarkRead sets is_read on the user's notification. Reports false when
	// no such notification exists for that user.
	MarkRead(ctx context.Context, notificationID, userID uint) (bool, error)
}

// Publisher pushes release events to the message broker for downstream
// consumers. Failures are logged, never fatal.
type Publisher interface {
	PublishGameReleased(ctx context.Context, event GameReleasedEvent) error
}

// GameReleasedEvent is the broker payload emitted after a fan-out.
type GameReleasedEvent struct {
	GameID        uint   `json:"game_id"`
	Title         string `json:"title"`
	Platform      string `json:"platform"`
	ReleasedAt    string `json:"released_at"`
	NotifiedUsers int    `json:"notified_users"`
}

// ReleaseMessage renders the notification text for a released game.
func ReleaseMessage(title string) string {
	return fmt.Sprintf("🔥 %s is now released!", title)
}

// Engine creates notifications for release events.
type Engine struct {
	store     Store
	hub       *hub.Hub
	publisher Publisher
}

// Default is the singleton instance wired up in main.
var Default *Engine

// NewEngine creates a fan-out engine. h and publisher may be nil.
func NewEngine(store Store, h *hub.Hub, publisher Publisher) *Engine {
	return &Engine{store: store, hub: h, publisher: publisher}
}

// NotifyRelease creates one release notification per interested user and
// returns how many were created. Recipients that already hold a notification
// for this release are skipped, so re-running after a partial failure only
// fills in the gaps.
func (e *Engine) NotifyRelease(ctx context.Context, game models.Game) (int, error) {
	userIDs, err := e.store.InterestedUserIDs(ctx, game.ID)
	if err != nil {
		return 0, fmt.Errorf("load interested users: %w", err)
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	message := ReleaseMessage(game.Title)
	createdIDs, err := e.store.CreateReleaseNotifications(ctx, game, userIDs, message)
	created := len(createdIDs)
	if err != nil {
		return created, fmt.Errorf("create notifications: %w", err)
	}
	if created < len(userIDs) {
		log.Printf("notify: game %d fan-out created %d of %d (rest already notified)", game.ID, created, len(userIDs))
	}

	// Only the recipients that gained a row this call get a live ping; a
	// re-run that created nothing stays silent.
	if e.hub != nil {
		for _, userID := range createdIDs {
			e.hub.Broadcast(hub.NotificationTopic(userID), hub.Event{
				Type:    "notification.new",
				Payload: map[string]interface{}{"game_id": game.ID, "message": message},
			})
		}
	}

	if e.publisher != nil && created > 0 {
		event := GameReleasedEvent{
			GameID:        game.ID,
			Title:         game.Title,
			Platform:      game.Platform,
			ReleasedAt:    game.UpdatedAt.UTC().Format(time.RFC3339),
			NotifiedUsers: created,
		}
		if err := e.publisher.PublishGameReleased(ctx, event); err != nil {
			log.Printf("notify: broker publish failed for game %d: %v", game.ID, err)
		}
	}

	return created, nil
}

// MarkRead acknowledges a notification. Setting an already-read notification
// read again is a no-op; a nonexistent id reports false rather than an error.
func (e *Engine) MarkRead(ctx context.Context, notificationID, userID uint) (bool, error) {
	return e.store.MarkRead(ctx, notificationID, userID)
}
