package notify

import (
	"context"
	"errors"

	"gamewatch/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of the interests and notifications tables.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// InterestedUserIDs lists every user holding a ledger row for the game.
func (s *GormStore) InterestedUserIDs(ctx context.Context, gameID uint) ([]uint, error) {
	var userIDs []uint
	err := s.db.WithContext(ctx).Model(&models.Interest{}).
		Where("game_id = ?", gameID).
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

// CreateReleaseNotifications inserts notifications for the recipients that
// do not have one yet and returns their user ids. Already-notified users are
// filtered out up front; the conflict clause on the unique (user_id, game_id,
// event) index still guards the insert itself, so the table stays
// exactly-once even if another fan-out commits between the read and the
// insert.
func (s *GormStore) CreateReleaseNotifications(ctx context.Context, game models.Game, userIDs []uint, message string) ([]uint, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var existing []uint
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("game_id = ? AND event = ? AND user_id IN ?", game.ID, models.EventRelease, userIDs).
		Pluck("user_id", &existing).Error
	if err != nil {
		return nil, err
	}

	notified := make(map[uint]bool, len(existing))
	for _, id := range existing {
		notified[id] = true
	}

	var missing []uint
	batch := make([]models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		if notified[userID] {
			continue
		}
		missing = append(missing, userID)
		batch = append(batch, models.Notification{
			UserID:  userID,
			GameID:  game.ID,
			Event:   models.EventRelease,
			Message: message,
		})
	}
	if len(batch) == 0 {
		return nil, nil
	}

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&batch)
	if res.Error != nil {
		return nil, res.Error
	}
	return missing, nil
}

// MarkRead sets is_read for the user's notification. The update is scoped to
// the owning user so one user cannot acknowledge another's notification.
func (s *GormStore) MarkRead(ctx context.Context, notificationID, userID uint) (bool, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if n.IsRead {
		return true, nil
	}

	err = s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
	return err == nil, err
}
