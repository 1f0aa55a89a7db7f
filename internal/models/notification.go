package models

import "gorm.io/gorm"

// NotificationEvent names the semantic event a notification was created for.
type NotificationEvent string

const (
	// EventRelease is fired when a watched game transitions to released.
	EventRelease NotificationEvent = "release"
)

// Notification is a message delivered to a single user about a game.
// The unique index on (user_id, game_id, event) guarantees at most one
// notification per user per game per event, no matter how many times the
// fan-out runs.
type Notification struct {
	gorm.Model
	UserID  uint              `gorm:"not null;index;uniqueIndex:idx_notifications_dedup"`
	GameID  uint              `gorm:"not null;uniqueIndex:idx_notifications_dedup"`
	Event   NotificationEvent `gorm:"type:varchar(50);not null;default:'release';uniqueIndex:idx_notifications_dedup"`
	Message string            `gorm:"not null"`
	IsRead  bool              `gorm:"not null;default:false"`

	User User `gorm:"foreignKey:UserID"`
	Game Game `gorm:"foreignKey:GameID"`
}
