package models

import "time"

// Interest records a user's expressed intent to follow a game.
// The primary key is a composite of (UserID, GameID): a user may express
// interest in a game at most once, and the constraint is what makes the
// toggle safe under concurrent callers.
type Interest struct {
	UserID    uint `gorm:"primaryKey"`
	GameID    uint `gorm:"primaryKey;index"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Game Game `gorm:"foreignKey:GameID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
