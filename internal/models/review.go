package models

import "gorm.io/gorm"

// Review is a free-text user review of a game. Reviews are append-only;
// a user may post any number of reviews for the same game.
type Review struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index"`
	GameID  uint   `gorm:"not null;index"`
	Content string `gorm:"not null"`

	User User `gorm:"foreignKey:UserID"`
	Game Game `gorm:"foreignKey:GameID"`
}
