package models

import (
	"time"

	"gorm.io/gorm"
)

// GameStatus describes where a game sits in its release lifecycle.
// Transitions are monotonic: announced → upcoming → released. Any other
// change is an administrative override, not a lifecycle transition.
type GameStatus string

const (
	StatusAnnounced GameStatus = "announced"
	StatusUpcoming  GameStatus = "upcoming"
	StatusReleased  GameStatus = "released"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s GameStatus) bool {
	return s == StatusAnnounced || s == StatusUpcoming || s == StatusReleased
}

// Game represents a title in the catalog.
type Game struct {
	gorm.Model
	Title       string `gorm:"size:255;not null;index"`
	Platform    string `gorm:"size:100"`
	Image       string `gorm:"size:512"`
	TrailerURL  string `gorm:"size:512"`
	Description string
	Status      GameStatus `gorm:"type:varchar(20);not null;default:'announced';index"`

	// ReleaseDate is a calendar date; the time component is always midnight UTC.
	// Required while Status is "upcoming".
	ReleaseDate *time.Time `gorm:"index"`

	// InterestCount is denormalized from the interests table. It is only moved
	// with atomic SQL expressions; the reconcile operation repairs drift.
	InterestCount int64 `gorm:"not null;default:0"`

	Genres []*Genre `gorm:"many2many:game_genres;"`
}
