package models

import "gorm.io/gorm"

// Genre represents a game genre tag (e.g., "RPG", "Roguelike", "Co-op").
type Genre struct {
	gorm.Model
	Name string `gorm:"size:100;unique;not null"`
}
