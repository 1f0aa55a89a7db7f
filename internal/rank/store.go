package rank

import (
	"context"
	"time"

	"gamewatch/backend/internal/models"

	"gorm.io/gorm"
)

// GameCount is one grouped row of the ranking query.
type GameCount struct {
	GameID uint
	Count  int64
}

// Store is the persistence surface the ranking needs.
type Store interface {
	// TopCounts groups interest-record creations since the given time by
	// game, ordered by count descending then game id ascending.
	TopCounts(ctx context.Context, since time.Time, limit int) ([]GameCount, error)

	// GamesByID loads the game rows for the ranked ids, genres included.
	GamesByID(ctx context.Context, ids []uint) ([]models.Game, error)
}

// GormStore implements Store on top of the interests and games tables.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) TopCounts(ctx context.Context, since time.Time, limit int) ([]GameCount, error) {
	var pairs []GameCount
	err := s.db.WithContext(ctx).Model(&models.Interest{}).
		Select("game_id, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("game_id").
		Order("count DESC, game_id ASC").
		Limit(limit).
		Scan(&pairs).Error
	return pairs, err
}

func (s *GormStore) GamesByID(ctx context.Context, ids []uint) ([]models.Game, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).Preload("Genres").Find(&games, ids).Error
	return games, err
}
