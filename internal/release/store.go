package release

import (
	"context"
	"time"

	"gamewatch/backend/internal/models"

	"gorm.io/gorm"
)

// GormStore implements Store on top of the games table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// PendingReleases lists upcoming games due on or before asOf.
func (s *GormStore) PendingReleases(ctx context.Context, asOf time.Time) ([]models.Game, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).
		Where("status = ? AND release_date IS NOT NULL AND release_date <= ?", models.StatusUpcoming, asOf).
		Order("id ASC").
		Find(&games).Error
	return games, err
}

// MarkReleased flips a game to released only if it is still upcoming.
// The WHERE clause on the prior status is the whole race guard: under
// concurrent callers exactly one update reports an affected row.
func (s *GormStore) MarkReleased(ctx context.Context, gameID uint) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ? AND status = ?", gameID, models.StatusUpcoming).
		Update("status", models.StatusReleased)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
