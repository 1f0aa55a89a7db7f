package interest

import (
	"context"

	"gamewatch/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence surface the ledger needs.
type Store interface {
	// InTx runs fn against a store bound to a single transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error

	GameExists(ctx context.Context, gameID uint) (bool, error)
	HasInterest(ctx context.Context, userID, gameID uint) (bool, error)

	// InsertInterest creates the ledger row via a conflict-keyed insert and
	// reports whether this call created it. False means the row already
	// existed (a concurrent insert won the race).
	InsertInterest(ctx context.Context, userID, gameID uint) (bool, error)

	// DeleteInterest removes the ledger row and reports whether this call
	// removed it.
	DeleteInterest(ctx context.Context, userID, gameID uint) (bool, error)

	// MoveCount shifts interest_count by delta atomically, floored at zero.
	MoveCount(ctx context.Context, gameID uint, delta int) error

	InterestCount(ctx context.Context, gameID uint) (int64, error)

	// ReconcileGame recomputes interest_count from ledger cardinality for
	// one game. Reports false when the game does not exist.
	ReconcileGame(ctx context.Context, gameID uint) (bool, error)

	// ReconcileAll recomputes every drifted counter and returns how many
	// rows changed.
	ReconcileAll(ctx context.Context) (int64, error)
}

// GormStore implements Store on top of the games and interests tables.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GameExists(ctx context.Context, gameID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ?", gameID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) HasInterest(ctx context.Context, userID, gameID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Interest{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) InsertInterest(ctx context.Context, userID, gameID uint) (bool, error) {
	record := models.Interest{UserID: userID, GameID: gameID}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) DeleteInterest(ctx context.Context, userID, gameID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Delete(&models.Interest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) MoveCount(ctx context.Context, gameID uint, delta int) error {
	expr := gorm.Expr("interest_count + ?", delta)
	if delta < 0 {
		// Floored at zero so a stale row can never drive the counter negative.
		expr = gorm.Expr("GREATEST(interest_count + ?, 0)", delta)
	}
	return s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ?", gameID).
		Update("interest_count", expr).Error
}

func (s *GormStore) InterestCount(ctx context.Context, gameID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ?", gameID).
		Select("interest_count").
		Scan(&count).Error
	return count, err
}

func (s *GormStore) ReconcileGame(ctx context.Context, gameID uint) (bool, error) {
	res := s.db.WithContext(ctx).Exec(
		`UPDATE games SET interest_count = (SELECT COUNT(*) FROM interests WHERE interests.game_id = games.id) WHERE id = ?`,
		gameID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ReconcileAll(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Exec(
		`UPDATE games SET interest_count = sub.n
		 FROM (SELECT games.id AS id, COUNT(interests.game_id) AS n
		       FROM games LEFT JOIN interests ON interests.game_id = games.id
		       GROUP BY games.id) AS sub
		 WHERE games.id = sub.id AND games.interest_count <> sub.n`,
	)
	return res.RowsAffected, res.Error
}
