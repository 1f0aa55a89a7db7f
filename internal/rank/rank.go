// Package rank computes the most-interested ranking over rolling time
// windows from the interest ledger.
package rank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamewatch/backend/internal/models"
)

// Window selects the aggregation period.
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ErrBadWindow is returned for an unknown window name.
var ErrBadWindow = errors.New("window must be 'week' or 'month'")

// Entry is one row of the ranking.
type Entry struct {
	Game  models.Game `json:"game"`
	Count int64       `json:"count"`
}

// Service runs ranking queries against the ledger, with an optional cache
// in front. A nil cache means every call hits the database.
type Service struct {
	store Store
	cache *Cache
	ttl   time.Duration
}

// Default is the singleton instance wired up in main.
var Default *Service

// NewService creates a ranking service. cache may be nil.
func NewService(store Store, cache *Cache, ttl time.Duration) *Service {
	return &Service{store: store, cache: cache, ttl: ttl}
}

// WindowStart computes the inclusive lower bound of the aggregation window:
// first day of the current month (month mode) or 7 days ago (week mode),
// both truncated to start of day in now's location.
func WindowStart(w Window, now time.Time) (time.Time, error) {
	switch w {
	case WindowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case WindowWeek:
		d := now.AddDate(0, 0, -7)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()), nil
	default:
		return time.Time{}, ErrBadWindow
	}
}

// TopInterested returns up to limit games ranked by interest-record creations
// inside the window, most interested first. Ties are broken by game id
// ascending so the ordering is deterministic. A window with no activity
// yields an empty slice, not an error.
func (s *Service) TopInterested(ctx context.Context, w Window, limit int) ([]Entry, error) {
	start, err := WindowStart(w, time.Now())
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 5
	}

	if s.cache != nil {
		if entries, ok := s.cache.Get(ctx, string(w), limit); ok {
			return entries, nil
		}
	}

	pairs, err := s.store.TopCounts(ctx, start, limit)
	if err != nil {
		return nil, fmt.Errorf("rank query: %w", err)
	}

	entries, err := s.attachGames(ctx, pairs)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, string(w), limit, entries, s.ttl)
	}
	return entries, nil
}

// attachGames loads the game rows for the ranked ids, preserving rank order.
func (s *Service) attachGames(ctx context.Context, pairs []GameCount) ([]Entry, error) {
	entries := make([]Entry, 0, len(pairs))
	if len(pairs) == 0 {
		return entries, nil
	}

	ids := make([]uint, 0, len(pairs))
	for _, p := range pairs {
		ids = append(ids, p.GameID)
	}

	games, err := s.store.GamesByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("rank load games: %w", err)
	}

	byID := make(map[uint]models.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	for _, p := range pairs {
		game, ok := byID[p.GameID]
		if !ok {
			// Game deleted between the two queries; skip the stale row.
			continue
		}
		entries = append(entries, Entry{Game: game, Count: p.Count})
	}
	return entries, nil
}
