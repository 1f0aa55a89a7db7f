package notify

import (
	"context"
	"errors"
	"sort"
	"sync"

	"gamewatch/backend/internal/models"
)

// MemStore is an in-memory Store used by tests. It enforces the same
// (user, game, event) uniqueness the real notifications table does.
type MemStore struct {
	mu        sync.Mutex
	interests map[uint][]uint    // gameID -> userIDs
	created   map[[2]uint]string // (gameID, userID) -> message
	read      map[uint]bool      // notificationID -> is_read
	ids       map[[2]uint]uint   // (gameID, userID) -> notificationID
	nextID    uint
	failAfter int // fail CreateReleaseNotifications after N inserts; 0 = never
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		interests: make(map[uint][]uint),
		created:   make(map[[2]uint]string),
		read:      make(map[uint]bool),
		ids:       make(map[[2]uint]uint),
	}
}

// AddInterest registers users as interested in a game.
func (s *MemStore) AddInterest(gameID uint, userIDs ...uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interests[gameID] = append(s.interests[gameID], userIDs...)
}

// FailAfter makes the next CreateReleaseNotifications call error out after
// n successful inserts, simulating a partial batch failure.
func (s *MemStore) FailAfter(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
}

// Count returns how many notifications exist for a game.
func (s *MemStore) Count(gameID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.created {
		if key[0] == gameID {
			n++
		}
	}
	return n
}

// Message returns the stored notification text for (gameID, userID).
func (s *MemStore) Message(gameID, userID uint) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created[[2]uint{gameID, userID}]
}

// ID returns the notification id for (gameID, userID), or 0.
func (s *MemStore) ID(gameID, userID uint) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[[2]uint{gameID, userID}]
}

// IsRead reports the is_read flag for a notification id.
func (s *MemStore) IsRead(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read[id]
}

func (s *MemStore) InterestedUserIDs(_ context.Context, gameID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]uint(nil), s.interests[gameID]...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *MemStore) CreateReleaseNotifications(_ context.Context, game models.Game, userIDs []uint, message string) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var createdIDs []uint
	for _, userID := range userIDs {
		if s.failAfter > 0 && len(createdIDs) >= s.failAfter {
			s.failAfter = 0
			return createdIDs, errors.New("simulated insert failure")
		}
		key := [2]uint{game.ID, userID}
		if _, exists := s.created[key]; exists {
			continue
		}
		s.nextID++
		s.created[key] = message
		s.ids[key] = s.nextID
		s.read[s.nextID] = false
		createdIDs = append(createdIDs, userID)
	}
	return createdIDs, nil
}

func (s *MemStore) MarkRead(_ context.Context, notificationID, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, id := range s.ids {
		if id == notificationID {
			if key[1] != userID {
				return false, nil
			}
			s.read[id] = true
			return true, nil
		}
	}
	return false, nil
}
