package interest

import (
	"context"
	"errors"
	"testing"
)

// fakeStore keeps the ledger and counters in memory. beforeInsert lets a test
// stage a concurrent writer between the membership pre-read and the insert.
type fakeStore struct {
	games        map[uint]int64   // gameID -> interest_count
	rows         map[[2]uint]bool // (userID, gameID)
	beforeInsert func()
}

func newFakeStore(gameIDs ...uint) *fakeStore {
	s := &fakeStore{
		games: make(map[uint]int64),
		rows:  make(map[[2]uint]bool),
	}
	for _, id := range gameIDs {
		s.games[id] = 0
	}
	return s
}

func (s *fakeStore) addRow(userID, gameID uint) {
	s.rows[[2]uint{userID, gameID}] = true
	s.games[gameID]++
}

func (s *fakeStore) InTx(_ context.Context, fn func(tx Store) error) error {
	return fn(s)
}

func (s *fakeStore) GameExists(_ context.Context, gameID uint) (bool, error) {
	_, ok := s.games[gameID]
	return ok, nil
}

func (s *fakeStore) HasInterest(_ context.Context, userID, gameID uint) (bool, error) {
	return s.rows[[2]uint{userID, gameID}], nil
}

func (s *fakeStore) InsertInterest(_ context.Context, userID, gameID uint) (bool, error) {
	if s.beforeInsert != nil {
		s.beforeInsert()
	}
	key := [2]uint{userID, gameID}
	if s.rows[key] {
		return false, nil
	}
	s.rows[key] = true
	return true, nil
}

func (s *fakeStore) DeleteInterest(_ context.Context, userID, gameID uint) (bool, error) {
	key := [2]uint{userID, gameID}
	if !s.rows[key] {
		return false, nil
	}
	delete(s.rows, key)
	return true, nil
}

func (s *fakeStore) MoveCount(_ context.Context, gameID uint, delta int) error {
	s.games[gameID] += int64(delta)
	if s.games[gameID] < 0 {
		s.games[gameID] = 0
	}
	return nil
}

func (s *fakeStore) InterestCount(_ context.Context, gameID uint) (int64, error) {
	return s.games[gameID], nil
}

func (s *fakeStore) ledgerCount(gameID uint) int64 {
	var n int64
	for key := range s.rows {
		if key[1] == gameID {
			n++
		}
	}
	return n
}

func (s *fakeStore) ReconcileGame(_ context.Context, gameID uint) (bool, error) {
	if _, ok := s.games[gameID]; !ok {
		return false, nil
	}
	s.games[gameID] = s.ledgerCount(gameID)
	return true, nil
}

func (s *fakeStore) ReconcileAll(_ context.Context) (int64, error) {
	var repaired int64
	for id := range s.games {
		if n := s.ledgerCount(id); n != s.games[id] {
			s.games[id] = n
			repaired++
		}
	}
	return repaired, nil
}

type countingInvalidator struct {
	calls int
}

func (i *countingInvalidator) Invalidate(_ context.Context) { i.calls++ }

func TestToggle_Symmetry(t *testing.T) {
	store := newFakeStore(1)
	svc := NewService(store, nil, nil)

	liked, count, err := svc.Toggle(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked || count != 1 {
		t.Fatalf("first toggle = (%v, %d), want (true, 1)", liked, count)
	}
	if !store.rows[[2]uint{10, 1}] {
		t.Fatal("ledger row missing after like")
	}

	liked, count, err = svc.Toggle(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked || count != 0 {
		t.Fatalf("second toggle = (%v, %d), want (false, 0)", liked, count)
	}
	if store.rows[[2]uint{10, 1}] {
		t.Fatal("ledger row still present after un-like")
	}
	if got := store.ledgerCount(1); got != 0 {
		t.Errorf("ledger cardinality = %d, want 0", got)
	}
}

// A like whose conflict-keyed insert loses to a concurrent like must still
// report liked=true and leave exactly one ledger row with the counter at 1,
// not take the delete path and wipe the other caller's row.
func TestToggle_LostInsertRaceIsStillALike(t *testing.T) {
	store := newFakeStore(1)
	// The competing caller commits between our pre-read and our insert.
	store.beforeInsert = func() {
		store.beforeInsert = nil
		store.addRow(10, 1)
	}
	svc := NewService(store, nil, nil)

	liked, count, err := svc.Toggle(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !liked {
		t.Error("lost insert race reported liked=false")
	}
	if count != 1 {
		t.Errorf("interest_count = %d, want 1", count)
	}
	if got := store.ledgerCount(1); got != 1 {
		t.Errorf("ledger cardinality = %d, want 1", got)
	}
	if !store.rows[[2]uint{10, 1}] {
		t.Error("winning caller's row was deleted")
	}
}

func TestToggle_GameNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	_, _, err := svc.Toggle(context.Background(), 10, 99)
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("err = %v, want ErrGameNotFound", err)
	}
}

func TestToggle_InvalidatesRankCache(t *testing.T) {
	store := newFakeStore(1)
	inv := &countingInvalidator{}
	svc := NewService(store, nil, inv)

	if _, _, err := svc.Toggle(context.Background(), 10, 1); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if inv.calls != 1 {
		t.Errorf("invalidator calls = %d, want 1", inv.calls)
	}
}

func TestReconcile_RepairsDrift(t *testing.T) {
	store := newFakeStore(1)
	store.addRow(10, 1)
	store.addRow(11, 1)
	store.games[1] = 7 // drifted

	svc := NewService(store, nil, nil)

	count, err := svc.Reconcile(context.Background(), 1)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	if _, err := svc.Reconcile(context.Background(), 99); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("missing game err = %v, want ErrGameNotFound", err)
	}
}

func TestReconcileAll_CountsDriftedRows(t *testing.T) {
	store := newFakeStore(1, 2, 3)
	store.addRow(10, 1)
	store.games[1] = 5 // drifted
	store.games[2] = 1 // drifted
	// game 3 consistent at 0

	svc := NewService(store, nil, nil)

	repaired, err := svc.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("ReconcileAll: %v", err)
	}
	if repaired != 2 {
		t.Errorf("repaired = %d, want 2", repaired)
	}
	if store.games[1] != 1 || store.games[2] != 0 {
		t.Errorf("counters after repair = %d, %d; want 1, 0", store.games[1], store.games[2])
	}
}
