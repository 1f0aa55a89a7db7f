package release

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gamewatch/backend/internal/models"
	"gamewatch/backend/internal/notify"
)

// fakeStore keeps game lifecycle state in memory. MarkReleased mirrors the
// conditional-update contract: the flip only succeeds while the game is
// still upcoming.
type fakeStore struct {
	mu    sync.Mutex
	games map[uint]*models.Game
}

func newFakeStore(games ...*models.Game) *fakeStore {
	s := &fakeStore{games: make(map[uint]*models.Game)}
	for _, g := range games {
		s.games[g.ID] = g
	}
	return s
}

func (s *fakeStore) PendingReleases(_ context.Context, asOf time.Time) ([]models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Game
	for _, g := range s.games {
		if g.Status == models.StatusUpcoming && g.ReleaseDate != nil && !g.ReleaseDate.After(asOf) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkReleased(_ context.Context, gameID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok || g.Status != models.StatusUpcoming {
		return false, nil
	}
	g.Status = models.StatusReleased
	return true, nil
}

type countingNotifier struct {
	mu    sync.Mutex
	calls map[uint]int
	err   error
}

func (n *countingNotifier) NotifyRelease(_ context.Context, game models.Game) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.calls == nil {
		n.calls = make(map[uint]int)
	}
	n.calls[game.ID]++
	return 0, n.err
}

func upcomingGame(id uint, title string, releaseDate time.Time) *models.Game {
	g := &models.Game{Title: title, Status: models.StatusUpcoming, ReleaseDate: &releaseDate}
	g.ID = id
	return g
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAdvancePendingReleases_Idempotent(t *testing.T) {
	store := newFakeStore(
		upcomingGame(1, "Hollow Depths", date("2024-01-01")),
		upcomingGame(2, "Starfall", date("2024-03-01")),
	)
	notifier := &countingNotifier{}
	engine := NewEngine(store, notifier)

	asOf := date("2024-01-02")

	released, err := engine.AdvancePendingReleases(context.Background(), asOf)
	if err != nil {
		t.Fatalf("first advance: %v", err)
	}
	if len(released) != 1 || released[0] != 1 {
		t.Fatalf("expected game 1 released, got %v", released)
	}

	// Re-running with the same date must not flip or notify anything again.
	for i := 0; i < 3; i++ {
		released, err = engine.AdvancePendingReleases(context.Background(), asOf)
		if err != nil {
			t.Fatalf("repeat advance: %v", err)
		}
		if len(released) != 0 {
			t.Fatalf("repeat advance released %v, want none", released)
		}
	}

	if got := notifier.calls[1]; got != 1 {
		t.Errorf("game 1 notified %d times, want 1", got)
	}
	if got := notifier.calls[2]; got != 0 {
		t.Errorf("game 2 notified %d times, want 0", got)
	}
}

func TestAdvancePendingReleases_LostRaceSkipsFanout(t *testing.T) {
	store := newFakeStore(upcomingGame(1, "Hollow Depths", date("2024-01-01")))
	notifier := &countingNotifier{}
	engine := NewEngine(store, notifier)

	// Another caller flips the game between the pending read and our flip.
	pending, _ := store.PendingReleases(context.Background(), date("2024-01-02"))
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending game, got %d", len(pending))
	}
	if flipped, _ := store.MarkReleased(context.Background(), 1); !flipped {
		t.Fatal("setup flip failed")
	}

	released, err := engine.AdvancePendingReleases(context.Background(), date("2024-01-02"))
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(released) != 0 {
		t.Fatalf("lost race but released %v", released)
	}
	if notifier.calls[1] != 0 {
		t.Errorf("lost race but notified %d times", notifier.calls[1])
	}
}

func TestAdvancePendingReleases_FanoutFailureKeepsFlip(t *testing.T) {
	store := newFakeStore(upcomingGame(1, "Hollow Depths", date("2024-01-01")))
	notifier := &countingNotifier{err: errors.New("broker down")}
	engine := NewEngine(store, notifier)

	released, err := engine.AdvancePendingReleases(context.Background(), date("2024-01-02"))
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(released) != 1 {
		t.Fatalf("fan-out failure must not undo the release, got %v", released)
	}
	if store.games[1].Status != models.StatusReleased {
		t.Errorf("game status = %s, want released", store.games[1].Status)
	}
}

func TestAdvancePendingReleases_NotDueYet(t *testing.T) {
	store := newFakeStore(upcomingGame(1, "Hollow Depths", date("2024-06-01")))
	engine := NewEngine(store, &countingNotifier{})

	released, err := engine.AdvancePendingReleases(context.Background(), date("2024-01-02"))
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(released) != 0 {
		t.Fatalf("released %v before due date", released)
	}
	if store.games[1].Status != models.StatusUpcoming {
		t.Errorf("game status = %s, want upcoming", store.games[1].Status)
	}
}

// End-to-end through the real fan-out engine: one upcoming game, three
// interested users, one notification each, and a second run creates nothing.
func TestAdvanceWithFanout_ExactlyOncePerUser(t *testing.T) {
	game := upcomingGame(7, "Hollow Depths", date("2024-01-01"))
	store := newFakeStore(game)

	notifyStore := notify.NewMemStore()
	notifyStore.AddInterest(7, 101, 102, 103)
	notifier := notify.NewEngine(notifyStore, nil, nil)
	engine := NewEngine(store, notifier)

	released, err := engine.AdvancePendingReleases(context.Background(), date("2024-01-02"))
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(released) != 1 {
		t.Fatalf("expected 1 release, got %v", released)
	}
	if got := notifyStore.Count(7); got != 3 {
		t.Fatalf("created %d notifications, want 3", got)
	}
	if got, want := notifyStore.Message(7, 101), "🔥 Hollow Depths is now released!"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}

	// Second invocation with the same date: no flip, no extra notifications.
	released, err = engine.AdvancePendingReleases(context.Background(), date("2024-01-02"))
	if err != nil {
		t.Fatalf("second advance: %v", err)
	}
	if len(released) != 0 {
		t.Fatalf("second advance released %v", released)
	}
	if got := notifyStore.Count(7); got != 3 {
		t.Errorf("notification count after repeat = %d, want 3", got)
	}
}
