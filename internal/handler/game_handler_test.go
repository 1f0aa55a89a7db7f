package handler

import (
	"testing"
	"time"

	"gamewatch/backend/internal/models"
)

func TestApplyGameInput_Validation(t *testing.T) {
	future := time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
	past := "2020-05-01"

	tests := []struct {
		name  string
		input GameInput
		ok    bool
	}{
		{
			name:  "defaults to announced",
			input: GameInput{Title: "Starfall"},
			ok:    true,
		},
		{
			name:  "upcoming with future date",
			input: GameInput{Title: "Starfall", Status: "upcoming", ReleaseDate: future},
			ok:    true,
		},
		{
			name:  "upcoming without date rejected",
			input: GameInput{Title: "Starfall", Status: "upcoming"},
			ok:    false,
		},
		{
			name:  "released with past date",
			input: GameInput{Title: "Starfall", Status: "released", ReleaseDate: past},
			ok:    true,
		},
		{
			name:  "released with future date rejected",
			input: GameInput{Title: "Starfall", Status: "released", ReleaseDate: future},
			ok:    false,
		},
		{
			name:  "unknown status rejected",
			input: GameInput{Title: "Starfall", Status: "cancelled"},
			ok:    false,
		},
		{
			name:  "malformed date rejected",
			input: GameInput{Title: "Starfall", Status: "upcoming", ReleaseDate: "01/05/2026"},
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var game models.Game
			msg, ok := applyGameInput(&game, tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v (%q), want %v", ok, msg, tt.ok)
			}
			if ok && game.Title != tt.input.Title {
				t.Errorf("title not applied")
			}
		})
	}
}

func TestApplyGameInput_DefaultStatus(t *testing.T) {
	var game models.Game
	if _, ok := applyGameInput(&game, GameInput{Title: "Starfall"}); !ok {
		t.Fatal("unexpected rejection")
	}
	if game.Status != models.StatusAnnounced {
		t.Errorf("status = %s, want announced", game.Status)
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]int{1, 2, 3}, 25, 2, 10)
	if resp.Meta.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", resp.Meta.TotalPages)
	}
	if resp.Meta.CurrentPage != 2 || resp.Meta.PageSize != 10 || resp.Meta.TotalItems != 25 {
		t.Errorf("unexpected meta: %+v", resp.Meta)
	}

	empty := NewPaginatedResponse([]int{}, 0, 1, 10)
	if empty.Meta.TotalPages != 0 {
		t.Errorf("empty TotalPages = %d, want 0", empty.Meta.TotalPages)
	}
}

func TestSplitCommaSeparated(t *testing.T) {
	got := splitCommaSeparated(" 1, 2 ,,3 ")
	if len(got) != 3 || got[0] != "1" || got[1] != "2" || got[2] != "3" {
		t.Errorf("splitCommaSeparated = %v", got)
	}
}
