package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cs-practicals/algosim/internal/games"
	"github.com/cs-practicals/algosim/internal/models"
)

func result(id, practical string, at int64, score int) *models.Result {
	return &models.Result{
		ID:          id,
		PracticalID: practical,
		RoundID:     "round-" + id,
		Kind:        games.KindHanoi,
		Score:       score,
		Moves:       7,
		Level:       3,
		ElapsedMs:   1500,
		Seed:        42,
		CompletedAt: time.UnixMilli(at).UTC(),
	}
}

func repositories(t *testing.T) map[string]ResultRepository {
	t.Helper()
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]ResultRepository{
		"memory": NewMemoryStorage(),
		"sqlite": sqlite,
	}
}

func TestResultRepositorySaveAndGet(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := result("r1", "hanoi", 1_700_000_000_000, 200)
			if err := repo.SaveResult(ctx, want); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := repo.GetResult(ctx, "r1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Score != 200 || got.Kind != games.KindHanoi || got.RoundID != "round-r1" || got.Seed != 42 {
				t.Errorf("unexpected result %+v", got)
			}
			if !got.CompletedAt.Equal(want.CompletedAt) {
				t.Errorf("expected completion %v, got %v", want.CompletedAt, got.CompletedAt)
			}

			if err := repo.SaveResult(ctx, want); !errors.Is(err, ErrResultExists) {
				t.Errorf("expected ErrResultExists, got %v", err)
			}
			if _, err := repo.GetResult(ctx, "missing"); !errors.Is(err, ErrResultNotFound) {
				t.Errorf("expected ErrResultNotFound, got %v", err)
			}
		})
	}
}

func TestResultRepositoryList(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, r := range []*models.Result{
				result("a", "bubble", 1000, 10),
				result("b", "bubble", 3000, 30),
				result("c", "bubble", 2000, 20),
				result("d", "queue", 4000, 40),
			} {
				if err := repo.SaveResult(ctx, r); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			tests := []struct {
				name      string
				practical string
				limit     int
				wantIDs   []string
			}{
				{name: "all newest first", practical: "bubble", wantIDs: []string{"b", "c", "a"}},
				{name: "limited", practical: "bubble", limit: 2, wantIDs: []string{"b", "c"}},
				{name: "other practical", practical: "queue", wantIDs: []string{"d"}},
				{name: "none", practical: "hanoi", wantIDs: nil},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := repo.ListResults(ctx, tt.practical, tt.limit)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if len(got) != len(tt.wantIDs) {
						t.Fatalf("expected %d results, got %d", len(tt.wantIDs), len(got))
					}
					for i, id := range tt.wantIDs {
						if got[i].ID != id {
							t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
						}
					}
				})
			}
		})
	}
}

func TestMemoryStorageReturnsCopies(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	r := result("r1", "hanoi", 1000, 50)
	if err := s.SaveResult(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.Score = 0

	got, _ := s.GetResult(ctx, "r1")
	got.Score = -1
	again, _ := s.GetResult(ctx, "r1")
	if again.Score != 50 {
		t.Errorf("stored result was mutated: %d", again.Score)
	}
}
