package store

import (
	"context"
	"testing"
)

func TestProgress_UnknownModuleReadsZero(t *testing.T) {
	s := openTestStore(t)
	best, err := s.ProgressRepo().Best(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if best != 0 {
		t.Errorf("best = %d, want 0 for unknown module", best)
	}
}

func TestProgress_RecordScoreMergesMax(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	// Sequence of writes; stored value must equal the running max.
	writes := []struct {
		score int
		want  int
	}{
		{0, 0},
		{2, 2},
		{1, 2}, // lower score never lowers the best
		{3, 3},
		{3, 3},
		{2, 3},
	}
	for _, w := range writes {
		got, err := repo.RecordScore(ctx, "passwords", w.score)
		if err != nil {
			t.Fatalf("record score %d: %v", w.score, err)
		}
		if got != w.want {
			t.Errorf("after recordScore(%d): best = %d, want %d", w.score, got, w.want)
		}
	}
}

func TestProgress_RecordScoreScenario(t *testing.T) {
	// recordScore("x", 3) then recordScore("x", 1) leaves best at 3.
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	if _, err := repo.RecordScore(ctx, "x", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.RecordScore(ctx, "x", 1); err != nil {
		t.Fatal(err)
	}
	best, err := repo.Best(ctx, "x")
	if err != nil {
		t.Fatal(err)
	}
	if best != 3 {
		t.Errorf("best = %d, want 3", best)
	}
}

func TestProgress_IndependentModules(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	if _, err := repo.RecordScore(ctx, "a", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.RecordScore(ctx, "b", 4); err != nil {
		t.Fatal(err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if all["a"] != 1 || all["b"] != 4 {
		t.Errorf("all = %v, want a:1 b:4", all)
	}
}

func TestProgress_Reset(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	if _, err := repo.RecordScore(ctx, "a", 2); err != nil {
		t.Fatal(err)
	}
	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	best, err := repo.Best(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if best != 0 {
		t.Errorf("best = %d after reset, want 0", best)
	}
}
