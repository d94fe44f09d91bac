package store

import (
	"context"
	"time"
)

// ProgressRepo persists the best score per module. The single write
// operation merges: a stored best only ever rises or stays put.
type ProgressRepo interface {
	// Best returns the stored best score, or 0 for an unknown module id.
	Best(ctx context.Context, moduleID string) (int, error)

	// All returns the full module id → best map.
	All(ctx context.Context) (map[string]int, error)

	// RecordScore applies best' = max(best, score) atomically and
	// returns the resulting best.
	RecordScore(ctx context.Context, moduleID string, score int) (int, error)

	// Reset deletes all stored progress.
	Reset(ctx context.Context) error
}

// AnswerEventData describes one submitted answer, advisory or graded.
type AnswerEventData struct {
	SessionID   string
	ModuleID    string
	QuestionID  string
	AnswerIndex int
	Correct     bool
	Advisory    bool
}

// AnswerEvent is a stored answer event.
type AnswerEvent struct {
	ID        int64
	CreatedAt time.Time
	AnswerEventData
}

// RunEventData describes a run lifecycle event ("start" or "finish").
type RunEventData struct {
	RunID       string
	Action      string
	ModuleCount int
	TotalScore  int
	TotalMax    int
}

// EventRepo appends and queries the append-only activity log.
type EventRepo interface {
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendRunEvent(ctx context.Context, data RunEventData) error

	// RecentAnswers returns the most recent answer events, newest first.
	RecentAnswers(ctx context.Context, limit int) ([]AnswerEvent, error)

	// ModuleAccuracy returns the graded-answer accuracy for a module,
	// ignoring advisory checks. Returns 0 with no recorded answers.
	ModuleAccuracy(ctx context.Context, moduleID string) (float64, error)
}
