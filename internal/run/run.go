package run

import (
	"github.com/ih4temyself/cyberkit-v1/internal/content"
)

// Phase represents the current phase of a run.
type Phase int

const (
	PhaseLoading    Phase = iota // Fetching the module ordering
	PhaseModule                  // A module session is active
	PhaseFinal                   // Summary of the whole run
	PhaseLoadFailed              // Ordering fetch failed; no partial run
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseModule:
		return "module"
	case PhaseFinal:
		return "final"
	case PhaseLoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// Record captures one completed module inside a run. Never mutated after
// append.
type Record struct {
	ModuleID string
	Title    string
	Score    int
	Total    int
	Details  []content.QuestionResult
}

// Run sequences an ordered list of modules as one continuous assessment.
type Run struct {
	Phase   Phase
	Order   []string
	Index   int
	Records []Record
}

// New creates a run in the loading phase.
func New() *Run {
	return &Run{Phase: PhaseLoading}
}

// SetOrder installs the fetched module ordering and positions the run at
// startAt, clamped to [0, N-1]. An empty ordering goes straight to the
// final phase with empty aggregates rather than hanging in loading.
func (r *Run) SetOrder(ids []string, startAt int) {
	r.Order = ids
	if len(ids) == 0 {
		r.Phase = PhaseFinal
		return
	}
	if startAt < 0 {
		startAt = 0
	}
	if startAt > len(ids)-1 {
		startAt = len(ids) - 1
	}
	r.Index = startAt
	r.Phase = PhaseModule
}

// FailLoad marks the ordering fetch as failed. No partial run is started.
func (r *Run) FailLoad() {
	if r.Phase == PhaseLoading {
		r.Phase = PhaseLoadFailed
	}
}

// CurrentModule returns the module id at the run cursor.
func (r *Run) CurrentModule() (string, bool) {
	if r.Phase != PhaseModule || r.Index < 0 || r.Index >= len(r.Order) {
		return "", false
	}
	return r.Order[r.Index], true
}

// Append records a completed module. Content-only modules record nothing;
// the aggregate totals mean "sum over graded quizzes".
func (r *Run) Append(rec Record) {
	r.Records = append(r.Records, rec)
}

// Advance moves to the next module, or to the final phase when the
// cursor was on the last module. Returns true when the run finished.
func (r *Run) Advance() bool {
	if r.Phase != PhaseModule {
		return false
	}
	if r.Index >= len(r.Order)-1 {
		r.Phase = PhaseFinal
		return true
	}
	r.Index++
	return false
}

// AtLast reports whether the cursor is on the final module.
func (r *Run) AtLast() bool {
	return len(r.Order) > 0 && r.Index == len(r.Order)-1
}

// TotalScore recomputes the aggregate score over all records.
func (r *Run) TotalScore() int {
	sum := 0
	for _, rec := range r.Records {
		sum += rec.Score
	}
	return sum
}

// TotalMax recomputes the aggregate maximum over all records.
func (r *Run) TotalMax() int {
	sum := 0
	for _, rec := range r.Records {
		sum += rec.Total
	}
	return sum
}

// Restart clears the record sequence and returns to loading so the
// ordering can be re-fetched from the first module.
func (r *Run) Restart() {
	r.Records = nil
	r.Order = nil
	r.Index = 0
	r.Phase = PhaseLoading
}
