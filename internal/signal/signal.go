// Package signal delivers presentation cues to collaborators outside the
// learning core (sound, navigation chrome). Calls are observational only
// and never affect session state or persisted records.
package signal

import (
	"fmt"
	"os"
)

// Notifier receives presentation signals from sessions and runs.
type Notifier interface {
	// AnswerChecked fires per advisory immediate-check verdict.
	AnswerChecked(correct bool)

	// SessionFinished fires once per module result with the pass/fail
	// outcome of the non-strict majority threshold.
	SessionFinished(passed bool)

	// PhaseChanged fires when a run or session changes phase.
	PhaseChanged(name string)
}

// Bell signals failures with the terminal bell. Successes stay silent —
// the views already render them.
type Bell struct{}

func (Bell) AnswerChecked(correct bool) {
	if !correct {
		ring()
	}
}

func (Bell) SessionFinished(passed bool) {
	if !passed {
		ring()
	}
}

func (Bell) PhaseChanged(string) {}

func ring() {
	fmt.Fprint(os.Stderr, "\a")
}

// Nop discards all signals.
type Nop struct{}

func (Nop) AnswerChecked(bool)   {}
func (Nop) SessionFinished(bool) {}
func (Nop) PhaseChanged(string)  {}

var (
	_ Notifier = Bell{}
	_ Notifier = Nop{}
)
