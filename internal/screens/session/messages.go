package session

import (
	"github.com/ih4temyself/cyberkit-v1/internal/content"
)

// Async messages are tagged with the generation that issued them. A
// completion from a superseded generation (retry, restart) is dropped
// on arrival instead of mutating state it no longer describes.

// moduleLoadedMsg is sent when the module fetch resolves.
type moduleLoadedMsg struct {
	gen    int
	module *content.ModuleDetail
	err    error
}

// answerCheckedMsg is sent when an advisory immediate check resolves.
// The verdict is presentation-only; grading remains the result of record.
type answerCheckedMsg struct {
	gen        int
	questionID string
	qIndex     int
	correct    bool
	err        error
}

// advanceMsg fires after the feedback display period to move to the
// next question (or into grading from the last one).
type advanceMsg struct {
	gen    int
	qIndex int
}

// gradedMsg is sent when the authoritative batch grade resolves.
type gradedMsg struct {
	gen    int
	result *content.GradeResult
	err    error
}

// progressSavedMsg confirms the best-score merge completed.
type progressSavedMsg struct {
	gen  int
	best int
	err  error
}

// CompletedMsg is emitted when the learner leaves the result view. A
// hosting run intercepts it to record the module outcome; standalone
// sessions consume it themselves and pop back.
type CompletedMsg struct {
	ModuleID string
	Title    string

	// HasQuiz is false for content-only modules, which complete
	// without a grade and carry no score.
	HasQuiz bool

	Score   int
	Total   int
	Passed  bool
	Results []content.QuestionResult
}
