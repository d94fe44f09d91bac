package quiz

import (
	"github.com/ih4temyself/cyberkit-v1/internal/content"
)

// Phase represents the current phase of a module session.
type Phase int

const (
	PhaseContent     Phase = iota // Reading instructional content
	PhaseQuiz                     // Answering questions
	PhaseGrading                  // Batch grade call in flight
	PhaseResult                   // Authoritative result displayed
	PhaseGradeFailed              // Grade call failed; answers retained
)

func (p Phase) String() string {
	switch p {
	case PhaseContent:
		return "content"
	case PhaseQuiz:
		return "quiz"
	case PhaseGrading:
		return "grading"
	case PhaseResult:
		return "result"
	case PhaseGradeFailed:
		return "grade_failed"
	default:
		return "unknown"
	}
}

// Session tracks the state of one module's content → quiz → result flow.
// All transitions are synchronous; network effects belong to the host.
type Session struct {
	Module *content.ModuleDetail

	Phase  Phase
	QIndex int

	// Answers holds the chosen option index per question id.
	Answers content.AnswerMap

	// Feedback holds advisory immediate-check verdicts per question id.
	// Advisory only — the grade of record is always Result.
	Feedback map[string]bool

	// Result is set once the batch grade call resolves.
	Result *content.GradeResult
}

// NewSession creates a session for a freshly fetched module, starting in
// the content phase.
func NewSession(module *content.ModuleDetail) *Session {
	return &Session{
		Module:   module,
		Phase:    PhaseContent,
		Answers:  make(content.AnswerMap),
		Feedback: make(map[string]bool),
	}
}

// HasQuiz reports whether the module has any questions. A session without
// a quiz never enters the quiz phase; its only forward action is advance.
func (s *Session) HasQuiz() bool {
	return s.Module != nil && len(s.Module.Quiz) > 0
}

// StartQuiz moves from content to the first question. No-op for
// content-only modules.
func (s *Session) StartQuiz() {
	if s.Phase != PhaseContent || !s.HasQuiz() {
		return
	}
	s.Phase = PhaseQuiz
	s.QIndex = 0
}

// Current returns the question at the cursor, or nil outside the quiz phase.
func (s *Session) Current() *content.Question {
	if s.Phase != PhaseQuiz || !s.HasQuiz() {
		return nil
	}
	if s.QIndex < 0 || s.QIndex >= len(s.Module.Quiz) {
		return nil
	}
	return &s.Module.Quiz[s.QIndex]
}

// Select records the chosen option index for a question. At most one
// entry per question id; re-selecting replaces the previous choice.
func (s *Session) Select(questionID string, optionIndex int) {
	if s.Phase != PhaseQuiz {
		return
	}
	s.Answers[questionID] = optionIndex
}

// Answer returns the recorded option index for the current question.
func (s *Session) Answer() (int, bool) {
	q := s.Current()
	if q == nil {
		return 0, false
	}
	idx, ok := s.Answers[q.ID]
	return idx, ok
}

// CanAdvance reports whether forward navigation is allowed. A pure
// function of the cursor and the answer map: the current question must
// have a recorded answer.
func (s *Session) CanAdvance() bool {
	_, ok := s.Answer()
	return ok
}

// AtLast reports whether the cursor is on the final question.
func (s *Session) AtLast() bool {
	return s.HasQuiz() && s.QIndex == len(s.Module.Quiz)-1
}

// Back moves the cursor one question back, clamped at zero.
func (s *Session) Back() {
	if s.Phase != PhaseQuiz {
		return
	}
	if s.QIndex > 0 {
		s.QIndex--
	}
}

// Advance moves the cursor forward, or enters the grading phase when the
// cursor is on the last question. Returns true when grading began.
// Callers must gate on CanAdvance; advancing without an answer is a
// contract violation and is refused.
func (s *Session) Advance() bool {
	if s.Phase != PhaseQuiz || !s.CanAdvance() {
		return false
	}
	if s.AtLast() {
		s.Phase = PhaseGrading
		return true
	}
	s.QIndex++
	return false
}

// SetFeedback records an advisory immediate-check verdict.
func (s *Session) SetFeedback(questionID string, correct bool) {
	s.Feedback[questionID] = correct
}

// ApplyGrade stores the authoritative result and enters the result phase.
func (s *Session) ApplyGrade(res *content.GradeResult) {
	if s.Phase != PhaseGrading {
		return
	}
	s.Result = res
	s.Phase = PhaseResult
}

// FailGrade marks the batch grade call as failed. Answers are retained so
// the user can retry grading without re-answering.
func (s *Session) FailGrade() {
	if s.Phase == PhaseGrading {
		s.Phase = PhaseGradeFailed
	}
}

// RetryGrade re-enters the grading phase after a failure.
func (s *Session) RetryGrade() bool {
	if s.Phase != PhaseGradeFailed {
		return false
	}
	s.Phase = PhaseGrading
	return true
}

// Retry discards answers, feedback and the result, returning to the first
// question for another attempt.
func (s *Session) Retry() {
	if s.Phase != PhaseResult {
		return
	}
	s.Answers = make(content.AnswerMap)
	s.Feedback = make(map[string]bool)
	s.Result = nil
	s.QIndex = 0
	s.Phase = PhaseQuiz
}

// Passed reports whether the graded score clears the non-strict majority
// threshold (score >= total/2). Observational only; it never affects the
// persisted record.
func (s *Session) Passed() bool {
	if s.Result == nil || s.Result.Total == 0 {
		return false
	}
	return s.Result.Score*2 >= s.Result.Total
}
