// Package session hosts one module's content → quiz → grading → result
// flow as a screen. All state transitions live in the quiz package; this
// screen wires them to the content API, the progress store and the tea
// event loop.
package session

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ih4temyself/cyberkit-v1/internal/content"
	"github.com/ih4temyself/cyberkit-v1/internal/games"
	"github.com/ih4temyself/cyberkit-v1/internal/password"
	"github.com/ih4temyself/cyberkit-v1/internal/quiz"
	"github.com/ih4temyself/cyberkit-v1/internal/router"
	"github.com/ih4temyself/cyberkit-v1/internal/screen"
	gamescreen "github.com/ih4temyself/cyberkit-v1/internal/screens/game"
	"github.com/ih4temyself/cyberkit-v1/internal/signal"
	"github.com/ih4temyself/cyberkit-v1/internal/store"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/components"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/layout"
)

// DefaultFeedbackDelay is how long advisory feedback stays on screen
// before navigation proceeds.
const DefaultFeedbackDelay = 800 * time.Millisecond

// Deps carries the injected collaborators for a session screen.
type Deps struct {
	Client   content.Client
	Progress store.ProgressRepo
	Events   store.EventRepo
	Notify   signal.Notifier
	Delay    time.Duration
	Log      *zap.Logger

	// Checker enables the mini-game detour from the result view. Nil
	// hides the detour.
	Checker password.Checker
}

func (d Deps) normalized() Deps {
	if d.Notify == nil {
		d.Notify = signal.Nop{}
	}
	if d.Delay <= 0 {
		d.Delay = DefaultFeedbackDelay
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return d
}

// Screen runs one module session.
type Screen struct {
	deps     Deps
	moduleID string

	// hosted sessions deliver CompletedMsg to their host instead of
	// popping themselves.
	hosted bool

	sessionID string

	// gen invalidates in-flight async work. Bumped whenever the
	// session moves somewhere a pending completion no longer belongs.
	gen int

	state  *quiz.Session
	choice components.Choice

	contentScroll int
	checking      bool
	checkFailed   bool
	pendingAdv    bool
	confirmQuit   bool

	newBest   int
	bestKnown bool
	saveErr   string

	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.BackGuard = (*Screen)(nil)

// New creates a standalone session screen for one module.
func New(deps Deps, moduleID string) *Screen {
	return &Screen{
		deps:      deps.normalized(),
		moduleID:  moduleID,
		sessionID: uuid.NewString(),
	}
}

// NewHosted creates a session screen embedded in a run.
func NewHosted(deps Deps, moduleID string) *Screen {
	s := New(deps, moduleID)
	s.hosted = true
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.loadModule()
}

func (s *Screen) Title() string {
	if s.state != nil && s.state.Module != nil {
		return s.state.Module.Title
	}
	return "Module"
}

// ConfirmBack intercepts Esc while answers are at stake.
func (s *Screen) ConfirmBack() bool {
	if s.state == nil {
		return false
	}
	switch s.state.Phase {
	case quiz.PhaseQuiz, quiz.PhaseGrading, quiz.PhaseGradeFailed:
		return true
	}
	return false
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.state == nil {
		return nil
	}
	switch s.state.Phase {
	case quiz.PhaseContent:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Back"},
		}
	case quiz.PhaseQuiz:
		return []layout.KeyHint{
			{Key: "↑↓/1-4", Description: "Choose"},
			{Key: "Enter", Description: "Submit"},
			{Key: "←", Description: "Previous"},
			{Key: "Esc", Description: "Quit"},
		}
	case quiz.PhaseResult:
		hints := []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "R", Description: "Try again"},
		}
		if g, ok := s.detourGame(); ok {
			hints = append(hints, layout.KeyHint{Key: "G", Description: g.Title})
		}
		return hints
	case quiz.PhaseGradeFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry grading"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case moduleLoadedMsg:
		return s.handleLoaded(msg)
	case answerCheckedMsg:
		return s.handleChecked(msg)
	case advanceMsg:
		return s.handleAdvance(msg)
	case gradedMsg:
		return s.handleGraded(msg)
	case progressSavedMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		if msg.err != nil {
			// The grade of record already stands; only the stored
			// best is at risk, so tell the learner and move on.
			s.saveErr = msg.err.Error()
			s.deps.Log.Warn("best-score save failed",
				zap.String("module", s.moduleID),
				zap.Error(msg.err))
			return s, nil
		}
		s.newBest = msg.best
		s.bestKnown = true
		return s, nil
	case CompletedMsg:
		// Only standalone sessions see their own completion; a host
		// intercepts the message before it gets here.
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleLoaded(msg moduleLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.gen != s.gen {
		return s, nil
	}
	if msg.err != nil {
		s.errMsg = msg.err.Error()
		return s, nil
	}
	s.state = quiz.NewSession(msg.module)
	s.deps.Notify.PhaseChanged(s.state.Phase.String())
	return s, nil
}

func (s *Screen) handleChecked(msg answerCheckedMsg) (screen.Screen, tea.Cmd) {
	// A verdict for a question we have moved away from, or from a
	// superseded attempt, must not repaint the current one.
	if msg.gen != s.gen || s.state == nil || s.state.Phase != quiz.PhaseQuiz || msg.qIndex != s.state.QIndex {
		return s, nil
	}
	s.checking = false

	if msg.err != nil {
		// Advisory feedback is best effort. The answer stays recorded
		// and navigation proceeds without a verdict.
		s.checkFailed = true
		s.deps.Log.Warn("advisory check failed",
			zap.String("question", msg.questionID),
			zap.Error(msg.err))
		s.pendingAdv = true
		gen, qIndex := s.gen, s.state.QIndex
		return s, tea.Tick(s.deps.Delay, func(time.Time) tea.Msg {
			return advanceMsg{gen: gen, qIndex: qIndex}
		})
	}

	s.state.SetFeedback(msg.questionID, msg.correct)
	s.choice.SetFeedback(msg.correct)
	s.deps.Notify.AnswerChecked(msg.correct)

	s.pendingAdv = true
	gen, qIndex := s.gen, s.state.QIndex
	return s, tea.Tick(s.deps.Delay, func(time.Time) tea.Msg {
		return advanceMsg{gen: gen, qIndex: qIndex}
	})
}

func (s *Screen) handleAdvance(msg advanceMsg) (screen.Screen, tea.Cmd) {
	if msg.gen != s.gen || s.state == nil || s.state.Phase != quiz.PhaseQuiz {
		return s, nil
	}
	if !s.pendingAdv || msg.qIndex != s.state.QIndex {
		return s, nil
	}
	s.pendingAdv = false
	s.checkFailed = false
	return s.advance()
}

// advance moves forward in the quiz, kicking off grading from the last
// question.
func (s *Screen) advance() (screen.Screen, tea.Cmd) {
	if s.state.Advance() {
		s.deps.Notify.PhaseChanged(s.state.Phase.String())
		return s, s.gradeQuiz()
	}
	s.rebuildChoice()
	return s, nil
}

func (s *Screen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	// Phase gate doubles as an exactly-once guard: once a result is
	// applied the session leaves grading and later arrivals are inert.
	if msg.gen != s.gen || s.state == nil || s.state.Phase != quiz.PhaseGrading {
		return s, nil
	}

	if msg.err != nil {
		s.state.FailGrade()
		s.deps.Notify.PhaseChanged(s.state.Phase.String())
		return s, nil
	}

	s.state.ApplyGrade(msg.result)
	s.deps.Notify.PhaseChanged(s.state.Phase.String())
	s.deps.Notify.SessionFinished(s.state.Passed())
	s.appendGradedEvents(msg.result)

	if msg.result.Total > 0 {
		return s, s.saveProgress(msg.result.Score)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" && s.ConfirmBack() {
		s.confirmQuit = true
		return s, nil
	}

	if s.state == nil {
		return s, nil
	}

	switch s.state.Phase {
	case quiz.PhaseContent:
		return s.handleContentKey(key)
	case quiz.PhaseQuiz:
		return s.handleQuizKey(msg, key)
	case quiz.PhaseResult:
		return s.handleResultKey(key)
	case quiz.PhaseGradeFailed:
		if key == "r" || key == "R" {
			if s.state.RetryGrade() {
				s.gen++
				return s, s.gradeQuiz()
			}
		}
	}
	return s, nil
}

func (s *Screen) handleContentKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k":
		if s.contentScroll > 0 {
			s.contentScroll--
		}
	case "down", "j":
		s.contentScroll++
	case "enter":
		if s.state.HasQuiz() {
			s.state.StartQuiz()
			s.deps.Notify.PhaseChanged(s.state.Phase.String())
			s.rebuildChoice()
			return s, nil
		}
		// Content-only module: done as soon as the reading is. No
		// grade, no score, no progress row.
		return s, s.finish()
	}
	return s, nil
}

func (s *Screen) handleQuizKey(msg tea.KeyMsg, key string) (screen.Screen, tea.Cmd) {
	// While feedback or a check is on screen the question is frozen.
	if s.pendingAdv || s.checking {
		return s, nil
	}

	switch key {
	case "enter":
		return s.submitAnswer()
	case "left", "backspace":
		s.state.Back()
		s.rebuildChoice()
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

// detourGame returns the companion mini-game for this module, if one
// exists and the password checker is wired.
func (s *Screen) detourGame() (games.Game, bool) {
	if s.deps.Checker == nil {
		return games.Game{}, false
	}
	return games.ForModule(s.moduleID)
}

func (s *Screen) handleResultKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "enter":
		return s, s.finish()
	case "g", "G":
		if _, ok := s.detourGame(); ok {
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: gamescreen.New(s.deps.Checker)}
			}
		}
	case "r", "R":
		s.state.Retry()
		s.gen++
		s.pendingAdv = false
		s.checking = false
		s.checkFailed = false
		s.newBest = 0
		s.bestKnown = false
		s.saveErr = ""
		s.deps.Notify.PhaseChanged(s.state.Phase.String())
		s.rebuildChoice()
		return s, nil
	}
	return s, nil
}

func (s *Screen) submitAnswer() (screen.Screen, tea.Cmd) {
	q := s.state.Current()
	if q == nil {
		return s, nil
	}
	idx := s.choice.Submit()
	s.state.Select(q.ID, idx)
	s.checking = true
	s.checkFailed = false

	s.appendAnswerEvent(store.AnswerEventData{
		SessionID:   s.sessionID,
		ModuleID:    s.moduleID,
		QuestionID:  q.ID,
		AnswerIndex: idx,
		Advisory:    true,
	})

	gen, qIndex, qid := s.gen, s.state.QIndex, q.ID
	return s, func() tea.Msg {
		correct, err := s.deps.Client.CheckAnswer(context.Background(), s.moduleID, qid, idx)
		return answerCheckedMsg{gen: gen, questionID: qid, qIndex: qIndex, correct: correct, err: err}
	}
}

// rebuildChoice resets the selector for the question under the cursor,
// restoring a previously recorded answer when revisiting.
func (s *Screen) rebuildChoice() {
	q := s.state.Current()
	if q == nil {
		return
	}
	s.choice = components.NewChoice(q.Question, q.Options)
	if idx, ok := s.state.Answers[q.ID]; ok {
		s.choice.SetChosen(idx)
		if correct, ok := s.state.Feedback[q.ID]; ok {
			s.choice.SetFeedback(correct)
		}
	}
}

func (s *Screen) loadModule() tea.Cmd {
	gen := s.gen
	return func() tea.Msg {
		module, err := s.deps.Client.GetModule(context.Background(), s.moduleID)
		return moduleLoadedMsg{gen: gen, module: module, err: err}
	}
}

func (s *Screen) gradeQuiz() tea.Cmd {
	gen := s.gen
	answers := make(content.AnswerMap, len(s.state.Answers))
	for k, v := range s.state.Answers {
		answers[k] = v
	}
	return func() tea.Msg {
		result, err := s.deps.Client.GradeQuiz(context.Background(), s.moduleID, answers)
		return gradedMsg{gen: gen, result: result, err: err}
	}
}

func (s *Screen) saveProgress(score int) tea.Cmd {
	if s.deps.Progress == nil {
		return nil
	}
	gen := s.gen
	return func() tea.Msg {
		best, err := s.deps.Progress.RecordScore(context.Background(), s.moduleID, score)
		return progressSavedMsg{gen: gen, best: best, err: err}
	}
}

func (s *Screen) appendAnswerEvent(data store.AnswerEventData) {
	if s.deps.Events == nil {
		return
	}
	if err := s.deps.Events.AppendAnswerEvent(context.Background(), data); err != nil {
		s.deps.Log.Warn("answer event not recorded",
			zap.String("module", data.ModuleID),
			zap.String("question", data.QuestionID),
			zap.Error(err))
	}
}

func (s *Screen) appendGradedEvents(result *content.GradeResult) {
	if s.deps.Events == nil {
		return
	}
	for _, qr := range result.Results {
		idx := -1
		if qr.YourIndex != nil {
			idx = *qr.YourIndex
		}
		s.appendAnswerEvent(store.AnswerEventData{
			SessionID:   s.sessionID,
			ModuleID:    s.moduleID,
			QuestionID:  qr.QuestionID,
			AnswerIndex: idx,
			Correct:     qr.Correct,
			Advisory:    false,
		})
	}
}

func (s *Screen) finish() tea.Cmd {
	msg := CompletedMsg{
		ModuleID: s.moduleID,
		Title:    s.Title(),
		HasQuiz:  s.state.HasQuiz(),
	}
	if s.state.Result != nil {
		msg.Score = s.state.Result.Score
		msg.Total = s.state.Result.Total
		msg.Passed = s.state.Passed()
		msg.Results = s.state.Result.Results
	}
	return func() tea.Msg { return msg }
}
