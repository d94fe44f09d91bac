// Package run hosts the full-curriculum run: every module in catalog
// order as one continuous assessment with an aggregate final summary.
package run

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ih4temyself/cyberkit-v1/internal/router"
	runstate "github.com/ih4temyself/cyberkit-v1/internal/run"
	"github.com/ih4temyself/cyberkit-v1/internal/screen"
	"github.com/ih4temyself/cyberkit-v1/internal/screens/session"
	"github.com/ih4temyself/cyberkit-v1/internal/signal"
	"github.com/ih4temyself/cyberkit-v1/internal/store"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/layout"
)

// orderLoadedMsg is sent when the module ordering fetch resolves. It is
// tagged with the run id that requested it; an ordering for an abandoned
// run must not start a fresh one.
type orderLoadedMsg struct {
	runID string
	ids   []string
	err   error
}

// Screen orchestrates module sessions one after another. The active
// session screen is embedded, not pushed: this screen stays on the
// router stack and forwards messages, so it can intercept completions.
type Screen struct {
	deps    session.Deps
	notify  signal.Notifier
	startAt int

	runID string

	state *runstate.Run
	child *session.Screen

	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.BackGuard = (*Screen)(nil)

// New creates a run over the full module catalog, starting at startAt
// (0 for a fresh run; higher to resume mid-sequence).
func New(deps session.Deps, startAt int) *Screen {
	notify := deps.Notify
	if notify == nil {
		notify = signal.Nop{}
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Screen{
		deps:    deps,
		notify:  notify,
		startAt: startAt,
		runID:   uuid.NewString(),
		state:   runstate.New(),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.loadOrder()
}

func (s *Screen) Title() string {
	if s.state.Phase == runstate.PhaseModule && s.child != nil {
		return fmt.Sprintf("Run %d/%d · %s", s.state.Index+1, len(s.state.Order), s.child.Title())
	}
	if s.state.Phase == runstate.PhaseFinal {
		return "Run Complete"
	}
	return "Full Run"
}

func (s *Screen) ConfirmBack() bool {
	if s.child != nil && s.state.Phase == runstate.PhaseModule {
		return s.child.ConfirmBack()
	}
	return false
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.state.Phase {
	case runstate.PhaseModule:
		if s.child != nil {
			return s.child.KeyHints()
		}
	case runstate.PhaseFinal:
		return []layout.KeyHint{
			{Key: "R", Description: "Run again"},
			{Key: "Enter/Esc", Description: "Home"},
		}
	case runstate.PhaseLoadFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case orderLoadedMsg:
		return s.handleOrderLoaded(msg)

	case session.CompletedMsg:
		return s.handleModuleCompleted(msg)

	case tea.KeyMsg:
		switch s.state.Phase {
		case runstate.PhaseFinal:
			return s.handleFinalKey(msg.String())
		case runstate.PhaseLoadFailed:
			switch msg.String() {
			case "r", "R":
				return s.restart()
			case "esc", "enter":
				return s, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return s, nil
		}
	}

	// Everything else belongs to the active module session.
	return s, s.forward(msg)
}

func (s *Screen) handleOrderLoaded(msg orderLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.runID != s.runID || s.state.Phase != runstate.PhaseLoading {
		return s, nil
	}
	if msg.err != nil {
		s.state.FailLoad()
		s.errMsg = msg.err.Error()
		s.notify.PhaseChanged(s.state.Phase.String())
		return s, nil
	}

	s.state.SetOrder(msg.ids, s.startAt)
	s.notify.PhaseChanged(s.state.Phase.String())
	s.appendRunEvent("start", len(msg.ids))

	if s.state.Phase == runstate.PhaseFinal {
		// Empty catalog: straight to the (empty) summary.
		return s, nil
	}
	return s, s.startModule()
}

func (s *Screen) handleModuleCompleted(msg session.CompletedMsg) (screen.Screen, tea.Cmd) {
	if s.state.Phase != runstate.PhaseModule {
		return s, nil
	}

	// Content-only modules pass through the run without a record; the
	// aggregates mean "sum over graded quizzes".
	if msg.HasQuiz {
		s.state.Append(runstate.Record{
			ModuleID: msg.ModuleID,
			Title:    msg.Title,
			Score:    msg.Score,
			Total:    msg.Total,
			Details:  msg.Results,
		})
	}

	if s.state.Advance() {
		s.child = nil
		s.notify.PhaseChanged(s.state.Phase.String())
		s.appendRunEvent("finish", len(s.state.Order))
		return s, nil
	}
	return s, s.startModule()
}

func (s *Screen) handleFinalKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "r", "R":
		return s.restart()
	case "enter", "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

// restart swaps in a brand-new run screen. Replacement, not reset: any
// async work still in flight belongs to the old screen's run id and
// cannot leak into the new attempt.
func (s *Screen) restart() (screen.Screen, tea.Cmd) {
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: New(s.deps, 0)}
	}
}

// startModule spins up a hosted session for the module under the cursor.
func (s *Screen) startModule() tea.Cmd {
	id, ok := s.state.CurrentModule()
	if !ok {
		return nil
	}
	s.child = session.NewHosted(s.deps, id)
	return s.child.Init()
}

// forward delivers a message to the embedded session screen.
func (s *Screen) forward(msg tea.Msg) tea.Cmd {
	if s.child == nil {
		return nil
	}
	updated, cmd := s.child.Update(msg)
	if c, ok := updated.(*session.Screen); ok {
		s.child = c
	}
	return cmd
}

func (s *Screen) loadOrder() tea.Cmd {
	runID := s.runID
	return func() tea.Msg {
		refs, err := s.deps.Client.ListModules(context.Background())
		if err != nil {
			return orderLoadedMsg{runID: runID, err: err}
		}
		ids := make([]string, 0, len(refs))
		for _, ref := range refs {
			ids = append(ids, ref.ID)
		}
		return orderLoadedMsg{runID: runID, ids: ids}
	}
}

func (s *Screen) appendRunEvent(action string, moduleCount int) {
	if s.deps.Events == nil {
		return
	}
	err := s.deps.Events.AppendRunEvent(context.Background(), store.RunEventData{
		RunID:       s.runID,
		Action:      action,
		ModuleCount: moduleCount,
		TotalScore:  s.state.TotalScore(),
		TotalMax:    s.state.TotalMax(),
	})
	if err != nil {
		s.deps.Log.Warn("run event not recorded",
			zap.String("run", s.runID),
			zap.String("action", action),
			zap.Error(err))
	}
}
