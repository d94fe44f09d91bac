package run

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/ih4temyself/cyberkit-v1/internal/content"
	"github.com/ih4temyself/cyberkit-v1/internal/router"
	runstate "github.com/ih4temyself/cyberkit-v1/internal/run"
	"github.com/ih4temyself/cyberkit-v1/internal/screens/session"
	"github.com/ih4temyself/cyberkit-v1/internal/store"
)

// stubClient implements content.Client for run tests.
type stubClient struct {
	refs    []content.ModuleRef
	listErr error
}

func (c *stubClient) ListModules(context.Context) ([]content.ModuleRef, error) {
	return c.refs, c.listErr
}
func (c *stubClient) GetModule(_ context.Context, id string) (*content.ModuleDetail, error) {
	return &content.ModuleDetail{ID: id, Title: id}, nil
}
func (c *stubClient) CheckAnswer(context.Context, string, string, int) (bool, error) {
	return false, errors.New("not used")
}
func (c *stubClient) GradeQuiz(context.Context, string, content.AnswerMap) (*content.GradeResult, error) {
	return nil, errors.New("not used")
}

// stubEvents implements store.EventRepo for run tests.
type stubEvents struct {
	runEvents []store.RunEventData
}

func (e *stubEvents) AppendAnswerEvent(context.Context, store.AnswerEventData) error { return nil }
func (e *stubEvents) AppendRunEvent(_ context.Context, data store.RunEventData) error {
	e.runEvents = append(e.runEvents, data)
	return nil
}
func (e *stubEvents) RecentAnswers(context.Context, int) ([]store.AnswerEvent, error) {
	return nil, nil
}
func (e *stubEvents) ModuleAccuracy(context.Context, string) (float64, error) { return 0, nil }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func threeModuleClient() *stubClient {
	return &stubClient{refs: []content.ModuleRef{
		{ID: "a", Title: "A", QuizCount: 2},
		{ID: "updates", Title: "Updates", QuizCount: 0},
		{ID: "b", Title: "B", QuizCount: 2},
	}}
}

func testRun(client *stubClient, startAt int) (*Screen, *stubEvents) {
	events := &stubEvents{}
	deps := session.Deps{Client: client, Events: events, Delay: time.Millisecond}
	return New(deps, startAt), events
}

// load runs Init and feeds the order result back.
func load(t *testing.T, s *Screen) *Screen {
	t.Helper()
	msg := s.Init()()
	updated, _ := s.Update(msg)
	return updated.(*Screen)
}

func TestOrderLoadFailure(t *testing.T) {
	s, _ := testRun(&stubClient{listErr: errors.New("down")}, 0)
	s = load(t, s)

	if s.state.Phase != runstate.PhaseLoadFailed {
		t.Fatalf("phase = %s, want load_failed", s.state.Phase)
	}
	if s.child != nil {
		t.Error("no partial run may start on a failed load")
	}
	if s.View(80, 24) == "" {
		t.Error("expected non-empty failure view")
	}
}

func TestEmptyOrderingGoesStraightToFinal(t *testing.T) {
	s, _ := testRun(&stubClient{refs: nil}, 0)
	s = load(t, s)

	if s.state.Phase != runstate.PhaseFinal {
		t.Fatalf("phase = %s, want final", s.state.Phase)
	}
	if s.state.TotalScore() != 0 || s.state.TotalMax() != 0 {
		t.Error("empty run must aggregate to 0/0")
	}
}

func TestRunRecordsAndAggregates(t *testing.T) {
	s, events := testRun(threeModuleClient(), 0)
	s = load(t, s)

	if got, _ := s.state.CurrentModule(); got != "a" {
		t.Fatalf("first module = %q, want a", got)
	}
	if s.child == nil {
		t.Fatal("expected an embedded session for the first module")
	}

	// Module a: graded 1/2.
	updated, _ := s.Update(session.CompletedMsg{
		ModuleID: "a", Title: "A", HasQuiz: true, Score: 1, Total: 2,
	})
	s = updated.(*Screen)
	if got, _ := s.state.CurrentModule(); got != "updates" {
		t.Fatalf("second module = %q, want updates", got)
	}

	// Content-only module: completes without a record.
	updated, _ = s.Update(session.CompletedMsg{
		ModuleID: "updates", Title: "Updates", HasQuiz: false,
	})
	s = updated.(*Screen)
	if len(s.state.Records) != 1 {
		t.Fatalf("records = %d, want 1 (content-only leaves no record)", len(s.state.Records))
	}

	// Module b: graded 2/2, ends the run.
	updated, _ = s.Update(session.CompletedMsg{
		ModuleID: "b", Title: "B", HasQuiz: true, Score: 2, Total: 2,
	})
	s = updated.(*Screen)

	if s.state.Phase != runstate.PhaseFinal {
		t.Fatalf("phase = %s, want final", s.state.Phase)
	}
	if s.state.TotalScore() != 3 || s.state.TotalMax() != 4 {
		t.Errorf("aggregate = %d/%d, want 3/4", s.state.TotalScore(), s.state.TotalMax())
	}

	// Records preserve completion order.
	if s.state.Records[0].ModuleID != "a" || s.state.Records[1].ModuleID != "b" {
		t.Errorf("record order = %s,%s want a,b",
			s.state.Records[0].ModuleID, s.state.Records[1].ModuleID)
	}

	// Run lifecycle events: start and finish.
	if len(events.runEvents) != 2 {
		t.Fatalf("run events = %d, want 2", len(events.runEvents))
	}
	if events.runEvents[0].Action != "start" || events.runEvents[1].Action != "finish" {
		t.Errorf("run event actions = %s,%s", events.runEvents[0].Action, events.runEvents[1].Action)
	}
	if events.runEvents[1].TotalScore != 3 || events.runEvents[1].TotalMax != 4 {
		t.Errorf("finish event aggregate = %d/%d, want 3/4",
			events.runEvents[1].TotalScore, events.runEvents[1].TotalMax)
	}
}

func TestResumeMidSequence(t *testing.T) {
	s, _ := testRun(threeModuleClient(), 2)
	s = load(t, s)

	if got, _ := s.state.CurrentModule(); got != "b" {
		t.Fatalf("resumed module = %q, want b", got)
	}

	// Finishing the single remaining module ends the run with only
	// its record.
	updated, _ := s.Update(session.CompletedMsg{
		ModuleID: "b", Title: "B", HasQuiz: true, Score: 2, Total: 2,
	})
	s = updated.(*Screen)
	if s.state.Phase != runstate.PhaseFinal {
		t.Fatalf("phase = %s, want final", s.state.Phase)
	}
	if len(s.state.Records) != 1 {
		t.Errorf("records = %d, want 1", len(s.state.Records))
	}
}

func TestRestartDiscardsStaleOrder(t *testing.T) {
	s, _ := testRun(threeModuleClient(), 0)
	s = load(t, s)

	// Drive to final.
	for _, id := range []string{"a", "b"} {
		updated, _ := s.Update(session.CompletedMsg{ModuleID: id, Title: id, HasQuiz: true, Score: 1, Total: 2})
		s = updated.(*Screen)
	}
	updated, _ := s.Update(session.CompletedMsg{ModuleID: "updates", HasQuiz: false})
	s = updated.(*Screen)

	staleID := s.runID

	// Restart swaps in a brand-new run screen via the router.
	updated, cmd := s.Update(keyPress('r'))
	s = updated.(*Screen)
	if cmd == nil {
		t.Fatal("expected a replace command on restart")
	}
	rep, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	fresh, ok := rep.Screen.(*Screen)
	if !ok {
		t.Fatalf("expected a run screen, got %T", rep.Screen)
	}
	if fresh.runID == staleID {
		t.Error("restart must mint a new run id")
	}
	if fresh.state.Phase != runstate.PhaseLoading || len(fresh.state.Records) != 0 {
		t.Fatalf("fresh run must start loading with no records, got %s/%d",
			fresh.state.Phase, len(fresh.state.Records))
	}

	// An ordering that resolves for the abandoned attempt is dropped.
	updated, _ = fresh.Update(orderLoadedMsg{runID: staleID, ids: []string{"zzz"}})
	fresh = updated.(*Screen)
	if fresh.state.Phase != runstate.PhaseLoading {
		t.Error("stale ordering must not start a run")
	}

	// The fresh fetch does.
	updated, _ = fresh.Update(fresh.Init()())
	fresh = updated.(*Screen)
	if got, _ := fresh.state.CurrentModule(); got != "a" {
		t.Errorf("restarted module = %q, want a", got)
	}
}
