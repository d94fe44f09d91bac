package game

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/ih4temyself/cyberkit-v1/internal/password"
)

// stubChecker implements password.Checker for testing.
type stubChecker struct {
	report *password.Report
	err    error
	calls  int
}

func (c *stubChecker) Check(context.Context, string) (*password.Report, error) {
	c.calls++
	return c.report, c.err
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestSubmitEmptyDoesNothing(t *testing.T) {
	checker := &stubChecker{}
	s := New(checker)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("empty input must not audit")
	}
	if checker.calls != 0 {
		t.Errorf("checker calls = %d, want 0", checker.calls)
	}
}

func TestAuditFlow(t *testing.T) {
	checker := &stubChecker{report: &password.Report{
		Score:            4,
		Entropy:          72,
		CrackTimeDisplay: "centuries",
		BreachChecked:    true,
	}}
	s := New(checker)
	s.input.Model.SetValue("correct-battery-staple-horse")

	updated, cmd := s.Update(specialKey(tea.KeyEnter))
	s = updated.(*Screen)
	if cmd == nil {
		t.Fatal("expected audit command")
	}
	if !s.auditing {
		t.Error("expected auditing state while check is in flight")
	}

	msg := cmd().(auditMsg)
	updated, _ = s.Update(msg)
	s = updated.(*Screen)

	if s.report == nil || s.report.Score != 4 {
		t.Fatalf("report not applied: %+v", s.report)
	}
	if s.View(80, 24) == "" {
		t.Error("expected non-empty report view")
	}
}

func TestStaleAuditDropped(t *testing.T) {
	s := New(&stubChecker{err: errors.New("late")})
	s.gen = 2

	updated, _ := s.Update(auditMsg{gen: 1, report: &password.Report{Score: 1}})
	s = updated.(*Screen)
	if s.report != nil {
		t.Error("stale audit result must be dropped")
	}
}

func TestAuditErrorShown(t *testing.T) {
	checker := &stubChecker{err: errors.New("server down")}
	s := New(checker)
	s.input.Model.SetValue("hunter2")

	updated, cmd := s.Update(specialKey(tea.KeyEnter))
	s = updated.(*Screen)
	updated, _ = s.Update(cmd().(auditMsg))
	s = updated.(*Screen)

	if s.errMsg == "" {
		t.Error("expected audit error surfaced")
	}
	if s.auditing {
		t.Error("auditing flag must clear on error")
	}
}
