// Package game implements the Password Audit mini-game: type a
// password, get a strength estimate and a breach verdict back.
package game

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ih4temyself/cyberkit-v1/internal/password"
	"github.com/ih4temyself/cyberkit-v1/internal/screen"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/components"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/layout"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/theme"
)

// auditMsg is sent when a password audit resolves.
type auditMsg struct {
	gen    int
	report *password.Report
	err    error
}

// Screen is the Password Audit game.
type Screen struct {
	checker password.Checker

	input    components.TextInput
	gen      int
	auditing bool
	report   *password.Report
	errMsg   string
	audits   int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the game screen around a checker.
func New(checker password.Checker) *Screen {
	return &Screen{
		checker: checker,
		input:   components.NewTextInput("Type a password to audit...", true, 64),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	return "Password Audit"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Audit"},
		{Key: "Ctrl+R", Description: "Reveal"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case auditMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		s.auditing = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.report = msg.report
		s.audits++
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s.submit()
		case "ctrl+r":
			s.input.ToggleMask()
			return s, nil
		}
	}

	if s.auditing {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) submit() (screen.Screen, tea.Cmd) {
	value := s.input.Value()
	if value == "" || s.auditing || s.checker == nil {
		return s, nil
	}
	s.auditing = true
	s.errMsg = ""
	s.gen++

	gen := s.gen
	return s, func() tea.Msg {
		report, err := s.checker.Check(context.Background(), value)
		return auditMsg{gen: gen, report: report, err: err}
	}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw).Render("PASSWORD AUDIT"))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Width(cw).Render(
		"Nothing you type leaves this machine in the clear; breach checks send only a hash prefix."))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	audit := components.NewButton("Run audit", s.input.Value() != "" && !s.auditing, nil)
	b.WriteString(audit.View())
	b.WriteString("\n\n")

	switch {
	case s.auditing:
		b.WriteString(theme.Hint.Render("Auditing..."))
	case s.errMsg != "":
		b.WriteString(theme.Incorrect.Render("Audit failed: " + s.errMsg))
	case s.report != nil:
		b.WriteString(s.renderReport(cw))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		components.Card(b.String(), cw))
}

func (s *Screen) renderReport(cw int) string {
	r := s.report
	var b strings.Builder

	bar := components.NewProgressBar("Strength", float64(r.Score)/4.0, false, cw-10)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	verdictStyle := theme.Correct
	if r.Breached || r.Score < 2 {
		verdictStyle = theme.Incorrect
	}
	b.WriteString(verdictStyle.Render("Verdict: " + r.Verdict()))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Estimated entropy: %.0f bits", r.Entropy)))
	b.WriteString("\n")

	switch {
	case !r.BreachChecked:
		b.WriteString(theme.Hint.Render("Breach lookup unavailable; strength estimate only."))
	case r.Breached:
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Found in %d known breaches.", r.BreachCount)))
	default:
		b.WriteString(theme.Correct.Render("Not found in known breaches."))
	}

	return b.String()
}
