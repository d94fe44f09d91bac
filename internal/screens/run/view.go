package run

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ih4temyself/cyberkit-v1/internal/games"
	runstate "github.com/ih4temyself/cyberkit-v1/internal/run"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/components"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch s.state.Phase {
	case runstate.PhaseLoading:
		return centered(width, theme.Hint.Render("Loading the curriculum..."))
	case runstate.PhaseLoadFailed:
		return centered(width,
			theme.Incorrect.Render("Couldn't load the curriculum.")+"\n\n"+
				theme.Hint.Render(s.errMsg)+"\n\n"+
				theme.Hint.Render("Press R to retry or Esc to go back."))
	case runstate.PhaseModule:
		if s.child != nil {
			return s.child.View(width, height)
		}
		return centered(width, theme.Hint.Render("Starting module..."))
	case runstate.PhaseFinal:
		return s.renderFinal(width)
	}
	return ""
}

func (s *Screen) renderFinal(width int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	score, max := s.state.TotalScore(), s.state.TotalMax()
	b.WriteString(theme.Title.Width(cw).Render("RUN COMPLETE"))
	b.WriteString("\n\n")

	if len(s.state.Records) == 0 {
		b.WriteString(theme.Hint.Width(cw).Render("No graded modules this time."))
		return components.Card(b.String(), cw)
	}

	for _, rec := range s.state.Records {
		mark := theme.Incorrect.Render("✗")
		if rec.Score*2 >= rec.Total {
			mark = theme.Correct.Render("✓")
		}
		line := fmt.Sprintf("%s %-32s %d/%d", mark, rec.Title, rec.Score, rec.Total)
		b.WriteString(theme.Body.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("Total: %d / %d", score, max)))

	if hint := s.gameHint(); hint != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(cw).Render(hint))
	}

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Padding(1, 0).
		Render(components.Card(b.String(), cw))
}

// gameHint suggests a companion mini-game for the weakest module.
func (s *Screen) gameHint() string {
	for _, rec := range s.state.Records {
		if rec.Score*2 >= rec.Total {
			continue
		}
		if g, ok := games.ForModule(rec.ModuleID); ok {
			return fmt.Sprintf("Shaky on %s? Try the %s game from the home menu.", rec.Title, g.Title)
		}
	}
	return ""
}

func centered(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Padding(2, 0).
		Render(content)
}
