package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ih4temyself/cyberkit-v1/internal/content"
	"github.com/ih4temyself/cyberkit-v1/internal/quiz"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/components"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.state == nil {
		return renderLoading(width)
	}
	if s.confirmQuit {
		return renderConfirmQuit(width)
	}

	switch s.state.Phase {
	case quiz.PhaseContent:
		return s.renderContent(width, height)
	case quiz.PhaseQuiz:
		return s.renderQuestion(width)
	case quiz.PhaseGrading:
		return renderCentered(width, theme.Hint.Render("Grading your answers..."))
	case quiz.PhaseResult:
		return s.renderResult(width)
	case quiz.PhaseGradeFailed:
		return renderCentered(width,
			theme.Incorrect.Render("Grading failed.")+"\n\n"+
				theme.Hint.Render("Your answers are kept. Press R to retry."))
	}
	return ""
}

// renderContent lays out the module's content blocks with scrolling.
func (s *Screen) renderContent(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	for _, block := range s.state.Module.Content {
		switch block.Kind {
		case content.BlockParagraph:
			b.WriteString(theme.Body.Width(cw).Render(block.Text))
			b.WriteString("\n\n")
		case content.BlockBullets:
			for _, item := range block.Items {
				b.WriteString(theme.Body.Width(cw - 4).Render("  • " + item))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		case content.BlockTip:
			b.WriteString(theme.Tip.Width(cw).Render("💡 " + block.Text))
			b.WriteString("\n\n")
		}
	}

	if s.state.HasQuiz() {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Press Enter to start the quiz (%d questions)", len(s.state.Module.Quiz))))
	} else {
		b.WriteString(theme.Hint.Render("No quiz for this one. Press Enter when you are done reading."))
	}

	lines := strings.Split(b.String(), "\n")
	visible := height - 2
	if visible < 1 {
		visible = 1
	}
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.contentScroll > maxScroll {
		s.contentScroll = maxScroll
	}
	end := s.contentScroll + visible
	if end > len(lines) {
		end = len(lines)
	}
	body := strings.Join(lines[s.contentScroll:end], "\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (s *Screen) renderQuestion(width int) string {
	total := len(s.state.Module.Quiz)
	cw := components.ContentWidth(width)

	position := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("Question %d of %d", s.state.QIndex+1, total))

	bar := components.NewProgressBar("", float64(s.state.QIndex)/float64(total), false, cw/2)

	var status string
	switch {
	case s.checking:
		status = theme.Hint.Render("Checking...")
	case s.checkFailed:
		status = theme.Hint.Render("Couldn't check this one. Moving on...")
	case s.pendingAdv:
		status = "" // feedback renders inside the choice
	}

	parts := []string{
		position + "   " + bar.View(),
		"",
		s.choice.View(),
	}
	if status != "" {
		parts = append(parts, "", status)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(parts, "\n"))
}

func (s *Screen) renderResult(width int) string {
	res := s.state.Result
	cw := components.ContentWidth(width)
	var b strings.Builder

	headline := fmt.Sprintf("Score: %d / %d", res.Score, res.Total)
	if s.state.Passed() {
		b.WriteString(theme.Correct.Render("✓ Passed — " + headline))
	} else {
		b.WriteString(theme.Incorrect.Render("✗ Not passed — " + headline))
	}
	b.WriteString("\n")

	if s.bestKnown {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Best for this module: %d", s.newBest)))
		b.WriteString("\n")
	}
	if s.saveErr != "" {
		b.WriteString(theme.Incorrect.Render("Couldn't save your best score: " + s.saveErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, qr := range res.Results {
		q := questionText(s.state.Module, qr.QuestionID)
		mark := theme.Incorrect.Render("✗")
		if qr.Correct {
			mark = theme.Correct.Render("✓")
		}
		b.WriteString(fmt.Sprintf("%s %d. %s\n", mark, i+1, theme.Body.Render(q)))

		if !qr.Correct {
			correct := optionText(s.state.Module, qr.QuestionID, qr.CorrectIndex)
			b.WriteString("    " + theme.Hint.Render("Answer: "+correct) + "\n")
			if qr.Explanation != "" {
				b.WriteString("    " + lipgloss.NewStyle().
					Foreground(theme.TextDim).Width(cw-4).
					Render(qr.Explanation) + "\n")
			}
		}
	}

	if g, ok := s.detourGame(); ok {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(
			fmt.Sprintf("Press G to try the %s mini-game.", g.Title)))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func questionText(m *content.ModuleDetail, questionID string) string {
	for _, q := range m.Quiz {
		if q.ID == questionID {
			return q.Question
		}
	}
	return questionID
}

func optionText(m *content.ModuleDetail, questionID string, idx int) string {
	for _, q := range m.Quiz {
		if q.ID == questionID {
			if idx >= 0 && idx < len(q.Options) {
				return q.Options[idx]
			}
		}
	}
	return ""
}

func renderLoading(width int) string {
	return renderCentered(width, theme.Hint.Render("Loading module..."))
}

func renderError(width int, msg string) string {
	return renderCentered(width,
		theme.Incorrect.Render("Couldn't load this module.")+"\n\n"+
			theme.Hint.Render(msg)+"\n\n"+
			theme.Hint.Render("Press any key to go back."))
}

func renderConfirmQuit(width int) string {
	return renderCentered(width,
		theme.Body.Render("Abandon this quiz?")+"\n\n"+
			theme.Hint.Render("Your answers so far will be lost.  [Y]es / [N]o"))
}

func renderCentered(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Padding(2, 0).
		Render(content)
}
