package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ih4temyself/cyberkit-v1/internal/ui/theme"
)

// Choice is a multiple-choice selector. It never knows the answer key:
// correctness arrives from outside via SetFeedback, so the key can
// stay on the server until grading.
type Choice struct {
	Question string
	Options  []string
	Selected int

	// Chosen is the submitted option index, or -1 before submission.
	Chosen int

	// feedback holds the advisory verdict for the chosen option once
	// known. nil means no verdict yet.
	feedback *bool
}

// NewChoice creates a selector for one question.
func NewChoice(question string, options []string) Choice {
	return Choice{
		Question: question,
		Options:  options,
		Chosen:   -1,
	}
}

// Init returns nil.
func (c Choice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Submission is the host's job;
// the component only tracks the highlighted option.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "1", "2", "3", "4":
		idx := int(kmsg.String()[0] - '1')
		if idx < len(c.Options) {
			c.Selected = idx
		}
	}

	return c, nil
}

// Submit locks in the highlighted option and clears stale feedback.
func (c *Choice) Submit() int {
	c.Chosen = c.Selected
	c.feedback = nil
	return c.Chosen
}

// SetChosen restores a previously submitted choice (revisiting a
// question keeps the earlier selection visible).
func (c *Choice) SetChosen(idx int) {
	if idx >= 0 && idx < len(c.Options) {
		c.Chosen = idx
		c.Selected = idx
	}
}

// SetFeedback records the advisory verdict for the chosen option.
func (c *Choice) SetFeedback(correct bool) {
	c.feedback = &correct
}

// HasFeedback reports whether a verdict is being displayed.
func (c Choice) HasFeedback() bool {
	return c.feedback != nil
}

// View renders the selector.
func (c Choice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(c.Question) + "\n\n"

	labels := []string{"A", "B", "C", "D", "E", "F"}

	for i, opt := range c.Options {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		prefix := "  "
		if i == c.Selected {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.feedback != nil && i == c.Chosen && *c.feedback:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case c.feedback != nil && i == c.Chosen:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		case c.feedback == nil && i == c.Chosen:
			style = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		case i == c.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		s += style.Render(line) + "\n"
	}

	if c.feedback != nil {
		s += "\n"
		if *c.feedback {
			s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("  ✓ Correct")
		} else {
			s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("  ✗ Not quite")
		}
	}

	return s
}
