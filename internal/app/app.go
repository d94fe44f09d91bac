package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/ih4temyself/cyberkit-v1/internal/content"
	"github.com/ih4temyself/cyberkit-v1/internal/password"
	"github.com/ih4temyself/cyberkit-v1/internal/router"
	"github.com/ih4temyself/cyberkit-v1/internal/screen"
	"github.com/ih4temyself/cyberkit-v1/internal/screens/home"
	"github.com/ih4temyself/cyberkit-v1/internal/screens/session"
	"github.com/ih4temyself/cyberkit-v1/internal/signal"
	"github.com/ih4temyself/cyberkit-v1/internal/store"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/layout"
)

// Options carries the injected dependencies for the TUI.
type Options struct {
	Client        content.Client
	Progress      store.ProgressRepo
	Events        store.EventRepo
	Checker       password.Checker
	Notify        signal.Notifier
	Logger        *zap.Logger
	FeedbackDelay time.Duration
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	deps := home.Deps{
		Session: session.Deps{
			Client:   opts.Client,
			Progress: opts.Progress,
			Events:   opts.Events,
			Notify:   opts.Notify,
			Delay:    opts.FeedbackDelay,
			Log:      opts.Logger,
			Checker:  opts.Checker,
		},
	}
	return AppModel{
		router: router.New(home.New(deps)),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// Screens with answers at stake intercept Esc themselves.
			if guard, ok := m.router.Active().(screen.BackGuard); ok && guard.ConfirmBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, 0, 0, m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Notify == nil {
		opts.Notify = signal.Bell{}
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
