package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/ih4temyself/cyberkit-v1/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackGuard is an optional interface for screens that need to intercept
// Esc instead of being popped immediately (e.g. to confirm abandoning a
// quiz in progress).
type BackGuard interface {
	// ConfirmBack returns true when the screen wants to handle Esc
	// itself; the router then forwards the key instead of popping.
	ConfirmBack() bool
}
