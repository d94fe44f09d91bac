// Package home is the entry screen: curriculum overview, best scores,
// and navigation into runs, single modules and mini-games.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/ih4temyself/cyberkit-v1/internal/content"
	"github.com/ih4temyself/cyberkit-v1/internal/games"
	"github.com/ih4temyself/cyberkit-v1/internal/router"
	"github.com/ih4temyself/cyberkit-v1/internal/screen"
	gamescreen "github.com/ih4temyself/cyberkit-v1/internal/screens/game"
	runscreen "github.com/ih4temyself/cyberkit-v1/internal/screens/run"
	sessionscreen "github.com/ih4temyself/cyberkit-v1/internal/screens/session"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/components"
	"github.com/ih4temyself/cyberkit-v1/internal/ui/theme"
)

// Deps carries everything the home screen hands down to child screens.
type Deps struct {
	Session sessionscreen.Deps
}

// modulesLoadedMsg is sent when the catalog and best scores resolve.
type modulesLoadedMsg struct {
	refs []content.ModuleRef
	best map[string]int
	err  error
}

// Screen is the main home screen of the application.
type Screen struct {
	deps Deps

	menu    components.Menu
	refs    []content.ModuleRef
	best    map[string]int
	loaded  bool
	loadErr string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the home screen. The catalog loads asynchronously; until
// then only the offline entries are available.
func New(deps Deps) *Screen {
	s := &Screen{deps: deps, best: map[string]int{}}
	s.menu = components.NewMenu(s.buildMenu())
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.loadCatalog()
}

func (s *Screen) Title() string {
	return "Home"
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case modulesLoadedMsg:
		if msg.err != nil {
			s.loadErr = msg.err.Error()
			return s, nil
		}
		s.loaded = true
		s.loadErr = ""
		s.refs = msg.refs
		if msg.best != nil {
			s.best = msg.best
		}
		s.menu = components.NewMenu(s.buildMenu())
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "r" && s.loadErr != "" {
			return s, s.loadCatalog()
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, theme.Title.Width(cw).Render("C Y B E R K I T"))
	sections = append(sections, theme.Subtitle.Width(cw).Render("security habits, one module at a time"))

	if s.loadErr != "" {
		sections = append(sections,
			theme.Incorrect.Width(cw).Render("Content server unreachable.")+"\n"+
				theme.Hint.Width(cw).Render(s.loadErr+"  (press R to retry)"))
	} else if s.loaded {
		sections = append(sections, s.renderStats(cw))
	} else {
		sections = append(sections, theme.Hint.Width(cw).Render("Loading modules..."))
	}

	sections = append(sections, components.Card(s.menu.View(), cw))

	content := strings.Join(sections, "\n\n")
	return components.PanelFrame(content, width, height)
}

func (s *Screen) renderStats(cw int) string {
	completed := 0
	for _, ref := range s.refs {
		if ref.QuizCount > 0 {
			if _, ok := s.best[ref.ID]; ok {
				completed++
			}
		}
	}
	graded := 0
	for _, ref := range s.refs {
		if ref.QuizCount > 0 {
			graded++
		}
	}
	return theme.Subtitle.Width(cw).Render(
		fmt.Sprintf("%d of %d graded modules attempted", completed, graded))
}

func (s *Screen) buildMenu() []components.MenuItem {
	items := []components.MenuItem{
		{
			Label:    "START FULL RUN",
			Disabled: !s.loaded,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: runscreen.New(s.deps.Session, 0)}
				}
			},
		},
	}

	for _, ref := range s.refs {
		detail := ""
		if ref.QuizCount > 0 {
			if best, ok := s.best[ref.ID]; ok {
				detail = fmt.Sprintf("best %d/%d", best, ref.QuizCount)
			} else {
				detail = fmt.Sprintf("%d questions", ref.QuizCount)
			}
		} else {
			detail = "reading"
		}

		id := ref.ID
		items = append(items, components.MenuItem{
			Label:  strings.ToUpper(ref.Title),
			Detail: detail,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: sessionscreen.New(s.deps.Session, id)}
				}
			},
		})
	}

	for _, g := range games.List() {
		game := g
		items = append(items, components.MenuItem{
			Label:    strings.ToUpper(game.Title),
			Detail:   "mini-game",
			Disabled: s.deps.Session.Checker == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: gamescreen.New(s.deps.Session.Checker)}
				}
			},
		})
	}

	items = append(items, components.MenuItem{
		Label: "QUIT",
		Action: func() tea.Cmd {
			return tea.Quit
		},
	})
	return items
}

func (s *Screen) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		refs, err := s.deps.Session.Client.ListModules(ctx)
		if err != nil {
			return modulesLoadedMsg{err: err}
		}
		var best map[string]int
		if s.deps.Session.Progress != nil {
			// Best scores are cosmetic here; a read failure only
			// hides them.
			best, _ = s.deps.Session.Progress.All(ctx)
		}
		return modulesLoadedMsg{refs: refs, best: best}
	}
}
