package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/olympiadforge/forge/internal/router"
	"github.com/olympiadforge/forge/internal/screen"
	"github.com/olympiadforge/forge/internal/screens/activity"
	"github.com/olympiadforge/forge/internal/screens/forge"
	"github.com/olympiadforge/forge/internal/screens/importer"
	"github.com/olympiadforge/forge/internal/screens/library"
	"github.com/olympiadforge/forge/internal/screens/notice"
	"github.com/olympiadforge/forge/internal/ui/components"
	"github.com/olympiadforge/forge/internal/ui/layout"
)

// recentCount is how many saved titles the home screen lists.
const recentCount = 3

// HomeScreen is the main menu.
type HomeScreen struct {
	env  *screen.Env
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	items := []components.MenuItem{
		{Label: "Forge a problem", Hint: "Generate, sketch, refine and verify", Action: push(func() screen.Screen {
			if env.Generator == nil {
				return notice.ProviderMissing()
			}
			return forge.New(env)
		})},
		{Label: "Problem library", Hint: "Workflow board of saved problems", Action: push(func() screen.Screen {
			return library.New(env)
		})},
		{Label: "Import", Hint: "Merge a share link or an export", Action: push(func() screen.Screen {
			return importer.New(env)
		})},
		{Label: "Model activity", Hint: "Requests, tokens and cost", Disabled: env.Activity == nil, Action: push(func() screen.Screen {
			return activity.New(env.Activity)
		})},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{env: env, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	compact := layout.IsCompact(width, height+6)
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	sections = append(sections, renderLibraryStats(h.env.Library.Counts(), cw))
	if !compact {
		recent := h.env.Library.All()
		if len(recent) > recentCount {
			recent = recent[:recentCount]
		}
		if r := renderRecent(recent, cw); r != "" {
			sections = append(sections, r)
		}
	}
	sections = append(sections, renderMenu(h.menu, cw))
	sections = append(sections, renderProviderLine(h.env.Model, h.env.Generator != nil, cw))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
