package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/glucoguard/internal/nav"
	"github.com/abhisek/glucoguard/internal/risk"
	"github.com/abhisek/glucoguard/internal/screens/form"
	"github.com/abhisek/glucoguard/internal/ui/layout"
)

// Options holds dependencies for the terminal UI.
type Options struct {
	Scorer *risk.Scorer
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	stack   *nav.Stack
	version string
	width   int
	height  int
}

// newAppModel creates a new AppModel with the form screen at the root.
func newAppModel(opts Options) AppModel {
	return AppModel{
		stack:   nav.NewStack(form.New(opts.Scorer)),
		version: opts.Scorer.Bundle().Version(),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.stack.Active().Init()
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
			if m.stack.Depth() > 1 {
				return m, nav.Pop()
			}
			return m, nil
		}
	}

	cmd := m.stack.Update(msg)
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

	header := layout.RenderHeader(m.stack.Active().Title(), m.version, m.width)

	hints := m.stack.KeyHints()
	if hints == nil {
		hints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.stack.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Scorer == nil {
		return fmt.Errorf("app: scorer is required")
	}
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
