package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/glucoguard/internal/ui/theme"
)

// Selector cycles through a fixed set of coded options with left/right.
type Selector struct {
	Labels   []string
	Values   []int
	Selected int
	Focused  bool
}

// NewSelector creates a selector positioned on the option whose value is
// initial, or on the first option if none matches.
func NewSelector(values []int, labels []string, initial int) Selector {
	s := Selector{Labels: labels, Values: values}
	s.SetValue(initial)
	return s
}

// Update handles left/right cycling while focused. Cycling wraps around.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	if !s.Focused || len(s.Values) == 0 {
		return s, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h":
		s.Selected = (s.Selected - 1 + len(s.Values)) % len(s.Values)
	case "right", "l", "space":
		s.Selected = (s.Selected + 1) % len(s.Values)
	}
	return s, nil
}

// Value returns the selected code.
func (s Selector) Value() int {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[s.Selected]
}

// SetValue selects the option with value v, if present.
func (s *Selector) SetValue(v int) {
	for i, val := range s.Values {
		if val == v {
			s.Selected = i
			return
		}
	}
}

// View renders the selected label between arrows.
func (s Selector) View() string {
	label := ""
	if len(s.Labels) > s.Selected {
		label = s.Labels[s.Selected]
	}
	if s.Focused {
		return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("◂ " + label + " ▸")
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render("  " + label + "  ")
}
