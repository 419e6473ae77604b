package nav

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/glucoguard/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen and command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens that supply their own footer
// key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// PushScreenMsg requests the stack to push a new screen.
type PushScreenMsg struct {
	Screen Screen
}

// PopScreenMsg requests the stack to pop the current screen.
type PopScreenMsg struct{}

// Push returns a command that pushes s.
func Push(s Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

// Pop returns a command that pops the current screen.
func Pop() tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{} }
}

// Stack manages the screen stack. The bottom screen is never popped.
type Stack struct {
	screens []Screen
}

// NewStack creates a stack with the given root screen.
func NewStack(root Screen) *Stack {
	return &Stack{screens: []Screen{root}}
}

// Push adds s on top and calls its Init.
func (st *Stack) Push(s Screen) tea.Cmd {
	st.screens = append(st.screens, s)
	return s.Init()
}

// Pop removes the top screen. No-op at the root.
func (st *Stack) Pop() {
	if len(st.screens) <= 1 {
		return
	}
	st.screens = st.screens[:len(st.screens)-1]
}

// Active returns the top screen.
func (st *Stack) Active() Screen {
	return st.screens[len(st.screens)-1]
}

// Depth returns the number of screens on the stack.
func (st *Stack) Depth() int {
	return len(st.screens)
}

// Update handles navigation messages and forwards everything else to the
// active screen.
func (st *Stack) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return st.Push(msg.Screen)
	case PopScreenMsg:
		st.Pop()
		return nil
	}

	updated, cmd := st.Active().Update(msg)
	st.screens[len(st.screens)-1] = updated
	return cmd
}

// View renders the active screen.
func (st *Stack) View(width, height int) string {
	return st.Active().View(width, height)
}

// KeyHints returns the active screen's hints, or nil if it has none.
func (st *Stack) KeyHints() []layout.KeyHint {
	if p, ok := st.Active().(KeyHintProvider); ok {
		return p.KeyHints()
	}
	return nil
}
