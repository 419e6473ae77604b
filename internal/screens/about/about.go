package about

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/glucoguard/internal/bundle"
	"github.com/abhisek/glucoguard/internal/nav"
	"github.com/abhisek/glucoguard/internal/risk"
	"github.com/abhisek/glucoguard/internal/ui/layout"
	"github.com/abhisek/glucoguard/internal/ui/theme"
)

// AboutScreen explains how the estimate is produced.
type AboutScreen struct {
	meta bundle.Metadata
}

var _ nav.Screen = (*AboutScreen)(nil)
var _ nav.KeyHintProvider = (*AboutScreen)(nil)

func New(b *bundle.Bundle) *AboutScreen {
	return &AboutScreen{meta: b.Metadata()}
}

func (s *AboutScreen) Init() tea.Cmd                        { return nil }
func (s *AboutScreen) Update(tea.Msg) (nav.Screen, tea.Cmd) { return s, nil }
func (s *AboutScreen) Title() string                        { return "How this works" }

func (s *AboutScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *AboutScreen) View(width, height int) string {
	textWidth := width - 6
	if textWidth > 76 {
		textWidth = 76
	}
	para := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text)

	var b strings.Builder
	b.WriteString(theme.Title.Render("How this works") + "\n\n")
	for _, note := range risk.HowItWorks {
		b.WriteString(para.Render("• "+note) + "\n")
	}

	b.WriteString("\n" + theme.Title.Render("Risk bands") + "\n")
	b.WriteString(para.Render("Low < 0.25 ≤ Moderate < 0.50 ≤ High < 0.75 ≤ Very High") + "\n")

	b.WriteString("\n" + theme.Title.Render("Model bundle") + "\n")
	if s.meta.Version != "" {
		b.WriteString(para.Render("Version: "+s.meta.Version) + "\n")
	}
	if s.meta.Description != "" {
		b.WriteString(para.Render(s.meta.Description) + "\n")
	}
	b.WriteString(para.Render("Features: "+strings.Join(s.meta.Features, ", ")) + "\n")
	b.WriteString(para.Render("Default threshold: "+strconv.FormatFloat(s.meta.Threshold, 'f', 2, 64)) + "\n")

	b.WriteString("\n" + lipgloss.NewStyle().Width(textWidth).Foreground(theme.TextDim).Render(risk.Disclaimer))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
