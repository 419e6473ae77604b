package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/glucoguard/internal/ui/theme"
)

// Pill renders text on a colored rounded background.
func Pill(text string, bg string) string {
	return theme.Pill.Background(lipgloss.Color(bg)).Render(text)
}
