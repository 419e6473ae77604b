package form

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/glucoguard/internal/nav"
	"github.com/abhisek/glucoguard/internal/risk"
	"github.com/abhisek/glucoguard/internal/screens/about"
	"github.com/abhisek/glucoguard/internal/ui/components"
	"github.com/abhisek/glucoguard/internal/ui/layout"
	"github.com/abhisek/glucoguard/internal/ui/theme"
)

const labelWidth = 42

// FormScreen collects the seven survey inputs and the decision threshold and
// shows the scored result inline.
type FormScreen struct {
	scorer    *risk.Scorer
	fields    []risk.Field
	bmi       components.TextInput
	selectors []components.Selector // indexed like fields; unused for BMI
	threshold float64
	focus     int
	button    components.Button

	result   *risk.Result
	err      error
	errField string
}

var _ nav.Screen = (*FormScreen)(nil)
var _ nav.KeyHintProvider = (*FormScreen)(nil)

// New creates the form with default values and the scorer's default
// threshold.
func New(scorer *risk.Scorer) *FormScreen {
	s := &FormScreen{
		scorer:    scorer,
		fields:    risk.Fields(),
		bmi:       components.NewTextInput("e.g. 28.0", true, 5),
		threshold: scorer.DefaultThreshold(),
		button:    components.NewButton("Predict"),
	}

	s.selectors = make([]components.Selector, len(s.fields))
	for i, f := range s.fields {
		if f.Kind == risk.KindContinuous {
			s.bmi.SetValue(strconv.FormatFloat(f.Default, 'f', 1, 64))
			continue
		}
		var labels []string
		for _, v := range f.Choices() {
			labels = append(labels, f.ChoiceLabel(v))
		}
		s.selectors[i] = components.NewSelector(f.Choices(), labels, int(f.Default))
	}
	s.setFocus(0)
	return s
}

func (s *FormScreen) Init() tea.Cmd {
	return s.bmi.Focus()
}

func (s *FormScreen) Title() string {
	return "Diabetes Risk"
}

func (s *FormScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Predict"},
		{Key: "?", Description: "How this works"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// focus positions after the survey fields.
func (s *FormScreen) thresholdIndex() int { return len(s.fields) }
func (s *FormScreen) predictIndex() int   { return len(s.fields) + 1 }

func (s *FormScreen) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		s.bmi, cmd = s.bmi.Update(msg)
		return s, cmd
	}

	switch kmsg.String() {
	case "?":
		return s, nav.Push(about.New(s.scorer.Bundle()))
	case "up", "shift+tab":
		return s, s.move(-1)
	case "down", "tab":
		return s, s.move(1)
	case "enter":
		if s.focus == s.predictIndex() {
			s.submit()
			return s, nil
		}
		return s, s.move(1)
	}

	switch {
	case s.focus == s.thresholdIndex():
		s.stepThreshold(kmsg.String())
		return s, nil
	case s.focus < len(s.fields) && s.fields[s.focus].Kind == risk.KindContinuous:
		var cmd tea.Cmd
		s.bmi, cmd = s.bmi.Update(msg)
		return s, cmd
	case s.focus < len(s.fields):
		s.selectors[s.focus], _ = s.selectors[s.focus].Update(msg)
	}
	return s, nil
}

// move shifts focus by delta, wrapping around.
func (s *FormScreen) move(delta int) tea.Cmd {
	n := s.predictIndex() + 1
	return s.setFocus((s.focus + delta + n) % n)
}

func (s *FormScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	s.button.Focused = i == s.predictIndex()
	for j := range s.selectors {
		s.selectors[j].Focused = j == i
	}
	if i < len(s.fields) && s.fields[i].Kind == risk.KindContinuous {
		return s.bmi.Focus()
	}
	s.bmi.Blur()
	return nil
}

func (s *FormScreen) stepThreshold(key string) {
	switch key {
	case "left", "h", "-":
		s.threshold -= risk.UIThresholdStep
	case "right", "l", "+":
		s.threshold += risk.UIThresholdStep
	default:
		return
	}
	s.threshold = risk.ClampThreshold(math.Round(s.threshold*100) / 100)
}

// record assembles the survey values from the controls.
func (s *FormScreen) record() (risk.Record, error) {
	rec := make(risk.Record, len(s.fields))
	for i, f := range s.fields {
		if f.Kind == risk.KindContinuous {
			v, err := s.bmi.FloatValue()
			if err != nil {
				return nil, &risk.ErrInvalidInput{Field: f.Name, Reason: fmt.Sprintf("%q is not a number", s.bmi.Value())}
			}
			rec[f.Name] = v
			continue
		}
		rec[f.Name] = float64(s.selectors[i].Value())
	}
	return rec, nil
}

func (s *FormScreen) submit() {
	s.err, s.errField = nil, ""

	rec, err := s.record()
	if err == nil {
		var res risk.Result
		res, err = s.scorer.Score(rec, s.threshold)
		if err == nil {
			s.result = &res
			return
		}
	}

	s.result = nil
	s.err = err
	var invalid *risk.ErrInvalidInput
	if errors.As(err, &invalid) {
		s.errField = invalid.Field
	}
}

func (s *FormScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Hint.Render(risk.Tagline) + "\n\n")

	label := lipgloss.NewStyle().Width(labelWidth)
	for i, f := range s.fields {
		style := theme.Unselected
		if i == s.focus {
			style = theme.Selected
		}
		control := s.selectors[i].View()
		if f.Kind == risk.KindContinuous {
			control = "  " + s.bmi.View()
		}
		b.WriteString(label.Render(style.Render(f.Prompt)) + control + "\n")
		if f.Name == s.errField && s.err != nil {
			b.WriteString(theme.Invalid.Render("  ✗ "+s.err.Error()) + "\n")
		}
	}

	b.WriteString("\n" + s.thresholdView(label) + "\n")
	b.WriteString(theme.Hint.Render(risk.ThresholdHint) + "\n\n")
	b.WriteString(s.button.View() + "\n")

	if s.err != nil && s.errField == "" {
		b.WriteString("\n" + theme.Invalid.Render("✗ "+s.err.Error()) + "\n")
	}
	if s.result != nil {
		b.WriteString("\n" + resultView(*s.result, width))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (s *FormScreen) thresholdView(label lipgloss.Style) string {
	text := strconv.FormatFloat(s.threshold, 'f', 2, 64)
	if s.focus == s.thresholdIndex() {
		return label.Render(theme.Selected.Render("Decision threshold")) +
			theme.Selected.Render("◂ "+text+" ▸")
	}
	return label.Render(theme.Unselected.Render("Decision threshold")) + "  " + text
}

func resultView(res risk.Result, width int) string {
	barWidth := width - 8
	if barWidth > 60 {
		barWidth = 60
	}
	bar := components.NewProgressBar("", res.Probability, false, barWidth)
	bar.Fill = lipgloss.NewStyle().Background(lipgloss.Color(res.Label.Color()))

	lines := []string{
		theme.Hint.Render("Estimated probability ") + theme.Metric.Render(res.ProbabilityText()) +
			"   " + components.Pill(res.Verdict(), res.Label.Color()),
		bar.View(),
		theme.Hint.Render("Decision threshold = " + res.ThresholdText()),
		lipgloss.NewStyle().Width(barWidth).Foreground(theme.TextDim).Render(risk.Disclaimer),
	}
	return strings.Join(lines, "\n")
}
