package risk

import (
	"fmt"
	"math"

	"github.com/abhisek/glucoguard/internal/bundle"
)

// Kind is the value domain of a survey field.
type Kind int

const (
	KindContinuous Kind = iota // real number within [Min, Max]
	KindBinary                 // 0 or 1
	KindOrdinal                // integer code within [Min, Max]
)

// Field describes one survey input: its domain, form default and labels.
type Field struct {
	Name    string
	Prompt  string
	Kind    Kind
	Min     float64
	Max     float64
	Step    float64
	Default float64
	Labels  map[int]string
}

// AgeBands maps the BRFSS age code to its age range.
var AgeBands = map[int]string{
	1: "18–24", 2: "25–29", 3: "30–34", 4: "35–39", 5: "40–44",
	6: "45–49", 7: "50–54", 8: "55–59", 9: "60–64", 10: "65–69",
	11: "70–74", 12: "75–79", 13: "80+",
}

// GeneralHealthLabels maps the self-rated general health code to its label.
var GeneralHealthLabels = map[int]string{
	1: "Excellent", 2: "Very good", 3: "Good", 4: "Fair", 5: "Poor",
}

var yesNo = map[int]string{0: "No", 1: "Yes"}

// fields in form display order.
var fields = []Field{
	{
		Name: bundle.FeatureBMI, Prompt: "BMI",
		Kind: KindContinuous, Min: 10.0, Max: 80.0, Step: 0.1, Default: 28.0,
	},
	{
		Name: bundle.FeatureHighBP, Prompt: "High blood pressure?",
		Kind: KindBinary, Min: 0, Max: 1, Default: 0, Labels: yesNo,
	},
	{
		Name: bundle.FeatureHighChol, Prompt: "High cholesterol?",
		Kind: KindBinary, Min: 0, Max: 1, Default: 0, Labels: yesNo,
	},
	{
		Name: bundle.FeaturePhysActivity, Prompt: "Any physical activity in past 30 days?",
		Kind: KindBinary, Min: 0, Max: 1, Default: 1, Labels: yesNo,
	},
	{
		Name: bundle.FeatureGenHlth, Prompt: "General health",
		Kind: KindOrdinal, Min: 1, Max: 5, Default: 3, Labels: GeneralHealthLabels,
	},
	{
		Name: bundle.FeatureAge, Prompt: "Age group",
		Kind: KindOrdinal, Min: 1, Max: 13, Default: 8, Labels: AgeBands,
	},
	{
		Name: bundle.FeatureSex, Prompt: "Sex",
		Kind: KindBinary, Min: 0, Max: 1, Default: 0, Labels: map[int]string{0: "Female", 1: "Male"},
	},
}

// Fields returns the survey fields in form display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// LookupField returns the field with the given feature name.
func LookupField(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Check reports whether v lies in the field's domain.
func (f Field) Check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ErrInvalidInput{Field: f.Name, Reason: "must be a finite number"}
	}
	if f.Kind != KindContinuous && v != math.Trunc(v) {
		return &ErrInvalidInput{Field: f.Name, Reason: fmt.Sprintf("must be a whole number, got %v", v)}
	}
	if v < f.Min || v > f.Max {
		if f.Kind == KindBinary {
			return &ErrInvalidInput{Field: f.Name, Reason: fmt.Sprintf("must be 0 or 1, got %v", v)}
		}
		return &ErrInvalidInput{Field: f.Name, Reason: fmt.Sprintf("must be between %v and %v, got %v", f.Min, f.Max, v)}
	}
	return nil
}

// Choices returns the allowed codes of a binary or ordinal field.
func (f Field) Choices() []int {
	if f.Kind == KindContinuous {
		return nil
	}
	out := make([]int, 0, int(f.Max-f.Min)+1)
	for v := int(f.Min); v <= int(f.Max); v++ {
		out = append(out, v)
	}
	return out
}

// ChoiceLabel renders a code for display, e.g. "3 – Good" or "Female".
func (f Field) ChoiceLabel(v int) string {
	label, ok := f.Labels[v]
	if !ok {
		return fmt.Sprintf("%d", v)
	}
	if f.Kind == KindOrdinal {
		return fmt.Sprintf("%d – %s", v, label)
	}
	return label
}
