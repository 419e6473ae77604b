package risk

// Band is a qualitative severity derived from the raw probability alone. It
// does not depend on the decision threshold.
type Band string

const (
	BandLow      Band = "Low"
	BandModerate Band = "Moderate"
	BandHigh     Band = "High"
	BandVeryHigh Band = "Very High"
)

// Band breakpoints; each lower bound is inclusive.
const (
	moderateFrom = 0.25
	highFrom     = 0.50
	veryHighFrom = 0.75
)

// BandFor maps a probability to its band.
func BandFor(p float64) Band {
	switch {
	case p < moderateFrom:
		return BandLow
	case p < highFrom:
		return BandModerate
	case p < veryHighFrom:
		return BandHigh
	default:
		return BandVeryHigh
	}
}

// Label is the binary decision.
type Label int

const (
	LabelNotAtRisk Label = 0
	LabelAtRisk    Label = 1
)

// String returns the display text of the label.
func (l Label) String() string {
	if l == LabelAtRisk {
		return "At Risk (1)"
	}
	return "Not at Risk (0)"
}
