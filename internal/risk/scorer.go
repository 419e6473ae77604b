package risk

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/abhisek/glucoguard/internal/bundle"
)

// Threshold limits offered by interactive controls. Score itself accepts the
// whole unit interval.
const (
	UIThresholdMin  = 0.05
	UIThresholdMax  = 0.95
	UIThresholdStep = 0.01
)

// Result is the outcome of one scoring call. Probability is the single value
// used both for the label decision and for display.
type Result struct {
	Probability float64 `json:"probability"`
	Label       Label   `json:"label"`
	Band        Band    `json:"band"`
	Threshold   float64 `json:"threshold"`
}

// ProbabilityText formats the probability to three decimals.
func (r Result) ProbabilityText() string {
	return strconv.FormatFloat(r.Probability, 'f', 3, 64)
}

// ThresholdText formats the decision threshold to two decimals.
func (r Result) ThresholdText() string {
	return strconv.FormatFloat(r.Threshold, 'f', 2, 64)
}

// Verdict combines the label and band text for display.
func (r Result) Verdict() string {
	return fmt.Sprintf("%s — %s", r.Label, r.Band)
}

// CheckThreshold reports whether t lies in [lo, hi].
func CheckThreshold(t, lo, hi float64) error {
	if !(t >= lo && t <= hi) {
		return &ErrOutOfRange{Name: "threshold", Value: t, Min: lo, Max: hi}
	}
	return nil
}

// ClampThreshold restricts t to the interactive control's range.
func ClampThreshold(t float64) float64 {
	if math.IsNaN(t) {
		return bundle.DefaultThreshold
	}
	return math.Min(math.Max(t, UIThresholdMin), UIThresholdMax)
}

// Row assembles the feature vector in exactly the order of features. The
// classifier is column-order sensitive, so rows must never be built any other
// way.
func Row(features []string, rec Record) ([]float64, error) {
	row := make([]float64, len(features))
	for i, name := range features {
		v, ok := rec[name]
		if !ok {
			return nil, &ErrInvalidInput{Field: name, Reason: "missing value"}
		}
		row[i] = v
	}
	return row, nil
}

// Score classifies rec with the bundle's classifier. It is pure: no logging
// and no state beyond the returned Result.
func Score(b *bundle.Bundle, rec Record, threshold float64) (Result, error) {
	if err := CheckThreshold(threshold, 0, 1); err != nil {
		return Result{}, err
	}
	if err := rec.Validate(); err != nil {
		return Result{}, err
	}

	row, err := Row(b.Features(), rec)
	if err != nil {
		return Result{}, err
	}

	probs, err := b.Classifier().PredictProba([][]float64{row})
	if err != nil {
		return Result{}, &ErrClassifier{Err: err}
	}
	if len(probs) != 1 {
		return Result{}, &ErrClassifier{Err: fmt.Errorf("got %d probabilities for 1 row", len(probs))}
	}
	p := probs[0]
	if !(p >= 0 && p <= 1) {
		return Result{}, &ErrClassifier{Err: fmt.Errorf("probability %v outside [0, 1]", p)}
	}

	label := LabelNotAtRisk
	if p >= threshold {
		label = LabelAtRisk
	}

	return Result{
		Probability: p,
		Label:       label,
		Band:        BandFor(p),
		Threshold:   threshold,
	}, nil
}

// Scorer binds a loaded bundle for the presentation surfaces and logs each
// outcome.
type Scorer struct {
	bundle *bundle.Bundle
	logger zerolog.Logger
}

// NewScorer creates a Scorer for b.
func NewScorer(b *bundle.Bundle, logger zerolog.Logger) *Scorer {
	return &Scorer{bundle: b, logger: logger}
}

// Bundle returns the scorer's bundle.
func (s *Scorer) Bundle() *bundle.Bundle {
	return s.bundle
}

// DefaultThreshold returns the bundle's threshold clamped to the interactive
// control's range.
func (s *Scorer) DefaultThreshold() float64 {
	return ClampThreshold(s.bundle.Threshold())
}

// Score scores rec against threshold.
func (s *Scorer) Score(rec Record, threshold float64) (Result, error) {
	res, err := Score(s.bundle, rec, threshold)
	if err != nil {
		s.logger.Debug().Err(err).Float64("threshold", threshold).Msg("scoring rejected")
		return res, err
	}
	s.logger.Debug().
		Float64("probability", res.Probability).
		Int("label", int(res.Label)).
		Str("band", string(res.Band)).
		Float64("threshold", threshold).
		Msg("scored")
	return res, nil
}
