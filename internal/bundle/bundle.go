package bundle

import (
	"fmt"
	"slices"
)

// Feature names the classifier is trained on.
const (
	FeatureBMI          = "BMI"
	FeatureHighBP       = "HighBP"
	FeatureHighChol     = "HighChol"
	FeaturePhysActivity = "PhysActivity"
	FeatureGenHlth      = "GenHlth"
	FeatureAge          = "Age"
	FeatureSex          = "Sex"
)

// DefaultThreshold is used when the artifact does not carry a threshold.
const DefaultThreshold = 0.50

// ExpectedFeatures returns the fixed feature schema every bundle must match,
// compared as an unordered set.
func ExpectedFeatures() []string {
	return []string{
		FeatureBMI,
		FeatureHighBP,
		FeatureHighChol,
		FeaturePhysActivity,
		FeatureGenHlth,
		FeatureAge,
		FeatureSex,
	}
}

// Classifier predicts the probability of the positive ("at risk") class.
// Each row of X holds feature values in the order the classifier was trained on.
type Classifier interface {
	PredictProba(X [][]float64) ([]float64, error)
}

// Bundle is a loaded model artifact. It is immutable after construction and
// safe for concurrent use by any number of scorers.
type Bundle struct {
	classifier  Classifier
	features    []string
	threshold   float64
	version     string
	description string
}

// Metadata describes a bundle without exposing the classifier.
type Metadata struct {
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features"`
	Threshold   float64  `json:"threshold"`
}

// New builds a bundle from an in-memory classifier. The feature set must equal
// ExpectedFeatures; the threshold must lie in [0, 1].
func New(c Classifier, features []string, threshold float64) (*Bundle, error) {
	if c == nil {
		return nil, fmt.Errorf("nil classifier")
	}
	if err := checkFeatureSet(features); err != nil {
		return nil, err
	}
	if !(threshold >= 0 && threshold <= 1) {
		return nil, fmt.Errorf("default threshold %v outside [0, 1]", threshold)
	}

	return &Bundle{
		classifier: c,
		features:   slices.Clone(features),
		threshold:  threshold,
	}, nil
}

// Features returns the feature names in the classifier's column order.
func (b *Bundle) Features() []string {
	return slices.Clone(b.features)
}

// Threshold returns the bundle's default decision threshold.
func (b *Bundle) Threshold() float64 {
	return b.threshold
}

// Classifier returns the bundle's classifier.
func (b *Bundle) Classifier() Classifier {
	return b.classifier
}

// Version returns the bundle's semantic version, or "" when unversioned.
func (b *Bundle) Version() string {
	return b.version
}

// Metadata returns a serializable description of the bundle.
func (b *Bundle) Metadata() Metadata {
	return Metadata{
		Version:     b.version,
		Description: b.description,
		Features:    b.Features(),
		Threshold:   b.threshold,
	}
}

// checkFeatureSet compares the sorted names against the expected schema, so a
// duplicated or missing name is a mismatch just like an unknown one.
func checkFeatureSet(features []string) error {
	found := slices.Clone(features)
	expected := ExpectedFeatures()
	slices.Sort(found)
	slices.Sort(expected)
	if !slices.Equal(found, expected) {
		return &ErrSchemaMismatch{
			Found:    slices.Clone(features),
			Expected: ExpectedFeatures(),
		}
	}
	return nil
}
