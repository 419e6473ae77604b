package bundle

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

const modelTypeLogistic = "logistic_regression"

// LogisticRegression is a fitted binary logistic model, optionally preceded by
// a standard scaler. Coefficients are positional: column j of every row is
// multiplied by Coefficients[j].
type LogisticRegression struct {
	intercept float64
	coef      []float64
	mean      []float64
	scale     []float64
}

var _ Classifier = (*LogisticRegression)(nil)

// NewLogisticRegression creates a model from fitted parameters.
func NewLogisticRegression(coef []float64, intercept float64) *LogisticRegression {
	return &LogisticRegression{
		intercept: intercept,
		coef:      slices.Clone(coef),
	}
}

// WithScaler returns a copy of m that standardizes each column as
// (x - mean) / scale before applying the coefficients.
func (m *LogisticRegression) WithScaler(mean, scale []float64) (*LogisticRegression, error) {
	if len(mean) != len(m.coef) || len(scale) != len(m.coef) {
		return nil, fmt.Errorf("scaler has %d means and %d scales for %d coefficients",
			len(mean), len(scale), len(m.coef))
	}
	for j, s := range scale {
		if s == 0 {
			return nil, fmt.Errorf("scaler scale[%d] is zero", j)
		}
	}
	out := *m
	out.mean = slices.Clone(mean)
	out.scale = slices.Clone(scale)
	return &out, nil
}

// NumFeatures returns the number of columns the model expects.
func (m *LogisticRegression) NumFeatures() int {
	return len(m.coef)
}

// PredictProba returns P(y=1) for each row of X.
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	x := make([]float64, len(m.coef))
	for i, row := range X {
		if len(row) != len(m.coef) {
			return nil, fmt.Errorf("row %d has %d columns, model expects %d", i, len(row), len(m.coef))
		}
		copy(x, row)
		if m.scale != nil {
			floats.Sub(x, m.mean)
			floats.Div(x, m.scale)
		}
		out[i] = sigmoid(m.intercept + floats.Dot(m.coef, x))
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
