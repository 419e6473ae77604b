package risk

import "fmt"

// ErrInvalidInput indicates a submitted field is missing, non-numeric or
// outside its domain. Only the one submission is rejected.
type ErrInvalidInput struct {
	Field  string
	Reason string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrOutOfRange indicates a threshold outside its allowed interval.
type ErrOutOfRange struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("%s %v outside [%v, %v]", e.Name, e.Value, e.Min, e.Max)
}

// ErrClassifier indicates the classifier failed or returned an unusable
// probability.
type ErrClassifier struct {
	Err error
}

func (e *ErrClassifier) Error() string {
	return fmt.Sprintf("classifier: %v", e.Err)
}

func (e *ErrClassifier) Unwrap() error { return e.Err }
