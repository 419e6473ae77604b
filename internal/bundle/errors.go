package bundle

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrChecksum         = errors.New("checksum verification failed")
	ErrAlreadyInstalled = errors.New("requested bundle version is already installed")
)

// ErrArtifactLoad indicates the bundle artifact is missing, unreadable or
// corrupt. Startup must not continue.
type ErrArtifactLoad struct {
	Path string
	Err  error
}

func (e *ErrArtifactLoad) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load model bundle: %v", e.Err)
	}
	return fmt.Sprintf("load model bundle %s: %v", e.Path, e.Err)
}

func (e *ErrArtifactLoad) Unwrap() error { return e.Err }

// ErrSchemaMismatch indicates the bundle was saved with a feature set other
// than the expected one. Startup must not continue.
type ErrSchemaMismatch struct {
	Found    []string
	Expected []string
}

func (e *ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("model was saved with features %v, but %v are expected", e.Found, e.Expected)
}

// Missing returns expected names absent from the bundle.
func (e *ErrSchemaMismatch) Missing() []string {
	var out []string
	for _, name := range e.Expected {
		if !slices.Contains(e.Found, name) {
			out = append(out, name)
		}
	}
	return out
}

// Unexpected returns bundle names that are not part of the expected schema.
func (e *ErrSchemaMismatch) Unexpected() []string {
	var out []string
	for _, name := range e.Found {
		if !slices.Contains(e.Expected, name) {
			out = append(out, name)
		}
	}
	return out
}
