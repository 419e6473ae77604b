package bundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// document is the serialized form of a bundle.
type document struct {
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Threshold   *float64 `json:"threshold"`
	Model       struct {
		Type         string    `json:"type"`
		Intercept    float64   `json:"intercept"`
		Coefficients []float64 `json:"coefficients"`
		Scaler       *struct {
			Mean  []float64 `json:"mean"`
			Scale []float64 `json:"scale"`
		} `json:"scaler"`
	} `json:"model"`
}

// Load reads and validates the bundle at path. A wrong feature set yields
// *ErrSchemaMismatch; every other failure yields *ErrArtifactLoad.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ErrArtifactLoad{Path: path, Err: err}
	}
	b, err := Decode(data)
	if err != nil {
		var loadErr *ErrArtifactLoad
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}
	return b, nil
}

// Decode parses artifact bytes, gzip-compressed or plain JSON.
func Decode(data []byte) (*Bundle, error) {
	if isGzip(data) {
		raw, err := gunzip(data)
		if err != nil {
			return nil, &ErrArtifactLoad{Err: fmt.Errorf("decompress: %w", err)}
		}
		data = raw
	}

	if err := validateDocument(data); err != nil {
		return nil, &ErrArtifactLoad{Err: err}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ErrArtifactLoad{Err: fmt.Errorf("decode bundle: %w", err)}
	}

	if err := checkFeatureSet(doc.Features); err != nil {
		return nil, err
	}

	clf, err := doc.classifier()
	if err != nil {
		return nil, &ErrArtifactLoad{Err: err}
	}

	threshold := DefaultThreshold
	if doc.Threshold != nil {
		threshold = *doc.Threshold
	}

	b, err := New(clf, doc.Features, threshold)
	if err != nil {
		return nil, &ErrArtifactLoad{Err: err}
	}
	b.version = doc.Version
	b.description = doc.Description
	return b, nil
}

func (d *document) classifier() (Classifier, error) {
	if d.Model.Type != modelTypeLogistic {
		return nil, fmt.Errorf("unsupported model type %q", d.Model.Type)
	}
	if len(d.Model.Coefficients) != len(d.Features) {
		return nil, fmt.Errorf("model has %d coefficients for %d features",
			len(d.Model.Coefficients), len(d.Features))
	}

	m := NewLogisticRegression(d.Model.Coefficients, d.Model.Intercept)
	if d.Model.Scaler == nil {
		return m, nil
	}
	return m.WithScaler(d.Model.Scaler.Mean, d.Model.Scaler.Scale)
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = zr.Close() }()
	return io.ReadAll(zr)
}
