package bundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDoc() map[string]any {
	return map[string]any{
		"version":   "v1.0.0",
		"features":  ExpectedFeatures(),
		"threshold": 0.4,
		"model": map[string]any{
			"type":         "logistic_regression",
			"intercept":    -6.0,
			"coefficients": []float64{0.07, 0.75, 0.6, -0.1, 0.55, 0.15, 0.25},
		},
	}
}

func writeDoc(t *testing.T, doc map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestLoad_Fixture(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "model_diabetes_brfss.json"))
	require.NoError(t, err)

	assert.Equal(t, ExpectedFeatures(), b.Features())
	assert.Equal(t, 0.5, b.Threshold())
	assert.Equal(t, "v1.0.0", b.Version())
	assert.NotNil(t, b.Classifier())
}

func TestLoad_ScaledFixtureKeepsBundleOrder(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "scaled_bundle.json"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Age", "Sex", "BMI", "HighBP", "HighChol", "PhysActivity", "GenHlth"}, b.Features())
	assert.Equal(t, DefaultThreshold, b.Threshold(), "absent threshold defaults to 0.50")
}

func TestLoad_DefaultThreshold(t *testing.T) {
	doc := validDoc()
	delete(doc, "threshold")

	b, err := Load(writeDoc(t, doc))
	require.NoError(t, err)
	assert.Equal(t, 0.50, b.Threshold())
}

func TestLoad_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name       string
		features   []string
		missing    []string
		unexpected []string
	}{
		{
			name:     "only two features",
			features: []string{"BMI", "HighBP"},
			missing:  []string{"HighChol", "PhysActivity", "GenHlth", "Age", "Sex"},
		},
		{
			name:       "renamed feature",
			features:   []string{"BMI", "HighBP", "HighChol", "PhysActivity", "GenHlth", "AgeGroup", "Sex"},
			missing:    []string{"Age"},
			unexpected: []string{"AgeGroup"},
		},
		{
			name:       "extra feature",
			features:   append(ExpectedFeatures(), "Smoker"),
			unexpected: []string{"Smoker"},
		},
		{
			name:     "duplicated feature",
			features: []string{"BMI", "BMI", "HighChol", "PhysActivity", "GenHlth", "Age", "Sex"},
			missing:  []string{"HighBP"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			doc["features"] = tt.features
			coef := make([]float64, len(tt.features))
			doc["model"].(map[string]any)["coefficients"] = coef

			b, err := Load(writeDoc(t, doc))
			require.Error(t, err)
			assert.Nil(t, b)

			var mismatch *ErrSchemaMismatch
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.features, mismatch.Found)
			assert.ElementsMatch(t, ExpectedFeatures(), mismatch.Expected)
			assert.ElementsMatch(t, tt.missing, mismatch.Missing())
			assert.ElementsMatch(t, tt.unexpected, mismatch.Unexpected())

			var loadErr *ErrArtifactLoad
			assert.False(t, errors.As(err, &loadErr), "schema mismatch must not be reported as a load error")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")

	_, err := Load(path)

	var loadErr *ErrArtifactLoad
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, path, loadErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]any)
	}{
		{"threshold above one", func(doc map[string]any) { doc["threshold"] = 1.5 }},
		{"threshold negative", func(doc map[string]any) { doc["threshold"] = -0.1 }},
		{"no model", func(doc map[string]any) { delete(doc, "model") }},
		{"no features", func(doc map[string]any) { delete(doc, "features") }},
		{"unknown model type", func(doc map[string]any) {
			doc["model"].(map[string]any)["type"] = "random_forest"
		}},
		{"coefficient count", func(doc map[string]any) {
			doc["model"].(map[string]any)["coefficients"] = []float64{1, 2, 3}
		}},
		{"non numeric coefficient", func(doc map[string]any) {
			doc["model"].(map[string]any)["coefficients"] = []any{1, 2, 3, 4, 5, 6, "7"}
		}},
		{"zero scale", func(doc map[string]any) {
			doc["model"].(map[string]any)["scaler"] = map[string]any{
				"mean":  []float64{0, 0, 0, 0, 0, 0, 0},
				"scale": []float64{1, 1, 0, 1, 1, 1, 1},
			}
		}},
		{"short scaler", func(doc map[string]any) {
			doc["model"].(map[string]any)["scaler"] = map[string]any{
				"mean":  []float64{0},
				"scale": []float64{1},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)

			_, err := Load(writeDoc(t, doc))

			var loadErr *ErrArtifactLoad
			require.ErrorAs(t, err, &loadErr)
			assert.NotEmpty(t, loadErr.Path)
			assert.Error(t, loadErr.Unwrap())
		})
	}
}

func TestLoad_NotJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.pkl")
	require.NoError(t, os.WriteFile(path, []byte("\x80\x04\x95 pickle"), 0o644))

	_, err := Load(path)

	var loadErr *ErrArtifactLoad
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestLoad_Gzip(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "model_diabetes_brfss.json"))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	// Compression is detected from content, not the file name.
	for _, name := range []string{"model_diabetes_brfss.json.gz", "model_diabetes_brfss.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

			b, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "v1.0.0", b.Version())
		})
	}
}

func TestLoad_TruncatedGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json.gz")
	require.NoError(t, os.WriteFile(path, []byte{0x1f, 0x8b, 0x08}, 0o644))

	_, err := Load(path)

	var loadErr *ErrArtifactLoad
	require.ErrorAs(t, err, &loadErr)
}

func TestBundle_FeaturesAreCopied(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "model_diabetes_brfss.json"))
	require.NoError(t, err)

	f := b.Features()
	f[0] = "tampered"

	assert.Equal(t, FeatureBMI, b.Features()[0])
}

func TestNew(t *testing.T) {
	clf := NewLogisticRegression(make([]float64, 7), 0)

	_, err := New(nil, ExpectedFeatures(), 0.5)
	assert.Error(t, err)

	_, err = New(clf, ExpectedFeatures(), 1.01)
	assert.Error(t, err)

	_, err = New(clf, []string{"BMI"}, 0.5)
	var mismatch *ErrSchemaMismatch
	assert.ErrorAs(t, err, &mismatch)

	b, err := New(clf, ExpectedFeatures(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.Threshold())
	assert.Equal(t, "", b.Metadata().Version)
}
