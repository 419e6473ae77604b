package bundle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChecksums(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "normal",
			input: "abc123  model_diabetes_brfss.json\ndef456  model_diabetes_brfss.json.gz\n",
			want: map[string]string{
				"model_diabetes_brfss.json":    "abc123",
				"model_diabetes_brfss.json.gz": "def456",
			},
		},
		{
			name:  "binary mode marker",
			input: "abc123 *model_diabetes_brfss.json\n",
			want:  map[string]string{"model_diabetes_brfss.json": "abc123"},
		},
		{
			name:  "empty",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "malformed lines skipped",
			input: "abc123  a.json\nbadline\n  \nfoo  bar  baz\nghi789  b.json\n",
			want: map[string]string{
				"a.json": "abc123",
				"b.json": "ghi789",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseChecksums([]byte(tt.input)))
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("bundle")
	sum := sha256.Sum256(data)

	require.NoError(t, verifyChecksum(data, hex.EncodeToString(sum[:])))

	err := verifyChecksum(data, "deadbeef")
	assert.True(t, errors.Is(err, ErrChecksum))
}

// releaseServer serves one release of asset with the given checksums file.
func releaseServer(t *testing.T, version string, asset []byte, checksums string) *httptest.Server {
	t.Helper()
	prefix := fmt.Sprintf("/glucoguard/models/releases/download/%s/", version)
	mux := http.NewServeMux()
	mux.HandleFunc(prefix+DefaultAsset, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(asset)
	})
	mux.HandleFunc(prefix+"checksums.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(checksums))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func docBytes(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw
}

func checksumLine(data []byte, name string) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), name)
}

func TestFetcher_PullInstalls(t *testing.T) {
	doc := validDoc()
	doc["version"] = "v1.2.0"
	asset := docBytes(t, doc)
	srv := releaseServer(t, "v1.2.0", asset, checksumLine(asset, DefaultAsset))

	dest := filepath.Join(t.TempDir(), "models", DefaultAsset)
	var stages []string
	f := NewFetcher(WithBaseURL(srv.URL))

	b, err := f.Pull(context.Background(), &PullInput{Version: "v1.2.0", Dest: dest}, func(p PullProgress) {
		stages = append(stages, p.Stage)
	})
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", b.Version())
	assert.Equal(t, []string{"download", "verify", "validate", "install", "done"}, stages)

	installed, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, asset, installed)

	loaded, err := Load(dest)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", loaded.Version())
}

func TestFetcher_ChecksumMismatch(t *testing.T) {
	asset := docBytes(t, validDoc())
	srv := releaseServer(t, "v1.0.0", asset, checksumLine([]byte("other"), DefaultAsset))
	dest := filepath.Join(t.TempDir(), DefaultAsset)

	_, err := NewFetcher(WithBaseURL(srv.URL)).Pull(context.Background(), &PullInput{Version: "v1.0.0", Dest: dest}, nil)

	assert.True(t, errors.Is(err, ErrChecksum))
	_, statErr := os.Stat(dest)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "nothing may be installed on checksum failure")
}

func TestFetcher_MissingChecksumEntry(t *testing.T) {
	asset := docBytes(t, validDoc())
	srv := releaseServer(t, "v1.0.0", asset, checksumLine(asset, "something-else.json"))

	_, err := NewFetcher(WithBaseURL(srv.URL)).Pull(context.Background(),
		&PullInput{Version: "v1.0.0", Dest: filepath.Join(t.TempDir(), DefaultAsset)}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no checksum found")
}

func TestFetcher_InvalidBundleNotInstalled(t *testing.T) {
	doc := validDoc()
	doc["features"] = []string{"BMI", "HighBP"}
	doc["model"].(map[string]any)["coefficients"] = []float64{1, 1}
	asset := docBytes(t, doc)
	srv := releaseServer(t, "v1.0.0", asset, checksumLine(asset, DefaultAsset))
	dest := filepath.Join(t.TempDir(), DefaultAsset)

	_, err := NewFetcher(WithBaseURL(srv.URL)).Pull(context.Background(), &PullInput{Version: "v1.0.0", Dest: dest}, nil)

	var mismatch *ErrSchemaMismatch
	require.ErrorAs(t, err, &mismatch)
	_, statErr := os.Stat(dest)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

func TestFetcher_VersionMismatchInsideRelease(t *testing.T) {
	doc := validDoc()
	doc["version"] = "v0.9.0"
	asset := docBytes(t, doc)
	srv := releaseServer(t, "v1.0.0", asset, checksumLine(asset, DefaultAsset))

	_, err := NewFetcher(WithBaseURL(srv.URL)).Pull(context.Background(),
		&PullInput{Version: "v1.0.0", Dest: filepath.Join(t.TempDir(), DefaultAsset)}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "contains bundle version v0.9.0")
}

func TestFetcher_AlreadyInstalled(t *testing.T) {
	dest := writeDoc(t, validDoc()) // v1.0.0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	for _, version := range []string{"v1.0.0", "v0.9.3"} {
		installed, err := NewFetcher(WithBaseURL(srv.URL)).Pull(context.Background(),
			&PullInput{Version: version, Dest: dest}, nil)
		assert.True(t, IsAlreadyInstalled(err), version)
		require.NotNil(t, installed)
		assert.Equal(t, "v1.0.0", installed.Version())
	}
}

func TestFetcher_ForceReinstalls(t *testing.T) {
	dest := writeDoc(t, validDoc()) // v1.0.0
	doc := validDoc()
	doc["threshold"] = 0.3
	asset := docBytes(t, doc)
	srv := releaseServer(t, "v1.0.0", asset, checksumLine(asset, DefaultAsset))

	b, err := NewFetcher(WithBaseURL(srv.URL)).Pull(context.Background(),
		&PullInput{Version: "v1.0.0", Dest: dest, Force: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.3, b.Threshold())
}

func TestFetcher_InvalidVersion(t *testing.T) {
	_, err := NewFetcher().Pull(context.Background(), &PullInput{Version: "latest", Dest: "x.json"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid bundle version")
}

func TestFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := NewFetcher(WithBaseURL(srv.URL), WithRelease("acme", "risk-models")).Pull(context.Background(),
		&PullInput{Version: "v1.0.0", Dest: filepath.Join(t.TempDir(), DefaultAsset)}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Contains(t, err.Error(), "/acme/risk-models/releases/download/v1.0.0/")
}
