package bundle

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// DefaultAsset is the release asset name of the bundle.
const DefaultAsset = "model_diabetes_brfss.json"

// Fetcher downloads bundle releases laid out as
// <base>/<owner>/<repo>/releases/download/<version>/<asset>, next to a
// checksums.txt in sha256sum format.
type Fetcher struct {
	client  *http.Client
	baseURL string
	owner   string
	repo    string
	asset   string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.client = &http.Client{Timeout: d} }
}

// WithBaseURL overrides the download host, e.g. for a mirror.
func WithBaseURL(u string) FetcherOption {
	return func(f *Fetcher) { f.baseURL = u }
}

// WithRelease sets the owner and repository publishing the bundle.
func WithRelease(owner, repo string) FetcherOption {
	return func(f *Fetcher) {
		f.owner = owner
		f.repo = repo
	}
}

// WithAsset overrides the asset file name.
func WithAsset(name string) FetcherOption {
	return func(f *Fetcher) { f.asset = name }
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{Timeout: 2 * time.Minute},
		baseURL: "https://github.com",
		owner:   "glucoguard",
		repo:    "models",
		asset:   DefaultAsset,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// PullInput selects the release to install.
type PullInput struct {
	Version string // semver tag, e.g. v1.2.0
	Dest    string
	Force   bool // reinstall even if Dest is at Version or newer
}

// PullProgress reports one stage of a pull.
type PullProgress struct {
	Stage   string
	Message string
}

// Pull downloads, verifies and installs a bundle release. Nothing is written
// to Dest unless the download passes the checksum and loads as a valid bundle.
func (f *Fetcher) Pull(ctx context.Context, in *PullInput, progress func(PullProgress)) (*Bundle, error) {
	if progress == nil {
		progress = func(PullProgress) {}
	}
	if !semver.IsValid(in.Version) {
		return nil, fmt.Errorf("invalid bundle version %q: want a semver tag like v1.2.0", in.Version)
	}

	if !in.Force {
		if installed, err := Load(in.Dest); err == nil && installed.Version() != "" &&
			semver.Compare(installed.Version(), in.Version) >= 0 {
			return installed, fmt.Errorf("%w: %s at %s", ErrAlreadyInstalled, installed.Version(), in.Dest)
		}
	}

	base := strings.TrimRight(f.baseURL, "/")
	assetURL := fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", base, f.owner, f.repo, in.Version, f.asset)
	checksumsURL := fmt.Sprintf("%s/%s/%s/releases/download/%s/checksums.txt", base, f.owner, f.repo, in.Version)

	progress(PullProgress{Stage: "download", Message: fmt.Sprintf("Downloading %s %s...", f.asset, in.Version)})
	data, err := f.downloadFile(ctx, assetURL)
	if err != nil {
		return nil, fmt.Errorf("download bundle: %w", err)
	}

	progress(PullProgress{Stage: "verify", Message: "Verifying checksum..."})
	checksumsData, err := f.downloadFile(ctx, checksumsURL)
	if err != nil {
		return nil, fmt.Errorf("download checksums: %w", err)
	}
	expected, ok := parseChecksums(checksumsData)[f.asset]
	if !ok {
		return nil, fmt.Errorf("no checksum found for %s in checksums.txt", f.asset)
	}
	if err := verifyChecksum(data, expected); err != nil {
		return nil, err
	}

	progress(PullProgress{Stage: "validate", Message: "Validating bundle..."})
	b, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if b.Version() != "" && semver.Compare(b.Version(), in.Version) != 0 {
		return nil, fmt.Errorf("release %s contains bundle version %s", in.Version, b.Version())
	}

	progress(PullProgress{Stage: "install", Message: fmt.Sprintf("Installing to %s...", in.Dest)})
	sum := sha256.Sum256(data)
	if err := install(data, in.Dest, sum[:]); err != nil {
		return nil, fmt.Errorf("install bundle: %w", err)
	}

	progress(PullProgress{Stage: "done", Message: fmt.Sprintf("Installed bundle %s", in.Version)})
	return b, nil
}

func (f *Fetcher) downloadFile(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

func parseChecksums(data []byte) map[string]string {
	result := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}
		result[strings.TrimPrefix(parts[1], "*")] = parts[0]
	}
	return result
}

func verifyChecksum(data []byte, expectedHex string) error {
	h := sha256.Sum256(data)
	actual := hex.EncodeToString(h[:])
	if !strings.EqualFold(actual, expectedHex) {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, expectedHex, actual)
	}
	return nil
}

// install writes data next to dest and renames it into place, so a reader
// never observes a partially written bundle.
func install(data []byte, dest string, expectedHash []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bundle dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".glucoguard-bundle-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	written, err := os.ReadFile(tmpName)
	if err != nil {
		return fmt.Errorf("re-read temp file: %w", err)
	}
	writtenHash := sha256.Sum256(written)
	if !bytes.Equal(writtenHash[:], expectedHash) {
		return fmt.Errorf("%w: temp file changed after write", ErrChecksum)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// IsAlreadyInstalled reports whether err came from a skipped pull.
func IsAlreadyInstalled(err error) bool {
	return errors.Is(err, ErrAlreadyInstalled)
}
