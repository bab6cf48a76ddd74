package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Spool stages remote media on local disk so posters that drive a
// browser can attach a real file. Local paths pass through untouched.
type Spool struct {
	dir        string
	httpClient *http.Client
}

// SpoolOption is a function that configures the Spool
type SpoolOption func(*Spool)

// WithSpoolHTTPClient sets a custom HTTP client for downloads
func WithSpoolHTTPClient(httpClient *http.Client) SpoolOption {
	return func(s *Spool) {
		s.httpClient = httpClient
	}
}

// NewSpool creates a spool rooted at dir, creating it if needed.
func NewSpool(dir string, opts ...SpoolOption) (*Spool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating spool dir: %w", err)
	}

	s := &Spool{
		dir: dir,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Ensure returns a local file path for the given media reference. URLs
// are downloaded into the spool directory; anything else is treated as
// an existing local path and verified.
func (s *Spool) Ensure(ctx context.Context, mediaPath string) (string, error) {
	if strings.HasPrefix(mediaPath, "http://") || strings.HasPrefix(mediaPath, "https://") {
		return s.download(ctx, mediaPath)
	}

	if _, err := os.Stat(mediaPath); err != nil {
		return "", fmt.Errorf("media file: %w", err)
	}

	return mediaPath, nil
}

// download fetches a URL into the spool directory and returns the path.
func (s *Spool) download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading media: HTTP %d", resp.StatusCode)
	}

	dst := filepath.Join(s.dir, uuid.New().String()+extFromURL(rawURL))
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating spool file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("writing spool file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("closing spool file: %w", err)
	}

	return dst, nil
}

// extFromURL extracts the file extension from a URL path, if any.
func extFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}
