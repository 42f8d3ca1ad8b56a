// Package geodata loads country geometry for the regional anomaly map and
// renders it back out as a choropleth FeatureCollection.
package geodata

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/couchcryptid/climate-canvas/internal/domain"
)

// maxDocumentSize bounds a remote GeoJSON download.
const maxDocumentSize = 32 << 20

//go:embed world.geojson
var bundledWorld []byte

// FileSource reads GeoJSON from a local path.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file" }

// Load returns ErrSourceNotFound when the path is unset or missing.
func (s FileSource) Load(_ context.Context) ([]byte, error) {
	if s.Path == "" {
		return nil, domain.ErrSourceNotFound
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return data, nil
}

// HTTPSource downloads GeoJSON from a URL.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates a remote source. An empty url yields a source that
// always reports ErrSourceNotFound.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPSource) Name() string { return "url" }

// Load fetches the document. A 404 is treated as not found.
func (s *HTTPSource) Load(ctx context.Context) ([]byte, error) {
	if s.url == "" {
		return nil, domain.ErrSourceNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch regions: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrSourceNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("fetch regions: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read regions body: %w", err)
	}
	return data, nil
}

// EmbeddedSource serves the coarse world outline compiled into the binary.
// It never fails.
type EmbeddedSource struct{}

func (EmbeddedSource) Name() string { return "embedded" }

func (EmbeddedSource) Load(_ context.Context) ([]byte, error) {
	return bundledWorld, nil
}
