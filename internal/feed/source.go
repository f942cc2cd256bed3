package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Default feed locations, relative to the working directory.
const (
	DefaultOrdersSource       = "orders.json"
	DefaultManualOrdersSource = "manual_orders.json"
)

// maxDocumentSize caps a single feed document.
const maxDocumentSize = 8 << 20

var (
	// ErrNotFound is returned when a feed document does not exist.
	ErrNotFound = errors.New("feed document not found")
	// errUnexpectedStatus is returned for non-2xx HTTP responses.
	errUnexpectedStatus = errors.New("unexpected HTTP status")
)

// Source returns the raw bytes of one feed document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// NewSource picks a file or HTTP source depending on location.
//
//nolint:ireturn // Callers only need the Source contract.
func NewSource(location string, client *http.Client) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = http.DefaultClient
		}

		return &HTTPSource{
			url:    location,
			client: client,
		}
	}

	return &FileSource{
		path: filepath.Clean(location),
	}
}

// FileSource reads a feed document from disk.
type FileSource struct {
	path string
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}

		return nil, fmt.Errorf("read feed file: %w", err)
	}

	return contents, nil
}

// HTTPSource downloads a feed document.
type HTTPSource struct {
	url    string
	client *http.Client
}

// Fetch issues a GET request and returns the body.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.url)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return nil, fmt.Errorf("%w: %s returned %d", errUnexpectedStatus, s.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	return body, nil
}
