package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/furnaiture/backend/internal/domain"
	"github.com/furnaiture/backend/internal/logging"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig controls the circuit breaker guarding remote fetches
type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// HTTPSource fetches the dataset over HTTP. Every Open is exactly one GET;
// the breaker only short-circuits calls while the remote keeps failing.
type HTTPSource struct {
	httpClient *http.Client
	url        string
	breaker    *gobreaker.CircuitBreaker[io.ReadCloser]
}

// NewHTTPSource creates a new HTTP dataset source
func NewHTTPSource(url string, timeout time.Duration, cfg BreakerConfig) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "dataset-fetch",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("dataset circuit breaker state changed")
		},
	}

	return &HTTPSource{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		breaker:    gobreaker.NewCircuitBreaker[io.ReadCloser](settings),
	}
}

// Location returns the dataset URL
func (s *HTTPSource) Location() string {
	return s.url
}

// Open performs a single GET and returns the response body on 200 OK
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	body, err := s.breaker.Execute(func() (io.ReadCloser, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("url", s.url).Msg("dataset fetch failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}
	return body, nil
}

func (s *HTTPSource) fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "FurnAIture/1.0")
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	logging.Ctx(ctx).Debug().Str("url", s.url).Int64("content_length", resp.ContentLength).Msg("dataset fetched")
	return resp.Body, nil
}

// FileSource reads the dataset from the local filesystem
type FileSource struct {
	path string
}

// NewFileSource creates a new file dataset source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Location returns the file path
func (s *FileSource) Location() string {
	return s.path
}

// Open opens the file
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}
	return f, nil
}

// NewSource picks an HTTP or file source from the location's scheme
func NewSource(location string, timeout time.Duration, cfg BreakerConfig) domain.DatasetSource {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return NewHTTPSource(location, timeout, cfg)
	case strings.HasPrefix(lower, "file://"):
		return NewFileSource(location[len("file://"):])
	default:
		return NewFileSource(location)
	}
}
