package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/colormatch/backend/internal/domain"
)

// SourceConfig configures where the catalog is read from. Location is either an
// http(s) URL or a filesystem path; the remaining fields only apply to HTTP.
type SourceConfig struct {
	Location          string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

// HTTPSource fetches the catalog from a static HTTP resource
type HTTPSource struct {
	httpClient  *http.Client
	url         string
	maxRetries  int
	backoffBase time.Duration
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewHTTPSource creates a new HTTP catalog source
func NewHTTPSource(cfg SourceConfig, logger *zap.Logger) *HTTPSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &HTTPSource{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:         cfg.Location,
		maxRetries:  maxRetries,
		backoffBase: 500 * time.Millisecond,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 10),
		logger:      logger.Named("catalog.http"),
	}
}

// Kind implements domain.CatalogSource
func (s *HTTPSource) Kind() string { return "http" }

// Location implements domain.CatalogSource
func (s *HTTPSource) Location() string { return s.url }

// Fetch downloads the catalog text. Transport errors and 5xx responses are
// retried with exponential backoff; any other non-200 status fails immediately.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, s.backoff(attempt-1)); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrResourceUnavailable, err)
			}
		}

		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrResourceUnavailable, err)
		}

		body, retry, err := s.fetchOnce(ctx)
		if err == nil {
			s.logger.Debug("catalog fetched", zap.String("url", s.url), zap.Int("bytes", len(body)), zap.Int("attempt", attempt))
			return body, nil
		}

		lastErr = err
		s.logger.Warn("catalog fetch failed", zap.String("url", s.url), zap.Int("attempt", attempt), zap.Error(err))
		if !retry || ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single GET and reports whether a failure is worth retrying
func (s *HTTPSource) fetchOnce(ctx context.Context) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to create request: %v", domain.ErrResourceUnavailable, err)
	}
	req.Header.Set("User-Agent", "ColorMatch/1.0")
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrResourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		retry := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("%w: status %d", domain.ErrResourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: reading body: %v", domain.ErrResourceUnavailable, err)
	}

	return body, false, nil
}

// backoff doubles the base delay for every retry: 500ms, 1s, 2s with the default base
func (s *HTTPSource) backoff(attempt int) time.Duration {
	return s.backoffBase * time.Duration(1<<(attempt-1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
