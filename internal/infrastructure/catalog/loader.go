package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/colormatch/backend/internal/domain"
	"github.com/colormatch/backend/internal/metrics"
)

// maxLoggedSkips bounds per-row warnings for a single load
const maxLoggedSkips = 10

// Loader fetches the catalog from its source and parses it on every call.
// When a cache and a positive TTL are given, the raw text is cached instead
// of being fetched each time.
type Loader struct {
	source   domain.CatalogSource
	parser   *Parser
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewLoader creates a catalog loader. cache may be nil.
func NewLoader(source domain.CatalogSource, parser *Parser, cache domain.CacheRepository, cacheTTL time.Duration, logger *zap.Logger) *Loader {
	return &Loader{
		source:   source,
		parser:   parser,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.Named("catalog"),
	}
}

// Load implements domain.CatalogLoader
func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	data, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	catalog := l.parser.Parse(data)

	if n := len(catalog.Skipped); n > 0 {
		metrics.CatalogRowsSkipped.Add(float64(n))
		for i, row := range catalog.Skipped {
			if i == maxLoggedSkips {
				l.logger.Warn("more catalog rows skipped", zap.Int("remaining", n-i))
				break
			}
			l.logger.Warn("skipping catalog row", zap.Int("line", row.Line), zap.String("reason", row.Reason))
		}
	}

	l.logger.Debug("catalog loaded",
		zap.String("location", l.source.Location()),
		zap.Int("records", len(catalog.Records)),
		zap.Int("skipped", len(catalog.Skipped)))

	return catalog, nil
}

func (l *Loader) cacheEnabled() bool {
	return l.cache != nil && l.cacheTTL > 0
}

func (l *Loader) cacheKey() string {
	return "catalog:" + l.source.Location()
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if l.cacheEnabled() {
		data, err := l.cache.Get(ctx, l.cacheKey())
		switch {
		case err == nil:
			metrics.CatalogFetches.WithLabelValues("cache", "ok").Inc()
			return data, nil
		case !errors.Is(err, domain.ErrCacheMiss):
			l.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	data, err := l.source.Fetch(ctx)
	if err != nil {
		metrics.CatalogFetches.WithLabelValues(l.source.Kind(), "error").Inc()
		l.logger.Error("catalog fetch failed", zap.String("location", l.source.Location()), zap.Error(err))
		return nil, err
	}
	metrics.CatalogFetches.WithLabelValues(l.source.Kind(), "ok").Inc()

	if l.cacheEnabled() {
		// Log but don't fail if caching fails
		if err := l.cache.Set(ctx, l.cacheKey(), data, l.cacheTTL); err != nil {
			l.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}

	return data, nil
}
