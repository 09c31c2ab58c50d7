package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/colormatch/backend/internal/domain"
	"github.com/colormatch/backend/internal/metrics"
)

// ColorFinder is the request-level matching operation
type ColorFinder interface {
	FindSimilarColors(ctx context.Context, request *domain.MatchRequest) (*domain.MatchResponse, error)
}

// ColorService handles one match request end to end
type ColorService struct {
	loader     domain.CatalogLoader
	normalizer *RequestNormalizer
	matcher    *MatchingService
	logger     *zap.Logger
}

// NewColorService creates a new color service with dependencies
func NewColorService(
	loader domain.CatalogLoader,
	normalizer *RequestNormalizer,
	matcher *MatchingService,
	logger *zap.Logger,
) *ColorService {
	return &ColorService{
		loader:     loader,
		normalizer: normalizer,
		matcher:    matcher,
		logger:     logger,
	}
}

// Categories returns the product categories a request may select
func (s *ColorService) Categories() []string {
	return s.normalizer.Categories()
}

// FindSimilarColors ranks the catalog against the requested color.
// Flow: validate input -> load catalog -> match -> group
func (s *ColorService) FindSimilarColors(
	ctx context.Context,
	request *domain.MatchRequest,
) (*domain.MatchResponse, error) {
	start := time.Now()
	response, err := s.findSimilarColors(ctx, request)

	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	metrics.MatchRequests.WithLabelValues(outcomeLabel(err)).Inc()

	if err != nil {
		s.logger.Info("match failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("match completed",
		zap.String("target", response.Target),
		zap.Strings("categories", response.Categories),
		zap.Int("results", len(response.Results)),
		zap.Duration("elapsed", time.Since(start)))

	return response, nil
}

func (s *ColorService) findSimilarColors(ctx context.Context, request *domain.MatchRequest) (*domain.MatchResponse, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	// Reject bad input before touching the catalog
	target, targetHex, err := s.normalizer.NormalizeColor(request.Color)
	if err != nil {
		return nil, err
	}

	categories, err := s.normalizer.NormalizeCategories(request.Categories)
	if err != nil {
		return nil, err
	}

	catalog, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := s.matcher.Match(target, categories, catalog.Records)

	return &domain.MatchResponse{
		Target:      targetHex,
		Categories:  categories,
		Quota:       s.matcher.Quota(len(categories)),
		Results:     results,
		Groups:      GroupInOrder(results),
		SkippedRows: len(catalog.Skipped),
	}, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidHexColor):
		return "invalid_color"
	case errors.Is(err, domain.ErrNoCategories):
		return "no_categories"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrResourceUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
