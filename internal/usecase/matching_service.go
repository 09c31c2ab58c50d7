package usecase

import (
	"cmp"
	"slices"

	"go.uber.org/zap"

	"github.com/colormatch/backend/internal/domain"
)

// DefaultQuotaPerCategory is the number of results allowed per selected category
const DefaultQuotaPerCategory = 50

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	QuotaPerCategory   int
	EnableDebugLogging bool
}

// MatchingService ranks catalog colors by distance to a target color
type MatchingService struct {
	quotaPerCategory   int
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig, logger *zap.Logger) *MatchingService {
	quota := config.QuotaPerCategory
	if quota <= 0 {
		quota = DefaultQuotaPerCategory
	}

	return &MatchingService{
		quotaPerCategory:   quota,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// Quota is the total result cap for a match over categoryCount categories.
// The cap applies to the combined list, not to each category.
func (s *MatchingService) Quota(categoryCount int) int {
	return s.quotaPerCategory * categoryCount
}

// Match keeps the records whose product type is in categories, scores them by
// Euclidean RGB distance to target, sorts closest first (ties keep catalog
// order) and truncates to the quota.
func (s *MatchingService) Match(target domain.ColorRGB, categories []string, catalog []domain.CatalogRecord) []domain.ScoredRecord {
	selected := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		selected[c] = struct{}{}
	}

	scored := make([]domain.ScoredRecord, 0)
	if len(selected) == 0 {
		return scored
	}

	for _, record := range catalog {
		if _, ok := selected[record.ProductType]; !ok {
			continue
		}
		scored = append(scored, domain.ScoredRecord{
			CatalogRecord: record,
			Distance:      domain.Distance(target, record.RGB),
		})
	}

	slices.SortStableFunc(scored, func(a, b domain.ScoredRecord) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	candidates := len(scored)
	if quota := s.Quota(len(selected)); len(scored) > quota {
		scored = scored[:quota]
	}

	if s.enableDebugLogging {
		s.logger.Debug("match ranked",
			zap.String("target", target.Hex()),
			zap.Strings("categories", categories),
			zap.Int("candidates", candidates),
			zap.Int("returned", len(scored)))
	}

	return scored
}

// GroupByProductType buckets results by product type, keeping their relative order
func GroupByProductType(results []domain.ScoredRecord) map[string][]domain.ScoredRecord {
	groups := make(map[string][]domain.ScoredRecord)
	for _, r := range results {
		groups[r.ProductType] = append(groups[r.ProductType], r)
	}
	return groups
}

// GroupInOrder is GroupByProductType with groups ordered by the first
// appearance of their product type in results.
func GroupInOrder(results []domain.ScoredRecord) []domain.ResultGroup {
	index := make(map[string]int)
	groups := make([]domain.ResultGroup, 0)
	for _, r := range results {
		i, ok := index[r.ProductType]
		if !ok {
			i = len(groups)
			index[r.ProductType] = i
			groups = append(groups, domain.ResultGroup{ProductType: r.ProductType})
		}
		groups[i].Results = append(groups[i].Results, r)
	}
	return groups
}
