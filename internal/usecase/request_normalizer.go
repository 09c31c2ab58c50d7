package usecase

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/colormatch/backend/internal/domain"
)

// DefaultCategories are the product types offered when none are configured
var DefaultCategories = []string{"Lipstick", "Nail Polish", "Lip Liner", "Bronzer", "Blush"}

// RequestNormalizer validates user input before it reaches the matcher:
// the target color and the selected product categories.
type RequestNormalizer struct {
	categories         []string
	canonical          map[string]string
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewRequestNormalizer creates a normalizer for the given category list
func NewRequestNormalizer(categories []string, enableDebugLogging bool, logger *zap.Logger) *RequestNormalizer {
	if len(categories) == 0 {
		categories = DefaultCategories
	}

	n := &RequestNormalizer{
		canonical:          make(map[string]string, len(categories)),
		enableDebugLogging: enableDebugLogging,
		logger:             logger,
	}
	for _, c := range categories {
		name := strings.Join(strings.Fields(c), " ")
		if name == "" {
			continue
		}
		key := foldCategory(name)
		if _, dup := n.canonical[key]; dup {
			continue
		}
		n.canonical[key] = name
		n.categories = append(n.categories, name)
	}

	return n
}

// Categories returns the enumerated category list in configured order
func (n *RequestNormalizer) Categories() []string {
	out := make([]string, len(n.categories))
	copy(out, n.categories)
	return out
}

// CanonicalCategory maps user input such as " lip  liner" to "Lip Liner"
func (n *RequestNormalizer) CanonicalCategory(name string) (string, bool) {
	c, ok := n.canonical[foldCategory(name)]
	return c, ok
}

// NormalizeColor parses the target color and returns it with its canonical "#rrggbb" form
func (n *RequestNormalizer) NormalizeColor(hex string) (domain.ColorRGB, string, error) {
	rgb, err := domain.ParseHexColor(hex)
	if err != nil {
		return domain.ColorRGB{}, "", err
	}
	return rgb, rgb.Hex(), nil
}

// NormalizeCategories maps the requested categories to their canonical names,
// dropping duplicates and keeping the order of first mention.
func (n *RequestNormalizer) NormalizeCategories(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, domain.ErrNoCategories
	}

	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		c, ok := n.CanonicalCategory(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown product category %q", domain.ErrInvalidRequest, name)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}

	if n.enableDebugLogging {
		n.logger.Debug("normalized categories", zap.Strings("input", names), zap.Strings("output", out))
	}

	return out, nil
}

// foldCategory lowercases and collapses whitespace
func foldCategory(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
