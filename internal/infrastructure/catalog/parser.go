package catalog

import (
	"fmt"
	"strings"

	"github.com/colormatch/backend/internal/domain"
)

// Catalog rows are (productType, company, colorPath, hexCode)
const (
	fieldProductType = iota
	fieldCompany
	fieldColorPath
	fieldHex
	fieldCount
)

// colorNameSegment is the index of the shade name in a slash-split color path,
// e.g. "/sminke/lepper/leppestift/brand/ruby-red" -> "ruby-red".
const colorNameSegment = 5

// DefaultProductBaseURL is prepended to every color path to build the product link
const DefaultProductBaseURL = "https://www.kicks.no"

// Parser converts catalog text into records
type Parser struct {
	productBaseURL string
}

// NewParser creates a parser that builds product links on productBaseURL
func NewParser(productBaseURL string) *Parser {
	if productBaseURL == "" {
		productBaseURL = DefaultProductBaseURL
	}
	return &Parser{productBaseURL: strings.TrimSuffix(productBaseURL, "/")}
}

// Parse reads every line after line 0, which is the header whatever it holds.
// Each line is split on its own, so a broken row never affects its neighbours.
// Rows that do not parse are reported in Catalog.Skipped.
func (p *Parser) Parse(data []byte) *domain.Catalog {
	catalog := &domain.Catalog{}

	lines := strings.Split(string(data), "\n")
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		record, err := p.parseRow(strings.Split(line, ","))
		if err != nil {
			catalog.Skipped = append(catalog.Skipped, domain.SkippedRow{Line: i + 1, Reason: err.Error()})
			continue
		}
		catalog.Records = append(catalog.Records, record)
	}

	return catalog
}

// parseRow maps the comma-separated fields of one line to a CatalogRecord
func (p *Parser) parseRow(fields []string) (domain.CatalogRecord, error) {
	if len(fields) != fieldCount {
		return domain.CatalogRecord{}, fmt.Errorf("%w: expected %d fields, got %d", domain.ErrMalformedRow, fieldCount, len(fields))
	}

	colorPath := strings.TrimSpace(fields[fieldColorPath])
	colorName, err := extractColorName(colorPath)
	if err != nil {
		return domain.CatalogRecord{}, err
	}

	rgb, err := domain.ParseHexColor(fields[fieldHex])
	if err != nil {
		return domain.CatalogRecord{}, fmt.Errorf("%w: %w", domain.ErrMalformedRow, err)
	}

	return domain.CatalogRecord{
		ProductType: strings.TrimSpace(fields[fieldProductType]),
		Company:     strings.TrimSpace(fields[fieldCompany]),
		ColorName:   colorName,
		RGB:         rgb,
		URL:         p.productBaseURL + colorPath,
	}, nil
}

// extractColorName takes the shade segment of a color path
func extractColorName(colorPath string) (string, error) {
	segments := strings.Split(colorPath, "/")
	if len(segments) <= colorNameSegment {
		return "", fmt.Errorf("%w: color path %q has %d segments, need at least %d",
			domain.ErrMalformedRow, colorPath, len(segments), colorNameSegment+1)
	}

	name := strings.TrimSpace(segments[colorNameSegment])
	if name == "" {
		return "", fmt.Errorf("%w: color path %q has an empty shade segment", domain.ErrMalformedRow, colorPath)
	}
	return name, nil
}
