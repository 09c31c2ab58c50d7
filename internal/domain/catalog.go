package domain

// CatalogRecord is one product color from the catalog
type CatalogRecord struct {
	ProductType string   `json:"productType"`
	Company     string   `json:"company"`
	ColorName   string   `json:"color"`
	RGB         ColorRGB `json:"rgb"`
	URL         string   `json:"url"`
}

// ScoredRecord is a catalog record with its distance to a target color
type ScoredRecord struct {
	CatalogRecord
	Distance float64 `json:"distance"`
}

// ResultGroup holds the scored records of one product type, closest first
type ResultGroup struct {
	ProductType string         `json:"productType"`
	Results     []ScoredRecord `json:"results"`
}

// SkippedRow describes a catalog row that was not turned into a record
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Catalog is the parsed content of the catalog resource
type Catalog struct {
	Records []CatalogRecord
	Skipped []SkippedRow
}

// MatchRequest represents a color match request
type MatchRequest struct {
	Color      string   `json:"color" binding:"required"`
	Categories []string `json:"categories"`
}

// MatchResponse is the ranked outcome of a match request
type MatchResponse struct {
	Target      string         `json:"target"`
	Categories  []string       `json:"categories"`
	Quota       int            `json:"quota"`
	Results     []ScoredRecord `json:"results"`
	Groups      []ResultGroup  `json:"groups"`
	SkippedRows int            `json:"skippedRows"`
}
