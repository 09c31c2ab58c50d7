package domain

import "time"

// DefaultSelectedColor is the color a new session starts with
const DefaultSelectedColor = "#ff0000"

// Session is the in-memory state of one user's matching workflow
type Session struct {
	ID               string         `json:"id"`
	SelectedColor    string         `json:"selectedColor"`
	SelectedProducts []string       `json:"selectedProducts"`
	Results          []ScoredRecord `json:"results"`
	Groups           []ResultGroup  `json:"groups"`
	Loading          bool           `json:"loading"`
	LastError        string         `json:"lastError,omitempty"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}
