package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/colormatch/backend/internal/domain"
)

// FileSource reads the catalog from the local filesystem
type FileSource struct {
	path string
}

// NewFileSource creates a catalog source backed by a file
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Kind implements domain.CatalogSource
func (s *FileSource) Kind() string { return "file" }

// Location implements domain.CatalogSource
func (s *FileSource) Location() string { return s.path }

// Fetch reads the whole file
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResourceUnavailable, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResourceUnavailable, err)
	}
	return data, nil
}

// NewSource picks the HTTP source for http(s) locations and the file source otherwise
func NewSource(cfg SourceConfig, logger *zap.Logger) domain.CatalogSource {
	lower := strings.ToLower(cfg.Location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(cfg, logger)
	}
	return NewFileSource(cfg.Location)
}
