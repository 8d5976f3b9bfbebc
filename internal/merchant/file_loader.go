package merchant

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for catalogue files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a JSON catalogue file, transparently decompressing ".gz"
// files, and returns the raw product payloads.
func (l *fileLoader) Load(ctx context.Context, path string) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("path", path).Msg("loading product catalogue")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	products, err := decodeCatalog(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalogue file %s: %w", path, err)
	}

	l.logger.Info().
		Str("path", path).
		Int("product_count", len(products)).
		Msg("product catalogue loaded")

	return products, nil
}

// decodeCatalog decodes a JSON array of product objects. The payloads are
// kept as raw maps; validation happens at the boundary layer, not here.
func decodeCatalog(r io.Reader) ([]map[string]any, error) {
	var products []map[string]any
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, err
	}
	return products, nil
}
