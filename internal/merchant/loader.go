package merchant

import "context"

// Loader reads a raw product catalogue for the in-memory merchant.
// Catalogue contents are merchant data and stay unvalidated until they
// cross the boundary layer.
type Loader interface {
	// Load reads a catalogue file (plain or gzipped JSON) and returns its
	// raw product payloads.
	Load(ctx context.Context, path string) ([]map[string]any, error)
}
