package pipeline

import (
	"fmt"

	"ledgerconv/internal/config"
	"ledgerconv/internal/lookup"
)

// OpenDirectory returns the configured record directory and a function that
// releases it. Without [lookup] enabled the directory is a no-op.
func OpenDirectory(cfg *config.Config) (lookup.Directory, func(), error) {
	if !cfg.Lookup.Enabled {
		return lookup.Nop{}, func() {}, nil
	}
	dir, err := lookup.OpenSQLite(cfg.Lookup.DatabasePath, cfg.LookupTimeout())
	if err != nil {
		return nil, nil, fmt.Errorf("open record directory: %w", err)
	}
	return dir, func() { _ = dir.Close() }, nil
}
