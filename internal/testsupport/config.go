package testsupport

import (
	"path/filepath"
	"testing"

	"ledgerconv/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Directories are created so pipeline code can run immediately.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDir = filepath.Join(base, "sourcefiles")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.ExceptionDir = filepath.Join(base, "exceptions")
	cfgVal.Paths.ArchiveDir = filepath.Join(base, "archive")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Watch.DebounceMillis = 50

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithMirrorDir enables the ledger mirror copy.
func WithMirrorDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.MirrorDir = filepath.Join(b.baseDir, "mirror")
	}
}

// WithExceptionFormat overrides the exception report format.
func WithExceptionFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Exceptions.Format = format
	}
}

// WithTrailer enables the TIC trailer and an optional header record.
func WithTrailer(header string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Trailer = true
		b.cfg.Output.HeaderRecord = header
	}
}

// WithLookupDatabase enables the SQLite directory at path.
func WithLookupDatabase(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Lookup.Enabled = true
		b.cfg.Lookup.DatabasePath = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceDir)
}
