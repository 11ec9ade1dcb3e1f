package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains every directory the pipeline touches.
type Paths struct {
	SourceDir    string `toml:"source_dir"`
	OutputDir    string `toml:"output_dir"`
	ExceptionDir string `toml:"exception_dir"`
	ArchiveDir   string `toml:"archive_dir"`
	LogDir       string `toml:"log_dir"`
	StateDir     string `toml:"state_dir"`
	// MirrorDir receives a verified copy of every ledger file for downstream
	// pickup. Empty disables mirroring.
	MirrorDir string `toml:"mirror_dir"`
}

// Output contains optional framing records written around the ledger body.
type Output struct {
	HeaderRecord string `toml:"header_record"`
	Trailer      bool   `toml:"trailer"`
}

// Exceptions controls the exception report.
type Exceptions struct {
	Format string `toml:"format"`
}

// Classification tunes the exception rules.
type Classification struct {
	ExtraKeywords []string `toml:"extra_keywords"`
}

// Lookup configures the optional record directory keyed by tax identifier.
type Lookup struct {
	Enabled        bool   `toml:"enabled"`
	DatabasePath   string `toml:"database_path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Watch configures the directory watcher.
type Watch struct {
	DebounceMillis int `toml:"debounce_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for ledgerconv.
//
// Configuration sections by subsystem:
//   - Paths: source, output, exception, archive, log and state directories
//   - Output: optional header record and TIC trailer around the ledger body
//   - Exceptions: exception report format (csv or xlsx)
//   - Classification: additional organization keywords
//   - Lookup: SQLite record directory used to enrich names by tax id
//   - Watch: debounce for the directory watcher
//   - Logging: log format, level, and retention
type Config struct {
	Paths          Paths          `toml:"paths"`
	Output         Output         `toml:"output"`
	Exceptions     Exceptions     `toml:"exceptions"`
	Classification Classification `toml:"classification"`
	Lookup         Lookup         `toml:"lookup"`
	Watch          Watch          `toml:"watch"`
	Logging        Logging        `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ledgerconv/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return "", false, fmt.Errorf("config file %s: %w", expanded, err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("ledgerconv.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes to. The
// source directory is created too so a fresh install has somewhere to drop
// reports.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.SourceDir,
		c.Paths.OutputDir,
		c.Paths.ExceptionDir,
		c.Paths.ArchiveDir,
		c.Paths.LogDir,
		c.Paths.StateDir,
	}
	if c.Paths.MirrorDir != "" {
		dirs = append(dirs, c.Paths.MirrorDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockPath returns the single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "ledgerconv.lock")
}

// LookupTimeout returns the per-batch directory query timeout.
func (c *Config) LookupTimeout() time.Duration {
	return time.Duration(c.Lookup.TimeoutSeconds) * time.Second
}

// WatchDebounce returns how long the watcher waits for a burst of file events to settle.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMillis) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
