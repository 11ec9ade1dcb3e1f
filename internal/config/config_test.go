package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ledgerconv/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LEDGERCONV_LOOKUP_DB", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantSource := filepath.Join(tempHome, "ledgerconv", "sourcefiles")
	if cfg.Paths.SourceDir != wantSource {
		t.Fatalf("unexpected source dir: got %q want %q", cfg.Paths.SourceDir, wantSource)
	}
	wantState := filepath.Join(tempHome, ".local", "share", "ledgerconv")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.MirrorDir != "" {
		t.Fatalf("expected mirror dir disabled by default, got %q", cfg.Paths.MirrorDir)
	}
	if cfg.Exceptions.Format != config.ExceptionFormatCSV {
		t.Fatalf("unexpected exception format: %q", cfg.Exceptions.Format)
	}
	if cfg.Lookup.Enabled {
		t.Fatal("expected lookup disabled by default")
	}
	if cfg.Output.Trailer || cfg.Output.HeaderRecord != "" {
		t.Fatalf("expected no framing records by default, got %+v", cfg.Output)
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.SourceDir, cfg.Paths.OutputDir, cfg.Paths.ExceptionDir, cfg.Paths.ArchiveDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "ledgerconv.toml")

	type payload struct {
		Paths struct {
			SourceDir string `toml:"source_dir"`
			MirrorDir string `toml:"mirror_dir"`
		} `toml:"paths"`
		Exceptions struct {
			Format string `toml:"format"`
		} `toml:"exceptions"`
		Classification struct {
			ExtraKeywords []string `toml:"extra_keywords"`
		} `toml:"classification"`
		Output struct {
			Trailer bool `toml:"trailer"`
		} `toml:"output"`
	}
	custom := payload{}
	custom.Paths.SourceDir = filepath.Join(tempDir, "in")
	custom.Paths.MirrorDir = filepath.Join(tempDir, "outbox")
	custom.Exceptions.Format = "XLSX"
	custom.Classification.ExtraKeywords = []string{" foundation ", "TRUST", "Foundation", ""}
	custom.Output.Trailer = true
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.SourceDir != custom.Paths.SourceDir {
		t.Fatalf("unexpected source dir: got %q want %q", cfg.Paths.SourceDir, custom.Paths.SourceDir)
	}
	if cfg.Paths.MirrorDir != custom.Paths.MirrorDir {
		t.Fatalf("unexpected mirror dir: got %q want %q", cfg.Paths.MirrorDir, custom.Paths.MirrorDir)
	}
	if cfg.Exceptions.Format != config.ExceptionFormatXLSX {
		t.Fatalf("expected lowercased xlsx format, got %q", cfg.Exceptions.Format)
	}
	if got := strings.Join(cfg.Classification.ExtraKeywords, ","); got != "FOUNDATION,TRUST" {
		t.Fatalf("unexpected keywords: got %q want %q", got, "FOUNDATION,TRUST")
	}
	if !cfg.Output.Trailer {
		t.Fatal("expected trailer enabled")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ledgerconv.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nstaging_dir = \"/tmp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLogLevelEnvOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ledgerconv.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env level, got %q", cfg.Logging.Level)
	}
}

func TestLookupDatabaseFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	dir := t.TempDir()
	configPath := filepath.Join(dir, "ledgerconv.toml")
	if err := os.WriteFile(configPath, []byte("[lookup]\nenabled = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	dbPath := filepath.Join(dir, "people.db")
	t.Setenv("LEDGERCONV_LOOKUP_DB", dbPath)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Lookup.DatabasePath != dbPath {
		t.Fatalf("unexpected database path: got %q want %q", cfg.Lookup.DatabasePath, dbPath)
	}
	if cfg.LookupTimeout().Seconds() != 30 {
		t.Fatalf("unexpected lookup timeout %s", cfg.LookupTimeout())
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.SourceDir, "sourcefiles") {
		t.Fatalf("expected source dir to contain sourcefiles, got %q", cfg.Paths.SourceDir)
	}
	if cfg.Exceptions.Format != config.ExceptionFormatCSV {
		t.Fatalf("unexpected sample exception format %q", cfg.Exceptions.Format)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Exceptions.Format = "pdf"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported exception format")
	}

	cfg = config.Default()
	cfg.Lookup.Enabled = true
	cfg.Lookup.DatabasePath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when lookup enabled without database path")
	}

	cfg = config.Default()
	cfg.Paths.OutputDir = cfg.Paths.SourceDir
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when output dir equals source dir")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestValidateRejectsHeaderRecordWithLineTag(t *testing.T) {
	for _, header := range []string{"PICKUP COUNTY OF SACRAMENTO", "TIC000001", "PÍC HEADER"} {
		cfg := config.Default()
		cfg.Output.HeaderRecord = header
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("expected error for header record %q", header)
		}
		if !strings.Contains(err.Error(), "output.header_record") {
			t.Fatalf("error for %q does not name the key: %v", header, err)
		}
	}

	cfg := config.Default()
	cfg.Output.HeaderRecord = "COUNTY OF SACRAMENTO PIC REPORT"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected header without leading tag to validate, got %v", err)
	}
}
