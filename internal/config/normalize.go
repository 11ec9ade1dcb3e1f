package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOutput()
	c.normalizeExceptions()
	c.normalizeClassification()
	if err := c.normalizeLookup(); err != nil {
		return err
	}
	if c.Watch.DebounceMillis <= 0 {
		c.Watch.DebounceMillis = defaultWatchDebounceMS
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.source_dir", &c.Paths.SourceDir, defaultSourceDir},
		{"paths.output_dir", &c.Paths.OutputDir, defaultOutputDir},
		{"paths.exception_dir", &c.Paths.ExceptionDir, defaultExceptionDir},
		{"paths.archive_dir", &c.Paths.ArchiveDir, defaultArchiveDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
		{"paths.state_dir", &c.Paths.StateDir, defaultStateDir},
		{"paths.mirror_dir", &c.Paths.MirrorDir, ""},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeOutput() {
	c.Output.HeaderRecord = strings.TrimRight(c.Output.HeaderRecord, "\r\n")
}

func (c *Config) normalizeExceptions() {
	c.Exceptions.Format = strings.ToLower(strings.TrimSpace(c.Exceptions.Format))
	if c.Exceptions.Format == "" {
		c.Exceptions.Format = defaultExceptionFormat
	}
}

func (c *Config) normalizeClassification() {
	if len(c.Classification.ExtraKeywords) == 0 {
		return
	}
	keywords := make([]string, 0, len(c.Classification.ExtraKeywords))
	seen := make(map[string]struct{}, len(c.Classification.ExtraKeywords))
	for _, keyword := range c.Classification.ExtraKeywords {
		normalized := strings.ToUpper(strings.TrimSpace(keyword))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		keywords = append(keywords, normalized)
	}
	c.Classification.ExtraKeywords = keywords
}

func (c *Config) normalizeLookup() error {
	if strings.TrimSpace(c.Lookup.DatabasePath) == "" {
		if value, ok := os.LookupEnv("LEDGERCONV_LOOKUP_DB"); ok {
			c.Lookup.DatabasePath = value
		}
	}
	var err error
	if c.Lookup.DatabasePath, err = expandPath(strings.TrimSpace(c.Lookup.DatabasePath)); err != nil {
		return fmt.Errorf("lookup.database_path: %w", err)
	}
	if c.Lookup.TimeoutSeconds <= 0 {
		c.Lookup.TimeoutSeconds = defaultLookupTimeout
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if value, ok := os.LookupEnv("LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
