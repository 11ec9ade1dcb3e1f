package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"ledgerconv/internal/textutil"
)

// reservedLineTags are the ledger record and trailer tags. A header record
// starting with either would be read back as data.
var reservedLineTags = []string{"PIC", "TIC"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExceptions(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLookup(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	named := map[string]string{
		"paths.source_dir":    c.Paths.SourceDir,
		"paths.output_dir":    c.Paths.OutputDir,
		"paths.exception_dir": c.Paths.ExceptionDir,
		"paths.archive_dir":   c.Paths.ArchiveDir,
	}
	for key, value := range named {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	source := filepath.Clean(c.Paths.SourceDir)
	for key, value := range named {
		if key == "paths.source_dir" {
			continue
		}
		if filepath.Clean(value) == source {
			return fmt.Errorf("%s must differ from paths.source_dir", key)
		}
	}
	if filepath.Clean(c.Paths.OutputDir) == filepath.Clean(c.Paths.ExceptionDir) {
		return errors.New("paths.exception_dir must differ from paths.output_dir")
	}
	return nil
}

func (c *Config) validateExceptions() error {
	switch c.Exceptions.Format {
	case ExceptionFormatCSV, ExceptionFormatXLSX:
		return nil
	default:
		return fmt.Errorf("exceptions.format must be %q or %q, got %q", ExceptionFormatCSV, ExceptionFormatXLSX, c.Exceptions.Format)
	}
}

func (c *Config) validateOutput() error {
	header := textutil.ASCII(c.Output.HeaderRecord)
	for _, tag := range reservedLineTags {
		if strings.HasPrefix(header, tag) {
			return fmt.Errorf("output.header_record must not start with the %q line tag, got %q", tag, c.Output.HeaderRecord)
		}
	}
	return nil
}

func (c *Config) validateLookup() error {
	if !c.Lookup.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Lookup.DatabasePath) == "" {
		return errors.New("lookup.database_path must be set when lookup.enabled is true (or set LEDGERCONV_LOOKUP_DB)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
