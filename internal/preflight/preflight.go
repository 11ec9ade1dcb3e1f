package preflight

import (
	"ledgerconv/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Source directory", cfg.Paths.SourceDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Exception directory", cfg.Paths.ExceptionDir),
		CheckDirectoryAccess("Archive directory", cfg.Paths.ArchiveDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}
	if cfg.Paths.MirrorDir != "" {
		results = append(results, CheckDirectoryAccess("Mirror directory", cfg.Paths.MirrorDir))
	}
	if cfg.Lookup.Enabled {
		results = append(results, CheckLookup(cfg.Lookup.DatabasePath, cfg.LookupTimeout()))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
