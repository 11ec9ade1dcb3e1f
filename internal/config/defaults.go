package config

const (
	defaultSourceDir        = "~/ledgerconv/sourcefiles"
	defaultOutputDir        = "~/ledgerconv/output"
	defaultExceptionDir     = "~/ledgerconv/exceptions"
	defaultArchiveDir       = "~/ledgerconv/archive"
	defaultLogDir           = "~/.local/share/ledgerconv/logs"
	defaultStateDir         = "~/.local/share/ledgerconv"
	defaultExceptionFormat  = ExceptionFormatCSV
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 90
	defaultLookupTimeout    = 30
	defaultWatchDebounceMS  = 2000
)

// Exception file formats.
const (
	ExceptionFormatCSV  = "csv"
	ExceptionFormatXLSX = "xlsx"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir:    defaultSourceDir,
			OutputDir:    defaultOutputDir,
			ExceptionDir: defaultExceptionDir,
			ArchiveDir:   defaultArchiveDir,
			LogDir:       defaultLogDir,
			StateDir:     defaultStateDir,
		},
		Exceptions: Exceptions{
			Format: defaultExceptionFormat,
		},
		Lookup: Lookup{
			TimeoutSeconds: defaultLookupTimeout,
		},
		Watch: Watch{
			DebounceMillis: defaultWatchDebounceMS,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
