package txnlog

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Format selects the on-disk line encoding.
type Format string

const (
	// FormatJSON writes one compact JSON object per line.
	FormatJSON Format = "json"
	// FormatText writes "[timestamp] LEVEL: payload" lines.
	FormatText Format = "text"
)

// ExportFormat selects the encoding used by Logger.Export.
type ExportFormat string

const (
	// ExportJSON produces newline-delimited JSON records.
	ExportJSON ExportFormat = "json"
	// ExportCSV produces a CSV with one column per transaction key.
	ExportCSV ExportFormat = "csv"
)

// Default construction parameters.
const (
	DefaultPath        = "transactions.log"
	DefaultMaxBytes    = 10 * 1024 * 1024
	DefaultBackupCount = 5
)

// Config holds the construction-time parameters of a Logger. All fields
// are fixed after New except the severity threshold (SetLevel) and the
// console mirror (EnableConsole).
type Config struct {
	// Path is the destination log file. Relative paths are resolved
	// against the working directory at construction time.
	Path string

	// Format is the line encoding, FormatJSON or FormatText.
	Format Format

	// MaxBytes bounds the active file size before rotation. Zero or
	// negative disables rotation.
	MaxBytes int64

	// BackupCount is how many rotated files to retain.
	BackupCount int

	// BufferSize enables in-memory batching when positive: entries are
	// held until BufferSize is reached, then flushed in one pass.
	BufferSize int

	// Level is the minimum severity written to the sinks.
	Level Level

	// Name identifies this logger instance. Generated when empty.
	Name string

	// Diag receives the engine's own operational diagnostics (swallowed
	// write failures, rotation errors). Disabled when left zero.
	Diag zerolog.Logger
}

// withDefaults fills zero values and validates format and level.
func (c Config) withDefaults() (Config, error) {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	abs, err := filepath.Abs(c.Path)
	if err != nil {
		return c, fmt.Errorf("resolve path %q: %w", c.Path, err)
	}
	c.Path = abs

	if c.Format == "" {
		c.Format = FormatJSON
	}
	if c.Format != FormatJSON && c.Format != FormatText {
		return c, fmt.Errorf("%w: format must be %q or %q, got %q",
			ErrConfiguration, FormatJSON, FormatText, c.Format)
	}

	if c.MaxBytes == 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.BackupCount == 0 {
		c.BackupCount = DefaultBackupCount
	}
	if c.BufferSize < 0 {
		c.BufferSize = 0
	}

	if c.Level == "" {
		c.Level = LevelInfo
	}
	lvl, err := ParseLevel(string(c.Level))
	if err != nil {
		return c, err
	}
	c.Level = lvl

	if c.Name == "" {
		c.Name = "txnlog-" + uuid.NewString()
	}
	return c, nil
}
