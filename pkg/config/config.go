package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/ajitpratap0/rowscols/pkg/errors"
)

// Header detection modes.
const (
	HeaderAuto    = "auto"
	HeaderPresent = "present"
	HeaderAbsent  = "absent"
)

const (
	// DefaultSampleRows is the number of data rows inspected for typing.
	DefaultSampleRows = 10
	// DefaultMetadataSuffix is appended to the source stem to name the sidecar.
	DefaultMetadataSuffix = "csv_metadata.toml"
	// DefaultMaxLineBytes bounds a single physical line.
	DefaultMaxLineBytes = 16 * 1024 * 1024
	// DefaultDataDirName is created next to the executable when no data dir is configured.
	DefaultDataDirName = "rows_columns_data"
)

// Config is the complete rowscols configuration.
type Config struct {
	Analysis      AnalysisConfig      `yaml:"analysis" mapstructure:"analysis"`
	Metadata      MetadataConfig      `yaml:"metadata" mapstructure:"metadata"`
	Workspace     WorkspaceConfig     `yaml:"workspace" mapstructure:"workspace"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// AnalysisConfig controls the two scan passes.
type AnalysisConfig struct {
	// SampleRows caps the data rows inspected for type inference
	SampleRows int `yaml:"sample_rows" mapstructure:"sample_rows"`
	// Delimiter is the single-character field separator
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
	// HeaderMode is auto, present or absent
	HeaderMode string `yaml:"header_mode" mapstructure:"header_mode"`
	// MaxLineBytes bounds the scanner buffer
	MaxLineBytes int `yaml:"max_line_bytes" mapstructure:"max_line_bytes"`
}

// MetadataConfig controls sidecar naming.
type MetadataConfig struct {
	// Suffix is joined to the source stem with a dot
	Suffix string `yaml:"suffix" mapstructure:"suffix"`
}

// WorkspaceConfig controls the data directory bootstrap.
type WorkspaceConfig struct {
	// DataDir overrides the executable-relative data root
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// ObservabilityConfig contains logging, metrics and tracing settings.
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// LogEncoding is json or console
	LogEncoding string `yaml:"log_encoding" mapstructure:"log_encoding"`
	// MetricsFile, when set, receives a Prometheus textfile snapshot after each run
	MetricsFile string `yaml:"metrics_file" mapstructure:"metrics_file"`
	// Trace exports stage spans to stderr
	Trace bool `yaml:"trace" mapstructure:"trace"`
}

// Default returns a Config with the documented defaults.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			SampleRows:   DefaultSampleRows,
			Delimiter:    ",",
			HeaderMode:   HeaderAuto,
			MaxLineBytes: DefaultMaxLineBytes,
		},
		Metadata: MetadataConfig{
			Suffix: DefaultMetadataSuffix,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "warn",
			LogEncoding: "console",
		},
	}
}

// Validate checks the configuration for correctness.
// Every failure is a configuration error.
func (c *Config) Validate() error {
	if c.Analysis.SampleRows <= 0 {
		return errors.Config("sample_rows must be positive").WithDetail("value", c.Analysis.SampleRows)
	}
	if utf8.RuneCountInString(c.Analysis.Delimiter) != 1 {
		return errors.Config(fmt.Sprintf("delimiter must be a single character, got %q", c.Analysis.Delimiter))
	}
	switch r := c.Analysis.DelimiterRune(); r {
	case '\n', '\r', utf8.RuneError:
		return errors.Config(fmt.Sprintf("delimiter %q is not allowed", r))
	}
	switch c.Analysis.HeaderMode {
	case HeaderAuto, HeaderPresent, HeaderAbsent:
	default:
		return errors.Config(fmt.Sprintf("header_mode must be %s, %s or %s, got %q",
			HeaderAuto, HeaderPresent, HeaderAbsent, c.Analysis.HeaderMode))
	}
	if c.Analysis.MaxLineBytes < 1024 {
		return errors.Config("max_line_bytes must be at least 1024").WithDetail("value", c.Analysis.MaxLineBytes)
	}
	if c.Metadata.Suffix == "" {
		return errors.Config("metadata suffix is required")
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune, defaulting to a comma.
func (a *AnalysisConfig) DelimiterRune() rune {
	if a.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(a.Delimiter)
	return r
}
