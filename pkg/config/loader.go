package config

import (
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/rowscols/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g. ROWSCOLS_ANALYSIS_SAMPLE_ROWS.
const EnvPrefix = "ROWSCOLS"

// Keys recognised by Load. Flag bindings use the same names.
const (
	KeySampleRows   = "analysis.sample_rows"
	KeyDelimiter    = "analysis.delimiter"
	KeyHeaderMode   = "analysis.header_mode"
	KeyMaxLineBytes = "analysis.max_line_bytes"
	KeySuffix       = "metadata.suffix"
	KeyDataDir      = "workspace.data_dir"
	KeyLogLevel     = "observability.log_level"
	KeyLogEncoding  = "observability.log_encoding"
	KeyMetricsFile  = "observability.metrics_file"
	KeyTrace        = "observability.trace"
)

// NewViper returns a viper instance preloaded with defaults and env bindings.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()

	v.SetDefault(KeySampleRows, d.Analysis.SampleRows)
	v.SetDefault(KeyDelimiter, d.Analysis.Delimiter)
	v.SetDefault(KeyHeaderMode, d.Analysis.HeaderMode)
	v.SetDefault(KeyMaxLineBytes, d.Analysis.MaxLineBytes)
	v.SetDefault(KeySuffix, d.Metadata.Suffix)
	v.SetDefault(KeyDataDir, d.Workspace.DataDir)
	v.SetDefault(KeyLogLevel, d.Observability.LogLevel)
	v.SetDefault(KeyLogEncoding, d.Observability.LogEncoding)
	v.SetDefault(KeyMetricsFile, d.Observability.MetricsFile)
	v.SetDefault(KeyTrace, d.Observability.Trace)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load resolves the configuration from v, reading configFile first when it
// is non-empty. The format follows the file extension (yaml, toml, json).
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file").
				WithDetail(errors.DetailPath, configFile)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to decode configuration")
	}

	cfg.Analysis.Delimiter = NormalizeDelimiter(cfg.Analysis.Delimiter)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NormalizeDelimiter turns the shell-friendly spellings `\t` and "tab"
// into a tab character.
func NormalizeDelimiter(d string) string {
	switch strings.ToLower(d) {
	case `\t`, "tab":
		return "\t"
	}
	return d
}

// Marshal renders the configuration as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to marshal YAML")
	}
	return data, nil
}
