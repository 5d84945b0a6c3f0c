// Package config provides configuration management for rowscols.
//
// # Sources
//
// Values are resolved in this order, later sources winning:
//
//   - Built-in defaults (Default)
//   - An optional config file (YAML, TOML or JSON, chosen by extension)
//   - Environment variables prefixed with ROWSCOLS_, dots replaced by
//     underscores (ROWSCOLS_ANALYSIS_SAMPLE_ROWS=25)
//   - Command-line flags bound to the same keys
//
// # Usage
//
//	v := config.NewViper()
//	_ = v.BindPFlag(config.KeySampleRows, cmd.Flags().Lookup("sample-rows"))
//
//	cfg, err := config.Load(v, "rowscols.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Example file
//
//	analysis:
//	  sample_rows: 10
//	  delimiter: ","
//	  header_mode: auto
//	metadata:
//	  suffix: csv_metadata.toml
//	observability:
//	  log_level: info
//
// Invalid values are reported as configuration errors from pkg/errors.
package config
