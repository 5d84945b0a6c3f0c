// Package rowscols is a CSV preprocessing tool. It inspects a delimited text
// file, infers its structural shape and a per-column data type from a
// bounded sample, and records the findings in a TOML sidecar next to the
// source file.
//
// # Architecture
//
// An analysis is two streaming passes followed by a write:
//
//  1. Structure (pkg/analyzer): column count from line 1, header detection
//     by comparing numeric-looking fields in lines 1 and 2, and a count of
//     every remaining line.
//  2. Sampling (pkg/analyzer, pkg/schema): names from the header row or
//     column_N placeholders, empty/non-empty counts over the first data rows,
//     and a majority vote per column over Boolean, Integer, Float and String.
//  3. Metadata (pkg/metadata): <stem>.csv_metadata.toml, fully rewritten on
//     every run.
//
// Lines are split on the delimiter only; quoting is not interpreted.
// Sources ending in .gz, .zst, .lz4, .s2, .sz or .snappy are decompressed
// on the fly (pkg/compression, pkg/linescan).
//
// # Quick Start
//
//	rowscols analyze data/customers.csv
//	rowscols show data/customers.csv
//	rowscols schema -f json data/customers.csv
//
// From Go:
//
//	cfg := config.Default()
//	a := analyzer.New(cfg, logger.Get())
//	result, err := a.Analyze(ctx, "data/customers.csv")
//
// # Configuration
//
// Settings come from flags, ROWSCOLS_* environment variables, an optional
// config file, and a .env file, in that order of precedence. See pkg/config.
//
// # Observability
//
// Logging uses zap (pkg/logger). Each run has a UUID carried as run_id on
// every log line. Stage durations and outcomes are Prometheus metrics
// (pkg/metrics, --metrics-file) and stage spans are OpenTelemetry traces
// (pkg/observability, --trace).
package rowscols
