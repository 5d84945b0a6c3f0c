package main

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rowscols/internal/report"
	"github.com/ajitpratap0/rowscols/pkg/analyzer"
	"github.com/ajitpratap0/rowscols/pkg/config"
	"github.com/ajitpratap0/rowscols/pkg/errors"
	"github.com/ajitpratap0/rowscols/pkg/logger"
	"github.com/ajitpratap0/rowscols/pkg/metadata"
	"github.com/ajitpratap0/rowscols/pkg/metrics"
	"github.com/ajitpratap0/rowscols/pkg/observability"
	"github.com/ajitpratap0/rowscols/pkg/schema"
	"github.com/ajitpratap0/rowscols/pkg/workspace"
)

// cli holds state shared by the subcommands of one invocation.
type cli struct {
	v          *viper.Viper
	configFile string
	format     string
	stdout     io.Writer
	stderr     io.Writer

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{v: config.NewViper(), stdout: stdout, stderr: stderr}
	d := config.Default()

	root := &cobra.Command{
		Use:   "rowscols",
		Short: "rowscols - CSV structure and type analysis",
		Long: `rowscols inspects a delimited text file, infers its column count, header
presence, data row count and per-column types from a bounded sample, and
records the findings in a TOML sidecar next to the source file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configFile, "config", "c", "", "Path to a YAML, TOML or JSON config file")
	pf.StringVarP(&c.format, "format", "f", string(report.FormatText), "Output format (text, json, yaml)")
	pf.Int("sample-rows", d.Analysis.SampleRows, "Data rows inspected for type inference")
	pf.String("delimiter", d.Analysis.Delimiter, `Field delimiter (single character; "tab" or \t for tabs)`)
	pf.String("header", d.Analysis.HeaderMode, "Header detection (auto, present, absent)")
	pf.Int("max-line-bytes", d.Analysis.MaxLineBytes, "Longest physical line accepted")
	pf.String("suffix", d.Metadata.Suffix, "Sidecar file suffix appended to the source stem")
	pf.String("data-dir", "", "Workspace root (default: rows_columns_data next to the executable)")
	pf.String("log-level", d.Observability.LogLevel, "Log level (debug, info, warn, error)")
	pf.String("log-encoding", d.Observability.LogEncoding, "Log encoding (console, json)")
	pf.String("metrics-file", "", "Write a Prometheus textfile snapshot here after each run")
	pf.Bool("trace", false, "Export stage trace spans to stderr")

	for key, flag := range map[string]string{
		config.KeySampleRows:   "sample-rows",
		config.KeyDelimiter:    "delimiter",
		config.KeyHeaderMode:   "header",
		config.KeyMaxLineBytes: "max-line-bytes",
		config.KeySuffix:       "suffix",
		config.KeyDataDir:      "data-dir",
		config.KeyLogLevel:     "log-level",
		config.KeyLogEncoding:  "log-encoding",
		config.KeyMetricsFile:  "metrics-file",
		config.KeyTrace:        "trace",
	} {
		_ = c.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		c.analyzeCmd(),
		c.showCmd(),
		c.schemaCmd(),
		c.configCmd(),
		versionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger before any subcommand runs.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(c.v, c.configFile)
	if err != nil {
		return err
	}

	err = logger.Init(logger.Config{
		Level:    cfg.Observability.LogLevel,
		Encoding: cfg.Observability.LogEncoding,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid logging configuration")
	}

	c.cfg = cfg
	c.log = logger.With(zap.String("component", "rowscols-cli"))
	return nil
}

func (c *cli) outputFormat() (report.Format, error) {
	f, err := report.ParseFormat(c.format)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeConfig, "invalid --format")
	}
	return f, nil
}

func (c *cli) analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <csv_file>",
		Short: "Analyze a CSV file and write its metadata sidecar",
		Long: `Analyze a delimited text file and write <stem>.csv_metadata.toml next to it.

Examples:
  rowscols analyze data/customers.csv
  rowscols analyze --delimiter ';' --sample-rows 50 exports/sales.csv.gz
  rowscols analyze -f json reports/quarterly.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.outputFormat()
			if err != nil {
				return err
			}

			ws, err := workspace.Resolve(c.cfg.Workspace.DataDir)
			if err != nil {
				return err
			}
			c.log.Debug("workspace ready", zap.String("root", ws.Root))

			result, err := c.analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report.WriteAnalysis(c.stdout, format, result, ws)
		},
	}
}

func (c *cli) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <csv_file>",
		Short: "Analyze a CSV file and print the Arrow schema of its detected types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.outputFormat()
			if err != nil {
				return err
			}

			result, err := c.analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report.WriteSchema(c.stdout, format, schema.ToArrowSchema(result.Columns))
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <csv_file>",
		Short: "Print the stored metadata of a CSV file without re-analysing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.outputFormat()
			if err != nil {
				return err
			}

			source, err := analyzer.ResolveSource(args[0])
			if err != nil {
				return err
			}
			path, err := metadata.Path(source, c.cfg.Metadata.Suffix)
			if err != nil {
				return err
			}
			rec, err := metadata.Read(path)
			if err != nil {
				return err
			}
			return report.WriteRecord(c.stdout, format, path, rec)
		},
	}
}

func (c *cli) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(c.cfg)
			if err != nil {
				return err
			}
			_, err = c.stdout.Write(data)
			return err
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rowscols v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// analyze runs one analysis with tracing and metrics export as configured.
func (c *cli) analyze(ctx context.Context, path string) (*analyzer.AnalysisResult, error) {
	obs := c.cfg.Observability

	if obs.Trace {
		tcfg := observability.DefaultTracingConfig(version)
		tcfg.Writer = c.stderr
		shutdown, err := observability.InitTracing(tcfg)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to initialize tracing")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				c.log.Warn("trace export failed", zap.Error(err))
			}
		}()
	}

	collector := metrics.NewCollector()
	a := analyzer.New(c.cfg, logger.Get(), analyzer.WithMetrics(collector))
	result, err := a.Analyze(ctx, path)

	if obs.MetricsFile != "" {
		if werr := collector.WriteTextfile(obs.MetricsFile); werr != nil {
			c.log.Warn("failed to write metrics file", zap.String("path", obs.MetricsFile), zap.Error(werr))
		}
	}
	if err != nil {
		return nil, err
	}
	_ = logger.Sync()
	return result, nil
}
