// Package analyzer infers the shape and column types of a delimited text
// file and records them in a sidecar metadata file.
//
// An analysis runs three stages in order: a structural pass over every
// line, a sampling pass over the first data rows, and the metadata write.
// The first failing stage ends the run; no partial result is returned.
package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rowscols/pkg/compression"
	"github.com/ajitpratap0/rowscols/pkg/config"
	"github.com/ajitpratap0/rowscols/pkg/errors"
	"github.com/ajitpratap0/rowscols/pkg/logger"
	"github.com/ajitpratap0/rowscols/pkg/metadata"
	"github.com/ajitpratap0/rowscols/pkg/metrics"
	"github.com/ajitpratap0/rowscols/pkg/observability"
	"github.com/ajitpratap0/rowscols/pkg/schema"
)

// AnalysisResult is the outcome of one successful analysis.
type AnalysisResult struct {
	RunID           string              `json:"run_id" yaml:"run_id"`
	SourcePath      string              `json:"source_path" yaml:"source_path"`
	SourceSize      int64               `json:"source_size" yaml:"source_size"`
	HasHeader       bool                `json:"has_header" yaml:"has_header"`
	ColumnCount     int                 `json:"column_count" yaml:"column_count"`
	DataRowCount    int                 `json:"data_row_count" yaml:"data_row_count"`
	Columns         []schema.ColumnInfo `json:"columns" yaml:"columns"`
	MetadataPath    string              `json:"metadata_path" yaml:"metadata_path"`
	MetadataExisted bool                `json:"metadata_existed" yaml:"metadata_existed"`
	Warnings        []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ColumnTypes returns the detected type tag of each column in order.
func (r *AnalysisResult) ColumnTypes() []string {
	tags := make([]string, len(r.Columns))
	for i, col := range r.Columns {
		tags[i] = col.DetectedType.Tag()
	}
	return tags
}

// Analyzer runs analyses with a fixed configuration.
type Analyzer struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *metadata.Store
	metrics *metrics.Collector
	tracer  *observability.StageTracer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMetrics records into collector instead of a private one.
func WithMetrics(collector *metrics.Collector) Option {
	return func(a *Analyzer) {
		if collector != nil {
			a.metrics = collector
		}
	}
}

// WithTracer sets the tracer used for stage spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Analyzer) {
		a.tracer = observability.NewStageTracer(tracer)
	}
}

// New creates an analyzer. cfg must already be validated; a nil cfg uses
// config.Default().
func New(cfg *config.Config, log *zap.Logger, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.Get()
	}
	log = log.With(zap.String("component", "analyzer"))

	a := &Analyzer{
		cfg:     cfg,
		logger:  log,
		store:   metadata.NewStore(log),
		metrics: metrics.NewCollector(),
		tracer:  observability.NewStageTracer(nil),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Metrics returns the collector the analyzer records into.
func (a *Analyzer) Metrics() *metrics.Collector {
	return a.metrics
}

// Analyze inspects path and writes its sidecar metadata.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*AnalysisResult, error) {
	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID, path)
	log := a.loggerFor(ctx)

	ctx, span := a.tracer.Start(ctx, "analyze")
	span.SetAttribute("rowscols.run_id", runID)
	span.SetAttribute("rowscols.source", path)

	result, err := a.analyze(ctx, path)
	if err == nil {
		for _, w := range result.Warnings {
			span.AddEvent("warning", attribute.String("rowscols.message", w))
		}
	}
	span.Finish(err)

	if err != nil {
		kind := string(errors.TypeOf(err))
		if kind == "" {
			kind = "other"
		}
		a.metrics.RecordFailure(kind)
		log.Error("analysis failed", zap.String("error_type", kind), zap.Error(err))
		return nil, err
	}

	result.RunID = runID
	a.metrics.RecordAnalysis(result.DataRowCount, result.ColumnTypes())
	log.Info("analysis complete",
		zap.Int("columns", result.ColumnCount),
		zap.Int("data_rows", result.DataRowCount),
		zap.Bool("has_header", result.HasHeader),
		zap.String("metadata", result.MetadataPath),
		zap.Bool("metadata_existed", result.MetadataExisted))
	return result, nil
}

func (a *Analyzer) analyze(ctx context.Context, path string) (*AnalysisResult, error) {
	path, err := ResolveSource(path)
	if err != nil {
		return nil, err
	}
	size, warnings, err := a.validateSource(ctx, path)
	if err != nil {
		return nil, err
	}

	var st Structure
	err = a.stage(ctx, metrics.StageStructure, func(ctx context.Context) error {
		var err error
		st, err = a.AnalyzeStructure(ctx, path)
		return err
	})
	if err != nil {
		return nil, err
	}

	var columns []schema.ColumnInfo
	var sampleWarnings []string
	err = a.stage(ctx, metrics.StageSample, func(ctx context.Context) error {
		var err error
		columns, sampleWarnings, err = a.sample(ctx, path, st.HasHeader, st.ColumnCount)
		return err
	})
	if err != nil {
		return nil, err
	}

	var metaPath string
	var existed bool
	err = a.stage(ctx, metrics.StageMetadata, func(ctx context.Context) error {
		var err error
		metaPath, err = metadata.Path(path, a.cfg.Metadata.Suffix)
		if err != nil {
			return err
		}
		existed = metadata.Exists(metaPath)
		return a.store.Write(metaPath, columns)
	})
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		SourcePath:      path,
		SourceSize:      size,
		HasHeader:       st.HasHeader,
		ColumnCount:     st.ColumnCount,
		DataRowCount:    st.DataRowCount,
		Columns:         columns,
		MetadataPath:    metaPath,
		MetadataExisted: existed,
		Warnings:        append(append(warnings, st.Warnings...), sampleWarnings...),
	}, nil
}

// ResolveSource turns path into an absolute path with symlinks evaluated.
// The sidecar and every reported path derive from the result.
func ResolveSource(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.FileSystem(err, "resolve", path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.FileSystem(err, "access", path)
	}
	return resolved, nil
}

// validateSource checks that path names a regular file and returns its
// size. An unexpected extension is only a warning.
func (a *Analyzer) validateSource(ctx context.Context, path string) (int64, []string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, nil, errors.FileSystem(err, "access", path)
	}
	if !info.Mode().IsRegular() {
		return 0, nil, errors.Config(fmt.Sprintf("path exists but is not a file: %s", path)).
			WithDetail(errors.DetailPath, path)
	}

	var warnings []string
	ext := strings.ToLower(filepath.Ext(compression.TrimExtension(filepath.Base(path))))
	switch ext {
	case ".csv", ".tsv":
	case "":
		warnings = append(warnings, "file has no extension; make sure it holds delimited text")
	default:
		warnings = append(warnings, fmt.Sprintf("file extension %q is not typical for delimited text; analysing anyway", ext))
	}
	if len(warnings) > 0 {
		a.loggerFor(ctx).Warn("unexpected file extension", zap.String("extension", ext))
	}
	return info.Size(), warnings, nil
}

func (a *Analyzer) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	timer := metrics.NewTimer(name)
	err := a.tracer.Trace(ctx, name, fn)
	d := a.metrics.ObserveStage(timer)
	a.loggerFor(ctx).Debug("stage finished", zap.String("stage", name), zap.Duration("duration", d))
	return err
}

func (a *Analyzer) loggerFor(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, a.logger)
}
