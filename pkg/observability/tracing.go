// Package observability provides tracing for rowscols analysis runs.
//
// Tracing is off unless InitTracing installs a provider; until then the
// global OpenTelemetry provider is a no-op and spans cost nothing.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer used by rowscols packages.
const InstrumentationName = "github.com/ajitpratap0/rowscols"

// TracingConfig contains tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	// SamplingRate in [0, 1]; zero or less disables sampling
	SamplingRate float64
	// Writer receives exported spans; nil means stderr
	Writer      io.Writer
	PrettyPrint bool
}

// DefaultTracingConfig samples every span and pretty-prints to stderr.
func DefaultTracingConfig(version string) TracingConfig {
	return TracingConfig{
		ServiceName:    "rowscols",
		ServiceVersion: version,
		SamplingRate:   1.0,
		PrettyPrint:    true,
	}
}

// ShutdownFunc flushes and stops the installed provider.
type ShutdownFunc func(context.Context) error

// InitTracing installs a stdout-exporting tracer provider as the global
// provider and returns its shutdown function.
func InitTracing(cfg TracingConfig) (ShutdownFunc, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.SamplingRate <= 0:
		sampler = sdktrace.NeverSample()
	case cfg.SamplingRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Tracer returns the rowscols tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// Span wraps a trace span, batching attributes until End.
type Span struct {
	span       trace.Span
	attributes []attribute.KeyValue
}

// NewSpan starts a span on tracer. A nil tracer uses Tracer().
func NewSpan(ctx context.Context, tracer trace.Tracer, operationName string) (context.Context, *Span) {
	if tracer == nil {
		tracer = Tracer()
	}
	ctx, span := tracer.Start(ctx, operationName)
	return ctx, &Span{span: span}
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// AddEvent adds an event to the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Finish sets the status from err and ends the span.
func (s *Span) Finish(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.End()
}

// End ends the span
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.End()
}

// StageTracer names spans after the analysis stages of one run.
type StageTracer struct {
	tracer trace.Tracer
}

// NewStageTracer creates a stage tracer. A nil tracer uses Tracer().
func NewStageTracer(tracer trace.Tracer) *StageTracer {
	if tracer == nil {
		tracer = Tracer()
	}
	return &StageTracer{tracer: tracer}
}

// Start opens a span named "rowscols.<stage>".
func (st *StageTracer) Start(ctx context.Context, stage string) (context.Context, *Span) {
	ctx, span := NewSpan(ctx, st.tracer, "rowscols."+stage)
	span.SetAttribute("rowscols.stage", stage)
	return ctx, span
}

// Trace runs fn inside a stage span and records its outcome.
func (st *StageTracer) Trace(ctx context.Context, stage string, fn func(context.Context) error) error {
	ctx, span := st.Start(ctx, stage)
	err := fn(ctx)
	span.Finish(err)
	return err
}
