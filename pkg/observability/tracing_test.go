package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return sr, tp
}

func TestStageTracerRecordsSpans(t *testing.T) {
	sr, tp := newRecorder()
	st := NewStageTracer(tp.Tracer("test"))

	err := st.Trace(context.Background(), "structure", func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)

	failure := errors.New("boom")
	err = st.Trace(context.Background(), "sample", func(ctx context.Context) error {
		return failure
	})
	assert.ErrorIs(t, err, failure)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "rowscols.structure", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("rowscols.stage", "structure"))

	assert.Equal(t, "rowscols.sample", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}

func TestSpanAttributes(t *testing.T) {
	sr, tp := newRecorder()

	_, span := NewSpan(context.Background(), tp.Tracer("test"), "op")
	span.SetAttribute("rows", 12)
	span.SetAttribute("header", true)
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("path", "a.csv")
	span.SetAttribute("other", []int{1})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := spans[0].Attributes()
	assert.Contains(t, attrs, attribute.Int("rows", 12))
	assert.Contains(t, attrs, attribute.Bool("header", true))
	assert.Contains(t, attrs, attribute.Float64("ratio", 0.5))
	assert.Contains(t, attrs, attribute.String("path", "a.csv"))
	assert.Contains(t, attrs, attribute.String("other", "[1]"))
}

func TestInitTracingExportsOnShutdown(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	var buf bytes.Buffer
	cfg := DefaultTracingConfig("test")
	cfg.Writer = &buf
	cfg.PrettyPrint = false

	shutdown, err := InitTracing(cfg)
	require.NoError(t, err)

	_, span := NewSpan(context.Background(), nil, "rowscols.analyze")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "rowscols.analyze")
}
