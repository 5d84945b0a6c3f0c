// Package metrics records analysis activity for rowscols using Prometheus.
//
// Each Collector owns its registry, so a CLI run or a test starts from zero
// and nothing leaks into the default registry.
//
// # Basic Usage
//
//	collector := metrics.NewCollector()
//	timer := metrics.NewTimer(metrics.StageStructure)
//	st, err := analyzer.AnalyzeStructure(ctx, path)
//	collector.ObserveStage(timer)
//	...
//	collector.RecordAnalysis(result.DataRowCount, types)
//	_ = collector.WriteTextfile("/var/lib/node_exporter/rowscols.prom")
//
// # Metric Types
//
// Counter: analyses by status, data rows counted, columns by detected type
// Gauge: columns of the last analysed source
// Histogram: per-stage duration
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rowscols"

// Stage names used as the stage label.
const (
	StageStructure = "structure"
	StageSample    = "sample"
	StageMetadata  = "metadata"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Collector wraps the Prometheus metrics of one analyzer.
type Collector struct {
	registry      *prometheus.Registry
	analyses      *prometheus.CounterVec
	rowsCounted   prometheus.Counter
	columnsByType *prometheus.CounterVec
	lastColumns   prometheus.Gauge
	stageDuration *prometheus.HistogramVec
	mu            sync.RWMutex
	lastError     string
}

// NewCollector creates a collector with a private registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of analysis runs",
			},
			[]string{"status"},
		),
		rowsCounted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "data_rows_total",
				Help:      "Data rows counted across successful analyses",
			},
		),
		columnsByType: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "columns_detected_total",
				Help:      "Columns detected, by inferred type",
			},
			[]string{"type"},
		),
		lastColumns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_column_count",
				Help:      "Column count of the most recently analysed source",
			},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of each analysis stage",
				Buckets: []float64{
					0.0001, // 100μs - tiny files
					0.001,  // 1ms
					0.01,   // 10ms
					0.1,    // 100ms
					1,      // 1s - large files
					10,     // 10s
					60,     // 1m - very large or compressed inputs
				},
			},
			[]string{"stage"},
		),
	}

	c.registry.MustRegister(c.analyses, c.rowsCounted, c.columnsByType, c.lastColumns, c.stageDuration)
	return c
}

// Registry exposes the collector's registry, e.g. for an HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveStage records the elapsed time of a stage timer.
func (c *Collector) ObserveStage(t *Timer) time.Duration {
	d := t.Stop()
	c.stageDuration.WithLabelValues(t.name).Observe(d.Seconds())
	return d
}

// RecordAnalysis counts one successful run with its row count and column types.
func (c *Collector) RecordAnalysis(rows int, columnTypes []string) {
	c.analyses.WithLabelValues(StatusSuccess).Inc()
	c.rowsCounted.Add(float64(rows))
	c.lastColumns.Set(float64(len(columnTypes)))
	for _, tag := range columnTypes {
		c.columnsByType.WithLabelValues(tag).Inc()
	}
}

// RecordFailure counts one failed run, labelled by error kind.
func (c *Collector) RecordFailure(kind string) {
	c.analyses.WithLabelValues(StatusFailure).Inc()
	c.mu.Lock()
	c.lastError = kind
	c.mu.Unlock()
}

// LastError returns the kind of the most recent failure, if any.
func (c *Collector) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Timer measures one stage. It captures the start time on creation.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer for the named stage and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed duration since creation. It may be called
// repeatedly.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
