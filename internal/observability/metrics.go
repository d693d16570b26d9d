package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// returnPeriodBuckets puts each design storm in its own bucket.
var returnPeriodBuckets = []float64{0, 1, 2, 5, 10, 25, 50, 100, 200, 500}

// Metrics holds the Prometheus collectors for an assessment run. Each
// instance owns its registry, so runs and tests never collide.
type Metrics struct {
	registry *prometheus.Registry

	RowsLoaded          *prometheus.CounterVec   // labels: table={culverts,current_runoff,future_runoff}
	RowsRejected        *prometheus.CounterVec   // labels: table
	DuplicateWatersheds *prometheus.CounterVec   // labels: scenario={current,future}
	CulvertsClassified  *prometheus.CounterVec   // labels: outcome={matched,missing_current,missing_future,missing_both}
	MaxReturnPeriod     *prometheus.HistogramVec // labels: scenario
	ReportRows          *prometheus.CounterVec   // labels: report={summary,detail}
	AssessmentsLoaded   *prometheus.CounterVec   // labels: sink
	RunDuration         prometheus.Histogram
	LastRunTimestamp    prometheus.Gauge
}

// NewMetrics creates the run metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culverts",
			Name:      "rows_loaded_total",
			Help:      "Valid input rows loaded, by table.",
		}, []string{"table"}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culverts",
			Name:      "rows_rejected_total",
			Help:      "Input rows rejected during type coercion, by table.",
		}, []string{"table"}),
		DuplicateWatersheds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culverts",
			Name:      "duplicate_watersheds_total",
			Help:      "Runoff rows that overwrote an earlier row with the same BarrierID.",
		}, []string{"scenario"}),
		CulvertsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culverts",
			Name:      "classified_total",
			Help:      "Culverts classified, by outcome.",
		}, []string{"outcome"}),
		MaxReturnPeriod: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "culverts",
			Name:      "max_return_period_years",
			Help:      "Largest passable return period of matched culverts, by rainfall scenario.",
			Buckets:   returnPeriodBuckets,
		}, []string{"scenario"}),
		ReportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culverts",
			Name:      "report_rows_total",
			Help:      "Data rows written, by report.",
		}, []string{"report"}),
		AssessmentsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culverts",
			Name:      "assessments_loaded_total",
			Help:      "Matched assessments delivered to optional sinks, by sink.",
		}, []string{"sink"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "culverts",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete assessment run.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "culverts",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last successful run finished.",
		}),
	}

	m.registry.MustRegister(
		m.RowsLoaded,
		m.RowsRejected,
		m.DuplicateWatersheds,
		m.CulvertsClassified,
		m.MaxReturnPeriod,
		m.ReportRows,
		m.AssessmentsLoaded,
		m.RunDuration,
		m.LastRunTimestamp,
	)

	return m
}

// WriteTextfile writes the current metric values in the text exposition
// format, for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
