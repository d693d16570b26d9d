package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/culvert-return-periods/internal/domain"
	"github.com/couchcryptid/culvert-return-periods/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Source loads the input tables. Both methods return the valid records in
// file order and the number of rows rejected during loading.
type Source interface {
	Watersheds(ctx context.Context, path string) ([]domain.WatershedRecord, int, error)
	Culverts(ctx context.Context, path string) ([]domain.CulvertRecord, int, error)
}

// ReportWriter writes the summary and detail reports and returns the number
// of data rows written to each.
type ReportWriter interface {
	WriteSummary(path string, assessments []domain.Assessment) (int, error)
	WriteDetail(path string, assessments []domain.Assessment) (int, error)
}

// BatchLoader delivers a run's assessments to an additional destination.
// Implementations skip unmatched assessments.
type BatchLoader interface {
	Name() string
	LoadBatch(ctx context.Context, run domain.Run, assessments []domain.Assessment) error
}

// Inputs names the files a run reads and writes.
type Inputs struct {
	CapacityFile      string
	CurrentRunoffFile string
	FutureRunoffFile  string
	SummaryFile       string
	DetailFile        string
}

// Summary describes a completed run.
type Summary struct {
	RunID        string
	Culverts     int
	Matched      int
	Unmatched    int
	RejectedRows int
	SummaryRows  int
	DetailRows   int
	Duration     time.Duration
}

// Pipeline runs one assessment: load, index, classify, report, then deliver
// to any extra sinks. Every step runs once, in order, on the caller's goroutine.
type Pipeline struct {
	source   Source
	reports  ReportWriter
	sinks    []BatchLoader
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	newRunID func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSinks adds destinations that receive the assessments after the
// reports are written.
func WithSinks(sinks ...BatchLoader) Option {
	return func(p *Pipeline) { p.sinks = append(p.sinks, sinks...) }
}

// WithClock swaps the time source used for run timestamps and durations.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithRunID swaps the run ID generator.
func WithRunID(fn func() string) Option {
	return func(p *Pipeline) { p.newRunID = fn }
}

// New creates a Pipeline with the given stages and observability.
func New(source Source, reports ReportWriter, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:   source,
		reports:  reports,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one assessment. Unmatched culverts and rejected rows are
// logged and skipped; any I/O error aborts the run and is returned.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (Summary, error) {
	run := domain.Run{ID: p.newRunID(), StartedAt: p.clock.Now()}
	logger := p.logger.With("run_id", run.ID)
	logger.Info("assessment run started",
		"capacity_file", in.CapacityFile,
		"current_runoff_file", in.CurrentRunoffFile,
		"future_runoff_file", in.FutureRunoffFile,
	)

	summary := Summary{RunID: run.ID}

	current, rejected, err := p.loadRunoff(ctx, logger, domain.ScenarioCurrent, in.CurrentRunoffFile)
	if err != nil {
		return summary, err
	}
	summary.RejectedRows += rejected

	future, rejected, err := p.loadRunoff(ctx, logger, domain.ScenarioFuture, in.FutureRunoffFile)
	if err != nil {
		return summary, err
	}
	summary.RejectedRows += rejected

	culverts, rejected, err := p.source.Culverts(ctx, in.CapacityFile)
	if err != nil {
		return summary, err
	}
	p.recordLoad(logger, "culverts", len(culverts), rejected)
	summary.RejectedRows += rejected

	classification := domain.Classify(culverts, current, future, logger)
	p.recordClassification(classification)
	summary.Culverts = len(classification.Assessments)
	summary.Unmatched = len(classification.Skipped)
	summary.Matched = summary.Culverts - summary.Unmatched

	summary.SummaryRows, err = p.reports.WriteSummary(in.SummaryFile, classification.Assessments)
	if err != nil {
		return summary, err
	}
	p.metrics.ReportRows.WithLabelValues("summary").Add(float64(summary.SummaryRows))

	summary.DetailRows, err = p.reports.WriteDetail(in.DetailFile, classification.Assessments)
	if err != nil {
		return summary, err
	}
	p.metrics.ReportRows.WithLabelValues("detail").Add(float64(summary.DetailRows))

	for _, sink := range p.sinks {
		if err := sink.LoadBatch(ctx, run, classification.Assessments); err != nil {
			return summary, fmt.Errorf("load %s: %w", sink.Name(), err)
		}
		p.metrics.AssessmentsLoaded.WithLabelValues(sink.Name()).Add(float64(summary.Matched))
	}

	summary.Duration = p.clock.Since(run.StartedAt)
	p.metrics.RunDuration.Observe(summary.Duration.Seconds())
	p.metrics.LastRunTimestamp.Set(float64(p.clock.Now().Unix()))

	logger.Info("assessment run complete",
		"culverts", summary.Culverts,
		"matched", summary.Matched,
		"unmatched", summary.Unmatched,
		"rejected_rows", summary.RejectedRows,
		"summary_file", in.SummaryFile,
		"detail_file", in.DetailFile,
		"duration", summary.Duration,
	)
	return summary, nil
}

// loadRunoff loads one scenario's runoff table and indexes it by BarrierID.
func (p *Pipeline) loadRunoff(ctx context.Context, logger *slog.Logger, scenario domain.Scenario, path string) (*domain.RunoffIndex, int, error) {
	records, rejected, err := p.source.Watersheds(ctx, path)
	if err != nil {
		return nil, 0, fmt.Errorf("%s runoff: %w", scenario, err)
	}
	p.recordLoad(logger, string(scenario)+"_runoff", len(records), rejected)

	nonMonotonic := 0
	for _, rec := range records {
		if !rec.Peaks.Monotonic() {
			nonMonotonic++
			logger.Debug("peak discharges decrease with return period",
				"scenario", scenario, "barrier_id", rec.BarrierID)
		}
	}
	if nonMonotonic > 0 {
		logger.Warn("runoff table has non-monotonic peak discharges; results for these watersheds stop at the first overflow",
			"scenario", scenario, "watersheds", nonMonotonic)
	}

	index := domain.NewRunoffIndex(scenario, records)
	if n := index.Overwritten(); n > 0 {
		logger.Warn("duplicate BarrierIDs in runoff table, later rows win",
			"scenario", index.Scenario(), "duplicates", n)
		p.metrics.DuplicateWatersheds.WithLabelValues(string(index.Scenario())).Add(float64(n))
	}
	logger.Info("runoff table indexed", "scenario", index.Scenario(), "watersheds", index.Len())
	return index, rejected, nil
}

func (p *Pipeline) recordLoad(logger *slog.Logger, table string, valid, rejected int) {
	p.metrics.RowsLoaded.WithLabelValues(table).Add(float64(valid))
	if rejected == 0 {
		return
	}
	p.metrics.RowsRejected.WithLabelValues(table).Add(float64(rejected))
	logger.Warn("invalid rows in table, continuing with the valid rows",
		"table", table, "invalid_rows", rejected, "valid_rows", valid)
}

func (p *Pipeline) recordClassification(c domain.Classification) {
	for _, a := range c.Assessments {
		if !a.Matched {
			continue
		}
		p.metrics.CulvertsClassified.WithLabelValues("matched").Inc()
		p.metrics.MaxReturnPeriod.WithLabelValues(string(domain.ScenarioCurrent)).Observe(float64(a.CurrentReturn))
		p.metrics.MaxReturnPeriod.WithLabelValues(string(domain.ScenarioFuture)).Observe(float64(a.FutureReturn))
	}
	for _, skip := range c.Skipped {
		p.metrics.CulvertsClassified.WithLabelValues(string(skip.Reason)).Inc()
	}
}
