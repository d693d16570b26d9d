package main

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/culvert-return-periods/internal/adapter/csvfile"
	kafkaadapter "github.com/couchcryptid/culvert-return-periods/internal/adapter/kafka"
	"github.com/couchcryptid/culvert-return-periods/internal/adapter/sqlite"
	"github.com/couchcryptid/culvert-return-periods/internal/config"
	"github.com/couchcryptid/culvert-return-periods/internal/observability"
	"github.com/couchcryptid/culvert-return-periods/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"
)

// newRootCommand builds the CLI. Flag defaults come from cfg, so flags
// override environment settings.
func newRootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "culverts",
		Short:         "Culvert return-period assessment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: json, text")

	root.AddCommand(newAssessCommand(cfg))
	return root
}

func newAssessCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Classify culverts against current and future runoff",
		Long: `Join culvert capacities to current and future watershed runoff by BarrierID,
find the largest return period each culvert can pass in both scenarios, and
write the summary and detail reports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssess(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.CapacityFile, "capacity", cfg.CapacityFile, "Culvert capacity table (CSV)")
	f.StringVar(&cfg.CurrentRunoffFile, "current", cfg.CurrentRunoffFile, "Current-rainfall runoff table (CSV)")
	f.StringVar(&cfg.FutureRunoffFile, "future", cfg.FutureRunoffFile, "Future-rainfall runoff table (CSV)")
	f.StringVar(&cfg.SummaryOutputFile, "summary-out", cfg.SummaryOutputFile, "Return-period summary report path")
	f.StringVar(&cfg.DetailOutputFile, "detail-out", cfg.DetailOutputFile, "Detail report path")
	f.IntVar(&cfg.HeaderRows, "header-rows", cfg.HeaderRows, "Rows to skip at the top of each input table")
	f.IntVar(&cfg.FooterRows, "footer-rows", cfg.FooterRows, "Rows to skip at the bottom of each input table")
	f.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Topic for published assessments (requires KAFKA_BROKERS)")
	f.StringVar(&cfg.ResultsDB, "results-db", cfg.ResultsDB, "SQLite database to store assessments in (optional)")
	f.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "Write Prometheus metrics to this file after the run (optional)")

	return cmd
}

func runAssess(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var sinks []pipeline.BatchLoader
	if cfg.ResultsDB != "" {
		store, err := sqlite.NewStore(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer closeWithLog(logger, "sqlite store", store.Close)
		sinks = append(sinks, store)
		logger.Info("results store enabled", "path", store.Path())
	}
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer closeWithLog(logger, "kafka writer", writer.Close)
		sinks = append(sinks, writer)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(
		csvfile.NewSource(cfg.HeaderRows, cfg.FooterRows, logger),
		csvfile.NewReportWriter(),
		logger,
		metrics,
		pipeline.WithSinks(sinks...),
	)

	_, runErr := p.Run(ctx, pipeline.Inputs{
		CapacityFile:      cfg.CapacityFile,
		CurrentRunoffFile: cfg.CurrentRunoffFile,
		FutureRunoffFile:  cfg.FutureRunoffFile,
		SummaryFile:       cfg.SummaryOutputFile,
		DetailFile:        cfg.DetailOutputFile,
	})

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics export failed", "error", err)
		}
	}
	return runErr
}

func closeWithLog(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error(name+" close error", "error", err)
	}
}
