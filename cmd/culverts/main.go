// Command culverts classifies culverts by the largest storm they can pass
// under current and future rainfall, and writes the return-period reports.
//
// Usage:
//
//	culverts assess \
//	  --capacity data/capacity.csv \
//	  --current data/current_runoff.csv \
//	  --future data/future_runoff.csv \
//	  --summary-out out/return_periods.csv \
//	  --detail-out out/culvert_results.csv
//
// Every flag can also be set through the environment; see internal/config.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/culvert-return-periods/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = newRootCommand(cfg).ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("culverts failed", "error", err)
		os.Exit(1)
	}
}
