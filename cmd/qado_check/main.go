package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/qado-check/internal/apperr"
	"github.com/DjordjeVuckovic/qado-check/internal/check/metrics"
	"github.com/DjordjeVuckovic/qado-check/internal/check/probe"
	"github.com/DjordjeVuckovic/qado-check/internal/check/report"
	"github.com/DjordjeVuckovic/qado-check/internal/check/runner"
	"github.com/DjordjeVuckovic/qado-check/internal/qado"
	"github.com/DjordjeVuckovic/qado-check/internal/sparql"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	exitOK            = 0
	exitConfig        = 1
	exitUsage         = 2
	exitFetch         = 3
	exitWriteFailures = 4
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli, err := parseArgs(args, stderr)
	if err != nil {
		return exitUsage
	}

	cfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return exitConfig
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	runID := uuid.NewString()
	slog.Info("Starting query check",
		"run_id", runID,
		"fetch", cli.FetchURL,
		"update", cli.UpdateURL,
		"dry_run", cfg.DryRun,
	)

	client := sparql.NewClient()
	store := qado.NewStore(client, qado.StoreConfig{
		FetchURL:     cli.FetchURL,
		UpdateURL:    cli.UpdateURL,
		ClassMatch:   cfg.ClassMatch,
		FetchTimeout: cfg.FetchTimeout,
		WriteRetries: cfg.WriteRetries,
	})

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		slog.Error("Failed to create metrics", "error", err)
		return exitConfig
	}

	prober, err := probe.New(client, probe.Config{
		Endpoints: cfg.Endpoints,
		Timeout:   cfg.ProbeTimeout,
		RateLimit: cfg.RateLimit,
	}, m)
	if err != nil {
		slog.Error("Invalid endpoint configuration", "error", err)
		return exitConfig
	}

	queries, err := store.FetchCandidates(ctx)
	if err != nil {
		var fe *apperr.FetchError
		if errors.As(err, &fe) {
			slog.Error("Failed to fetch candidate queries", "run_id", runID, "endpoint", fe.Endpoint, "status", fe.Status, "error", fe.Err)
		} else {
			slog.Error("Failed to fetch candidate queries", "run_id", runID, "error", err)
		}
		return exitFetch
	}

	var rec runner.Recorder = store
	if cfg.DryRun {
		rec = dryRunRecorder{}
	}

	r := runner.New(runner.Config{Workers: cfg.Workers}, prober, rec,
		runner.WithMetrics(m),
		runner.WithProgress(progressLogger(len(queries))),
	)
	result := r.Run(ctx, queries)

	rpt := report.Generate(result, report.RunMeta{
		RunID:       runID,
		DryRun:      cfg.DryRun,
		FetchURL:    cli.FetchURL,
		UpdateURL:   cli.UpdateURL,
		Environment: report.NewEnvironmentInfo(),
	})
	report.WriteTable(rpt, stdout)

	if cfg.ReportPath != "" {
		if err := report.WriteJSON(rpt, cfg.ReportPath); err != nil {
			slog.Error("Failed to write JSON report", "error", err)
		} else {
			slog.Info("Report written", "path", cfg.ReportPath)
		}
	}
	if cfg.MetricsPath != "" {
		if err := metrics.WriteTextfile(cfg.MetricsPath, reg); err != nil {
			slog.Error("Failed to write metrics", "error", err)
		}
	}

	summary := rpt.Summary
	slog.Info("Query check finished",
		"run_id", runID,
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"unresolved", summary.Unresolved,
		"write_errors", summary.WriteErrors,
		"duration", result.Duration(),
	)

	if summary.WriteErrors > 0 {
		return exitWriteFailures
	}
	return exitOK
}

// progressLogger logs roughly every five percent of completed tasks.
func progressLogger(n int) runner.ProgressFunc {
	step := max(n/20, 1)
	return func(done, total int) {
		if done%step == 0 || done == total {
			slog.Info("Progress", "done", done, "total", total)
		}
	}
}
