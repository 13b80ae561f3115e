package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vk/gridgate/internal/config"
	"github.com/vk/gridgate/internal/executor"
	"github.com/vk/gridgate/internal/graph"
	"github.com/vk/gridgate/internal/registry"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/vk/gridgate/internal/state"
)

// Run loads the grid, builds its graph and executes it. The report is
// returned whenever execution started, even when the error is non-nil.
func (a *App) Run(ctx context.Context) (*executor.Report, error) {
	ctx = runctx.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx)
		defer a.closeHealthcheckServer(ctx)
	}

	if _, err := os.Stat(a.config.GridPath); err != nil {
		return nil, fmt.Errorf("failed to read grid path: %w", err)
	}
	model, err := a.loader.Load(ctx, a.config.GridPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load grid: %w", err)
	}
	if err := a.checkRunners(model); err != nil {
		return nil, err
	}

	a.logger.Debug("Building dependency graph from config model...")
	g, err := graph.Build(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", g.Len())

	if g.Len() == 0 {
		a.logger.Warn("No steps found in grid, execution not required.", "path", a.config.GridPath)
		return &executor.Report{}, nil
	}

	a.logger.Info("🚀 Starting concurrent execution...", "steps", g.Len(), "workers", a.config.WorkerCount)
	exec := executor.New(g, a.store, a.registry, a.config.WorkerCount, executor.WithResume(a.config.Resume...))
	report, runErr := exec.Run(ctx)
	if report == nil {
		return nil, fmt.Errorf("execution failed: %w", runErr)
	}

	a.logSummary(report)
	if a.config.ReportPath != "" {
		if err := writeReport(a.config.ReportPath, newRunSummary(a.runID, report.States, report.Errors)); err != nil {
			runErr = errors.Join(runErr, err)
		} else {
			a.logger.Debug("Run report written.", "path", a.config.ReportPath)
		}
	}

	if runErr != nil {
		return report, fmt.Errorf("execution failed: %w", runErr)
	}
	a.logger.Debug("App.Run method finished.")
	return report, nil
}

// checkRunners fails fast when a step names a runner type with no handler.
func (a *App) checkRunners(model *config.Model) error {
	if model == nil || model.Grid == nil {
		return nil
	}
	var errs []error
	for _, s := range model.Grid.Steps {
		if _, ok := a.registry.Runner(s.RunnerType); !ok {
			errs = append(errs, fmt.Errorf("%w: step %q uses runner %q", registry.ErrUnknownRunner, s.Ref(), s.RunnerType))
		}
	}
	return errors.Join(errs...)
}

func (a *App) logSummary(report *executor.Report) {
	a.logger.Info("🏁 Execution finished.",
		"success", report.Count(state.Success),
		"failed", len(report.Failed()),
		"not_run", len(report.NotRun()),
		"paused", len(report.Paused()),
		"blocked", len(report.Blocked()),
	)
	for _, id := range report.Paused() {
		a.logger.Warn("⏸️ Step is waiting for a manual resume.", "step", id, "hint", "re-run with --resume "+config.NormalizeRef(id))
	}
}
