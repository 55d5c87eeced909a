// Package schedule runs workflows on cron schedules.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nodeflow/nodeflow/pkg/scheduler"
	"github.com/nodeflow/nodeflow/pkg/workflow"
)

// Runner executes registered workflows on their cron expressions.
// Overlapping runs of the same entry are skipped.
type Runner struct {
	cron      *cron.Cron
	scheduler *scheduler.Scheduler
	logger    *slog.Logger
}

// NewRunner creates a schedule runner that executes workflows through the
// given scheduler.
func NewRunner(sched *scheduler.Scheduler, logger *slog.Logger) *Runner {
	return &Runner{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		scheduler: sched,
		logger:    logger.With("module", "schedule"),
	}
}

// Add registers a workflow to run on the given cron expression. The
// initial data is passed to every run, with a fresh timestamp added.
func (r *Runner) Add(cronExpr string, wf *workflow.Workflow, initialData map[string]any) (cron.EntryID, error) {
	if cronExpr == "" {
		return 0, errors.New("cron expression is required")
	}

	if _, err := cron.ParseStandard(cronExpr); err != nil {
		return 0, fmt.Errorf("invalid cron expression: %w", err)
	}

	logger := r.logger.With("workflow_id", wf.ID, "cron", cronExpr)

	id, err := r.cron.AddFunc(cronExpr, func() {
		logger.Info("Cron job triggered")

		data := make(map[string]any, len(initialData)+1)
		for k, v := range initialData {
			data[k] = v
		}

		data["timestamp"] = time.Now().UTC().Format(time.RFC3339)

		summary, err := r.scheduler.Run(context.Background(), wf, data)
		if err != nil {
			logger.Error("Scheduled run failed", "error", err)

			return
		}

		logger.Info("Scheduled run completed", "execution_id", summary.ExecutionID, "status", summary.Status)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add cron job for workflow %s: %w", wf.ID, err)
	}

	logger.Info("Added cron job", "entry_id", id)

	return id, nil
}

// Remove drops a scheduled entry.
func (r *Runner) Remove(id cron.EntryID) {
	r.cron.Remove(id)
}

// Start begins running scheduled entries in the background.
func (r *Runner) Start() {
	r.logger.Info("Starting schedule runner")
	r.cron.Start()
}

// Stop stops the runner and waits for in-flight runs to finish.
func (r *Runner) Stop(ctx context.Context) error {
	r.logger.Info("Stopping schedule runner")

	stopCtx := r.cron.Stop()

	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
