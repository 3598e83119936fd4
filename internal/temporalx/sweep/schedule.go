package sweep

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/services"
	"github.com/yungbote/literacy-backend/internal/temporalx"
)

// EnsureCron starts the cron workflow under a fixed ID. An execution that is
// already running is left alone.
func EnsureCron(ctx context.Context, log *logger.Logger, tc temporalsdkclient.Client, cfg temporalx.Config) error {
	if tc == nil {
		return fmt.Errorf("temporal client is not configured")
	}
	opts := temporalsdkclient.StartWorkflowOptions{
		ID:                                       cfg.SweepWorkflowID,
		TaskQueue:                                cfg.TaskQueue,
		CronSchedule:                             cfg.SweepCron,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := tc.ExecuteWorkflow(ctx, opts, WorkflowName, Input{
		Trigger:                services.TriggerCron,
		ActivityTimeoutSeconds: int(cfg.SweepActivityTime.Seconds()),
	})
	var already *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &already) {
		log.Info("translation sweep cron already scheduled", "workflow_id", cfg.SweepWorkflowID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("start sweep cron: %w", err)
	}
	log.Info("translation sweep cron scheduled", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "cron", cfg.SweepCron)
	return nil
}
