package sweep

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const defaultActivityTimeout = 10 * time.Minute

// Workflow runs one sweep per cron firing. A failed sweep is not retried
// here; the next firing rescans from scratch.
func Workflow(ctx workflow.Context, in Input) (Summary, error) {
	timeout := time.Duration(in.ActivityTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultActivityTimeout
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})
	var out Summary
	if err := workflow.ExecuteActivity(ctx, ActivityRun, in).Get(ctx, &out); err != nil {
		return Summary{}, err
	}
	workflow.GetLogger(ctx).Info("translation sweep workflow finished",
		"written", out.TranslationsWritten,
		"remaining_gaps", out.RemainingGaps,
	)
	return out, nil
}
