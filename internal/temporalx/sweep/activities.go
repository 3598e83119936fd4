package sweep

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/services"
)

type Activities struct {
	Log   *logger.Logger
	Sweep services.SweepService
}

func (a *Activities) Run(ctx context.Context, in Input) (Summary, error) {
	if a == nil || a.Sweep == nil {
		return Summary{}, fmt.Errorf("sweep: activity not configured")
	}
	trigger := in.Trigger
	if trigger == "" {
		trigger = services.TriggerCron
	}
	if info := activity.GetInfo(ctx); a.Log != nil {
		a.Log.Debug("sweep activity started", "workflow_id", info.WorkflowExecution.ID, "attempt", info.Attempt)
	}
	res, err := a.Sweep.Sweep(ctx, services.SweepRequest{Trigger: trigger})
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Trigger:             res.Trigger,
		EntitiesProcessed:   res.EntitiesProcessed,
		TranslationsWritten: res.TranslationsWritten,
		FailedUnits:         res.FailedUnits,
		RemainingGaps:       res.RemainingGaps,
		MoreRemaining:       res.MoreRemaining,
		TimedOut:            res.TimedOut,
		ElapsedMS:           res.ElapsedMS,
	}, nil
}
