package translation_fill

import (
	"fmt"

	types "github.com/yungbote/literacy-backend/internal/domain"
	jobrt "github.com/yungbote/literacy-backend/internal/jobs/runtime"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	if p == nil || p.runner == nil {
		jc.Fail("validate", fmt.Errorf("translation_fill: pipeline not configured"))
		return nil
	}

	kind := jc.PayloadString("kind")
	if !types.IsContentKind(kind) {
		jc.Fail("validate", fmt.Errorf("invalid kind %q", kind))
		return nil
	}
	id, ok := jc.PayloadUUID("entity_id")
	if !ok {
		jc.Fail("validate", fmt.Errorf("missing entity_id"))
		return nil
	}

	jc.Progress("translate", 10, "Filling missing languages")
	res, err := p.runner.RunEntity(jc.Ctx, kind, id, p.budget)
	if err != nil {
		jc.Fail("translate", err)
		return nil
	}
	p.log.Info("translation fill finished",
		"kind", kind,
		"entity_id", id,
		"written", res.TranslationsWritten,
		"failed", res.FailedUnits,
		"remaining_gaps", res.RemainingGaps,
	)
	// Leftover gaps are closed by the next sweep.
	jc.Succeed("done", map[string]any{
		"kind":                 kind,
		"entity_id":            id.String(),
		"translations_written": res.TranslationsWritten,
		"failed_units":         res.FailedUnits,
		"remaining_gaps":       res.RemainingGaps,
		"timed_out":            res.TimedOut,
	})
	return nil
}
