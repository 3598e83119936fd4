package translation_fill

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/literacy-backend/internal/domain"
	jobrt "github.com/yungbote/literacy-backend/internal/jobs/runtime"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/translation"
)

type fakeRunner struct {
	kind   string
	id     uuid.UUID
	budget time.Duration
	err    error
}

func (f *fakeRunner) RunEntity(_ context.Context, kind string, id uuid.UUID, budget time.Duration) (translation.BatchResult, error) {
	f.kind, f.id, f.budget = kind, id, budget
	if f.err != nil {
		return translation.BatchResult{}, f.err
	}
	return translation.BatchResult{Kind: kind, TranslationsWritten: 25, EntitiesProcessed: 1}, nil
}

func jobWith(payload map[string]any) *types.JobRun {
	b, _ := json.Marshal(payload)
	return &types.JobRun{JobType: JobType, Status: types.JobStatusRunning, Payload: datatypes.JSON(b)}
}

func TestRunFillsEntity(t *testing.T) {
	runner := &fakeRunner{}
	p := New(logger.Nop(), runner, 45*time.Second)
	id := uuid.New()
	job := jobWith(map[string]any{"kind": types.KindTrainingModule, "entity_id": id.String()})

	jc := jobrt.NewContext(context.Background(), nil, job, nil, logger.Nop())
	if err := p.Run(jc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runner.kind != types.KindTrainingModule || runner.id != id || runner.budget != 45*time.Second {
		t.Fatalf("runner got %+v", runner)
	}
	if job.Status != types.JobStatusSucceeded {
		t.Fatalf("expected succeeded, got %s", job.Status)
	}
	var result map[string]any
	_ = json.Unmarshal(job.Result, &result)
	if result["translations_written"] != float64(25) {
		t.Fatalf("unexpected result %s", job.Result)
	}
}

func TestRunValidatesPayload(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]any
		runErr  error
		stage   string
	}{
		{name: "bad kind", payload: map[string]any{"kind": "forum_post", "entity_id": uuid.NewString()}, stage: "validate"},
		{name: "missing id", payload: map[string]any{"kind": types.KindQuizQuestion}, stage: "validate"},
		{name: "runner error", payload: map[string]any{"kind": types.KindQuizQuestion, "entity_id": uuid.NewString()}, runErr: errors.New("db gone"), stage: "translate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(logger.Nop(), &fakeRunner{err: tc.runErr}, time.Minute)
			job := jobWith(tc.payload)
			if err := p.Run(jobrt.NewContext(context.Background(), nil, job, nil, logger.Nop())); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if job.Status != types.JobStatusFailed || job.Stage != tc.stage {
				t.Fatalf("expected failed at %s, got %s/%s", tc.stage, job.Status, job.Stage)
			}
		})
	}
}
