package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/literacy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
)

func TestJobRunRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewJobRunRepo(db, testutil.Logger(t))

	now := time.Now().UTC()

	queued := &types.JobRun{
		ID:         uuid.New(),
		JobType:    "translation_fill",
		EntityType: types.KindQuizQuestion,
		EntityID:   testutil.PtrUUID(uuid.New()),
		Status:     types.JobStatusQueued,
		Stage:      "queued",
		Payload:    datatypes.JSON([]byte("{}")),
		Result:     datatypes.JSON([]byte("{}")),
		CreatedAt:  now.Add(-3 * time.Hour),
		UpdatedAt:  now.Add(-3 * time.Hour),
	}
	failed := &types.JobRun{
		ID:          uuid.New(),
		JobType:     "translation_fill",
		EntityType:  types.KindQuizQuestion,
		EntityID:    testutil.PtrUUID(uuid.New()),
		Status:      types.JobStatusFailed,
		Stage:       "failed",
		LastErrorAt: testutil.PtrTime(now.Add(-2 * time.Hour)),
		Payload:     datatypes.JSON([]byte("{}")),
		Result:      datatypes.JSON([]byte("{}")),
		CreatedAt:   now.Add(-2 * time.Hour),
		UpdatedAt:   now.Add(-2 * time.Hour),
	}
	staleRunning := &types.JobRun{
		ID:          uuid.New(),
		JobType:     "translation_fill",
		EntityType:  types.KindTrainingModule,
		EntityID:    testutil.PtrUUID(uuid.New()),
		Status:      types.JobStatusRunning,
		Stage:       "running",
		HeartbeatAt: testutil.PtrTime(now.Add(-10 * time.Hour)),
		Payload:     datatypes.JSON([]byte("{}")),
		Result:      datatypes.JSON([]byte("{}")),
		CreatedAt:   now.Add(-1 * time.Hour),
		UpdatedAt:   now.Add(-1 * time.Hour),
	}

	created, err := repo.Create(dbc, []*types.JobRun{queued, failed, staleRunning})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("Create: expected 3, got %d", len(created))
	}

	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{queued.ID, failed.ID, staleRunning.ID}); err != nil || len(rows) != 3 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}

	entityID := uuid.New()
	older := &types.JobRun{
		JobType:    "translation_fill",
		EntityType: types.KindCurriculumLevel,
		EntityID:   &entityID,
		Status:     types.JobStatusSucceeded,
		Stage:      "done",
		CreatedAt:  now.Add(-5 * time.Hour),
		UpdatedAt:  now.Add(-5 * time.Hour),
	}
	newer := &types.JobRun{
		JobType:    "translation_fill",
		EntityType: types.KindCurriculumLevel,
		EntityID:   &entityID,
		Status:     types.JobStatusSucceeded,
		Stage:      "done",
		CreatedAt:  now.Add(-4 * time.Hour),
		UpdatedAt:  now.Add(-4 * time.Hour),
	}
	if _, err := repo.Create(dbc, []*types.JobRun{older, newer}); err != nil {
		t.Fatalf("seed latest: %v", err)
	}
	latest, err := repo.GetLatestByEntity(dbc, types.KindCurriculumLevel, entityID, "translation_fill")
	if err != nil {
		t.Fatalf("GetLatestByEntity: %v", err)
	}
	if latest == nil || latest.ID != newer.ID {
		t.Fatalf("GetLatestByEntity: expected %v got %v", newer.ID, latest)
	}

	// Claims walk the runnable set oldest first.
	for i, want := range []uuid.UUID{queued.ID, failed.ID, staleRunning.ID} {
		claimed, err := repo.ClaimNextRunnable(dbc, 3, time.Hour, time.Hour)
		if err != nil {
			t.Fatalf("ClaimNextRunnable #%d: %v", i+1, err)
		}
		if claimed == nil || claimed.ID != want {
			t.Fatalf("ClaimNextRunnable #%d: expected %v got %v", i+1, want, claimed)
		}
		if claimed.Status != types.JobStatusRunning || claimed.Attempts != 1 {
			t.Fatalf("ClaimNextRunnable #%d: expected running/1 got %s/%d", i+1, claimed.Status, claimed.Attempts)
		}
	}
	if claimed, err := repo.ClaimNextRunnable(dbc, 3, time.Hour, time.Hour); err != nil || claimed != nil {
		t.Fatalf("ClaimNextRunnable #4: expected nil, got %v err=%v", claimed, err)
	}

	if err := repo.Heartbeat(dbc, failed.ID); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}

	ok, err := repo.UpdateFieldsUnlessStatus(dbc, queued.ID, []string{types.JobStatusCanceled}, map[string]interface{}{
		"status": types.JobStatusSucceeded,
		"stage":  "done",
	})
	if err != nil || !ok {
		t.Fatalf("UpdateFieldsUnlessStatus: ok=%v err=%v", ok, err)
	}
	if err := repo.UpdateFields(dbc, failed.ID, map[string]interface{}{"status": types.JobStatusCanceled}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	ok, err = repo.UpdateFieldsUnlessStatus(dbc, failed.ID, []string{types.JobStatusCanceled}, map[string]interface{}{"status": types.JobStatusSucceeded})
	if err != nil || ok {
		t.Fatalf("UpdateFieldsUnlessStatus on canceled: ok=%v err=%v", ok, err)
	}

	has, err := repo.HasRunnableForEntity(dbc, types.KindTrainingModule, *staleRunning.EntityID, "translation_fill")
	if err != nil || !has {
		t.Fatalf("HasRunnableForEntity: has=%v err=%v", has, err)
	}
	has, err = repo.HasRunnableForEntity(dbc, types.KindQuizQuestion, *queued.EntityID, "translation_fill")
	if err != nil || has {
		t.Fatalf("HasRunnableForEntity (succeeded): has=%v err=%v", has, err)
	}

	counts, err := repo.CountByStatus(dbc)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[types.JobStatusSucceeded] < 3 || counts[types.JobStatusCanceled] < 1 {
		t.Fatalf("CountByStatus: unexpected %v", counts)
	}
}
