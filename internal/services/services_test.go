package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/literacy-backend/internal/data/repos"
	"github.com/yungbote/literacy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/apierr"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/translation"
)

type prefixProvider struct {
	mu    sync.Mutex
	calls int
}

func (p *prefixProvider) Name() string { return "prefix" }

func (p *prefixProvider) Translate(_ context.Context, text, _, target string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if target == "" {
		return "", errors.New("no target")
	}
	return "[" + target + "] " + text, nil
}

type fixture struct {
	tx       *gorm.DB
	records  repos.TranslationRecordRepo
	jobsRepo repos.JobRunRepo
	content  ContentService
	sweep    *sweepService
	coverage CoverageService
	jobs     JobService
}

func newFixture(t *testing.T, cfg SweepConfig) *fixture {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := logger.Nop()
	langs, err := translation.NewLanguageSet("FR", []string{"DE", "EN"})
	if err != nil {
		t.Fatalf("language set: %v", err)
	}
	contentRepo := repos.NewContentRepo(tx, log)
	records := repos.NewTranslationRecordRepo(tx, log)
	jobsRepo := repos.NewJobRunRepo(tx, log)

	scanner := translation.NewScanner(log, contentRepo, records, langs)
	writer := translation.NewWriter(log, records)
	scheduler := translation.NewScheduler(log, scanner, translation.NewFieldTranslator(log, &prefixProvider{}), writer, nil, translation.SchedulerConfig{SampleLimit: 5})
	jobs := NewJobService(tx, log, jobsRepo)

	return &fixture{
		tx:       tx,
		records:  records,
		jobsRepo: jobsRepo,
		content:  NewContentService(tx, log, contentRepo, records, writer, jobs, langs),
		sweep:    NewSweepService(log, scheduler, cfg).(*sweepService),
		coverage: NewCoverageService(log, contentRepo, records, scanner),
		jobs:     jobs,
	}
}

func newQuestion(q string) *types.QuizQuestion {
	return &types.QuizQuestion{
		Question: q,
		Answers:  datatypes.JSON([]byte(`[{"text":"oui","correct":true},{"text":"non","correct":false}]`)),
		Points:   2,
	}
}

func TestContentCreateWritesSourceAndQueuesFill(t *testing.T) {
	f := newFixture(t, SweepConfig{EntityCap: 10})
	ctx := context.Background()

	created, job, err := f.content.Create(ctx, newQuestion("Qu'est-ce qu'un prompt ?"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	q := created.(*types.QuizQuestion)
	if q.ID == uuid.Nil || q.SourceLanguage != "FR" {
		t.Fatalf("expected id and default source language, got %+v", q)
	}
	src, err := f.records.GetByKey(dbctx.Background(ctx), q.ID, "FR")
	if err != nil || src == nil || src.Status != types.TranslationStatusSource {
		t.Fatalf("expected source record, got %+v err=%v", src, err)
	}
	if job == nil || job.JobType != "translation_fill" || job.Status != types.JobStatusQueued {
		t.Fatalf("expected queued translation_fill job, got %+v", job)
	}
	if !strings.Contains(string(job.Payload), q.ID.String()) {
		t.Fatalf("job payload missing entity id: %s", job.Payload)
	}
	got, err := f.jobs.GetByID(dbctx.Background(ctx), job.ID)
	if err != nil || got.EntityID == nil || *got.EntityID != q.ID {
		t.Fatalf("GetByID: %+v err=%v", got, err)
	}
}

func TestContentCreateValidation(t *testing.T) {
	f := newFixture(t, SweepConfig{})
	ctx := context.Background()

	cases := []struct {
		name   string
		entity types.ContentEntity
	}{
		{name: "blank required field", entity: newQuestion("  ")},
		{name: "wrong source language", entity: &types.TrainingModule{Title: "Bases", SourceLanguage: "de"}},
		{name: "malformed items", entity: &types.CurriculumLevel{Title: "Niveau 1", Objectives: datatypes.JSON([]byte(`[{"position":1}]`))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := f.content.Create(ctx, tc.entity); !errors.Is(err, apierr.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestContentDeleteRemovesRecords(t *testing.T) {
	f := newFixture(t, SweepConfig{EntityCap: 10})
	ctx := context.Background()

	created, _, err := f.content.Create(ctx, newQuestion("Supprimer ?"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created.GetID()
	if _, err := f.sweep.Sweep(ctx, SweepRequest{Trigger: TriggerCron, Kind: types.KindQuizQuestion}); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	removed, err := f.content.Delete(ctx, types.KindQuizQuestion, id)
	if err != nil || removed != 3 {
		t.Fatalf("expected 3 records removed, got %d err=%v", removed, err)
	}
	if _, err := f.content.Get(ctx, types.KindQuizQuestion, id); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("expected deleted entity to be gone, got %v", err)
	}
	if _, err := f.content.Delete(ctx, types.KindQuizQuestion, id); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSweepAllKindsClosesGaps(t *testing.T) {
	f := newFixture(t, SweepConfig{EntityCap: 10, Budget: time.Minute})
	ctx := context.Background()

	for _, q := range []string{"Un ?", "Deux ?"} {
		if _, _, err := f.content.Create(ctx, newQuestion(q)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, _, err := f.content.Create(ctx, &types.TrainingModule{Title: "Prompting", Sections: datatypes.JSON([]byte(`[{"text":"intro","kind":"text"}]`))}); err != nil {
		t.Fatalf("Create module: %v", err)
	}

	before, err := f.coverage.Report(ctx, "")
	if err != nil || before.TotalGaps != 6 || len(before.Kinds) != 3 {
		t.Fatalf("expected 6 gaps over 3 kinds, got %+v err=%v", before, err)
	}

	res, err := f.sweep.Sweep(ctx, SweepRequest{Trigger: TriggerCron})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.TranslationsWritten != 6 || res.RemainingGaps != 0 || res.MoreRemaining || len(res.Kinds) != 3 {
		t.Fatalf("unexpected sweep result %+v", res)
	}

	after, err := f.coverage.Report(ctx, types.KindQuizQuestion)
	if err != nil || after.TotalGaps != 0 {
		t.Fatalf("expected no gaps, got %+v err=%v", after, err)
	}
	quiz := after.Kinds[0]
	if quiz.Entities != 2 || quiz.Expected != 4 || quiz.Recorded != 4 || quiz.Rows != 6 || quiz.ByStatus[types.TranslationStatusComplete] != 4 || quiz.ByStatus[types.TranslationStatusSource] != 2 {
		t.Fatalf("unexpected quiz coverage %+v", quiz)
	}

	again, err := f.sweep.Sweep(ctx, SweepRequest{Trigger: TriggerCron})
	if err != nil || again.TranslationsWritten != 0 {
		t.Fatalf("expected idle second sweep, got %+v err=%v", again, err)
	}
}

func TestSweepSharesBudgetAcrossKinds(t *testing.T) {
	f := newFixture(t, SweepConfig{EntityCap: 10, Budget: 15 * time.Second})
	ctx := context.Background()
	if _, _, err := f.content.Create(ctx, newQuestion("Budget ?")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var n int
	f.sweep.now = func() time.Time {
		ts := base.Add(time.Duration(n) * 10 * time.Second)
		n++
		return ts
	}

	res, err := f.sweep.Sweep(ctx, SweepRequest{Trigger: TriggerCron})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(res.Kinds) != 1 || res.Kinds[0].Kind != types.KindQuizQuestion {
		t.Fatalf("expected only the first kind to run, got %d", len(res.Kinds))
	}
	if !res.TimedOut || !res.MoreRemaining {
		t.Fatalf("expected timed out sweep, got %+v", res)
	}
	if res.TranslationsWritten != 2 {
		t.Fatalf("expected 2 written, got %d", res.TranslationsWritten)
	}
}

func TestSweepRejectsBadInput(t *testing.T) {
	f := newFixture(t, SweepConfig{})
	ctx := context.Background()
	if _, err := f.sweep.Sweep(ctx, SweepRequest{Kind: "forum_post"}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("expected invalid kind, got %v", err)
	}
	if _, err := f.sweep.Sweep(ctx, SweepRequest{Languages: []string{"JA"}}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("expected invalid language, got %v", err)
	}
}

func TestEntityCoverage(t *testing.T) {
	f := newFixture(t, SweepConfig{EntityCap: 10})
	ctx := context.Background()
	created, _, err := f.content.Create(ctx, newQuestion("Couverture ?"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SeedTranslation(t, ctx, f.tx, created, "EN", types.TranslationStatusComplete, testutil.Translated(t, created, "EN"))

	cov, err := f.coverage.Entity(ctx, types.KindQuizQuestion, created.GetID())
	if err != nil {
		t.Fatalf("Entity: %v", err)
	}
	if len(cov.Covered) != 1 || cov.Covered[0] != "EN" || len(cov.Gaps) != 1 || cov.Gaps[0] != "DE" {
		t.Fatalf("unexpected coverage %+v", cov)
	}
	if _, err := f.coverage.Entity(ctx, types.KindQuizQuestion, uuid.New()); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
