package translation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/literacy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
)

func seedQuestions(t *testing.T, e *engine, n int) []*types.QuizQuestion {
	t.Helper()
	out := make([]*types.QuizQuestion, 0, n)
	for i := 0; i < n; i++ {
		q := testutil.SeedQuizQuestion(t, context.Background(), e.tx, i, fmt.Sprintf("Question %d ?", i), "oui", "non")
		if err := e.writer.WriteSource(dbctx.Context{Ctx: context.Background(), Tx: e.tx}, q); err != nil {
			t.Fatalf("WriteSource: %v", err)
		}
		out = append(out, q)
	}
	return out
}

func TestSchedulerPartialBatch(t *testing.T) {
	e := newEngine(t, DefaultLanguageSet(), SchedulerConfig{SampleLimit: 5}, nil)
	seedQuestions(t, e, 10)
	ctx := context.Background()

	before, err := e.scanner.CountGaps(ctx, types.KindQuizQuestion, nil)
	if err != nil || before.Gaps != 250 {
		t.Fatalf("expected 250 gaps before, got %+v err=%v", before, err)
	}

	// One reading sets the deadline, then one per unit: units 1..40 see
	// t < 40.5s and run, unit 41 sees 41s and stops the batch.
	e.scheduler.now = steppingClock(time.Date(2024, 5, 1, 2, 0, 0, 0, time.UTC))
	res, err := e.scheduler.Run(ctx, RunRequest{
		Kind:      types.KindQuizQuestion,
		EntityCap: 3,
		Budget:    40*time.Second + 500*time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TranslationsWritten != 40 {
		t.Fatalf("expected 40 written, got %d", res.TranslationsWritten)
	}
	if res.EntitiesProcessed > 3 || res.EntitiesProcessed != 2 {
		t.Fatalf("expected 2 entities processed, got %d", res.EntitiesProcessed)
	}
	if !res.TimedOut || res.State != StateTimedOut || !res.MoreRemaining {
		t.Fatalf("expected timed out batch, got %+v", res)
	}
	if res.RemainingGaps != 210 {
		t.Fatalf("expected 210 remaining, got %d", res.RemainingGaps)
	}
	if len(res.Items) != 5 {
		t.Fatalf("expected sample capped at 5, got %d", len(res.Items))
	}

	after, err := e.scanner.CountGaps(ctx, types.KindQuizQuestion, nil)
	if err != nil || after.Gaps != 210 {
		t.Fatalf("coverage query: expected 210 gaps, got %+v err=%v", after, err)
	}
}

func TestSchedulerConvergesAndIsIdempotent(t *testing.T) {
	langs, _ := NewLanguageSet("FR", []string{"DE", "EN", "IT"})
	e := newEngine(t, langs, SchedulerConfig{}, nil)
	qs := seedQuestions(t, e, 5)
	ctx := context.Background()

	runs := 0
	for {
		res, err := e.scheduler.Run(ctx, RunRequest{Kind: types.KindQuizQuestion, EntityCap: 2, Budget: time.Minute})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		runs++
		if res.RemainingGaps == 0 {
			break
		}
		if runs > 10 {
			t.Fatalf("did not converge, %d gaps left", res.RemainingGaps)
		}
	}
	if runs != 3 {
		t.Fatalf("expected 3 runs with cap 2 over 5 entities, got %d", runs)
	}

	calls := e.provider.Calls()
	res, err := e.scheduler.Run(ctx, RunRequest{Kind: types.KindQuizQuestion, EntityCap: 2, Budget: time.Minute})
	if err != nil || res.TranslationsWritten != 0 || res.EntitiesProcessed != 0 {
		t.Fatalf("expected no work on a covered backlog, got %+v err=%v", res, err)
	}
	if e.provider.Calls() != calls {
		t.Fatalf("expected no provider calls on a covered backlog")
	}

	recs, err := e.records.GetByEntityIDs(dbctx.Background(ctx), []uuid.UUID{qs[0].ID})
	if err != nil || len(recs) != 4 {
		t.Fatalf("expected source + 3 records, got %d err=%v", len(recs), err)
	}
}

func TestSchedulerNewEntity(t *testing.T) {
	e := newEngine(t, DefaultLanguageSet(), SchedulerConfig{UnitConcurrency: 1}, nil)
	q := seedQuestions(t, e, 1)[0]
	ctx := context.Background()

	res, err := e.scheduler.RunEntity(ctx, types.KindQuizQuestion, q.ID, time.Minute)
	if err != nil {
		t.Fatalf("RunEntity: %v", err)
	}
	if res.TranslationsWritten != 25 || res.RemainingGaps != 0 || res.EntitiesProcessed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	recs, _ := e.records.GetByEntityIDs(dbctx.Background(ctx), []uuid.UUID{q.ID})
	if len(recs) != 26 {
		t.Fatalf("expected 26 records (source + 25), got %d", len(recs))
	}
	for _, r := range recs {
		f, err := r.Decode()
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if len(f.Items) != 2 {
			t.Fatalf("%s: expected 2 answers, got %d", r.LanguageCode, len(f.Items))
		}
		if r.LanguageCode == "FR" {
			if r.Status != types.TranslationStatusSource || f.Scalars["question"] != q.Question {
				t.Fatalf("source record altered: %+v", r)
			}
			continue
		}
		if r.Status != types.TranslationStatusComplete || f.Items[0].Attributes["correct"] != true {
			t.Fatalf("%s: unexpected record %+v / %+v", r.LanguageCode, r, f)
		}
	}
}

func TestSchedulerRepairsBadTranslation(t *testing.T) {
	langs, _ := NewLanguageSet("FR", []string{"DE", "EN"})
	e := newEngine(t, langs, SchedulerConfig{SampleLimit: 10}, nil)
	q := seedQuestions(t, e, 1)[0]
	ctx := context.Background()

	src, _ := q.SourceFields()
	testutil.SeedTranslation(t, ctx, e.tx, q, "EN", types.TranslationStatusComplete, testutil.Translated(t, q, "EN"))
	// A legacy row whose "translation" is the untouched source text.
	testutil.SeedTranslation(t, ctx, e.tx, q, "DE", "", src)

	cands, err := e.scanner.Scan(ctx, types.KindQuizQuestion, ScanOptions{Limit: 10})
	if err != nil || len(cands) != 1 || len(cands[0].Gaps) != 1 || cands[0].Gaps[0] != "DE" {
		t.Fatalf("expected only DE as gap, got %+v err=%v", cands, err)
	}

	res, err := e.scheduler.Run(ctx, RunRequest{Kind: types.KindQuizQuestion, EntityCap: 10, Budget: time.Minute})
	if err != nil || res.TranslationsWritten != 1 || res.RemainingGaps != 0 {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
	rec, _ := e.records.GetByKey(dbctx.Background(ctx), q.ID, "DE")
	f, _ := rec.Decode()
	if rec.Status != types.TranslationStatusComplete || f.Scalars["question"] != "[DE] "+q.Question {
		t.Fatalf("DE not repaired: status=%s fields=%+v", rec.Status, f.Scalars)
	}
	recs, _ := e.records.GetByEntityIDs(dbctx.Background(ctx), []uuid.UUID{q.ID})
	if len(recs) != 3 {
		t.Fatalf("expected 3 records after repair, got %d", len(recs))
	}
}

func TestSchedulerFallbackSafety(t *testing.T) {
	langs, _ := NewLanguageSet("FR", []string{"DE", "EN"})
	e := newEngine(t, langs, SchedulerConfig{SampleLimit: 10}, nil)
	e.provider.failOn["DE"] = true
	q := seedQuestions(t, e, 1)[0]
	ctx := context.Background()

	res, err := e.scheduler.Run(ctx, RunRequest{Kind: types.KindQuizQuestion, EntityCap: 1, Budget: time.Minute})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TranslationsWritten != 2 || res.FailedUnits != 1 || res.RemainingGaps != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	rec, _ := e.records.GetByKey(dbctx.Background(ctx), q.ID, "DE")
	f, _ := rec.Decode()
	if rec.Status != types.TranslationStatusFailed || f.Scalars["question"] != q.Question || len(f.Items) != 2 {
		t.Fatalf("failed unit must store source text with failed status: %+v %+v", rec, f)
	}
	en, _ := e.records.GetByKey(dbctx.Background(ctx), q.ID, "EN")
	if en.Status != types.TranslationStatusComplete {
		t.Fatalf("EN should be unaffected by DE failure, got %s", en.Status)
	}

	// Once the provider recovers the next run closes the gap.
	delete(e.provider.failOn, "DE")
	res, err = e.scheduler.Run(ctx, RunRequest{Kind: types.KindQuizQuestion, EntityCap: 1, Budget: time.Minute})
	if err != nil || res.TranslationsWritten != 1 || res.RemainingGaps != 0 {
		t.Fatalf("expected repair on next run, got %+v err=%v", res, err)
	}
}

func TestSchedulerSkipsLeasedUnits(t *testing.T) {
	langs, _ := NewLanguageSet("FR", []string{"DE", "EN"})
	leaser := NewMemoryLeaser()
	e := newEngine(t, langs, SchedulerConfig{SampleLimit: 10}, leaser)
	q := seedQuestions(t, e, 1)[0]
	ctx := context.Background()

	release, ok, _ := leaser.Acquire(ctx, unitKey(q.ID, "DE"), time.Minute)
	if !ok {
		t.Fatalf("expected to acquire lease")
	}
	res, err := e.scheduler.Run(ctx, RunRequest{Kind: types.KindQuizQuestion, EntityCap: 1, Budget: time.Minute})
	if err != nil || res.SkippedUnits != 1 || res.TranslationsWritten != 1 || res.RemainingGaps != 1 {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
	release()

	res, err = e.scheduler.Run(ctx, RunRequest{Kind: types.KindQuizQuestion, EntityCap: 1, Budget: time.Minute})
	if err != nil || res.TranslationsWritten != 1 || res.RemainingGaps != 0 {
		t.Fatalf("expected leased unit to run after release, got %+v err=%v", res, err)
	}
}

func TestSchedulerLeaseSkippedEntityNotProcessed(t *testing.T) {
	langs, _ := NewLanguageSet("FR", []string{"DE"})
	leaser := NewMemoryLeaser()
	e := newEngine(t, langs, SchedulerConfig{SampleLimit: 10}, leaser)
	q := seedQuestions(t, e, 1)[0]
	ctx := context.Background()

	release, ok, _ := leaser.Acquire(ctx, unitKey(q.ID, "DE"), time.Minute)
	if !ok {
		t.Fatalf("expected to acquire lease")
	}
	defer release()

	res, err := e.scheduler.Run(ctx, RunRequest{Kind: types.KindQuizQuestion, EntityCap: 1, Budget: time.Minute})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.EntitiesProcessed != 0 || res.SkippedUnits != 1 || res.TranslationsWritten != 0 {
		t.Fatalf("expected a skipped-only entity to stay unprocessed, got %+v", res)
	}
}

func TestSchedulerLanguageFilterAndOffset(t *testing.T) {
	e := newEngine(t, DefaultLanguageSet(), SchedulerConfig{SampleLimit: 50}, nil)
	qs := seedQuestions(t, e, 3)
	ctx := context.Background()

	res, err := e.scheduler.Run(ctx, RunRequest{
		Kind:      types.KindQuizQuestion,
		EntityCap: 1,
		Budget:    time.Minute,
		Languages: []string{"de"},
		Offset:    1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TranslationsWritten != 1 || len(res.Items) != 1 {
		t.Fatalf("expected one DE unit, got %+v", res)
	}
	if res.Items[0].EntityID != qs[1].ID.String() || res.Items[0].Language != "DE" {
		t.Fatalf("expected second entity in DE, got %+v", res.Items[0])
	}
	if res.RemainingGaps != 2 {
		t.Fatalf("expected 2 DE gaps left, got %d", res.RemainingGaps)
	}
}
