package content

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/literacy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/apierr"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
)

func TestContentRepoListOldest(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContentRepo(db, testutil.Logger(t))

	// Seeded out of order; listing must follow created_at.
	q2 := testutil.SeedQuizQuestion(t, ctx, tx, 2, "deux", "a", "b")
	q0 := testutil.SeedQuizQuestion(t, ctx, tx, 0, "zero", "a")
	q1 := testutil.SeedQuizQuestion(t, ctx, tx, 1, "un", "a")

	rows, err := repo.ListOldest(dbc, types.KindQuizQuestion, ListQuery{Limit: 10})
	if err != nil {
		t.Fatalf("ListOldest: %v", err)
	}
	if len(rows) != 3 || rows[0].GetID() != q0.ID || rows[1].GetID() != q1.ID || rows[2].GetID() != q2.ID {
		t.Fatalf("ListOldest: unexpected order %v", ids(rows))
	}

	rows, err = repo.ListOldest(dbc, types.KindQuizQuestion, ListQuery{Offset: 1, Limit: 1})
	if err != nil || len(rows) != 1 || rows[0].GetID() != q1.ID {
		t.Fatalf("ListOldest offset: err=%v rows=%v", err, ids(rows))
	}

	// q0 is complete in both languages and drops out of the pre-filter.
	langs := []string{"DE", "EN"}
	for _, lang := range langs {
		testutil.SeedTranslation(t, ctx, tx, q0, lang, types.TranslationStatusComplete, testutil.Translated(t, q0, lang))
	}
	testutil.SeedTranslation(t, ctx, tx, q1, "DE", types.TranslationStatusComplete, testutil.Translated(t, q1, "DE"))
	testutil.SeedTranslation(t, ctx, tx, q1, "EN", types.TranslationStatusPartial, testutil.Translated(t, q1, "EN"))

	rows, err = repo.ListOldest(dbc, types.KindQuizQuestion, ListQuery{Limit: 10, IncompleteFor: langs})
	if err != nil {
		t.Fatalf("ListOldest incomplete: %v", err)
	}
	if len(rows) != 2 || rows[0].GetID() != q1.ID || rows[1].GetID() != q2.ID {
		t.Fatalf("ListOldest incomplete: unexpected %v", ids(rows))
	}
}

func TestContentRepoCRUD(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContentRepo(db, testutil.Logger(t))

	level := &types.CurriculumLevel{SourceLanguage: "FR", Title: "Niveau 1", CreatedAt: testutil.Epoch, UpdatedAt: testutil.Epoch}
	if err := repo.Create(dbc, level); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if level.ID == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}

	got, err := repo.GetByID(dbc, types.KindCurriculumLevel, level.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.(*types.CurriculumLevel).Title != "Niveau 1" {
		t.Fatalf("GetByID: unexpected %+v", got)
	}

	if n, err := repo.Count(dbc, types.KindCurriculumLevel); err != nil || n != 1 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	deleted, err := repo.SoftDelete(dbc, types.KindCurriculumLevel, level.ID)
	if err != nil || !deleted {
		t.Fatalf("SoftDelete: deleted=%v err=%v", deleted, err)
	}
	if _, err := repo.GetByID(dbc, types.KindCurriculumLevel, level.ID); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("GetByID after delete: expected not found, got %v", err)
	}
	if n, err := repo.Count(dbc, types.KindCurriculumLevel); err != nil || n != 0 {
		t.Fatalf("Count after delete: n=%d err=%v", n, err)
	}

	if _, err := repo.Count(dbc, "forum_post"); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("Count unknown kind: expected invalid argument, got %v", err)
	}
}

func ids(rows []types.ContentEntity) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.GetID())
	}
	return out
}
