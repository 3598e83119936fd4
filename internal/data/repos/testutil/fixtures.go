package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/literacy-backend/internal/domain"
)

// Epoch is the creation time of the first seeded row; later rows are one
// second apart so ordering by created_at is deterministic.
var Epoch = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func SeedQuizQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, n int, question string, answers ...string) *types.QuizQuestion {
	tb.Helper()
	objs := make([]map[string]any, 0, len(answers))
	for i, a := range answers {
		objs = append(objs, map[string]any{"text": a, "correct": i == 0})
	}
	raw, _ := json.Marshal(objs)
	q := &types.QuizQuestion{
		ID:             uuid.New(),
		SourceLanguage: "FR",
		Question:       question,
		Explanation:    "explication " + question,
		Answers:        datatypes.JSON(raw),
		Points:         1,
		CreatedAt:      Epoch.Add(time.Duration(n) * time.Second),
		UpdatedAt:      Epoch.Add(time.Duration(n) * time.Second),
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz question: %v", err)
	}
	return q
}

func SeedCurriculumLevel(tb testing.TB, ctx context.Context, tx *gorm.DB, n int, title string) *types.CurriculumLevel {
	tb.Helper()
	l := &types.CurriculumLevel{
		ID:             uuid.New(),
		SourceLanguage: "FR",
		Rank:           n,
		Title:          title,
		Description:    "description " + title,
		Objectives:     datatypes.JSON([]byte(`[{"text":"lire","position":1,"points":2}]`)),
		CreatedAt:      Epoch.Add(time.Duration(n) * time.Second),
		UpdatedAt:      Epoch.Add(time.Duration(n) * time.Second),
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed curriculum level: %v", err)
	}
	return l
}

func SeedTrainingModule(tb testing.TB, ctx context.Context, tx *gorm.DB, n int, title string) *types.TrainingModule {
	tb.Helper()
	m := &types.TrainingModule{
		ID:             uuid.New(),
		SourceLanguage: "FR",
		Title:          title,
		Summary:        "resume " + title,
		Body:           "corps " + title,
		Sections:       datatypes.JSON([]byte(`[{"text":"introduction","kind":"video","media_url":"https://cdn.example/v.mp4"}]`)),
		DurationMin:    10,
		CreatedAt:      Epoch.Add(time.Duration(n) * time.Second),
		UpdatedAt:      Epoch.Add(time.Duration(n) * time.Second),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed training module: %v", err)
	}
	return m
}

// SeedTranslation writes a translation record with the given status and fields.
func SeedTranslation(tb testing.TB, ctx context.Context, tx *gorm.DB, entity types.ContentEntity, lang, status string, f types.Fields) *types.TranslationRecord {
	tb.Helper()
	rec := &types.TranslationRecord{
		ID:           uuid.New(),
		EntityKind:   entity.Kind(),
		EntityID:     entity.GetID(),
		LanguageCode: lang,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := rec.Encode(f); err != nil {
		tb.Fatalf("encode translation: %v", err)
	}
	rec.SetFailedFields(nil)
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed translation %s/%s: %v", entity.GetID(), lang, err)
	}
	return rec
}

// Translated returns the entity's source fields with every text prefixed by
// "[lang] ", the shape the stub provider produces.
func Translated(tb testing.TB, entity types.ContentEntity, lang string) types.Fields {
	tb.Helper()
	src, err := entity.SourceFields()
	if err != nil {
		tb.Fatalf("source fields: %v", err)
	}
	out := src.Clone()
	for k, v := range out.Scalars {
		if v != "" {
			out.Scalars[k] = fmt.Sprintf("[%s] %s", lang, v)
		}
	}
	for i := range out.Items {
		if out.Items[i].Text != "" {
			out.Items[i].Text = fmt.Sprintf("[%s] %s", lang, out.Items[i].Text)
		}
	}
	return out
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
