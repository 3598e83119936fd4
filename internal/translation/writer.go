package translation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/literacy-backend/internal/data/repos"
	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

// UnitResult is the outcome of translating one entity into one language.
type UnitResult struct {
	Kind         string
	EntityID     uuid.UUID
	Language     string
	Fields       types.Fields
	Status       string
	FailedFields []string
	Provider     string
}

// Writer persists results keyed by (entity, language). Writing the same unit
// twice leaves one record holding the second write.
type Writer struct {
	log     *logger.Logger
	records repos.TranslationRecordRepo
}

func NewWriter(log *logger.Logger, records repos.TranslationRecordRepo) *Writer {
	return &Writer{
		log:     log.With("component", "TranslationWriter"),
		records: records,
	}
}

func (w *Writer) Write(ctx context.Context, u UnitResult) error {
	return w.write(dbctx.Background(ctx), u)
}

// WriteSource stores the identity copy of a freshly created entity. Callers
// pass the transaction that created the entity.
func (w *Writer) WriteSource(dbc dbctx.Context, entity types.ContentEntity) error {
	source, err := entity.SourceFields()
	if err != nil {
		return err
	}
	return w.write(dbc, UnitResult{
		Kind:     entity.Kind(),
		EntityID: entity.GetID(),
		Language: entity.GetSourceLanguage(),
		Fields:   source,
		Status:   types.TranslationStatusSource,
	})
}

func (w *Writer) write(dbc dbctx.Context, u UnitResult) error {
	rec := &types.TranslationRecord{
		EntityKind:   u.Kind,
		EntityID:     u.EntityID,
		LanguageCode: u.Language,
		Status:       u.Status,
		Provider:     u.Provider,
	}
	if err := rec.Encode(u.Fields); err != nil {
		return fmt.Errorf("encode %s/%s: %w", u.EntityID, u.Language, err)
	}
	rec.SetFailedFields(u.FailedFields)
	if err := w.records.Upsert(dbc, rec); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", u.EntityID, u.Language, err)
	}
	return nil
}
