package translation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

type TranslationRecordRepo interface {
	Upsert(dbc dbctx.Context, rec *types.TranslationRecord) error
	GetByKey(dbc dbctx.Context, entityID uuid.UUID, languageCode string) (*types.TranslationRecord, error)
	GetByEntityIDs(dbc dbctx.Context, entityIDs []uuid.UUID) ([]*types.TranslationRecord, error)
	CountByKind(dbc dbctx.Context, kind string, languages []string) (int64, error)
	CountByStatus(dbc dbctx.Context, kind string) (map[string]int64, error)
	DeleteByEntity(dbc dbctx.Context, entityID uuid.UUID) (int64, error)
}

type translationRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTranslationRecordRepo(db *gorm.DB, baseLog *logger.Logger) TranslationRecordRepo {
	return &translationRecordRepo{
		db:  db,
		log: baseLog.With("repo", "TranslationRecordRepo"),
	}
}

// Upsert creates the record for (entity_id, language_code) or overwrites the
// existing one. Last write wins.
func (r *translationRecordRepo) Upsert(dbc dbctx.Context, rec *types.TranslationRecord) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if rec == nil || rec.EntityID == uuid.Nil || rec.LanguageCode == "" {
		return errors.New("translation record missing entity_id/language_code")
	}
	now := time.Now().UTC()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "entity_id"}, {Name: "language_code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"entity_kind",
				"fields",
				"items",
				"status",
				"failed_fields",
				"provider",
				"updated_at",
			}),
		}).
		Create(rec).Error
}

func (r *translationRecordRepo) GetByKey(dbc dbctx.Context, entityID uuid.UUID, languageCode string) (*types.TranslationRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if entityID == uuid.Nil || languageCode == "" {
		return nil, nil
	}
	var rec types.TranslationRecord
	err := transaction.WithContext(dbc.Ctx).
		Where("entity_id = ? AND language_code = ?", entityID, languageCode).
		Limit(1).
		Find(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == uuid.Nil {
		return nil, nil
	}
	return &rec, nil
}

func (r *translationRecordRepo) GetByEntityIDs(dbc dbctx.Context, entityIDs []uuid.UUID) ([]*types.TranslationRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TranslationRecord
	if len(entityIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("entity_id IN ?", entityIDs).
		Order("entity_id ASC").
		Order("language_code ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountByKind counts records of a kind in the given languages (all languages
// when empty).
func (r *translationRecordRepo) CountByKind(dbc dbctx.Context, kind string, languages []string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Model(&types.TranslationRecord{}).
		Where("entity_kind = ?", kind)
	if len(languages) > 0 {
		q = q.Where("language_code IN ?", languages)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *translationRecordRepo) CountByStatus(dbc dbctx.Context, kind string) (map[string]int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []struct {
		Status string
		Count  int64
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.TranslationRecord{}).
		Select("status, count(*) as count").
		Where("entity_kind = ?", kind).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *translationRecordRepo) DeleteByEntity(dbc dbctx.Context, entityID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if entityID == uuid.Nil {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("entity_id = ?", entityID).
		Delete(&types.TranslationRecord{})
	return res.RowsAffected, res.Error
}
