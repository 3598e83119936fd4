package content

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/apierr"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

// ListQuery selects entities of one kind oldest first.
type ListQuery struct {
	Offset int
	Limit  int
	// IncompleteFor keeps only entities that have fewer "complete" translation
	// records than len(IncompleteFor) among these languages.
	IncompleteFor []string
}

type ContentRepo interface {
	Create(dbc dbctx.Context, entity types.ContentEntity) error
	GetByID(dbc dbctx.Context, kind string, id uuid.UUID) (types.ContentEntity, error)
	ListOldest(dbc dbctx.Context, kind string, q ListQuery) ([]types.ContentEntity, error)
	Count(dbc dbctx.Context, kind string) (int64, error)
	SoftDelete(dbc dbctx.Context, kind string, id uuid.UUID) (bool, error)
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return &contentRepo{
		db:  db,
		log: baseLog.With("repo", "ContentRepo"),
	}
}

func modelFor(kind string) (any, string, error) {
	switch kind {
	case types.KindQuizQuestion:
		return &types.QuizQuestion{}, "quiz_question", nil
	case types.KindCurriculumLevel:
		return &types.CurriculumLevel{}, "curriculum_level", nil
	case types.KindTrainingModule:
		return &types.TrainingModule{}, "training_module", nil
	default:
		return nil, "", fmt.Errorf("unknown content kind %q: %w", kind, apierr.ErrInvalidArgument)
	}
}

func (r *contentRepo) Create(dbc dbctx.Context, entity types.ContentEntity) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if entity == nil {
		return fmt.Errorf("nil entity: %w", apierr.ErrInvalidArgument)
	}
	if _, _, err := modelFor(entity.Kind()); err != nil {
		return err
	}
	return transaction.WithContext(dbc.Ctx).Create(entity).Error
}

func (r *contentRepo) GetByID(dbc dbctx.Context, kind string, id uuid.UUID) (types.ContentEntity, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	model, _, err := modelFor(kind)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("%s %s: %w", kind, id, apierr.ErrNotFound)
	}
	err = transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s %s: %w", kind, id, apierr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return model.(types.ContentEntity), nil
}

func (r *contentRepo) ListOldest(dbc dbctx.Context, kind string, q ListQuery) ([]types.ContentEntity, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	_, table, err := modelFor(kind)
	if err != nil {
		return nil, err
	}
	if q.Limit <= 0 {
		return []types.ContentEntity{}, nil
	}
	query := transaction.WithContext(dbc.Ctx)
	if len(q.IncompleteFor) > 0 {
		query = query.Where(
			fmt.Sprintf("(SELECT COUNT(*) FROM translation_record tr WHERE tr.entity_id = %s.id AND tr.language_code IN ? AND tr.status = ?) < ?", table),
			q.IncompleteFor, types.TranslationStatusComplete, len(q.IncompleteFor),
		)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	query = query.Order("created_at ASC").Order("id ASC").Limit(q.Limit)

	switch kind {
	case types.KindQuizQuestion:
		var rows []*types.QuizQuestion
		if err := query.Find(&rows).Error; err != nil {
			return nil, err
		}
		return toEntities(rows), nil
	case types.KindCurriculumLevel:
		var rows []*types.CurriculumLevel
		if err := query.Find(&rows).Error; err != nil {
			return nil, err
		}
		return toEntities(rows), nil
	default:
		var rows []*types.TrainingModule
		if err := query.Find(&rows).Error; err != nil {
			return nil, err
		}
		return toEntities(rows), nil
	}
}

func toEntities[T types.ContentEntity](rows []T) []types.ContentEntity {
	out := make([]types.ContentEntity, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	return out
}

func (r *contentRepo) Count(dbc dbctx.Context, kind string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	model, _, err := modelFor(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).Model(model).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *contentRepo) SoftDelete(dbc dbctx.Context, kind string, id uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	model, _, err := modelFor(kind)
	if err != nil {
		return false, err
	}
	if id == uuid.Nil {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
