package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/literacy-backend/internal/data/repos"
	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/jobs/pipeline/translation_fill"
	"github.com/yungbote/literacy-backend/internal/platform/apierr"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/translation"
)

type ContentService interface {
	// Create stores the entity and its source record atomically, then queues a
	// translation_fill job. The job is a latency optimisation; sweeps close
	// whatever it misses.
	Create(ctx context.Context, entity types.ContentEntity) (types.ContentEntity, *types.JobRun, error)
	Get(ctx context.Context, kind string, id uuid.UUID) (types.ContentEntity, error)
	// Delete soft-deletes the entity and hard-deletes its records in one
	// transaction.
	Delete(ctx context.Context, kind string, id uuid.UUID) (int64, error)
}

type contentService struct {
	db      *gorm.DB
	log     *logger.Logger
	content repos.ContentRepo
	records repos.TranslationRecordRepo
	writer  *translation.Writer
	jobs    JobService
	langs   translation.LanguageSet
}

func NewContentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	content repos.ContentRepo,
	records repos.TranslationRecordRepo,
	writer *translation.Writer,
	jobs JobService,
	langs translation.LanguageSet,
) ContentService {
	return &contentService{
		db:      db,
		log:     baseLog.With("service", "ContentService"),
		content: content,
		records: records,
		writer:  writer,
		jobs:    jobs,
		langs:   langs,
	}
}

func (s *contentService) Create(ctx context.Context, entity types.ContentEntity) (types.ContentEntity, *types.JobRun, error) {
	if err := s.prepare(entity); err != nil {
		return nil, nil, err
	}
	var job *types.JobRun
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.content.Create(dbc, entity); err != nil {
			return fmt.Errorf("create %s: %w", entity.Kind(), err)
		}
		if err := s.writer.WriteSource(dbc, entity); err != nil {
			return fmt.Errorf("write source record: %w", err)
		}
		var err error
		job, _, err = s.jobs.EnqueueIfIdle(dbc, translation_fill.JobType, entity.Kind(), entity.GetID(), map[string]any{
			"kind":      entity.Kind(),
			"entity_id": entity.GetID().String(),
		})
		if err != nil {
			return fmt.Errorf("enqueue %s: %w", translation_fill.JobType, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("content created", "kind", entity.Kind(), "entity_id", entity.GetID())
	return entity, job, nil
}

// prepare validates the payload and defaults the source language.
func (s *contentService) prepare(entity types.ContentEntity) error {
	if entity == nil {
		return fmt.Errorf("missing entity: %w", apierr.ErrInvalidArgument)
	}
	schema, ok := translation.SchemaFor(entity.Kind())
	if !ok {
		return fmt.Errorf("unknown kind %q: %w", entity.Kind(), apierr.ErrInvalidArgument)
	}
	lang := strings.ToUpper(strings.TrimSpace(entity.GetSourceLanguage()))
	if lang == "" {
		lang = s.langs.Source
	}
	if lang != s.langs.Source {
		return fmt.Errorf("source_language %q must be %s: %w", lang, s.langs.Source, apierr.ErrInvalidArgument)
	}
	switch e := entity.(type) {
	case *types.QuizQuestion:
		e.SourceLanguage = lang
	case *types.CurriculumLevel:
		e.SourceLanguage = lang
	case *types.TrainingModule:
		e.SourceLanguage = lang
	}

	fields, err := entity.SourceFields()
	if errors.Is(err, types.ErrMalformedRecord) {
		return fmt.Errorf("%s: %v: %w", schema.ItemsField, err, apierr.ErrInvalidArgument)
	}
	if err != nil {
		return err
	}
	for _, name := range schema.Required {
		if strings.TrimSpace(fields.Scalars[name]) == "" {
			return fmt.Errorf("%s is required: %w", name, apierr.ErrInvalidArgument)
		}
	}
	return nil
}

func (s *contentService) Get(ctx context.Context, kind string, id uuid.UUID) (types.ContentEntity, error) {
	return s.content.GetByID(dbctx.Background(ctx), kind, id)
}

func (s *contentService) Delete(ctx context.Context, kind string, id uuid.UUID) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := s.content.SoftDelete(dbc, kind, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%s %s: %w", kind, id, apierr.ErrNotFound)
		}
		removed, err = s.records.DeleteByEntity(dbc, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("content deleted", "kind", kind, "entity_id", id, "records_removed", removed)
	return removed, nil
}
