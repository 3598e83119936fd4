package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/literacy-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// Content
		&types.QuizQuestion{},
		&types.CurriculumLevel{},
		&types.TrainingModule{},

		// Translations
		&types.TranslationRecord{},

		// Jobs
		&types.JobRun{},
	); err != nil {
		return err
	}
	return EnsureTranslationIndexes(db)
}

// EnsureTranslationIndexes adds the composite indexes the backlog scan relies on.
func EnsureTranslationIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_translation_record_entity_status ON translation_record (entity_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_translation_record_kind_lang ON translation_record (entity_kind, language_code)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_question_created ON quiz_question (created_at, id)`,
		`CREATE INDEX IF NOT EXISTS idx_curriculum_level_created ON curriculum_level (created_at, id)`,
		`CREATE INDEX IF NOT EXISTS idx_training_module_created ON training_module (created_at, id)`,
		`CREATE INDEX IF NOT EXISTS idx_job_run_claim ON job_run (status, created_at)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}
