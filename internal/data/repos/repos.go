package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/literacy-backend/internal/data/repos/content"
	"github.com/yungbote/literacy-backend/internal/data/repos/jobs"
	"github.com/yungbote/literacy-backend/internal/data/repos/translation"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

type (
	ContentRepo           = content.ContentRepo
	ContentListQuery      = content.ListQuery
	TranslationRecordRepo = translation.TranslationRecordRepo
	JobRunRepo            = jobs.JobRunRepo
)

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return content.NewContentRepo(db, baseLog)
}

func NewTranslationRecordRepo(db *gorm.DB, baseLog *logger.Logger) TranslationRecordRepo {
	return translation.NewTranslationRecordRepo(db, baseLog)
}

func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return jobs.NewJobRunRepo(db, baseLog)
}
