package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/literacy-backend/internal/data/repos"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

type Repos struct {
	Content            repos.ContentRepo
	TranslationRecords repos.TranslationRecordRepo
	JobRuns            repos.JobRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Content:            repos.NewContentRepo(db, log),
		TranslationRecords: repos.NewTranslationRecordRepo(db, log),
		JobRuns:            repos.NewJobRunRepo(db, log),
	}
}
