package domain

import (
	"github.com/yungbote/literacy-backend/internal/domain/content"
	"github.com/yungbote/literacy-backend/internal/domain/jobs"
	"github.com/yungbote/literacy-backend/internal/domain/translation"
)

const (
	KindQuizQuestion    = content.KindQuizQuestion
	KindCurriculumLevel = content.KindCurriculumLevel
	KindTrainingModule  = content.KindTrainingModule

	TranslationStatusSource   = translation.StatusSource
	TranslationStatusComplete = translation.StatusComplete
	TranslationStatusPartial  = translation.StatusPartial
	TranslationStatusFailed   = translation.StatusFailed

	JobStatusQueued    = jobs.JobStatusQueued
	JobStatusRunning   = jobs.JobStatusRunning
	JobStatusSucceeded = jobs.JobStatusSucceeded
	JobStatusFailed    = jobs.JobStatusFailed
	JobStatusCanceled  = jobs.JobStatusCanceled
)

var (
	ContentKinds       = content.Kinds
	IsContentKind      = content.IsKind
	ErrMalformedRecord = translation.ErrMalformedRecord
	ItemsFromObjects   = translation.ItemsFromObjects
	ItemsToObjects     = translation.ItemsToObjects
)

type (
	ContentEntity   = content.Entity
	QuizQuestion    = content.QuizQuestion
	CurriculumLevel = content.CurriculumLevel
	TrainingModule  = content.TrainingModule

	TranslationRecord = translation.TranslationRecord
	Fields            = translation.Fields
	Item              = translation.Item

	JobRun = jobs.JobRun
)
