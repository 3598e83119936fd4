package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/literacy-backend/internal/domain/translation"
)

const (
	KindQuizQuestion    = "quiz_question"
	KindCurriculumLevel = "curriculum_level"
	KindTrainingModule  = "training_module"
)

// Kinds lists every translatable kind in sweep order.
var Kinds = []string{KindQuizQuestion, KindCurriculumLevel, KindTrainingModule}

func IsKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Entity is a source-language content row that needs translated copies.
type Entity interface {
	GetID() uuid.UUID
	Kind() string
	GetCreatedAt() time.Time
	GetSourceLanguage() string
	SourceFields() (translation.Fields, error)
}
