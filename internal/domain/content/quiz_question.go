package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/literacy-backend/internal/domain/translation"
)

// QuizQuestion stores answers as [{"text": "...", "correct": bool}].
type QuizQuestion struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID *uuid.UUID     `gorm:"type:uuid;column:organization_id;index" json:"organization_id,omitempty"`
	SourceLanguage string         `gorm:"column:source_language;size:16;not null" json:"source_language"`
	Question       string         `gorm:"column:question;type:text;not null" json:"question"`
	Explanation    string         `gorm:"column:explanation;type:text" json:"explanation"`
	Answers        datatypes.JSON `gorm:"column:answers;type:jsonb" json:"answers"`
	Points         int            `gorm:"column:points;not null;default:0" json:"points"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (q *QuizQuestion) GetID() uuid.UUID          { return q.ID }
func (q *QuizQuestion) Kind() string              { return KindQuizQuestion }
func (q *QuizQuestion) GetCreatedAt() time.Time   { return q.CreatedAt }
func (q *QuizQuestion) GetSourceLanguage() string { return q.SourceLanguage }

func (q *QuizQuestion) SourceFields() (translation.Fields, error) {
	items, err := translation.ItemsFromObjects(q.Answers, "text")
	if err != nil {
		return translation.Fields{}, err
	}
	return translation.Fields{
		Scalars: map[string]string{
			"question":    q.Question,
			"explanation": q.Explanation,
		},
		Items: items,
	}, nil
}
