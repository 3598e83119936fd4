package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/literacy-backend/internal/domain/translation"
)

type TrainingModule struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID *uuid.UUID     `gorm:"type:uuid;column:organization_id;index" json:"organization_id,omitempty"`
	SourceLanguage string         `gorm:"column:source_language;size:16;not null" json:"source_language"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Summary        string         `gorm:"column:summary;type:text" json:"summary"`
	Body           string         `gorm:"column:body;type:text" json:"body"`
	Sections       datatypes.JSON `gorm:"column:sections;type:jsonb" json:"sections"` // [{"text","kind","media_url"}]
	DurationMin    int            `gorm:"column:duration_min;not null;default:0" json:"duration_min"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TrainingModule) TableName() string { return "training_module" }

func (m *TrainingModule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *TrainingModule) GetID() uuid.UUID          { return m.ID }
func (m *TrainingModule) Kind() string              { return KindTrainingModule }
func (m *TrainingModule) GetCreatedAt() time.Time   { return m.CreatedAt }
func (m *TrainingModule) GetSourceLanguage() string { return m.SourceLanguage }

func (m *TrainingModule) SourceFields() (translation.Fields, error) {
	items, err := translation.ItemsFromObjects(m.Sections, "text")
	if err != nil {
		return translation.Fields{}, err
	}
	return translation.Fields{
		Scalars: map[string]string{
			"title":   m.Title,
			"summary": m.Summary,
			"body":    m.Body,
		},
		Items: items,
	}, nil
}
