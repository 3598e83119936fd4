package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/literacy-backend/internal/domain/translation"
)

type CurriculumLevel struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID *uuid.UUID     `gorm:"type:uuid;column:organization_id;index" json:"organization_id,omitempty"`
	SourceLanguage string         `gorm:"column:source_language;size:16;not null" json:"source_language"`
	Rank           int            `gorm:"column:rank;not null;default:0" json:"rank"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	Objectives     datatypes.JSON `gorm:"column:objectives;type:jsonb" json:"objectives"` // [{"text","position","points"}]

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CurriculumLevel) TableName() string { return "curriculum_level" }

func (l *CurriculumLevel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l *CurriculumLevel) GetID() uuid.UUID          { return l.ID }
func (l *CurriculumLevel) Kind() string              { return KindCurriculumLevel }
func (l *CurriculumLevel) GetCreatedAt() time.Time   { return l.CreatedAt }
func (l *CurriculumLevel) GetSourceLanguage() string { return l.SourceLanguage }

func (l *CurriculumLevel) SourceFields() (translation.Fields, error) {
	items, err := translation.ItemsFromObjects(l.Objectives, "text")
	if err != nil {
		return translation.Fields{}, err
	}
	return translation.Fields{
		Scalars: map[string]string{
			"title":       l.Title,
			"description": l.Description,
		},
		Items: items,
	}, nil
}
