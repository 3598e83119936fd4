package translation

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusSource   = "source"
	StatusComplete = "complete"
	StatusPartial  = "partial"
	StatusFailed   = "failed"
)

// TranslationRecord is the copy of one entity in one language. The
// (entity_id, language_code) pair is unique.
type TranslationRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EntityKind   string         `gorm:"column:entity_kind;not null;index" json:"entity_kind"`
	EntityID     uuid.UUID      `gorm:"type:uuid;column:entity_id;not null;uniqueIndex:idx_translation_record_entity_lang,priority:1" json:"entity_id"`
	LanguageCode string         `gorm:"column:language_code;size:16;not null;uniqueIndex:idx_translation_record_entity_lang,priority:2;index" json:"language_code"`
	Fields       datatypes.JSON `gorm:"column:fields;type:jsonb" json:"fields"`
	Items        datatypes.JSON `gorm:"column:items;type:jsonb" json:"items"`
	Status       string         `gorm:"column:status;not null;default:'';index" json:"status"`
	FailedFields datatypes.JSON `gorm:"column:failed_fields;type:jsonb" json:"failed_fields,omitempty"`
	Provider     string         `gorm:"column:provider" json:"provider,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;index" json:"updated_at"`
}

func (TranslationRecord) TableName() string { return "translation_record" }

func (r *TranslationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Decode returns the stored fields and items.
func (r *TranslationRecord) Decode() (Fields, error) {
	out := Fields{Scalars: map[string]string{}, Items: []Item{}}
	if r == nil {
		return out, nil
	}
	if len(r.Fields) > 0 {
		if err := json.Unmarshal(r.Fields, &out.Scalars); err != nil {
			return out, err
		}
		if out.Scalars == nil {
			out.Scalars = map[string]string{}
		}
	}
	if len(r.Items) > 0 {
		if err := json.Unmarshal(r.Items, &out.Items); err != nil {
			return out, err
		}
		if out.Items == nil {
			out.Items = []Item{}
		}
	}
	return out, nil
}

// Encode stores f on the record.
func (r *TranslationRecord) Encode(f Fields) error {
	scalars := f.Scalars
	if scalars == nil {
		scalars = map[string]string{}
	}
	items := f.Items
	if items == nil {
		items = []Item{}
	}
	fb, err := json.Marshal(scalars)
	if err != nil {
		return err
	}
	ib, err := json.Marshal(items)
	if err != nil {
		return err
	}
	r.Fields = datatypes.JSON(fb)
	r.Items = datatypes.JSON(ib)
	return nil
}

func (r *TranslationRecord) SetFailedFields(names []string) {
	if len(names) == 0 {
		r.FailedFields = datatypes.JSON([]byte("[]"))
		return
	}
	b, _ := json.Marshal(names)
	r.FailedFields = datatypes.JSON(b)
}
