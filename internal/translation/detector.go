package translation

import (
	"strings"

	types "github.com/yungbote/literacy-backend/internal/domain"
)

// Detector decides whether one (entity, language) pair still needs work.
type Detector struct {
	Languages     LanguageSet
	// TrustComplete makes a complete status final even when the stored text
	// still equals the source. Off by default: a provider that echoes its
	// input must not close the gap.
	TrustComplete bool
}

// IsGap is a pure predicate over the entity's source fields and the stored
// record for lang (nil when absent).
//
// A failed status is always a gap, and so is a source copy stored under a
// target code. Every other row is judged by byte equality: the record is a gap
// when every required field with source text still equals the source. With
// TrustComplete set, a complete status skips the equality check.
func (d Detector) IsGap(schema Schema, source types.Fields, rec *types.TranslationRecord, lang string) bool {
	if normalizeCode(lang) == d.Languages.Source {
		return false
	}
	if rec == nil {
		return true
	}
	switch rec.Status {
	case types.TranslationStatusFailed:
		return true
	case types.TranslationStatusComplete:
		if d.TrustComplete {
			return false
		}
	case types.TranslationStatusSource:
		// A source copy under a target code is never a translation.
		return true
	}

	stored, err := rec.Decode()
	if err != nil {
		return true
	}
	compared := 0
	for _, field := range schema.Required {
		src := source.Scalars[field]
		if strings.TrimSpace(src) == "" {
			continue
		}
		compared++
		if stored.Scalars[field] != src {
			return false
		}
	}
	return compared > 0
}

// Coverage is the state of one entity across the requested languages.
type Coverage struct {
	Kind     string   `json:"kind"`
	EntityID string   `json:"entity_id"`
	Covered  []string `json:"covered"`
	Gaps     []string `json:"gaps"`
}

// EntityCoverage splits languages into covered and gap lists, in the given
// order. records may hold any languages; unknown ones are ignored.
func (d Detector) EntityCoverage(entity types.ContentEntity, source types.Fields, records []*types.TranslationRecord, languages []string) Coverage {
	cov := Coverage{
		Kind:     entity.Kind(),
		EntityID: entity.GetID().String(),
		Covered:  []string{},
		Gaps:     []string{},
	}
	schema, _ := SchemaFor(entity.Kind())
	byLang := make(map[string]*types.TranslationRecord, len(records))
	for _, rec := range records {
		if rec != nil && rec.EntityID == entity.GetID() {
			byLang[rec.LanguageCode] = rec
		}
	}
	for _, lang := range languages {
		if d.IsGap(schema, source, byLang[lang], lang) {
			cov.Gaps = append(cov.Gaps, lang)
		} else {
			cov.Covered = append(cov.Covered, lang)
		}
	}
	return cov
}
