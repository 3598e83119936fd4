package translation

import (
	"context"
	"fmt"
	"strings"

	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

// Provider is the remote translation service.
type Provider interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Name() string
}

type FieldResult struct {
	Fields       types.Fields
	FailedFields []string
	Calls        int
	Failures     int
	Status       string
}

// FieldTranslator translates an entity's scalar fields and item texts one
// provider call at a time. A failed call keeps the source text for that field
// and the rest continue.
type FieldTranslator struct {
	log      *logger.Logger
	provider Provider
}

func NewFieldTranslator(log *logger.Logger, provider Provider) *FieldTranslator {
	return &FieldTranslator{
		log:      log.With("component", "FieldTranslator"),
		provider: provider,
	}
}

func (t *FieldTranslator) ProviderName() string {
	if t.provider == nil {
		return ""
	}
	return t.provider.Name()
}

func (t *FieldTranslator) TranslateFields(ctx context.Context, schema Schema, source types.Fields, sourceLang, target string) FieldResult {
	out := source.Clone()
	if out.Items == nil {
		out.Items = []types.Item{}
	}
	res := FieldResult{}

	translate := func(name, text string) string {
		if strings.TrimSpace(text) == "" {
			return text
		}
		res.Calls++
		translated, err := t.provider.Translate(ctx, text, sourceLang, target)
		if err != nil {
			res.Failures++
			res.FailedFields = append(res.FailedFields, name)
			t.log.Warn("field translation failed, keeping source text",
				"kind", schema.Kind,
				"field", name,
				"target", target,
				"error", err,
			)
			return text
		}
		return translated
	}

	for _, field := range schema.Scalars {
		text, ok := source.Scalars[field]
		if !ok {
			continue
		}
		out.Scalars[field] = translate(field, text)
	}
	for i, item := range source.Items {
		out.Items[i].Text = translate(fmt.Sprintf("%s[%d]", schema.ItemsField, i), item.Text)
	}

	res.Fields = out
	res.Status = statusFor(res.Calls, res.Failures)
	return res
}

func statusFor(calls, failures int) string {
	switch {
	case failures == 0:
		return types.TranslationStatusComplete
	case failures == calls:
		return types.TranslationStatusFailed
	default:
		return types.TranslationStatusPartial
	}
}
