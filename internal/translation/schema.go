package translation

import (
	types "github.com/yungbote/literacy-backend/internal/domain"
)

// Schema describes the translatable shape of one content kind.
type Schema struct {
	Kind           string
	Scalars        []string
	Required       []string
	ItemsField     string
	ItemTextKey    string
	ItemAttributes []string
}

var schemas = map[string]Schema{
	types.KindQuizQuestion: {
		Kind:           types.KindQuizQuestion,
		Scalars:        []string{"question", "explanation"},
		Required:       []string{"question"},
		ItemsField:     "answers",
		ItemTextKey:    "text",
		ItemAttributes: []string{"correct"},
	},
	types.KindCurriculumLevel: {
		Kind:           types.KindCurriculumLevel,
		Scalars:        []string{"title", "description"},
		Required:       []string{"title"},
		ItemsField:     "objectives",
		ItemTextKey:    "text",
		ItemAttributes: []string{"position", "points"},
	},
	types.KindTrainingModule: {
		Kind:           types.KindTrainingModule,
		Scalars:        []string{"title", "summary", "body"},
		Required:       []string{"title"},
		ItemsField:     "sections",
		ItemTextKey:    "text",
		ItemAttributes: []string{"kind", "media_url"},
	},
}

func SchemaFor(kind string) (Schema, bool) {
	s, ok := schemas[kind]
	return s, ok
}
