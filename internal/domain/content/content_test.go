package content

import (
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/yungbote/literacy-backend/internal/domain/translation"
)

func TestSourceFields(t *testing.T) {
	q := &QuizQuestion{
		Question: "Q?",
		Answers:  datatypes.JSON([]byte(`[{"text":"A","correct":true},{"text":"B","correct":false}]`)),
	}
	f, err := q.SourceFields()
	if err != nil {
		t.Fatalf("SourceFields: %v", err)
	}
	if f.Scalars["question"] != "Q?" || len(f.Items) != 2 {
		t.Fatalf("unexpected fields: %+v", f)
	}

	m := &TrainingModule{Title: "T", Sections: datatypes.JSON([]byte(`{"text":"oops"}`))}
	if _, err := m.SourceFields(); !errors.Is(err, translation.ErrMalformedRecord) {
		t.Fatalf("expected malformed record, got %v", err)
	}
}

func TestIsKind(t *testing.T) {
	for _, k := range Kinds {
		if !IsKind(k) {
			t.Fatalf("IsKind(%q) = false", k)
		}
	}
	if IsKind("forum_post") {
		t.Fatalf("forum_post is not translatable")
	}
}
