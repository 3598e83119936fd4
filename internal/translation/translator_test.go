package translation

import (
	"context"
	"testing"

	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

func quizSource() types.Fields {
	return types.Fields{
		Scalars: map[string]string{"question": "Quelle IA ?", "explanation": ""},
		Items: []types.Item{
			{Text: "Un LLM", Attributes: map[string]any{"correct": true}},
			{Text: "Un tableur", Attributes: map[string]any{"correct": false}},
		},
	}
}

func TestTranslateFieldsPreservesShape(t *testing.T) {
	p := &stubProvider{failOn: map[string]bool{}}
	tr := NewFieldTranslator(logger.Nop(), p)
	schema, _ := SchemaFor(types.KindQuizQuestion)
	src := quizSource()

	res := tr.TranslateFields(context.Background(), schema, src, "FR", "DE")
	if res.Status != types.TranslationStatusComplete || res.Failures != 0 {
		t.Fatalf("expected complete, got %+v", res)
	}
	// Blank explanation costs no call.
	if res.Calls != 3 || p.Calls() != 3 {
		t.Fatalf("expected 3 calls, got %d/%d", res.Calls, p.Calls())
	}
	if len(res.Fields.Scalars) != 2 || res.Fields.Scalars["explanation"] != "" {
		t.Fatalf("field set changed: %+v", res.Fields.Scalars)
	}
	if len(res.Fields.Items) != 2 {
		t.Fatalf("item count changed: %d", len(res.Fields.Items))
	}
	if res.Fields.Items[0].Text != "[DE] Un LLM" || res.Fields.Items[1].Text != "[DE] Un tableur" {
		t.Fatalf("item order or text wrong: %+v", res.Fields.Items)
	}
	if res.Fields.Items[0].Attributes["correct"] != true || res.Fields.Items[1].Attributes["correct"] != false {
		t.Fatalf("attributes not copied: %+v", res.Fields.Items)
	}
	if src.Items[0].Text != "Un LLM" {
		t.Fatalf("source mutated")
	}
}

type failSecondItem struct{ stubProvider }

func (p *failSecondItem) Translate(ctx context.Context, text, source, target string) (string, error) {
	if text == "Un tableur" {
		return p.stubProvider.Translate(ctx, text, source, "XX")
	}
	return p.stubProvider.Translate(ctx, text, source, target)
}

func TestTranslateFieldsFallback(t *testing.T) {
	p := &failSecondItem{stubProvider{failOn: map[string]bool{"XX": true}}}
	tr := NewFieldTranslator(logger.Nop(), p)
	schema, _ := SchemaFor(types.KindQuizQuestion)

	res := tr.TranslateFields(context.Background(), schema, quizSource(), "FR", "DE")
	if res.Status != types.TranslationStatusPartial {
		t.Fatalf("expected partial, got %s", res.Status)
	}
	if len(res.FailedFields) != 1 || res.FailedFields[0] != "answers[1]" {
		t.Fatalf("unexpected failed fields %v", res.FailedFields)
	}
	if res.Fields.Items[1].Text != "Un tableur" {
		t.Fatalf("failed item must keep source text, got %q", res.Fields.Items[1].Text)
	}
	if res.Fields.Scalars["question"] != "[DE] Quelle IA ?" {
		t.Fatalf("sibling field not translated: %q", res.Fields.Scalars["question"])
	}

	all := &stubProvider{failOn: map[string]bool{"DE": true}}
	res = NewFieldTranslator(logger.Nop(), all).TranslateFields(context.Background(), schema, quizSource(), "FR", "DE")
	if res.Status != types.TranslationStatusFailed || res.Failures != res.Calls {
		t.Fatalf("expected failed, got %+v", res)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		calls, failures int
		want            string
	}{
		{0, 0, types.TranslationStatusComplete},
		{3, 0, types.TranslationStatusComplete},
		{3, 1, types.TranslationStatusPartial},
		{3, 3, types.TranslationStatusFailed},
	}
	for _, tc := range cases {
		if got := statusFor(tc.calls, tc.failures); got != tc.want {
			t.Fatalf("statusFor(%d,%d) = %s, want %s", tc.calls, tc.failures, got, tc.want)
		}
	}
}
