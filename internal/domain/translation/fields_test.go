package translation

import (
	"errors"
	"testing"

	"gorm.io/datatypes"
)

func TestItemsFromObjects(t *testing.T) {
	raw := datatypes.JSON([]byte(`[{"text":"A","correct":true},{"text":"B","correct":false}]`))
	items, err := ItemsFromObjects(raw, "text")
	if err != nil {
		t.Fatalf("ItemsFromObjects: %v", err)
	}
	if len(items) != 2 || items[0].Text != "A" || items[1].Text != "B" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].Attributes["correct"] != true || items[1].Attributes["correct"] != false {
		t.Fatalf("attributes not preserved: %+v", items)
	}

	back, err := ItemsToObjects(items, "text")
	if err != nil {
		t.Fatalf("ItemsToObjects: %v", err)
	}
	again, err := ItemsFromObjects(back, "text")
	if err != nil || len(again) != 2 || again[1].Attributes["correct"] != false {
		t.Fatalf("ItemsToObjects did not invert: %v %+v", err, again)
	}
}

func TestItemsFromObjectsMalformed(t *testing.T) {
	for _, raw := range []string{`{"text":"A"}`, `[{"label":"A"}]`, `[null]`, `[{"text":3}]`} {
		if _, err := ItemsFromObjects(datatypes.JSON([]byte(raw)), "text"); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("%s: expected ErrMalformedRecord got %v", raw, err)
		}
	}
	items, err := ItemsFromObjects(nil, "text")
	if err != nil || len(items) != 0 {
		t.Fatalf("empty: expected no items got %v %v", items, err)
	}
}

func TestRecordEncodeDecode(t *testing.T) {
	rec := &TranslationRecord{}
	src := Fields{
		Scalars: map[string]string{"question": "Q?"},
		Items:   []Item{{Text: "A", Attributes: map[string]any{"correct": true}}},
	}
	if err := rec.Encode(src); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := rec.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Scalars["question"] != "Q?" || len(got.Items) != 1 || got.Items[0].Attributes["correct"] != true {
		t.Fatalf("unexpected decode: %+v", got)
	}
}
