package translation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// ErrMalformedRecord marks a structured field whose shape cannot be translated.
var ErrMalformedRecord = errors.New("malformed record")

// Item is one entry of an entity's structured field: translatable text plus
// attributes that are copied through untouched.
type Item struct {
	Text       string         `json:"text"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Fields is the translatable content of one entity in one language.
type Fields struct {
	Scalars map[string]string `json:"fields"`
	Items   []Item            `json:"items"`
}

func (f Fields) Clone() Fields {
	out := Fields{Scalars: make(map[string]string, len(f.Scalars))}
	for k, v := range f.Scalars {
		out.Scalars[k] = v
	}
	if f.Items != nil {
		out.Items = make([]Item, len(f.Items))
		for i, it := range f.Items {
			out.Items[i] = Item{Text: it.Text, Attributes: cloneAttrs(it.Attributes)}
		}
	}
	return out
}

func cloneAttrs(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ItemsFromObjects converts a JSON array of flat objects (as stored on content
// rows) into items: textKey becomes Text, every other key an attribute.
func ItemsFromObjects(raw datatypes.JSON, textKey string) ([]Item, error) {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "null" {
		return []Item{}, nil
	}
	var objs []map[string]any
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, fmt.Errorf("%w: structured field is not a list of objects: %v", ErrMalformedRecord, err)
	}
	out := make([]Item, 0, len(objs))
	for i, obj := range objs {
		if obj == nil {
			return nil, fmt.Errorf("%w: item %d is null", ErrMalformedRecord, i)
		}
		text, ok := obj[textKey].(string)
		if !ok {
			return nil, fmt.Errorf("%w: item %d has no %q text", ErrMalformedRecord, i, textKey)
		}
		attrs := make(map[string]any, len(obj)-1)
		for k, v := range obj {
			if k != textKey {
				attrs[k] = v
			}
		}
		if len(attrs) == 0 {
			attrs = nil
		}
		out = append(out, Item{Text: text, Attributes: attrs})
	}
	return out, nil
}

// ItemsToObjects is the inverse of ItemsFromObjects.
func ItemsToObjects(items []Item, textKey string) (datatypes.JSON, error) {
	objs := make([]map[string]any, 0, len(items))
	for _, it := range items {
		obj := make(map[string]any, len(it.Attributes)+1)
		for k, v := range it.Attributes {
			obj[k] = v
		}
		obj[textKey] = it.Text
		objs = append(objs, obj)
	}
	b, err := json.Marshal(objs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
