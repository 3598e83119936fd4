package translator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// dialect builds one provider request and extracts the translated text.
type dialect interface {
	path() string
	headers(apiKey string) http.Header
	body(cfg Config, text, source, target string) any
	parse(raw []byte) (string, error)
}

var errEmptyTranslation = errors.New("provider returned no translation")

func dialectFor(name string) (dialect, error) {
	switch name {
	case DialectDeepL:
		return deeplDialect{}, nil
	case DialectLibreTranslate:
		return libreDialect{}, nil
	case DialectOpenAI:
		return openAIDialect{}, nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q", name)
	}
}

type deeplDialect struct{}

func (deeplDialect) path() string { return "/v2/translate" }

func (deeplDialect) headers(apiKey string) http.Header {
	h := http.Header{}
	if apiKey != "" {
		h.Set("Authorization", "DeepL-Auth-Key "+apiKey)
	}
	return h
}

// DeepL wants regional variants for a few targets.
var deeplTargets = map[string]string{
	"EN": "EN-GB",
	"PT": "PT-PT",
	"NO": "NB",
}

func (deeplDialect) body(_ Config, text, source, target string) any {
	tgt := strings.ToUpper(target)
	if v, ok := deeplTargets[tgt]; ok {
		tgt = v
	}
	return map[string]any{
		"text":        []string{text},
		"source_lang": strings.ToUpper(source),
		"target_lang": tgt,
	}
}

func (deeplDialect) parse(raw []byte) (string, error) {
	var out struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode deepl response: %w", err)
	}
	if len(out.Translations) == 0 || strings.TrimSpace(out.Translations[0].Text) == "" {
		return "", errEmptyTranslation
	}
	return out.Translations[0].Text, nil
}

type libreDialect struct{}

func (libreDialect) path() string { return "/translate" }

func (libreDialect) headers(string) http.Header { return http.Header{} }

func (libreDialect) body(cfg Config, text, source, target string) any {
	tgt := strings.ToLower(target)
	if tgt == "no" {
		tgt = "nb"
	}
	payload := map[string]any{
		"q":      text,
		"source": strings.ToLower(source),
		"target": tgt,
		"format": "text",
	}
	if cfg.APIKey != "" {
		payload["api_key"] = cfg.APIKey
	}
	return payload
}

func (libreDialect) parse(raw []byte) (string, error) {
	var out struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode libretranslate response: %w", err)
	}
	if strings.TrimSpace(out.TranslatedText) == "" {
		return "", errEmptyTranslation
	}
	return out.TranslatedText, nil
}

type openAIDialect struct{}

func (openAIDialect) path() string { return "/v1/chat/completions" }

func (openAIDialect) headers(apiKey string) http.Header {
	h := http.Header{}
	if apiKey != "" {
		h.Set("Authorization", "Bearer "+apiKey)
	}
	return h
}

func (openAIDialect) body(cfg Config, text, source, target string) any {
	system := fmt.Sprintf(
		"You translate training content from %s to %s. Reply with the translation only. Keep markup, placeholders and line breaks unchanged.",
		strings.ToUpper(source), strings.ToUpper(target),
	)
	return map[string]any{
		"model":       cfg.Model,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": text},
		},
	}
}

func (openAIDialect) parse(raw []byte) (string, error) {
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errEmptyTranslation
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", errEmptyTranslation
	}
	return text, nil
}
