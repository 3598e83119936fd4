package translation

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/literacy-backend/internal/platform/envutil"
)

const DefaultSourceLanguage = "FR"

// DefaultTargetLanguages is the set every entity is kept translated into.
var DefaultTargetLanguages = []string{
	"BG", "CS", "DA", "DE", "EL", "EN", "ES", "ET", "FI", "GA", "HR", "HU", "IT",
	"LT", "LV", "MT", "NL", "NO", "PL", "PT", "RO", "SK", "SL", "SV", "UK",
}

var ErrInvalidLanguageSet = errors.New("invalid language set")

// LanguageSet is built once at startup and shared by every component.
type LanguageSet struct {
	Source  string   `yaml:"source" json:"source"`
	Targets []string `yaml:"targets" json:"targets"`
}

func DefaultLanguageSet() LanguageSet {
	targets := make([]string, len(DefaultTargetLanguages))
	copy(targets, DefaultTargetLanguages)
	return LanguageSet{Source: DefaultSourceLanguage, Targets: targets}
}

// NewLanguageSet normalizes codes to upper case and validates the result.
func NewLanguageSet(source string, targets []string) (LanguageSet, error) {
	set := LanguageSet{Source: normalizeCode(source)}
	for _, t := range targets {
		set.Targets = append(set.Targets, normalizeCode(t))
	}
	if err := set.Validate(); err != nil {
		return LanguageSet{}, err
	}
	return set, nil
}

// LoadLanguageSet reads TRANSLATION_LANGUAGES_FILE (YAML) when set, then
// applies TRANSLATION_SOURCE_LANGUAGE / TRANSLATION_TARGET_LANGUAGES on top of
// the defaults.
func LoadLanguageSet() (LanguageSet, error) {
	set := DefaultLanguageSet()
	if path := envutil.String("TRANSLATION_LANGUAGES_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return LanguageSet{}, fmt.Errorf("read languages file: %w", err)
		}
		var fromFile LanguageSet
		if err := yaml.Unmarshal(raw, &fromFile); err != nil {
			return LanguageSet{}, fmt.Errorf("parse languages file: %w", err)
		}
		if fromFile.Source != "" {
			set.Source = fromFile.Source
		}
		if len(fromFile.Targets) > 0 {
			set.Targets = fromFile.Targets
		}
	}
	if src := envutil.String("TRANSLATION_SOURCE_LANGUAGE", ""); src != "" {
		set.Source = src
	}
	if targets := envutil.List("TRANSLATION_TARGET_LANGUAGES"); len(targets) > 0 {
		set.Targets = targets
	}
	return NewLanguageSet(set.Source, set.Targets)
}

func (s LanguageSet) Validate() error {
	if s.Source == "" {
		return fmt.Errorf("%w: empty source language", ErrInvalidLanguageSet)
	}
	if len(s.Targets) == 0 {
		return fmt.Errorf("%w: no target languages", ErrInvalidLanguageSet)
	}
	seen := make(map[string]bool, len(s.Targets))
	for _, t := range s.Targets {
		switch {
		case t == "":
			return fmt.Errorf("%w: empty target language", ErrInvalidLanguageSet)
		case t != normalizeCode(t):
			return fmt.Errorf("%w: %q is not normalized", ErrInvalidLanguageSet, t)
		case t == s.Source:
			return fmt.Errorf("%w: source %s listed as target", ErrInvalidLanguageSet, t)
		case seen[t]:
			return fmt.Errorf("%w: duplicate target %s", ErrInvalidLanguageSet, t)
		}
		seen[t] = true
	}
	return nil
}

func (s LanguageSet) IsTarget(code string) bool {
	code = normalizeCode(code)
	for _, t := range s.Targets {
		if t == code {
			return true
		}
	}
	return false
}

// Resolve narrows the targets to subset, keeping target order. An empty subset
// means every target.
func (s LanguageSet) Resolve(subset []string) ([]string, error) {
	if len(subset) == 0 {
		out := make([]string, len(s.Targets))
		copy(out, s.Targets)
		return out, nil
	}
	want := make(map[string]bool, len(subset))
	for _, code := range subset {
		code = normalizeCode(code)
		if code == "" {
			continue
		}
		if !s.IsTarget(code) {
			return nil, fmt.Errorf("%w: %q is not a target language", ErrInvalidLanguageSet, code)
		}
		want[code] = true
	}
	out := make([]string, 0, len(want))
	for _, t := range s.Targets {
		if want[t] {
			out = append(out, t)
		}
	}
	return out, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
