package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/blackwell-systems/autoscout/internal/textnorm"
)

// ErrEmptyVocabulary is matched by every ConfigurationError.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

// ConfigurationError reports a missing or empty keyword table. Every score
// depends on these tables, so a run cannot proceed without them.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: vocabulary %q is empty", e.Field)
}

// Is lets errors.Is(err, ErrEmptyVocabulary) match.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrEmptyVocabulary
}

// Vocabulary holds every keyword table used by the analyzers and the
// correlation engine.
//
// TagKeywords derives a candidate's automation tags from its content.
// CompatibilityKeywords scores a tagged candidate against a work item's text.
// The two tables overlap but are maintained separately.
type Vocabulary struct {
	StopWords             []string            `mapstructure:"stop_words" json:"stop_words" yaml:"stop_words"`
	Urgency               []string            `mapstructure:"urgency" json:"urgency" yaml:"urgency"`
	Automation            []string            `mapstructure:"automation" json:"automation" yaml:"automation"`
	Cadence               []string            `mapstructure:"cadence" json:"cadence" yaml:"cadence"`
	HighValue             []string            `mapstructure:"high_value" json:"high_value" yaml:"high_value"`
	Integration           []string            `mapstructure:"integration" json:"integration" yaml:"integration"`
	ImportPrefixes        []string            `mapstructure:"import_prefixes" json:"import_prefixes" yaml:"import_prefixes"`
	DeclarationMarkers    []string            `mapstructure:"declaration_markers" json:"declaration_markers" yaml:"declaration_markers"`
	TagKeywords           map[string][]string `mapstructure:"tag_keywords" json:"tag_keywords" yaml:"tag_keywords"`
	CompatibilityKeywords map[string][]string `mapstructure:"compatibility_keywords" json:"compatibility_keywords" yaml:"compatibility_keywords"`
}

// Validate returns a *ConfigurationError for the first empty table.
// A tag table counts as empty when it has no tags or every tag has no keywords.
func (v *Vocabulary) Validate() error {
	lists := []struct {
		field string
		words []string
	}{
		{"stop_words", v.StopWords},
		{"urgency", v.Urgency},
		{"automation", v.Automation},
		{"cadence", v.Cadence},
		{"high_value", v.HighValue},
		{"integration", v.Integration},
		{"import_prefixes", v.ImportPrefixes},
		{"declaration_markers", v.DeclarationMarkers},
	}
	for _, l := range lists {
		if !hasWord(l.words) {
			return &ConfigurationError{Field: l.field}
		}
	}
	if !hasTable(v.TagKeywords) {
		return &ConfigurationError{Field: "tag_keywords"}
	}
	if !hasTable(v.CompatibilityKeywords) {
		return &ConfigurationError{Field: "compatibility_keywords"}
	}
	return nil
}

// Normalized returns a copy with every keyword folded (NFC, lowercase) and tag
// names uppercased. Prefixes and markers keep their case and spacing because
// they are matched against raw source lines.
func (v Vocabulary) Normalized() Vocabulary {
	return Vocabulary{
		StopWords:             textnorm.FoldAll(v.StopWords),
		Urgency:               textnorm.FoldAll(v.Urgency),
		Automation:            textnorm.FoldAll(v.Automation),
		Cadence:               textnorm.FoldAll(v.Cadence),
		HighValue:             textnorm.FoldAll(v.HighValue),
		Integration:           textnorm.FoldAll(v.Integration),
		ImportPrefixes:        append([]string(nil), v.ImportPrefixes...),
		DeclarationMarkers:    append([]string(nil), v.DeclarationMarkers...),
		TagKeywords:           normalizeTable(v.TagKeywords),
		CompatibilityKeywords: normalizeTable(v.CompatibilityKeywords),
	}
}

// TagNames returns the tag names of the derivation table in sorted order.
func (v *Vocabulary) TagNames() []string {
	names := make([]string, 0, len(v.TagKeywords))
	for name := range v.TagKeywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeTable(table map[string][]string) map[string][]string {
	out := make(map[string][]string, len(table))
	for tag, words := range table {
		key := strings.ToUpper(strings.TrimSpace(tag))
		out[key] = append(out[key], textnorm.FoldAll(words)...)
	}
	return out
}

func hasWord(words []string) bool {
	for _, w := range words {
		if strings.TrimSpace(w) != "" {
			return true
		}
	}
	return false
}

func hasTable(table map[string][]string) bool {
	for _, words := range table {
		if hasWord(words) {
			return true
		}
	}
	return false
}
