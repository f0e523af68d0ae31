// Package candidate derives complexity, automation tags, and implementation
// effort for automation snippets.
package candidate

import (
	"encoding/json"
	"sort"
)

// MaxComplexity is the upper bound of ComplexityScore.
const MaxComplexity = 20.0

// Effort is the estimated implementation effort of a candidate.
type Effort string

// Effort levels.
const (
	EffortLow    Effort = "LOW"
	EffortMedium Effort = "MEDIUM"
	EffortHigh   Effort = "HIGH"
)

// Tag is an automation capability detected in a candidate's content. Tag
// names come from the vocabulary's tag table (e.g. "API_INTEGRATION").
type Tag string

// TagSet is an unordered, duplicate-free set of tags.
type TagSet map[Tag]struct{}

// NewTagSet builds a set from tags, dropping duplicates.
func NewTagSet(tags ...Tag) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether t is in the set.
func (s TagSet) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the tags in lexical order, for stable serialization.
func (s TagSet) Sorted() []Tag {
	out := make([]Tag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted tags as plain strings.
func (s TagSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, t := range sorted {
		out[i] = string(t)
	}
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes an array of tag names.
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set := make(TagSet, len(names))
	for _, n := range names {
		set[Tag(n)] = struct{}{}
	}
	*s = set
	return nil
}

// MarshalYAML encodes the set as a sorted sequence.
func (s TagSet) MarshalYAML() (any, error) {
	return s.Strings(), nil
}

// Source is a raw snippet record as supplied by a code repository.
type Source struct {
	Filename string `json:"filename" yaml:"filename"`
	Content  string `json:"content" yaml:"content"`
	Category string `json:"category" yaml:"category"`
	Path     string `json:"path" yaml:"path"`
}

// Metrics holds the derived candidate metrics.
type Metrics struct {
	ComplexityScore float64 `json:"complexity_score" yaml:"complexity_score"`
	Tags            TagSet  `json:"automation_tags" yaml:"automation_tags"`
	Effort          Effort  `json:"implementation_effort" yaml:"implementation_effort"`
}

// Candidate is an analyzed automation snippet. Metrics is nil until Analyze
// has run.
type Candidate struct {
	Filename string   `json:"filename" yaml:"filename"`
	Content  string   `json:"-" yaml:"-"`
	Category string   `json:"category" yaml:"category"`
	Path     string   `json:"path" yaml:"path"`
	Metrics  *Metrics `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// ID identifies the candidate. The path is preferred because filenames may
// repeat across directories.
func (c Candidate) ID() string {
	if c.Path != "" {
		return c.Path
	}
	return c.Filename
}

// Text returns the filename and content joined by a space.
func (c Candidate) Text() string {
	return c.Filename + " " + c.Content
}
