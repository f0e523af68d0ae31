// Package report serializes analysis results and renders the markdown
// implementation guide.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/autoscout/internal/candidate"
	"github.com/blackwell-systems/autoscout/internal/correlate"
	"github.com/blackwell-systems/autoscout/internal/pipeline"
	"github.com/blackwell-systems/autoscout/internal/summary"
	"github.com/blackwell-systems/autoscout/internal/workitem"
)

// Formats accepted by Write.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Document is the complete serializable result of a run.
type Document struct {
	Summary      summary.ExecutiveSummary `json:"executive_summary" yaml:"executive_summary"`
	Correlations []correlate.Record       `json:"correlations" yaml:"correlations"`
	WorkItems    []workitem.WorkItem      `json:"work_items,omitempty" yaml:"work_items,omitempty"`
	Candidates   []candidate.Candidate    `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// FromResult builds a Document. With full unset the analyzed inputs are
// left out.
func FromResult(res *pipeline.Result, full bool) Document {
	doc := Document{
		Summary:      res.Summary,
		Correlations: res.Records,
	}
	if doc.Correlations == nil {
		doc.Correlations = []correlate.Record{}
	}
	if full {
		doc.WorkItems = res.WorkItems
		doc.Candidates = res.Candidates
	}
	return doc
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteYAML writes doc as YAML.
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// Write encodes doc in the named format.
func Write(w io.Writer, format string, doc Document) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatYAML, "yml":
		return WriteYAML(w, doc)
	default:
		return fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
}
