// Package ingest loads work items and automation candidates from disk.
//
// Work items come from a Trello board export or a flat JSON array. Candidates
// come from a directory of code snippets or a flat JSON array. A record that
// is not an object or lacks its identity field is skipped and reported; a
// malformed optional field falls back to its default. Neither aborts the load.
package ingest

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Record-level validation failures.
var (
	ErrMissingID       = errors.New("missing id")
	ErrMissingFilename = errors.New("missing filename")
	ErrUnknownFormat   = errors.New("unrecognized input format")
)

// IngestionError describes one record that could not be loaded.
type IngestionError struct {
	Source string // file the record came from
	Index  int    // position in the input collection, -1 when not applicable
	ID     string // record identifier when known
	Err    error
}

func (e *IngestionError) Error() string {
	switch {
	case e.ID != "":
		return fmt.Sprintf("%s: record %d (%s): %v", e.Source, e.Index, e.ID, e.Err)
	case e.Index >= 0:
		return fmt.Sprintf("%s: record %d: %v", e.Source, e.Index, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Report summarizes one load.
type Report struct {
	Source    string           `json:"source" yaml:"source"`
	Format    string           `json:"format" yaml:"format"`
	Total     int              `json:"total" yaml:"total"`
	Loaded    int              `json:"loaded" yaml:"loaded"`
	Filtered  int              `json:"filtered" yaml:"filtered"`   // intentionally excluded, e.g. closed cards
	Defaulted int              `json:"defaulted" yaml:"defaulted"` // malformed optional fields replaced by defaults
	Errors    []IngestionError `json:"-" yaml:"-"`
}

// Skipped returns the number of malformed records.
func (r *Report) Skipped() int {
	return len(r.Errors)
}

// AllFailed reports whether records were present but none could be loaded.
func (r *Report) AllFailed() bool {
	return r.Total > r.Filtered && r.Loaded == 0 && r.Skipped() > 0
}

// skip records a malformed record and logs it.
func (r *Report) skip(logger *zap.Logger, index int, id string, err error) {
	ie := IngestionError{Source: r.Source, Index: index, ID: id, Err: err}
	r.Errors = append(r.Errors, ie)
	logger.Warn("skipping malformed record",
		zap.String("source", r.Source),
		zap.Int("index", index),
		zap.String("id", id),
		zap.Error(err),
	)
}
