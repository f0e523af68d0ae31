package watcher

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/autoscout/internal/correlate"
	"github.com/blackwell-systems/autoscout/internal/pipeline"
)

// Alert levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Alert represents a notable change between two runs.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// key identifies an alert for deduplication.
func (a Alert) key() string {
	return a.Level + ":" + a.Title + ":" + a.Message
}

// pairKey identifies a (work item, candidate) pairing across runs.
type pairKey struct {
	item, candidate string
}

// State captures what the watcher compares between runs.
type State struct {
	Timestamp    time.Time
	Total        int
	HighPriority int
	Skipped      int

	pairs  map[pairKey]correlate.Priority
	titles map[pairKey]string
	order  []pairKey // rank order of the current run
}

// StateFrom reduces a pipeline result to a comparable State.
func StateFrom(res *pipeline.Result, at time.Time) *State {
	s := &State{
		Timestamp:    at,
		Total:        len(res.Records),
		HighPriority: res.Summary.HighPriorityCount,
		Skipped:      res.Summary.Skipped.Total(),
		pairs:        make(map[pairKey]correlate.Priority, len(res.Records)),
		titles:       make(map[pairKey]string, len(res.Records)),
	}
	for _, r := range res.Records {
		k := pairKey{r.WorkItemID, r.CandidateID}
		s.pairs[k] = r.Priority
		s.titles[k] = r.WorkItemTitle
		s.order = append(s.order, k)
	}
	return s
}

// Compare detects notable changes between two states and returns alerts,
// critical first.
func Compare(prev, curr *State) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

// compareCritical reports CRITICAL pairings that were not CRITICAL before.
func compareCritical(prev, curr *State) []Alert {
	var alerts []Alert
	for _, k := range curr.order {
		if curr.pairs[k] != correlate.PriorityCritical {
			continue
		}
		before, existed := prev.pairs[k]
		if existed && before == correlate.PriorityCritical {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Title:   fmt.Sprintf("New critical opportunity: %s", curr.titles[k]),
			Message: fmt.Sprintf("%s pairs with %s", k.item, k.candidate),
			Time:    curr.Timestamp,
		})
	}
	return alerts
}

// compareWarning reports priority escalations below CRITICAL and new skips.
func compareWarning(prev, curr *State) []Alert {
	var alerts []Alert
	for _, k := range curr.order {
		now := curr.pairs[k]
		before, existed := prev.pairs[k]
		if !existed || now == correlate.PriorityCritical || now.Rank() >= before.Rank() {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   fmt.Sprintf("Priority escalated: %s", curr.titles[k]),
			Message: fmt.Sprintf("%s with %s went from %s to %s", k.item, k.candidate, before, now),
			Time:    curr.Timestamp,
		})
	}

	if curr.Skipped > 0 && curr.Skipped != prev.Skipped {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "Malformed input records",
			Message: fmt.Sprintf("%d record(s) skipped (was %d)", curr.Skipped, prev.Skipped),
			Time:    curr.Timestamp,
		})
	}
	return alerts
}

// compareInfo reports changes in the number of correlations.
func compareInfo(prev, curr *State) []Alert {
	if curr.Total == prev.Total {
		return nil
	}
	return []Alert{{
		Level:   LevelInfo,
		Title:   "Correlation count changed",
		Message: fmt.Sprintf("%d → %d correlations (%d high priority)", prev.Total, curr.Total, curr.HighPriority),
		Time:    curr.Timestamp,
	}}
}
