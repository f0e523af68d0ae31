// Package store provides SQLite persistence for autoscout run history.
package store

import "time"

// Run is one saved analysis run.
type Run struct {
	ID                int64     `json:"id"`
	RunID             string    `json:"run_id"`
	TakenAt           time.Time `json:"taken_at"`
	Version           string    `json:"version"`
	ItemsSource       string    `json:"items_source"`
	SnippetsSource    string    `json:"snippets_source"`
	Items             int       `json:"items"`
	Candidates        int       `json:"candidates"`
	SkippedItems      int       `json:"skipped_items"`
	SkippedCandidates int       `json:"skipped_candidates"`
	TotalCorrelations int       `json:"total_correlations"`
	HighPriority      int       `json:"high_priority"`
	AvgScore          float64   `json:"avg_score"`
}

// CorrelationRow is a stored correlation record. Rank is 1-based.
type CorrelationRow struct {
	ID               int64   `json:"id"`
	RunID            int64   `json:"run_id"`
	Rank             int     `json:"rank"`
	WorkItemID       string  `json:"work_item_id"`
	WorkItemTitle    string  `json:"work_item_title"`
	CandidateID      string  `json:"candidate_id"`
	Category         string  `json:"category"`
	SemanticScore    float64 `json:"semantic_score"`
	AutomationScore  float64 `json:"automation_score"`
	BusinessScore    float64 `json:"business_score"`
	FinalScore       float64 `json:"final_score"`
	WeightedPriority float64 `json:"weighted_priority"`
	Priority         string  `json:"priority"`
	ROI              string  `json:"roi"`
}

// CategoryRow is a stored per-category statistic.
type CategoryRow struct {
	ID           int64   `json:"id"`
	RunID        int64   `json:"run_id"`
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"average_score"`
	TotalScore   float64 `json:"total_score"`
}

// RunDiff represents the comparison between two runs.
type RunDiff struct {
	Previous *Run         `json:"previous"`
	Current  *Run         `json:"current"`
	Deltas   []RunDelta   `json:"deltas"`
	New      []PairChange `json:"new_pairs"`
	Dropped  []PairChange `json:"dropped_pairs"`
}

// RunDelta represents the change in a single run metric.
type RunDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "improved", "regressed", "unchanged"
}

// PairChange identifies a correlation that appeared or disappeared between
// two runs.
type PairChange struct {
	WorkItemID  string `json:"work_item_id"`
	CandidateID string `json:"candidate_id"`
	Priority    string `json:"priority"`
}
