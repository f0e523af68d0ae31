package store

import "fmt"

// metricDirection maps run metrics to whether higher values are better.
var metricDirection = map[string]bool{
	"items":              true,
	"candidates":         true,
	"skipped_records":    false,
	"total_correlations": true,
	"high_priority":      true,
	"avg_score":          true,
}

// runMetrics lists the compared metrics in display order.
var runMetrics = []string{"items", "candidates", "skipped_records", "total_correlations", "high_priority", "avg_score"}

func metricValue(r *Run, name string) float64 {
	switch name {
	case "items":
		return float64(r.Items)
	case "candidates":
		return float64(r.Candidates)
	case "skipped_records":
		return float64(r.SkippedItems + r.SkippedCandidates)
	case "total_correlations":
		return float64(r.TotalCorrelations)
	case "high_priority":
		return float64(r.HighPriority)
	case "avg_score":
		return r.AvgScore
	}
	return 0
}

// HigherIsBetter reports whether an increase in the named run metric is an
// improvement. Unknown metrics count as higher-is-better.
func HigherIsBetter(name string) bool {
	better, known := metricDirection[name]
	return better || !known
}

// ComputeDeltas compares the headline metrics of two runs.
func ComputeDeltas(prev, curr *Run) []RunDelta {
	deltas := make([]RunDelta, 0, len(runMetrics))
	for _, name := range runMetrics {
		prevVal, currVal := metricValue(prev, name), metricValue(curr, name)
		delta := currVal - prevVal

		direction := "unchanged"
		if delta != 0 {
			isPositive := delta > 0
			if isPositive == HigherIsBetter(name) {
				direction = "improved"
			} else {
				direction = "regressed"
			}
		}
		deltas = append(deltas, RunDelta{
			Name:      name,
			Previous:  prevVal,
			Current:   currVal,
			Delta:     delta,
			Direction: direction,
		})
	}
	return deltas
}

// CompareRuns builds the diff between two stored runs, including the
// correlations that appeared or disappeared.
func (db *DB) CompareRuns(prev, curr *Run) (*RunDiff, error) {
	prevRows, err := db.GetCorrelations(prev.ID)
	if err != nil {
		return nil, fmt.Errorf("loading previous correlations: %w", err)
	}
	currRows, err := db.GetCorrelations(curr.ID)
	if err != nil {
		return nil, fmt.Errorf("loading current correlations: %w", err)
	}

	type pair struct{ item, cand string }
	prevSet := make(map[pair]bool, len(prevRows))
	for _, r := range prevRows {
		prevSet[pair{r.WorkItemID, r.CandidateID}] = true
	}
	currSet := make(map[pair]bool, len(currRows))
	for _, r := range currRows {
		currSet[pair{r.WorkItemID, r.CandidateID}] = true
	}

	diff := &RunDiff{Previous: prev, Current: curr, Deltas: ComputeDeltas(prev, curr)}
	for _, r := range currRows {
		if !prevSet[pair{r.WorkItemID, r.CandidateID}] {
			diff.New = append(diff.New, PairChange{WorkItemID: r.WorkItemID, CandidateID: r.CandidateID, Priority: r.Priority})
		}
	}
	for _, r := range prevRows {
		if !currSet[pair{r.WorkItemID, r.CandidateID}] {
			diff.Dropped = append(diff.Dropped, PairChange{WorkItemID: r.WorkItemID, CandidateID: r.CandidateID, Priority: r.Priority})
		}
	}
	return diff, nil
}
