// Package summary reduces the ranked correlation records of a run to an
// executive summary with category statistics and rule-based recommendations.
package summary

import (
	"time"

	"github.com/blackwell-systems/autoscout/internal/correlate"
)

// DefaultTopN is the number of top records kept when Options.TopN is unset.
const DefaultTopN = 5

// Skipped counts input records dropped during ingestion.
type Skipped struct {
	WorkItems  int `json:"work_items" yaml:"work_items"`
	Candidates int `json:"candidates" yaml:"candidates"`
}

// Total returns the number of skipped records of both kinds.
func (s Skipped) Total() int {
	return s.WorkItems + s.Candidates
}

// CategoryStats aggregates the records of one candidate category.
type CategoryStats struct {
	Count        int     `json:"count" yaml:"count"`
	AverageScore float64 `json:"average_score" yaml:"average_score"`
	TotalScore   float64 `json:"total_score" yaml:"total_score"`
}

// Recommendation is one strategic recommendation. Rule names the rule that
// produced it.
type Recommendation struct {
	Rule string `json:"rule" yaml:"rule"`
	Text string `json:"text" yaml:"text"`
}

// ExecutiveSummary is the aggregate view of one run.
type ExecutiveSummary struct {
	GeneratedAt          time.Time                  `json:"generated_at" yaml:"generated_at"`
	ItemsAnalyzed        int                        `json:"items_analyzed" yaml:"items_analyzed"`
	CandidatesAnalyzed   int                        `json:"candidates_analyzed" yaml:"candidates_analyzed"`
	Skipped              Skipped                    `json:"skipped" yaml:"skipped"`
	TotalCorrelations    int                        `json:"total_correlations" yaml:"total_correlations"`
	HighPriorityCount    int                        `json:"high_priority_count" yaml:"high_priority_count"`
	AverageScore         float64                    `json:"average_score" yaml:"average_score"`
	Top                  []correlate.Record         `json:"top_opportunities" yaml:"top_opportunities"`
	Categories           map[string]CategoryStats   `json:"categories" yaml:"categories"`
	CategoryOrder        []string                   `json:"category_order,omitempty" yaml:"category_order,omitempty"` // first appearance in ranked order
	ROIDistribution      map[correlate.ROI]int      `json:"roi_distribution" yaml:"roi_distribution"`
	PriorityDistribution map[correlate.Priority]int `json:"priority_distribution" yaml:"priority_distribution"`
	Recommendations      []Recommendation           `json:"recommendations" yaml:"recommendations"`
}

// HighROICount returns the number of records in the VERY_HIGH and HIGH bands.
func (s *ExecutiveSummary) HighROICount() int {
	return s.ROIDistribution[correlate.ROIVeryHigh] + s.ROIDistribution[correlate.ROIHigh]
}

// TopCategory returns the category with the most records. Ties go to the
// category that appears first in ranked order, which is the category of the
// best-ranked record among the tied ones. Without CategoryOrder, ties go to
// the name that sorts first. ok is false when there are no categories.
func (s *ExecutiveSummary) TopCategory() (name string, stats CategoryStats, ok bool) {
	if len(s.CategoryOrder) > 0 {
		for _, cat := range s.CategoryOrder {
			st, found := s.Categories[cat]
			if found && (!ok || st.Count > stats.Count) {
				name, stats, ok = cat, st, true
			}
		}
		return name, stats, ok
	}
	for cat, st := range s.Categories {
		if !ok || st.Count > stats.Count || (st.Count == stats.Count && cat < name) {
			name, stats, ok = cat, st, true
		}
	}
	return name, stats, ok
}

// Options carries the run-level counts that the records alone do not hold.
type Options struct {
	TopN       int
	Items      int
	Candidates int
	Skipped    Skipped
	Now        time.Time
}

// Rule examines a summary and produces zero or more recommendations.
type Rule func(s *ExecutiveSummary) []Recommendation
