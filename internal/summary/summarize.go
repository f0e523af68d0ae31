package summary

import (
	"time"

	"github.com/blackwell-systems/autoscout/internal/correlate"
)

// Summarize aggregates ranked records into an ExecutiveSummary and runs the
// built-in rules against it. records must already be in rank order; the
// first TopN become Top. An empty slice yields zero counts and no
// recommendations.
func Summarize(records []correlate.Record, opts Options) ExecutiveSummary {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	s := ExecutiveSummary{
		GeneratedAt:          now.UTC(),
		ItemsAnalyzed:        opts.Items,
		CandidatesAnalyzed:   opts.Candidates,
		Skipped:              opts.Skipped,
		TotalCorrelations:    len(records),
		Top:                  []correlate.Record{},
		Categories:           map[string]CategoryStats{},
		ROIDistribution:      map[correlate.ROI]int{},
		PriorityDistribution: map[correlate.Priority]int{},
		Recommendations:      []Recommendation{},
	}

	var total float64
	for _, r := range records {
		total += r.FinalScore
		if r.IsHighPriority() {
			s.HighPriorityCount++
		}
		s.ROIDistribution[r.ROI]++
		s.PriorityDistribution[r.Priority]++

		st, seen := s.Categories[r.CandidateCategory]
		if !seen {
			s.CategoryOrder = append(s.CategoryOrder, r.CandidateCategory)
		}
		st.Count++
		st.TotalScore += r.FinalScore
		s.Categories[r.CandidateCategory] = st
	}
	for cat, st := range s.Categories {
		st.AverageScore = st.TotalScore / float64(st.Count)
		s.Categories[cat] = st
	}
	if len(records) > 0 {
		s.AverageScore = total / float64(len(records))
	}
	if topN > len(records) {
		topN = len(records)
	}
	s.Top = append(s.Top, records[:topN]...)

	s.Recommendations = append(s.Recommendations, NewEngine().Run(&s)...)
	return s
}
