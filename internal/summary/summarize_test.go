package summary

import (
	"math"
	"testing"
	"time"

	"github.com/blackwell-systems/autoscout/internal/correlate"
)

var refNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func rec(category string, final float64, p correlate.Priority, roi correlate.ROI) correlate.Record {
	return correlate.Record{CandidateCategory: category, FinalScore: final, Priority: p, ROI: roi}
}

func sampleRecords() []correlate.Record {
	return []correlate.Record{
		rec("Trello_Automation", 0.9, correlate.PriorityCritical, correlate.ROIVeryHigh),
		rec("Data_Processing", 0.7, correlate.PriorityHigh, correlate.ROIHigh),
		rec("Trello_Automation", 0.5, correlate.PriorityMedium, correlate.ROIMedium),
		rec("Data_Processing", 0.4, correlate.PriorityLow, correlate.ROILow),
		rec("AI_Integration", 0.35, correlate.PriorityHigh, correlate.ROILow),
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, Options{Items: 3, Candidates: 2, Now: refNow})

	if s.TotalCorrelations != 0 || s.HighPriorityCount != 0 || s.AverageScore != 0 {
		t.Errorf("expected zero counts, got total=%d high=%d avg=%v",
			s.TotalCorrelations, s.HighPriorityCount, s.AverageScore)
	}
	if len(s.Recommendations) != 0 {
		t.Errorf("expected no recommendations, got %v", s.Recommendations)
	}
	if len(s.Top) != 0 || len(s.Categories) != 0 {
		t.Errorf("expected empty top and categories")
	}
	if s.ItemsAnalyzed != 3 || s.CandidatesAnalyzed != 2 {
		t.Errorf("analyzed counts = %d/%d, want 3/2", s.ItemsAnalyzed, s.CandidatesAnalyzed)
	}
	if !s.GeneratedAt.Equal(refNow) {
		t.Errorf("GeneratedAt = %v, want %v", s.GeneratedAt, refNow)
	}
}

func TestSummarize_Counts(t *testing.T) {
	s := Summarize(sampleRecords(), Options{TopN: 2, Now: refNow, Skipped: Skipped{WorkItems: 1}})

	if s.TotalCorrelations != 5 {
		t.Errorf("TotalCorrelations = %d, want 5", s.TotalCorrelations)
	}
	if s.HighPriorityCount != 3 {
		t.Errorf("HighPriorityCount = %d, want 3", s.HighPriorityCount)
	}
	if !approxEqual(s.AverageScore, (0.9+0.7+0.5+0.4+0.35)/5) {
		t.Errorf("AverageScore = %v", s.AverageScore)
	}
	if len(s.Top) != 2 || s.Top[0].FinalScore != 0.9 || s.Top[1].FinalScore != 0.7 {
		t.Errorf("Top = %+v, want the first two records", s.Top)
	}
	if s.Skipped.Total() != 1 {
		t.Errorf("Skipped.Total() = %d, want 1", s.Skipped.Total())
	}

	trello := s.Categories["Trello_Automation"]
	if trello.Count != 2 || !approxEqual(trello.TotalScore, 1.4) || !approxEqual(trello.AverageScore, 0.7) {
		t.Errorf("Trello_Automation stats = %+v", trello)
	}
	if s.ROIDistribution[correlate.ROILow] != 2 || s.ROIDistribution[correlate.ROIVeryHigh] != 1 {
		t.Errorf("ROIDistribution = %v", s.ROIDistribution)
	}
	if s.PriorityDistribution[correlate.PriorityHigh] != 2 {
		t.Errorf("PriorityDistribution = %v", s.PriorityDistribution)
	}
}

func TestSummarize_TopNDefaultsAndCaps(t *testing.T) {
	s := Summarize(sampleRecords(), Options{Now: refNow})
	if len(s.Top) != DefaultTopN {
		t.Errorf("len(Top) = %d, want %d", len(s.Top), DefaultTopN)
	}
	s = Summarize(sampleRecords()[:2], Options{TopN: 10, Now: refNow})
	if len(s.Top) != 2 {
		t.Errorf("len(Top) = %d, want 2", len(s.Top))
	}
}

func TestSummarize_RecommendationsInRuleOrder(t *testing.T) {
	s := Summarize(sampleRecords(), Options{Now: refNow})

	want := []Recommendation{
		{Rule: "high_priority_focus", Text: "Focus on the 3 high-priority items for maximum impact"},
		{Rule: "top_category", Text: "Category 'Trello_Automation' has the most correlations (2)"},
		{Rule: "high_roi", Text: "2 high-ROI opportunities identified"},
		{Rule: "phased_rollout", Text: "Roll out automations in phases to reduce risk"},
		{Rule: "success_metrics", Text: "Define success metrics before implementation"},
	}
	if len(s.Recommendations) != len(want) {
		t.Fatalf("got %d recommendations, want %d: %v", len(s.Recommendations), len(want), s.Recommendations)
	}
	for i := range want {
		if s.Recommendations[i] != want[i] {
			t.Errorf("recommendation %d = %+v, want %+v", i, s.Recommendations[i], want[i])
		}
	}
}

func TestSummarize_OnlyLowRecords(t *testing.T) {
	records := []correlate.Record{rec("misc", 0.31, correlate.PriorityLow, correlate.ROILow)}
	s := Summarize(records, Options{Now: refNow})

	var rules []string
	for _, r := range s.Recommendations {
		rules = append(rules, r.Rule)
	}
	want := []string{"top_category", "phased_rollout", "success_metrics"}
	if len(rules) != len(want) {
		t.Fatalf("rules = %v, want %v", rules, want)
	}
	for i := range want {
		if rules[i] != want[i] {
			t.Errorf("rules[%d] = %s, want %s", i, rules[i], want[i])
		}
	}
}

func TestSummarize_TopCategoryTieGoesToBestRanked(t *testing.T) {
	records := []correlate.Record{
		rec("zeta", 0.9, correlate.PriorityCritical, correlate.ROIVeryHigh),
		rec("alpha", 0.8, correlate.PriorityHigh, correlate.ROIHigh),
		rec("alpha", 0.7, correlate.PriorityMedium, correlate.ROIMedium),
		rec("zeta", 0.6, correlate.PriorityMedium, correlate.ROIMedium),
	}
	s := Summarize(records, Options{})

	if want := []string{"zeta", "alpha"}; len(s.CategoryOrder) != 2 || s.CategoryOrder[0] != want[0] || s.CategoryOrder[1] != want[1] {
		t.Errorf("CategoryOrder = %v, want %v", s.CategoryOrder, want)
	}
	name, stats, ok := s.TopCategory()
	if !ok || name != "zeta" || stats.Count != 2 {
		t.Errorf("TopCategory() = %q, %+v, %v; want zeta, count 2", name, stats, ok)
	}
	want := Recommendation{Rule: "top_category", Text: "Category 'zeta' has the most correlations (2)"}
	if len(s.Recommendations) < 2 || s.Recommendations[1] != want {
		t.Errorf("recommendations = %+v, want %+v second", s.Recommendations, want)
	}
}

func TestTopCategory_TieBrokenByName(t *testing.T) {
	s := &ExecutiveSummary{Categories: map[string]CategoryStats{
		"zeta":  {Count: 2},
		"alpha": {Count: 2},
		"beta":  {Count: 1},
	}}
	name, stats, ok := s.TopCategory()
	if !ok || name != "alpha" || stats.Count != 2 {
		t.Errorf("TopCategory() = %q, %+v, %v; want alpha, count 2", name, stats, ok)
	}

	ordered := &ExecutiveSummary{Categories: s.Categories, CategoryOrder: []string{"beta", "zeta", "alpha"}}
	if name, _, _ := ordered.TopCategory(); name != "zeta" {
		t.Errorf("TopCategory() with order = %q, want zeta", name)
	}

	empty := &ExecutiveSummary{}
	if _, _, ok := empty.TopCategory(); ok {
		t.Error("expected ok=false for no categories")
	}
}

func TestEngineRun_EmptySummary(t *testing.T) {
	if got := NewEngine().Run(&ExecutiveSummary{}); len(got) != 0 {
		t.Errorf("expected no recommendations, got %v", got)
	}
}
