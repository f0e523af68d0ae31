package summary

import "fmt"

// HighPriorityFocus points at the CRITICAL and HIGH records.
func HighPriorityFocus(s *ExecutiveSummary) []Recommendation {
	if s.HighPriorityCount == 0 {
		return nil
	}
	return []Recommendation{{
		Rule: "high_priority_focus",
		Text: fmt.Sprintf("Focus on the %d high-priority items for maximum impact", s.HighPriorityCount),
	}}
}

// TopCategory names the category with the most correlations.
func TopCategory(s *ExecutiveSummary) []Recommendation {
	name, stats, ok := s.TopCategory()
	if !ok {
		return nil
	}
	return []Recommendation{{
		Rule: "top_category",
		Text: fmt.Sprintf("Category '%s' has the most correlations (%d)", name, stats.Count),
	}}
}

// HighROI counts the VERY_HIGH and HIGH return bands together.
func HighROI(s *ExecutiveSummary) []Recommendation {
	n := s.HighROICount()
	if n == 0 {
		return nil
	}
	return []Recommendation{{
		Rule: "high_roi",
		Text: fmt.Sprintf("%d high-ROI opportunities identified", n),
	}}
}

// PhasedRollout is emitted for any non-empty run.
func PhasedRollout(s *ExecutiveSummary) []Recommendation {
	if s.TotalCorrelations == 0 {
		return nil
	}
	return []Recommendation{{
		Rule: "phased_rollout",
		Text: "Roll out automations in phases to reduce risk",
	}}
}

// SuccessMetrics is emitted for any non-empty run.
func SuccessMetrics(s *ExecutiveSummary) []Recommendation {
	if s.TotalCorrelations == 0 {
		return nil
	}
	return []Recommendation{{
		Rule: "success_metrics",
		Text: "Define success metrics before implementation",
	}}
}
