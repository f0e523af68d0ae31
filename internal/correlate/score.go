package correlate

import (
	"github.com/blackwell-systems/autoscout/internal/candidate"
	"github.com/blackwell-systems/autoscout/internal/config"
	"github.com/blackwell-systems/autoscout/internal/textnorm"
	"github.com/blackwell-systems/autoscout/internal/workitem"
)

// compatibilityWeight is added per compatibility keyword matched for a tag.
const compatibilityWeight = 0.15

// AutomationScore rates how well the candidate's tags fit the work item.
// It is 10% of the item's automation potential plus 0.15 for each
// compatibility keyword of each candidate tag found in the item's text,
// clipped to [0,1]. itemText must be folded.
func AutomationScore(itemText string, potential float64, tags candidate.TagSet, compat map[string][]string) float64 {
	score := 0.1 * potential
	// Sorted so the float sum is the same on every run.
	for _, tag := range tags.Sorted() {
		keywords, ok := compat[string(tag)]
		if !ok {
			continue
		}
		score += compatibilityWeight * float64(textnorm.CountPresent(itemText, keywords))
	}
	return clamp01(score)
}

// BusinessScore averages the item's normalized business value with the
// candidate's simplicity (1 - complexity/20).
func BusinessScore(businessValue, complexity float64) float64 {
	valueFactor := businessValue / workitem.MaxScore
	simplicity := 1.0 - complexity/candidate.MaxComplexity
	return clamp01((valueFactor + simplicity) / 2.0)
}

// FinalScore combines the three sub-scores with the configured weights.
func FinalScore(semantic, automation, business float64, w config.Weights) float64 {
	return semantic*w.Semantic + automation*w.Automation + business*w.Business
}

// WeightedPriority blends the final score with the item's priority and
// business value: 0.5*final + 0.3*(priority/10) + 0.2*(value/10).
func WeightedPriority(finalScore, priorityScore, businessValue float64) float64 {
	return 0.5*finalScore + 0.3*(priorityScore/workitem.MaxScore) + 0.2*(businessValue/workitem.MaxScore)
}

// ClassifyPriority buckets a weighted priority. Lower bounds are exclusive:
// exactly 0.8 is HIGH, not CRITICAL.
func ClassifyPriority(weighted float64) Priority {
	switch {
	case weighted > 0.8:
		return PriorityCritical
	case weighted > 0.6:
		return PriorityHigh
	case weighted > 0.4:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// EstimateROI buckets the mean of the item's business value and automation
// potential. Lower bounds are exclusive.
func EstimateROI(businessValue, automationPotential float64) ROI {
	switch avg := (businessValue + automationPotential) / 2.0; {
	case avg > 8:
		return ROIVeryHigh
	case avg > 6:
		return ROIHigh
	case avg > 4:
		return ROIMedium
	default:
		return ROILow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
