// Package correlate scores every (work item, automation candidate) pairing,
// keeps the relevant ones, and ranks them.
package correlate

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/autoscout/internal/recommend"
)

// Priority is the implementation priority of a correlation.
type Priority string

// Priority levels, most urgent first.
const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Priorities lists every level from most to least urgent.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns 1 for CRITICAL through 4 for LOW, and 5 for unknown values.
func (p Priority) Rank() int {
	for i, level := range Priorities {
		if p == level {
			return i + 1
		}
	}
	return len(Priorities) + 1
}

// AtLeast reports whether p is as urgent as min or more.
func (p Priority) AtLeast(min Priority) bool {
	return p.Rank() <= min.Rank()
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if p.Rank() > len(Priorities) {
		return "", fmt.Errorf("unknown priority %q (want one of critical, high, medium, low)", s)
	}
	return p, nil
}

// ROI is the estimated return-on-investment band of a correlation.
type ROI string

// ROI bands, highest first.
const (
	ROIVeryHigh ROI = "VERY_HIGH"
	ROIHigh     ROI = "HIGH"
	ROIMedium   ROI = "MEDIUM"
	ROILow      ROI = "LOW"
)

// ROIs lists every band from highest to lowest.
var ROIs = []ROI{ROIVeryHigh, ROIHigh, ROIMedium, ROILow}

// Label returns the human-readable band with its indicative return range.
func (r ROI) Label() string {
	switch r {
	case ROIVeryHigh:
		return "Very high (>500%)"
	case ROIHigh:
		return "High (300-500%)"
	case ROIMedium:
		return "Medium (150-300%)"
	case ROILow:
		return "Low (<150%)"
	default:
		return string(r)
	}
}

// Record is one scored pairing that passed the relevance threshold. Records
// are created by the Engine and never modified afterwards.
type Record struct {
	WorkItemID        string `json:"work_item_id" yaml:"work_item_id"`
	WorkItemTitle     string `json:"work_item_title" yaml:"work_item_title"`
	WorkItemCategory  string `json:"work_item_category" yaml:"work_item_category"`
	CandidateID       string `json:"candidate_id" yaml:"candidate_id"`
	CandidateFilename string `json:"candidate_filename" yaml:"candidate_filename"`
	CandidateCategory string `json:"candidate_category" yaml:"candidate_category"`

	ItemPriorityScore       float64  `json:"item_priority_score" yaml:"item_priority_score"`
	ItemAutomationPotential float64  `json:"item_automation_potential" yaml:"item_automation_potential"`
	ItemBusinessValue       float64  `json:"item_business_value" yaml:"item_business_value"`
	CandidateComplexity     float64  `json:"candidate_complexity" yaml:"candidate_complexity"`
	CandidateEffort         string   `json:"candidate_effort" yaml:"candidate_effort"`
	CandidateTags           []string `json:"candidate_tags" yaml:"candidate_tags"`

	SemanticScore    float64 `json:"semantic_score" yaml:"semantic_score"`
	AutomationScore  float64 `json:"automation_score" yaml:"automation_score"`
	BusinessScore    float64 `json:"business_score" yaml:"business_score"`
	FinalScore       float64 `json:"final_score" yaml:"final_score"`
	WeightedPriority float64 `json:"weighted_priority" yaml:"weighted_priority"`

	Priority            Priority       `json:"implementation_priority" yaml:"implementation_priority"`
	ROI                 ROI            `json:"estimated_roi" yaml:"estimated_roi"`
	Plan                recommend.Plan `json:"plan" yaml:"plan"`
	SuggestedActions    []string       `json:"suggested_actions" yaml:"suggested_actions"`
	ImplementationSteps []string       `json:"implementation_steps" yaml:"implementation_steps"`

	// Index is the pair's position in the enumeration order
	// (item index * candidate count + candidate index).
	Index int `json:"index" yaml:"index"`
}

// IsHighPriority reports whether the record is CRITICAL or HIGH.
func (r Record) IsHighPriority() bool {
	return r.Priority == PriorityCritical || r.Priority == PriorityHigh
}
