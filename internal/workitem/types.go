// Package workitem derives priority, automation potential, and business value
// metrics for task-tracker work items.
package workitem

import "time"

// MaxScore is the upper bound of every work item metric.
const MaxScore = 10.0

// Source is a raw work item record as supplied by a task-tracker export.
type Source struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Labels      []string `json:"labels" yaml:"labels"`
	Due         string   `json:"due,omitempty" yaml:"due,omitempty"`
	Members     []string `json:"members" yaml:"members"`
}

// Metrics holds the derived scores. Each value is in [0, MaxScore].
type Metrics struct {
	PriorityScore       float64 `json:"priority_score" yaml:"priority_score"`
	AutomationPotential float64 `json:"automation_potential" yaml:"automation_potential"`
	BusinessValue       float64 `json:"business_value" yaml:"business_value"`
}

// WorkItem is an analyzed work item. Metrics is nil until Analyze has run.
type WorkItem struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Category    string     `json:"category" yaml:"category"`
	Labels      []string   `json:"labels" yaml:"labels"`
	Due         *time.Time `json:"due,omitempty" yaml:"due,omitempty"`
	DueRaw      string     `json:"due_raw,omitempty" yaml:"due_raw,omitempty"`
	Members     []string   `json:"members" yaml:"members"`
	Metrics     *Metrics   `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// Text returns the title and description joined by a space, the text every
// keyword rule matches against.
func (w WorkItem) Text() string {
	return w.Title + " " + w.Description
}
