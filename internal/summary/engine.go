package summary

// Engine runs its rules against a summary and collects the resulting
// recommendations in rule order.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with all built-in rules registered.
func NewEngine() *Engine {
	return &Engine{
		rules: []Rule{
			HighPriorityFocus,
			TopCategory,
			HighROI,
			PhasedRollout,
			SuccessMetrics,
		},
	}
}

// Run executes every rule in registration order. Order is significant: the
// first recommendation is the most actionable.
func (e *Engine) Run(s *ExecutiveSummary) []Recommendation {
	var all []Recommendation
	for _, rule := range e.rules {
		all = append(all, rule(s)...)
	}
	return all
}
