package recommend

import "fmt"

var categoryActions = map[Kind]string{
	KindAI:         "Configure the AI integration",
	KindGovernment: "Configure the government API clients",
	KindTaskBoard:  "Automate the task board workflow",
	KindData:       "Implement the data processing pipeline",
	KindAPI:        "Configure the API integrations",
}

var categorySteps = map[Kind]string{
	KindAI:         "3.1. Configure the AI provider API keys",
	KindGovernment: "3.1. Validate access to the government APIs",
	KindTaskBoard:  "3.1. Configure the task board webhooks",
}

// Actions renders the ordered list of suggested actions. The list always has
// at least two entries.
func (p Plan) Actions() []string {
	var actions []string
	switch p.Tier {
	case TierImmediate:
		actions = append(actions,
			"Implement immediately",
			fmt.Sprintf("Adapt %s for automation", p.subject()),
			"Configure automatic execution",
			"Monitor results and optimize",
		)
	case TierSoon:
		actions = append(actions,
			"Implement soon",
			"Review and customize the code",
			"Run pilot tests",
		)
	default:
		actions = append(actions,
			"Evaluate opportunity",
			"Monitor for future improvements",
		)
	}
	if a, ok := categoryActions[p.Kind]; ok {
		actions = append(actions, a)
	}
	return actions
}

// Steps renders the ordered implementation steps. A category-specific step
// follows step 3 for AI, government and task board candidates.
func (p Plan) Steps() []string {
	steps := []string{
		"1. Analyze the work item's specific requirements",
		fmt.Sprintf("2. Adapt the code from %s", p.subject()),
		"3. Configure the required credentials and APIs",
		"4. Implement unit tests",
		"5. Deploy to a test environment",
		"6. Validate with real data",
		"7. Deploy to production",
		"8. Monitor and optimize performance",
	}
	if extra, ok := categorySteps[p.Kind]; ok {
		steps = append(steps[:3], append([]string{extra}, steps[3:]...)...)
	}
	return steps
}

func (p Plan) subject() string {
	if p.Filename == "" {
		return "the snippet"
	}
	return p.Filename
}
