// Package recommend turns a scored pairing into an action plan. Plans are
// plain data; Actions and Steps render them as text.
package recommend

import "strings"

// Tier is the urgency band of a plan, chosen from the final score.
type Tier string

// Tiers.
const (
	TierImmediate Tier = "IMMEDIATE"
	TierSoon      Tier = "SOON"
	TierEvaluate  Tier = "EVALUATE"
)

// Kind groups candidate categories that share category-specific actions.
type Kind string

// Category kinds. KindOther has no category-specific action or step.
const (
	KindAI         Kind = "ai"
	KindGovernment Kind = "government"
	KindTaskBoard  Kind = "task_board"
	KindData       Kind = "data"
	KindAPI        Kind = "api"
	KindOther      Kind = "other"
)

// categoryKinds maps squashed category names to kinds.
var categoryKinds = map[string]Kind{
	"aiintegration":       KindAI,
	"governmentapis":      KindGovernment,
	"trelloautomation":    KindTaskBoard,
	"taskboardautomation": KindTaskBoard,
	"dataprocessing":      KindData,
	"apiintegration":      KindAPI,
}

// Plan is the data behind a pairing's suggested actions and steps.
type Plan struct {
	Tier     Tier   `json:"tier" yaml:"tier"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Filename string `json:"filename" yaml:"filename"`
}

// TierFor returns the tier for a final score: above 0.7 is immediate, above
// 0.5 is soon, anything else is evaluate.
func TierFor(finalScore float64) Tier {
	switch {
	case finalScore > 0.7:
		return TierImmediate
	case finalScore > 0.5:
		return TierSoon
	default:
		return TierEvaluate
	}
}

// ClassifyCategory maps a candidate category to a Kind. Matching ignores case,
// underscores, hyphens and spaces, so "AI_Integration" and "ai integration"
// are the same.
func ClassifyCategory(category string) Kind {
	squashed := strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, strings.ToLower(category))
	if k, ok := categoryKinds[squashed]; ok {
		return k
	}
	return KindOther
}

// BuildPlan assembles the plan for a pairing.
func BuildPlan(finalScore float64, category, filename string) Plan {
	return Plan{
		Tier:     TierFor(finalScore),
		Kind:     ClassifyCategory(category),
		Filename: filename,
	}
}
