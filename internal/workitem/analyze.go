package workitem

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blackwell-systems/autoscout/internal/config"
	"github.com/blackwell-systems/autoscout/internal/textnorm"
)

// Analyze builds a WorkItem from src with all metrics computed. The source
// slices are copied, so the result shares no state with src. now is the
// reference time for due-date urgency.
//
// The vocabulary must already be normalized (see config.Vocabulary.Normalized).
func Analyze(src Source, vocab *config.Vocabulary, now time.Time) WorkItem {
	item := WorkItem{
		ID:          src.ID,
		Title:       src.Title,
		Description: src.Description,
		Category:    src.Category,
		Labels:      append([]string(nil), src.Labels...),
		DueRaw:      src.Due,
		Members:     append([]string(nil), src.Members...),
	}
	if due, ok := ParseDue(src.Due); ok {
		item.Due = &due
	}
	m := ComputeMetrics(src, vocab, now)
	item.Metrics = &m
	return item
}

// ComputeMetrics derives all three metrics from src.
func ComputeMetrics(src Source, vocab *config.Vocabulary, now time.Time) Metrics {
	priority := PriorityScore(src, vocab, now)
	return Metrics{
		PriorityScore:       priority,
		AutomationPotential: AutomationPotential(src, vocab),
		BusinessValue:       BusinessValue(src, vocab, priority),
	}
}

// PriorityScore computes a 0-10 urgency score.
//
// Scoring breakdown:
//   - Due in 1 day or less (or overdue): 10
//   - Due in 7 days or less:             5
//   - Due in 30 days or less:            2
//   - Each label containing an urgency keyword: 3
//   - Description over 200 characters: 2, over 100: 1
func PriorityScore(src Source, vocab *config.Vocabulary, now time.Time) float64 {
	score := 0.0

	if due, ok := ParseDue(src.Due); ok {
		switch days := daysUntil(now, due); {
		case days <= 1:
			score += 10
		case days <= 7:
			score += 5
		case days <= 30:
			score += 2
		}
	}

	for _, label := range src.Labels {
		if textnorm.ContainsAny(textnorm.Fold(label), vocab.Urgency) {
			score += 3
		}
	}

	switch n := utf8.RuneCountInString(src.Description); {
	case n > 200:
		score += 2
	case n > 100:
		score += 1
	}

	return clip(score)
}

// AutomationPotential adds 1.5 for each automation keyword and 2.0 for each
// cadence keyword present in the title and description. A keyword counts once
// no matter how often it recurs.
func AutomationPotential(src Source, vocab *config.Vocabulary) float64 {
	text := textnorm.Fold(src.Title + " " + src.Description)
	score := 1.5*float64(textnorm.CountPresent(text, vocab.Automation)) +
		2.0*float64(textnorm.CountPresent(text, vocab.Cadence))
	return clip(score)
}

// BusinessValue adds 2.0 for each high-value keyword present plus 30% of the
// priority score.
func BusinessValue(src Source, vocab *config.Vocabulary, priority float64) float64 {
	text := textnorm.Fold(src.Title + " " + src.Description)
	score := 2.0*float64(textnorm.CountPresent(text, vocab.HighValue)) + 0.3*priority
	return clip(score)
}

// dueLayouts are tried in order after RFC3339. Layouts without a zone are
// interpreted as UTC.
var dueLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDue parses a due-date string tolerantly: a date-time with offset (or
// "Z"), a zoneless date-time, or a bare date at UTC midnight. It reports false
// for empty or unparsable input.
func ParseDue(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// daysUntil returns whole days from now until due, rounded down, so anything
// overdue is negative.
func daysUntil(now, due time.Time) int {
	return int(math.Floor(due.Sub(now).Hours() / 24))
}

func clip(v float64) float64 {
	if v > MaxScore {
		return MaxScore
	}
	if v < 0 {
		return 0
	}
	return v
}
