package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/blackwell-systems/autoscout/internal/correlate"
)

// guideItems is the number of high-priority items detailed in the guide.
const guideItems = 10

// immediateCategoryScore is the category average above which the guide
// recommends immediate implementation.
const immediateCategoryScore = 0.6

// Guide renders the markdown implementation guide for doc.
func Guide(doc Document) string {
	s := doc.Summary
	var b strings.Builder

	b.WriteString("# Automation Implementation Guide\n\n")
	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("### Statistics\n\n")
	fmt.Fprintf(&b, "- **Work items analyzed:** %d\n", s.ItemsAnalyzed)
	fmt.Fprintf(&b, "- **Candidates analyzed:** %d\n", s.CandidatesAnalyzed)
	if n := s.Skipped.Total(); n > 0 {
		fmt.Fprintf(&b, "- **Records skipped:** %d\n", n)
	}
	fmt.Fprintf(&b, "- **Correlations found:** %d\n", s.TotalCorrelations)
	fmt.Fprintf(&b, "- **High-priority items:** %d\n", s.HighPriorityCount)
	fmt.Fprintf(&b, "- **Average correlation score:** %.3f\n\n", s.AverageScore)

	b.WriteString("### Key Recommendations\n\n")
	if len(s.Recommendations) == 0 {
		b.WriteString("No recommendations for this run.\n")
	}
	for _, r := range s.Recommendations {
		fmt.Fprintf(&b, "- %s\n", r.Text)
	}

	var high []correlate.Record
	for _, r := range doc.Correlations {
		if r.IsHighPriority() {
			high = append(high, r)
		}
	}
	b.WriteString("\n## High-Priority Items\n\n")
	fmt.Fprintf(&b, "### Implement First (%d items)\n", len(high))
	if len(high) > guideItems {
		high = high[:guideItems]
	}
	for i, r := range high {
		fmt.Fprintf(&b, "\n#### %d. %s\n\n", i+1, r.WorkItemTitle)
		fmt.Fprintf(&b, "- **Candidate:** %s\n", r.CandidateID)
		fmt.Fprintf(&b, "- **Category:** %s\n", r.CandidateCategory)
		fmt.Fprintf(&b, "- **Priority:** %s\n", r.Priority)
		fmt.Fprintf(&b, "- **Estimated ROI:** %s\n", r.ROI.Label())
		fmt.Fprintf(&b, "- **Correlation score:** %.3f\n\n", r.FinalScore)

		b.WriteString("**Suggested actions:**\n\n")
		for _, a := range r.SuggestedActions {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n**Implementation steps:**\n\n")
		for _, step := range r.ImplementationSteps {
			fmt.Fprintf(&b, "%s\n", step)
		}
		b.WriteString("\n---\n")
	}

	b.WriteString("\n## Category Analysis\n")
	cats := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		cats = append(cats, name)
	}
	sort.Strings(cats)
	for _, name := range cats {
		st := s.Categories[name]
		advice := "Evaluate opportunities"
		if st.AverageScore > immediateCategoryScore {
			advice = "Implement immediately"
		}
		fmt.Fprintf(&b, "\n### %s\n\n", name)
		fmt.Fprintf(&b, "- **Correlations:** %d\n", st.Count)
		fmt.Fprintf(&b, "- **Average score:** %.3f\n", st.AverageScore)
		fmt.Fprintf(&b, "- **Recommendation:** %s\n", advice)
	}

	b.WriteString("\n## ROI Distribution\n\n")
	for _, roi := range correlate.ROIs {
		if n := s.ROIDistribution[roi]; n > 0 {
			fmt.Fprintf(&b, "- **%s:** %d opportunities\n", roi.Label(), n)
		}
	}

	b.WriteString("\n## Rollout Phases\n\n")
	b.WriteString("1. **Phase 1 (weeks 1-2):** implement CRITICAL items\n")
	b.WriteString("2. **Phase 2 (weeks 3-4):** implement HIGH items\n")
	b.WriteString("3. **Phase 3 (month 2):** optimize and extend automations\n")
	b.WriteString("4. **Phase 4 (month 3+):** monitor and improve continuously\n")

	b.WriteString("\n## Monitoring\n\n")
	b.WriteString("- Automation completion rate\n")
	b.WriteString("- Average processing time\n")
	b.WriteString("- Manual work removed\n")
	b.WriteString("- Realized versus estimated ROI\n")
	return b.String()
}

// RenderTerminal renders markdown for a terminal of the given width.
func RenderTerminal(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering guide: %w", err)
	}
	return out, nil
}
