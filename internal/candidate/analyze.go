package candidate

import (
	"strings"

	"github.com/blackwell-systems/autoscout/internal/config"
	"github.com/blackwell-systems/autoscout/internal/textnorm"
)

// Analyze builds a Candidate from src with all metrics computed.
// The vocabulary must already be normalized.
func Analyze(src Source, vocab *config.Vocabulary) Candidate {
	m := ComputeMetrics(src.Content, vocab)
	return Candidate{
		Filename: src.Filename,
		Content:  src.Content,
		Category: src.Category,
		Path:     src.Path,
		Metrics:  &m,
	}
}

// ComputeMetrics derives complexity, tags and effort from content.
func ComputeMetrics(content string, vocab *config.Vocabulary) Metrics {
	complexity := ComplexityScore(content, vocab)
	return Metrics{
		ComplexityScore: complexity,
		Tags:            ExtractTags(content, vocab),
		Effort:          EstimateEffort(complexity),
	}
}

// ComplexityScore estimates how hard the snippet is to adapt, clipped to
// MaxComplexity.
//
// Scoring breakdown:
//   - 0.1 per line
//   - 0.5 per import/dependency line
//   - 1.0 per function or type declaration line
//   - 1.5 per distinct integration keyword present
//
// A grouped Go import block counts each import it lists, not its opening line.
func ComplexityScore(content string, vocab *config.Vocabulary) float64 {
	lines := strings.Split(content, "\n")

	var imports, decls int
	inImportBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case inImportBlock:
			if strings.HasPrefix(trimmed, ")") {
				inImportBlock = false
			} else if trimmed != "" && !strings.HasPrefix(trimmed, "//") {
				imports++
			}
		case hasAnyPrefix(trimmed, vocab.ImportPrefixes):
			if trimmed == "import (" {
				inImportBlock = true
			} else {
				imports++
			}
		}
		if containsAny(line, vocab.DeclarationMarkers) {
			decls++
		}
	}
	integrations := textnorm.CountPresent(textnorm.Fold(content), vocab.Integration)

	score := 0.1*float64(len(lines)) +
		0.5*float64(imports) +
		1.0*float64(decls) +
		1.5*float64(integrations)
	if score > MaxComplexity {
		return MaxComplexity
	}
	return score
}

// ExtractTags returns every tag with at least one derivation keyword present
// in content.
func ExtractTags(content string, vocab *config.Vocabulary) TagSet {
	folded := textnorm.Fold(content)
	tags := make(TagSet)
	for name, keywords := range vocab.TagKeywords {
		if textnorm.ContainsAny(folded, keywords) {
			tags[Tag(name)] = struct{}{}
		}
	}
	return tags
}

// EstimateEffort maps a complexity score to an effort level.
func EstimateEffort(complexity float64) Effort {
	switch {
	case complexity > 15:
		return EffortHigh
	case complexity > 8:
		return EffortMedium
	default:
		return EffortLow
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}
