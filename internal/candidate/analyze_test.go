package candidate

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/autoscout/internal/config"
)

func defaultVocab() *config.Vocabulary {
	v := config.DefaultVocabulary.Normalized()
	return &v
}

const trelloSnippet = `import requests
import json

class TrelloAutomation:
    def __init__(self, api_key, token):
        self.base_url = "https://api.trello.com/1"

    def create_card(self, list_id, name):
        return requests.post(self.base_url + "/cards")`

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestComplexityScore_Breakdown(t *testing.T) {
	// 9 lines * 0.1 + 2 imports * 0.5 + 3 decls * 1.0
	// + integration keywords present: requests, api, http, json, token = 5 * 1.5
	got := ComplexityScore(trelloSnippet, defaultVocab())
	approx(t, got, 0.9+1.0+3.0+7.5)
}

func TestComplexityScore_EmptyContentIsOneLine(t *testing.T) {
	approx(t, ComplexityScore("", defaultVocab()), 0.1)
}

func TestComplexityScore_Clipped(t *testing.T) {
	content := strings.Repeat("def f():\n", 50)
	if got := ComplexityScore(content, defaultVocab()); got != MaxComplexity {
		t.Errorf("ComplexityScore = %v, want %v", got, MaxComplexity)
	}
}

func TestComplexityScore_GoSource(t *testing.T) {
	content := "package main\n\nimport \"fmt\"\n\ntype T struct{}\n\nfunc main() {\n\tfmt.Println()\n}"
	// 9 lines, 1 import, 2 decls (type, func)
	approx(t, ComplexityScore(content, defaultVocab()), 0.9+0.5+2.0)
}

func TestComplexityScore_GoImportBlock(t *testing.T) {
	content := "package main\n\nimport (\n\t\"fmt\"\n\n\t// local\n\t\"os\"\n)\n\nfunc main() {}"
	// 10 lines, 2 grouped imports, 1 decl
	approx(t, ComplexityScore(content, defaultVocab()), 1.0+1.0+1.0)
}

func TestComputeMetrics_BoundsAndIdempotence(t *testing.T) {
	vocab := defaultVocab()
	fragments := []string{
		"import requests", "from os import path", "import (", ")", "def run():",
		"class Bot:", "func main() {", "}", "api", "webhook", "token", "x = 1", "", "\t",
	}
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 200; i++ {
		var sb strings.Builder
		for j := 0; j < rng.Intn(120); j++ {
			sb.WriteString(fragments[rng.Intn(len(fragments))])
			sb.WriteByte('\n')
		}
		content := sb.String()

		first := ComputeMetrics(content, vocab)
		second := ComputeMetrics(content, vocab)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("metrics not idempotent (-first +second):\n%s", diff)
		}
		if first.ComplexityScore < 0 || first.ComplexityScore > MaxComplexity {
			t.Errorf("complexity = %v out of [0,%v]", first.ComplexityScore, MaxComplexity)
		}
		if first.Effort != EstimateEffort(first.ComplexityScore) {
			t.Errorf("effort %v does not match complexity %v", first.Effort, first.ComplexityScore)
		}
	}
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags(trelloSnippet, defaultVocab())
	for _, want := range []Tag{"API_INTEGRATION", "TRELLO_AUTOMATION", "DATA_PROCESSING"} {
		assert.True(t, tags.Has(want), "expected tag %s in %v", want, tags.Strings())
	}
	assert.False(t, tags.Has("GOVERNMENT_APIS"))
	assert.False(t, tags.Has("ASYNC_PROCESSING"))
}

func TestExtractTags_CaseInsensitive(t *testing.T) {
	tags := ExtractTags("ASYNC def main(): AWAIT thing", defaultVocab())
	assert.True(t, tags.Has("ASYNC_PROCESSING"))
}

func TestExtractTags_Empty(t *testing.T) {
	vocab := &config.Vocabulary{TagKeywords: map[string][]string{"API_INTEGRATION": {"http"}}}
	assert.Empty(t, ExtractTags("plain text", vocab))
}

func TestEstimateEffort_Boundaries(t *testing.T) {
	tests := []struct {
		complexity float64
		want       Effort
	}{
		{0, EffortLow},
		{8, EffortLow},
		{8.01, EffortMedium},
		{15, EffortMedium},
		{15.01, EffortHigh},
		{20, EffortHigh},
	}
	for _, tc := range tests {
		if got := EstimateEffort(tc.complexity); got != tc.want {
			t.Errorf("EstimateEffort(%v) = %s, want %s", tc.complexity, got, tc.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	src := Source{Filename: "trello_automation.py", Content: trelloSnippet, Category: "Trello_Automation", Path: "02_AUTOMACAO/trello_automation.py"}
	c := Analyze(src, defaultVocab())
	require.NotNil(t, c.Metrics)
	assert.Equal(t, "02_AUTOMACAO/trello_automation.py", c.ID())
	assert.Equal(t, EffortMedium, c.Metrics.Effort) // 12.4

	again := Analyze(src, defaultVocab())
	assert.Equal(t, c.Metrics.ComplexityScore, again.Metrics.ComplexityScore)
	assert.Equal(t, c.Metrics.Tags.Strings(), again.Metrics.Tags.Strings())
}

func TestCandidateID_FallsBackToFilename(t *testing.T) {
	c := Candidate{Filename: "bot.py"}
	assert.Equal(t, "bot.py", c.ID())
}

func TestTagSet_JSON(t *testing.T) {
	set := NewTagSet("WEBHOOK_HANDLER", "API_INTEGRATION", "API_INTEGRATION")
	assert.Len(t, set, 2)

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `["API_INTEGRATION","WEBHOOK_HANDLER"]`, string(data))

	var back TagSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, set, back)
}
