package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/autoscout/internal/candidate"
	"github.com/blackwell-systems/autoscout/internal/config"
)

func TestAutomationScore(t *testing.T) {
	compat := map[string][]string{
		"API_INTEGRATION":   {"api", "integration"},
		"TRELLO_AUTOMATION": {"trello", "board"},
	}
	tags := candidate.NewTagSet("API_INTEGRATION", "TRELLO_AUTOMATION", "UNKNOWN_TAG")

	// 0.1*3 + 0.15*(api) + 0.15*(trello, board)
	got := AutomationScore("sync trello board via api", 3, tags, compat)
	assert.InDelta(t, 0.3+0.15+0.3, got, 1e-9)

	assert.InDelta(t, 0.0, AutomationScore("", 0, nil, compat), 0)
	assert.Equal(t, 1.0, AutomationScore("api integration trello board", 10, tags, compat))
}

func TestBusinessScore(t *testing.T) {
	assert.InDelta(t, 1.0, BusinessScore(10, 0), 1e-12)
	assert.InDelta(t, 0.0, BusinessScore(0, 20), 1e-12)
	assert.InDelta(t, (0.55+0.38)/2, BusinessScore(5.5, 12.4), 1e-9)
}

func TestFinalScore_DefaultWeights(t *testing.T) {
	got := FinalScore(0.5, 0.25, 1, config.DefaultWeights)
	assert.InDelta(t, 0.2+0.1+0.2, got, 1e-12)
}

func TestWeightedPriority(t *testing.T) {
	assert.InDelta(t, 0.5*0.6+0.3*1+0.2*0.5, WeightedPriority(0.6, 10, 5), 1e-12)
}

func TestClassifyPriority_Boundaries(t *testing.T) {
	tests := []struct {
		weighted float64
		want     Priority
	}{
		{0.95, PriorityCritical},
		{0.8000001, PriorityCritical},
		{0.8, PriorityHigh},
		{0.6000001, PriorityHigh},
		{0.6, PriorityMedium},
		{0.4000001, PriorityMedium},
		{0.4, PriorityLow},
		{0, PriorityLow},
	}
	for _, tc := range tests {
		if got := ClassifyPriority(tc.weighted); got != tc.want {
			t.Errorf("ClassifyPriority(%v) = %s, want %s", tc.weighted, got, tc.want)
		}
	}
}

func TestEstimateROI_Boundaries(t *testing.T) {
	tests := []struct {
		value, potential float64
		want             ROI
	}{
		{10, 10, ROIVeryHigh},
		{8, 8, ROIHigh},
		{9, 7.5, ROIVeryHigh},
		{6, 6, ROIMedium},
		{4, 4, ROILow},
		{5, 3.5, ROIMedium},
		{0, 0, ROILow},
	}
	for _, tc := range tests {
		if got := EstimateROI(tc.value, tc.potential); got != tc.want {
			t.Errorf("EstimateROI(%v, %v) = %s, want %s", tc.value, tc.potential, got, tc.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" high ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestPriorityAtLeast(t *testing.T) {
	assert.True(t, PriorityCritical.AtLeast(PriorityHigh))
	assert.True(t, PriorityHigh.AtLeast(PriorityHigh))
	assert.False(t, PriorityMedium.AtLeast(PriorityHigh))
	assert.False(t, Priority("bogus").AtLeast(PriorityLow))
}
