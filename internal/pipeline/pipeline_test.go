package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/autoscout/internal/config"
)

const boardJSON = `{
  "lists": [{"id": "l1", "name": "To Do"}],
  "cards": [
    {"id": "c1", "name": "Automate Trello board sync", "desc": "Sync the trello board with the sales api every day",
     "idList": "l1", "labels": [{"name": "urgent"}]},
    {"id": "c2", "name": "Weekly revenue report", "desc": "Export revenue data for the customer", "idList": "l1"},
    {"name": "missing id"}
  ]
}`

func writeInputs(t *testing.T, board string) Inputs {
	t.Helper()
	dir := t.TempDir()
	items := filepath.Join(dir, "board.json")
	require.NoError(t, os.WriteFile(items, []byte(board), 0o644))

	snippets := filepath.Join(dir, "snippets")
	files := map[string]string{
		"trello/trello_sync.py": "import requests\n\ndef sync_board(board_id):\n    return requests.get('https://api.trello.com/1/boards/' + board_id)\n",
		"data/report.py":        "import pandas as pd\n\ndef export_revenue(df):\n    df.to_csv('revenue.csv')\n",
	}
	for rel, body := range files {
		path := filepath.Join(snippets, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return Inputs{Items: items, Snippets: snippets}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.CategoryMap = map[string]string{"trello": "Trello_Automation", "data": "Data_Processing"}
	return cfg
}

func TestRun_EndToEnd(t *testing.T) {
	in := writeInputs(t, boardJSON)
	res, err := Run(context.Background(), testConfig(), in, nil)
	require.NoError(t, err)

	assert.Len(t, res.WorkItems, 2)
	assert.Len(t, res.Candidates, 2)
	assert.Equal(t, 1, res.ItemReport.Skipped())
	assert.Equal(t, 1, res.Summary.Skipped.WorkItems)
	assert.Equal(t, len(res.Records), res.Summary.TotalCorrelations)
	assert.Equal(t, 2, res.Summary.ItemsAnalyzed)

	for _, r := range res.Records {
		assert.Greater(t, r.FinalScore, config.DefaultThreshold)
	}
	for _, c := range res.Candidates {
		assert.Contains(t, []string{"Trello_Automation", "Data_Processing"}, c.Category)
	}
}

func TestRun_MissingItemsFile(t *testing.T) {
	in := writeInputs(t, boardJSON)
	in.Items = filepath.Join(t.TempDir(), "absent.json")

	_, err := Run(context.Background(), testConfig(), in, nil)
	assert.ErrorIs(t, err, ErrIngestionFailed)
}

func TestRun_InvalidJSON(t *testing.T) {
	in := writeInputs(t, "{not json")
	_, err := Run(context.Background(), testConfig(), in, nil)
	assert.ErrorIs(t, err, ErrIngestionFailed)
}

func TestRun_AllRecordsMalformed(t *testing.T) {
	in := writeInputs(t, `[{"title": "no id"}, {"title": "still no id"}]`)
	_, err := Run(context.Background(), testConfig(), in, nil)
	assert.ErrorIs(t, err, ErrIngestionFailed)
}

func TestRun_EmptyBoard(t *testing.T) {
	in := writeInputs(t, `{"lists": [], "cards": []}`)
	res, err := Run(context.Background(), testConfig(), in, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Zero(t, res.Summary.TotalCorrelations)
	assert.Empty(t, res.Summary.Recommendations)
}

func TestNewRunner_EmptyVocabulary(t *testing.T) {
	cfg := testConfig()
	cfg.Vocabulary.Cadence = nil

	_, err := NewRunner(cfg, nil)
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "cadence", cfgErr.Field)
}

func TestRun_CancelledContext(t *testing.T) {
	in := writeInputs(t, boardJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testConfig(), in, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
