package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/autoscout/internal/output"
	"github.com/blackwell-systems/autoscout/internal/store"
)

var (
	historyLimit   int
	historyCompare int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved runs and compare them",
	Long: `List runs saved with 'autoscout analyze --save' and compare the latest
run against an earlier one, showing metric deltas with trend arrows and the
pairings that appeared or disappeared.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to list (0 = all)")
	historyCmd.Flags().IntVar(&historyCompare, "compare", 1, "Compare the latest run against the Nth previous run")
	rootCmd.AddCommand(historyCmd)
}

// historyOutput is the JSON shape of the history command.
type historyOutput struct {
	Runs []store.Run    `json:"runs"`
	Diff *store.RunDiff `json:"diff,omitempty"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyCompare < 1 {
		return fmt.Errorf("--compare must be at least 1, got %d", historyCompare)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	// historyCompare=1 means the immediate predecessor of the latest run.
	var diff *store.RunDiff
	curr, err := db.GetLatestRun()
	if err != nil {
		return fmt.Errorf("loading latest run: %w", err)
	}
	prev, err := db.GetRunN(historyCompare + 1)
	if err != nil {
		return fmt.Errorf("loading previous run: %w", err)
	}
	if curr != nil && prev != nil {
		if diff, err = db.CompareRuns(prev, curr); err != nil {
			return fmt.Errorf("comparing runs: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		if runs == nil {
			runs = []store.Run{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(historyOutput{Runs: runs, Diff: diff})
	}

	renderRuns(w, runs)
	if diff != nil {
		renderDiff(w, diff)
	}
	return nil
}

func renderRuns(w io.Writer, runs []store.Run) {
	fmt.Fprintln(w, output.Section("Saved Runs"))
	if len(runs) == 0 {
		fmt.Fprintf(w, " %s\n\n", output.StyleMuted.Render("No saved runs. Use 'autoscout analyze --save' to record one."))
		return
	}

	tbl := output.NewTable("Run", "Taken", "Items", "Snippets", "Correlations", "High", "Avg score").
		AlignRight(2, 3, 4, 5, 6).
		Indent(" ")
	for _, r := range runs {
		tbl.AddRow(
			shortID(r.RunID),
			r.TakenAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.Items),
			fmt.Sprintf("%d", r.Candidates),
			fmt.Sprintf("%d", r.TotalCorrelations),
			fmt.Sprintf("%d", r.HighPriority),
			fmt.Sprintf("%.2f", r.AvgScore),
		)
	}
	_, _ = tbl.WriteTo(w)
	fmt.Fprintln(w)
}

func renderDiff(w io.Writer, d *store.RunDiff) {
	fmt.Fprintln(w, output.Section(fmt.Sprintf("Changes since %s", shortID(d.Previous.RunID))))

	for _, delta := range d.Deltas {
		fmt.Fprintf(w, " %s %s %s\n",
			output.StyleLabel.Render(strings.ReplaceAll(delta.Name, "_", " ")),
			output.StyleValue.Render(formatMetric(delta.Current)),
			output.TrendArrow(delta.Delta, store.HigherIsBetter(delta.Name)))
	}

	if len(d.New) > 0 {
		fmt.Fprintf(w, "\n %s\n", output.StyleMuted.Render("New pairings:"))
		for _, p := range d.New {
			fmt.Fprintf(w, "   + %s → %s  %s\n", p.WorkItemID, p.CandidateID, output.Priority(p.Priority))
		}
	}
	if len(d.Dropped) > 0 {
		fmt.Fprintf(w, "\n %s\n", output.StyleMuted.Render("Dropped pairings:"))
		for _, p := range d.Dropped {
			fmt.Fprintf(w, "   - %s → %s  %s\n", p.WorkItemID, p.CandidateID, output.Priority(p.Priority))
		}
	}
	fmt.Fprintln(w)
}

// formatMetric prints whole numbers without decimals.
func formatMetric(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
