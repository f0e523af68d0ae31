package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/autoscout/internal/config"
	"github.com/blackwell-systems/autoscout/internal/correlate"
	"github.com/blackwell-systems/autoscout/internal/output"
	"github.com/blackwell-systems/autoscout/internal/pipeline"
	"github.com/blackwell-systems/autoscout/internal/report"
	"github.com/blackwell-systems/autoscout/internal/store"
	"github.com/blackwell-systems/autoscout/internal/summary"
)

var (
	analyzeItems       string
	analyzeSnippets    string
	analyzeTop         int
	analyzeWorkers     int
	analyzeFormat      string
	analyzeGuide       string
	analyzeSave        bool
	analyzeMinPriority string
	analyzeLimit       int
	analyzeFull        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Correlate work items with snippets and rank opportunities",
	Long: `Load a board export and a snippet library, score every pairing and
print the relevant ones ranked by implementation priority, followed by the
executive summary.

Examples:
  autoscout analyze --items board.json --snippets ./snippets
  autoscout analyze --items board.json --snippets ./snippets --min-priority high
  autoscout analyze --items board.json --snippets ./snippets --format yaml --full
  autoscout analyze --items board.json --snippets ./snippets --guide GUIDE.md --save`,
	RunE: runAnalyze,
}

func init() {
	addInputFlags(analyzeCmd, &analyzeItems, &analyzeSnippets)
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "Number of top opportunities in the summary (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Parallel scoring workers (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", report.FormatTable, "Output format: table, json or yaml")
	analyzeCmd.Flags().StringVar(&analyzeGuide, "guide", "", "Also write the markdown implementation guide to this path")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the run to the history database")
	analyzeCmd.Flags().StringVar(&analyzeMinPriority, "min-priority", "", "Only show correlations at or above this priority")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "Maximum correlations to show (0 = all)")
	analyzeCmd.Flags().BoolVar(&analyzeFull, "full", false, "Include analyzed work items and candidates in json/yaml output")
	rootCmd.AddCommand(analyzeCmd)
}

// addInputFlags registers the two required input flags.
func addInputFlags(cmd *cobra.Command, items, snippets *string) {
	cmd.Flags().StringVar(items, "items", "", "Trello board export or flat work item JSON")
	cmd.Flags().StringVar(snippets, "snippets", "", "Snippet directory or flat candidate JSON")
	_ = cmd.MarkFlagRequired("items")
	_ = cmd.MarkFlagRequired("snippets")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeTop > 0 {
		cfg.TopN = analyzeTop
	}
	if analyzeWorkers > 0 {
		cfg.Workers = analyzeWorkers
	}

	format := strings.ToLower(analyzeFormat)
	if flagJSON {
		format = report.FormatJSON
	}
	switch format {
	case report.FormatTable, report.FormatJSON, report.FormatYAML, "yml":
	default:
		return fmt.Errorf("unsupported format %q (want table, json or yaml)", analyzeFormat)
	}

	var minPriority correlate.Priority
	if analyzeMinPriority != "" {
		if minPriority, err = correlate.ParsePriority(analyzeMinPriority); err != nil {
			return err
		}
	}

	in := pipeline.Inputs{Items: analyzeItems, Snippets: analyzeSnippets}
	res, err := pipeline.Run(cmd.Context(), cfg, in, logger)
	if err != nil {
		return err
	}

	doc := report.FromResult(res, analyzeFull)
	if analyzeGuide != "" {
		if err := writeGuide(analyzeGuide, doc); err != nil {
			return err
		}
		logger.Info("guide written", zap.String("path", analyzeGuide))
	}
	if analyzeSave {
		run, err := saveRun(cfg, in, res)
		if err != nil {
			return err
		}
		logger.Info("run saved", zap.String("run_id", run.RunID), zap.String("db", cfg.DBPath))
	}

	doc.Correlations = filterRecords(doc.Correlations, minPriority, analyzeLimit)

	w := cmd.OutOrStdout()
	if format != report.FormatTable {
		return report.Write(w, format, doc)
	}
	renderCorrelations(w, doc.Correlations, len(res.Records))
	renderSummary(w, &res.Summary)
	return nil
}

// filterRecords keeps records at or above min (all when empty), up to limit.
func filterRecords(records []correlate.Record, min correlate.Priority, limit int) []correlate.Record {
	out := make([]correlate.Record, 0, len(records))
	for _, r := range records {
		if min != "" && !r.Priority.AtLeast(min) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func writeGuide(path string, doc report.Document) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating guide directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(report.Guide(doc)), 0o644); err != nil {
		return fmt.Errorf("writing guide: %w", err)
	}
	return nil
}

func saveRun(cfg *config.Config, in pipeline.Inputs, res *pipeline.Result) (*store.Run, error) {
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	run, err := db.SaveRun(store.RunInput{
		Version:        appVersion,
		ItemsSource:    in.Items,
		SnippetsSource: in.Snippets,
		Records:        res.Records,
		Summary:        res.Summary,
	})
	if err != nil {
		return nil, fmt.Errorf("saving run: %w", err)
	}
	return run, nil
}

func renderCorrelations(w io.Writer, records []correlate.Record, total int) {
	fmt.Fprintln(w, output.Section("Correlations"))
	if len(records) == 0 {
		fmt.Fprintf(w, " %s\n\n", output.StyleMuted.Render("No correlations above the relevance threshold."))
		return
	}

	tbl := output.NewTable("#", "Work item", "Snippet", "Category", "Score", "Priority", "ROI").
		AlignRight(0).
		Indent(" ")
	for i, r := range records {
		tbl.AddRow(
			fmt.Sprintf("%d", i+1),
			output.Truncate(r.WorkItemTitle, 36),
			output.Truncate(r.CandidateFilename, 28),
			r.CandidateCategory,
			output.ScoreBar(r.FinalScore, 10),
			output.Priority(string(r.Priority)),
			output.ROI(string(r.ROI)),
		)
	}
	_, _ = tbl.WriteTo(w)
	if tbl.Len() < total {
		fmt.Fprintf(w, " %s\n", output.StyleMuted.Render(fmt.Sprintf("showing %d of %d correlations", tbl.Len(), total)))
	}
	fmt.Fprintln(w)
}

func renderSummary(w io.Writer, s *summary.ExecutiveSummary) {
	fmt.Fprintln(w, output.Section("Executive Summary"))

	metric := func(label, value string) {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render(label), output.StyleValue.Render(value))
	}
	metric("Work items analyzed", fmt.Sprintf("%d", s.ItemsAnalyzed))
	metric("Snippets analyzed", fmt.Sprintf("%d", s.CandidatesAnalyzed))
	metric("Correlations", fmt.Sprintf("%d", s.TotalCorrelations))
	metric("High priority", fmt.Sprintf("%d", s.HighPriorityCount))
	metric("High ROI", fmt.Sprintf("%d", s.HighROICount()))
	metric("Average score", fmt.Sprintf("%.2f", s.AverageScore))
	if n := s.Skipped.Total(); n > 0 {
		fmt.Fprintf(w, " %s %s\n",
			output.StyleLabel.Render("Skipped records"),
			output.StyleWarning.Render(fmt.Sprintf("%d (%d work items, %d snippets)", n, s.Skipped.WorkItems, s.Skipped.Candidates)))
	}

	if len(s.Top) > 0 {
		fmt.Fprintf(w, "\n %s\n", output.StyleMuted.Render("Top opportunities:"))
		for i, r := range s.Top {
			fmt.Fprintf(w, "   %d. %s → %s  %s\n", i+1,
				output.StyleBold.Render(r.WorkItemTitle), r.CandidateFilename, output.Priority(string(r.Priority)))
		}
	}

	if len(s.Recommendations) > 0 {
		fmt.Fprintf(w, "\n %s\n", output.StyleMuted.Render("Recommendations:"))
		for _, rec := range s.Recommendations {
			fmt.Fprintf(w, "   • %s\n", rec.Text)
		}
	}
	fmt.Fprintln(w)
}
