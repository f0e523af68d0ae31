package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/autoscout/internal/config"
	"github.com/blackwell-systems/autoscout/internal/output"
	"github.com/blackwell-systems/autoscout/internal/pipeline"
	"github.com/blackwell-systems/autoscout/internal/watcher"
)

var (
	watchItems    string
	watchSnippets string
	watchDebounce time.Duration
	watchQuiet    bool
	watchSave     bool
	watchSlack    string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis when inputs change",
	Long: `Watch the board export and the snippet library. After every burst of
changes the analysis re-runs and the result is compared with the previous
one. Alerts are printed for new CRITICAL opportunities, priority escalations,
changes in the number of correlations and newly skipped records. When a
Slack webhook is configured (watch.slack_webhook or --slack-webhook), alerts
are posted there as well.

Examples:
  autoscout watch --items board.json --snippets ./snippets
  autoscout watch --items board.json --snippets ./snippets --debounce 5s --save`,
	RunE: runWatch,
}

func init() {
	addInputFlags(watchCmd, &watchItems, &watchSnippets)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Quiet period before re-running (default from config)")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "Save every run to the history database")
	watchCmd.Flags().StringVar(&watchSlack, "slack-webhook", "", "Slack incoming webhook URL for alerts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	debounce := watchDebounce
	if debounce <= 0 {
		debounce = cfg.Watch.Debounce
	}

	runner, err := pipeline.NewRunner(cfg, logger)
	if err != nil {
		return err
	}
	in := pipeline.Inputs{Items: watchItems, Snippets: watchSnippets}

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	w := cmd.OutOrStdout()
	notifiers := buildNotifiers(cfg, w)
	alertFn := func(a watcher.Alert) {
		if err := watcher.Notify(ctx, a, notifiers...); err != nil {
			logger.Warn("alert delivery failed", zap.String("title", a.Title), zap.Error(err))
		}
	}

	opts := []watcher.Option{
		watcher.WithLogger(logger.Named("watch")),
		watcher.WithResultFunc(func(res *pipeline.Result) {
			if !watchQuiet {
				printStatus(w, res)
			}
			if watchSave {
				if _, err := saveRun(cfg, in, res); err != nil {
					logger.Warn("saving run failed", zap.Error(err))
				}
			}
		}),
	}

	if !watchQuiet {
		fmt.Fprintf(w, "autoscout watching %s and %s (debounce %s)\n", watchItems, watchSnippets, debounce)
	}

	err = watcher.New(runner, in, debounce, alertFn, opts...).Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Fprintln(w, "\nStopped.")
		}
		return nil
	}
	return err
}

// buildNotifiers returns the terminal notifier, unless quiet, and a Slack
// notifier when a webhook is configured.
func buildNotifiers(cfg *config.Config, w io.Writer) []watcher.Notifier {
	var notifiers []watcher.Notifier
	if !watchQuiet {
		notifiers = append(notifiers, alertPrinter{w: w})
	}
	webhook := watchSlack
	if webhook == "" {
		webhook = cfg.Watch.SlackWebhook
	}
	if webhook != "" {
		notifiers = append(notifiers, watcher.SlackNotifier{WebhookURL: webhook})
	}
	return notifiers
}

// alertPrinter prints alerts with a timestamp and a level indicator.
type alertPrinter struct {
	w io.Writer
}

func (p alertPrinter) Notify(_ context.Context, a watcher.Alert) error {
	fmt.Fprintf(p.w, "[%s] %s %s\n", a.Time.Format("15:04:05"), alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Fprintf(p.w, "         %s\n", a.Message)
	}
	return nil
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case watcher.LevelCritical:
		return output.StyleCritical.Render("●")
	case watcher.LevelWarning:
		return output.StyleWarning.Render("▲")
	case watcher.LevelInfo:
		return output.StyleSuccess.Render("✓")
	default:
		return " "
	}
}

func printStatus(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "[%s] %s %d correlations (%d high priority) from %d items and %d snippets\n",
		time.Now().Format("15:04:05"),
		output.StyleMuted.Render("analyzed"),
		len(res.Records),
		res.Summary.HighPriorityCount,
		res.Summary.ItemsAnalyzed,
		res.Summary.CandidatesAnalyzed)
}
