// Package app contains the Cobra command tree for autoscout.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/autoscout/internal/config"
	"github.com/blackwell-systems/autoscout/internal/logging"
	"github.com/blackwell-systems/autoscout/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

// logger is built once flags are parsed; commands log through it.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "autoscout",
	Short: "Find automation opportunities in your backlog",
	Long: `autoscout correlates work items from a Trello board export with a
library of automation snippets. Every pairing is scored for semantic
overlap, automation fit and business value; relevant pairings are ranked
by implementation priority and summarized with recommendations.

Run 'autoscout analyze --items board.json --snippets ./snippets' to start.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "autoscout", appVersion)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Use a subcommand:")
		fmt.Fprintln(w, "  analyze   Correlate work items with snippets and rank opportunities")
		fmt.Fprintln(w, "  guide     Render the implementation guide")
		fmt.Fprintln(w, "  history   List saved runs and compare them")
		fmt.Fprintln(w, "  vocab     Print the effective vocabulary")
		fmt.Fprintln(w, "  watch     Re-run the analysis when inputs change")
		return nil
	},
}

// setup configures logging and color once global flags are known.
func setup(cmd *cobra.Command, args []string) error {
	l, err := logging.New(logging.Options{Verbose: flagVerbose, JSON: flagJSON})
	if err != nil {
		return err
	}
	logger = l
	output.ConfigureColor(flagNoColor, os.Stdout)
	return nil
}

// loadConfig loads the configuration named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Execute is the entry point called from main.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/autoscout/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
