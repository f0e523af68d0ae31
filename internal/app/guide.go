package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/autoscout/internal/output"
	"github.com/blackwell-systems/autoscout/internal/pipeline"
	"github.com/blackwell-systems/autoscout/internal/report"
)

var (
	guideItems    string
	guideSnippets string
	guideWidth    int
	guideRaw      bool
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Render the implementation guide",
	Long: `Run the analysis and render the markdown implementation guide. On a
terminal the guide is rendered with styles; when piped, plain markdown is
written so it can be redirected to a file.`,
	RunE: runGuide,
}

func init() {
	addInputFlags(guideCmd, &guideItems, &guideSnippets)
	guideCmd.Flags().IntVar(&guideWidth, "width", 0, "Wrap width for terminal rendering (default from config)")
	guideCmd.Flags().BoolVar(&guideRaw, "raw", false, "Always print plain markdown")
	rootCmd.AddCommand(guideCmd)
}

func runGuide(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	res, err := pipeline.Run(cmd.Context(), cfg, pipeline.Inputs{Items: guideItems, Snippets: guideSnippets}, logger)
	if err != nil {
		return err
	}
	md := report.Guide(report.FromResult(res, false))

	w := cmd.OutOrStdout()
	if guideRaw || flagNoColor || !isStdout(w) || !output.IsTerminal(os.Stdout) {
		_, err := fmt.Fprint(w, md)
		return err
	}

	width := guideWidth
	if width <= 0 {
		width = cfg.Output.Width
	}
	rendered, err := report.RenderTerminal(md, width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}

// isStdout reports whether w is the process's standard output.
func isStdout(w any) bool {
	f, ok := w.(*os.File)
	return ok && f == os.Stdout
}
