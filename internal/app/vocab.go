package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var vocabTags bool

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the effective vocabulary",
	Long: `Print the vocabulary tables in effect after applying the config file
and environment overrides. The YAML output can be pasted under the
'vocabulary' key of the config file as a starting point for customization.

Use --tags to list only the technical tags a snippet can be assigned.`,
	RunE: runVocab,
}

func init() {
	vocabCmd.Flags().BoolVar(&vocabTags, "tags", false, "List only the technical tag names")
	rootCmd.AddCommand(vocabCmd)
}

func runVocab(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if vocabTags {
		return writeTags(w, cfg.Vocabulary.TagNames())
	}
	if flagJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg.Vocabulary)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"vocabulary": cfg.Vocabulary}); err != nil {
		return fmt.Errorf("encoding vocabulary: %w", err)
	}
	return enc.Close()
}

func writeTags(w io.Writer, names []string) error {
	if flagJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(names)
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}
