package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	anaFormat     string
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Print the descriptive summary of a CSV/TSV without rendering plots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		if cfg.OutlierThreshold > 0 {
			opt.OutlierThreshold = cfg.OutlierThreshold
		}
		_, sum, err := analysis.Analyze(args[0], opt)
		if err != nil {
			return err
		}

		var sb strings.Builder
		switch strings.ToLower(strings.TrimSpace(anaFormat)) {
		case "", "markdown", "md":
			sb.WriteString(sum.Markdown())
		case "json":
			b, err := sum.JSON()
			if err != nil {
				return err
			}
			sb.Write(b)
			sb.WriteString("\n")
		case "table":
			sum.WriteTable(&sb)
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown|json|table)", anaFormat)
		}

		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, []byte(sb.String()), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			}
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), sb.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "output format: markdown | json | table")
	analyzeCmd.Flags().StringVar(&anaOutputPath, "output", "", "optional path to write the summary")
}
