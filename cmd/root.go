package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/autolysis/internal/config"
	"github.com/KaramelBytes/autolysis/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile       string
	envFile       string
	debug         bool
	quiet         bool
	flagOutputDir string

	// Loaded configuration
	cfg    *cfgpkg.Global
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "autolysis [files...]",
	Short: "Summarize CSV datasets and render exploratory plots",
	Long: `autolysis loads each CSV file, computes descriptive statistics, and writes a
correlation heatmap, a pair plot and a count plot (as the column types allow)
into a folder named after the file. Without arguments it processes the
configured inputs (goodreads.csv, happiness.csv, media.csv by default).`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		paths := expandInputs(args)
		if len(paths) == 0 {
			paths = cfg.Inputs
		}
		if debug {
			fmt.Fprintf(cmd.OutOrStdout(), "config: output_dir=%s inputs=%v env_file=%q\n", cfg.OutputDir, paths, cfg.EnvFile)
		}
		out := cmd.OutOrStdout()
		if quiet {
			out = nil
		}
		r := pipeline.NewRunner(cfg, out)
		r.Debug = debug
		_, err := r.Run(paths)
		return err
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Configuration is loaded once, before any command runs.
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.autolysis/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file exported before loading config (default ./.env if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().StringVarP(&flagOutputDir, "output-dir", "o", "", "parent directory for dataset folders (overrides config)")
}

// expandInputs resolves glob patterns and drops repeated paths, keeping the
// order in which they were named. A pattern without matches is kept as
// given so the missing file is reported when it is analyzed.
func expandInputs(args []string) []string {
	seen := make(map[string]struct{})
	var files []string
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	return files
}

func loadConfig() {
	cfg, cfgErr = cfgpkg.Load(cfgFile, envFile)
	if cfgErr != nil {
		return
	}
	if f := rootCmd.PersistentFlags(); f.Changed("output-dir") && flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
}

func requireConfig() error {
	if cfgErr != nil {
		return fmt.Errorf("load config: %w", cfgErr)
	}
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	return nil
}
