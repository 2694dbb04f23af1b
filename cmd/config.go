package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/autolysis/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set autolysis configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "inputs: %s\n", strings.Join(cfg.Inputs, ", "))
		fmt.Fprintf(out, "heatmap_width_in: %g\n", cfg.HeatmapWidthIn)
		fmt.Fprintf(out, "heatmap_height_in: %g\n", cfg.HeatmapHeightIn)
		fmt.Fprintf(out, "pair_cell_in: %g\n", cfg.PairCellIn)
		fmt.Fprintf(out, "count_width_in: %g\n", cfg.CountWidthIn)
		fmt.Fprintf(out, "count_height_in: %g\n", cfg.CountHeightIn)
		fmt.Fprintf(out, "hist_bins: %d\n", cfg.HistBins)
		fmt.Fprintf(out, "outlier_threshold: %g\n", cfg.OutlierThreshold)
		if cfg.EnvFile != "" {
			fmt.Fprintf(out, "env_file: %s\n", cfg.EnvFile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		key, val := args[0], args[1]
		var err error
		switch key {
		case "output_dir":
			cfg.OutputDir = val
		case "inputs":
			var in []string
			for _, s := range strings.Split(val, ",") {
				if s = strings.TrimSpace(s); s != "" {
					in = append(in, s)
				}
			}
			if len(in) == 0 {
				return fmt.Errorf("invalid inputs: %q", val)
			}
			cfg.Inputs = in
		case "heatmap_width_in":
			err = parsePositive(&cfg.HeatmapWidthIn, key, val)
		case "heatmap_height_in":
			err = parsePositive(&cfg.HeatmapHeightIn, key, val)
		case "pair_cell_in":
			err = parsePositive(&cfg.PairCellIn, key, val)
		case "count_width_in":
			err = parsePositive(&cfg.CountWidthIn, key, val)
		case "count_height_in":
			err = parsePositive(&cfg.CountHeightIn, key, val)
		case "outlier_threshold":
			err = parsePositive(&cfg.OutlierThreshold, key, val)
		case "hist_bins":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for hist_bins: %v", val)
			}
			cfg.HistBins = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func parsePositive(dst *float64, key, val string) error {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("invalid float for %s: %v", key, val)
	}
	*dst = f
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
