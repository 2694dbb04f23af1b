package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is read from the working directory when no env file is named.
const DefaultEnvFile = ".env"

// DefaultInputs are processed when no paths are given on the command line.
var DefaultInputs = []string{"goodreads.csv", "happiness.csv", "media.csv"}

// Global configuration structure. Every key can also be set through an
// AUTOLYSIS_<KEY> environment variable, including ones supplied by the env
// file.
type Global struct {
	// OutputDir is the parent directory of the per-dataset artifact folders.
	OutputDir string   `mapstructure:"output_dir" yaml:"output_dir"`
	Inputs    []string `mapstructure:"inputs" yaml:"inputs"`

	// Figure geometry, in inches.
	HeatmapWidthIn  float64 `mapstructure:"heatmap_width_in" yaml:"heatmap_width_in"`
	HeatmapHeightIn float64 `mapstructure:"heatmap_height_in" yaml:"heatmap_height_in"`
	PairCellIn      float64 `mapstructure:"pair_cell_in" yaml:"pair_cell_in"`
	CountWidthIn    float64 `mapstructure:"count_width_in" yaml:"count_width_in"`
	CountHeightIn   float64 `mapstructure:"count_height_in" yaml:"count_height_in"`
	HistBins        int     `mapstructure:"hist_bins" yaml:"hist_bins"`

	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`

	// Not serialized: the env file that was applied, if any.
	EnvFile string `mapstructure:"-" yaml:"-"`
}

// LoadEnv exports variables from envFile into the process environment
// without overriding ones already set. An empty envFile means
// DefaultEnvFile, which may be absent; a named file must exist.
func LoadEnv(envFile string) (string, error) {
	path := envFile
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if envFile == "" && errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("load env file %s: %w", path, err)
	}
	return path, nil
}

// Load runs the configuration step once before any analysis.
// Precedence: env (including the env file) > config file > defaults.
func Load(cfgFile, envFile string) (*Global, error) {
	applied, err := LoadEnv(envFile)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("AUTOLYSIS")
	v.AutomaticEnv()

	v.SetDefault("output_dir", ".")
	v.SetDefault("inputs", DefaultInputs)
	v.SetDefault("heatmap_width_in", 10.0)
	v.SetDefault("heatmap_height_in", 8.0)
	v.SetDefault("pair_cell_in", 2.5)
	v.SetDefault("count_width_in", 10.0)
	v.SetDefault("count_height_in", 6.0)
	v.SetDefault("hist_bins", 10)
	v.SetDefault("outlier_threshold", 3.5)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Inputs) == 0 {
		c.Inputs = append([]string(nil), DefaultInputs...)
	}
	c.EnvFile = applied
	return &c, nil
}

// Save writes the given configuration to cfgFile. If cfgFile is empty, it
// writes to ~/.autolysis/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".autolysis"), nil
}
