// Package pipeline runs analyze → visualize → report over a list of inputs.
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/KaramelBytes/autolysis/internal/config"
	"github.com/KaramelBytes/autolysis/internal/utils"
	"github.com/KaramelBytes/autolysis/internal/visualize"
	"gonum.org/v1/plot/vg"
)

// Runner processes datasets one after another.
type Runner struct {
	Analysis  analysis.Options
	Visualize visualize.Options
	// Out receives progress lines; nil discards them.
	Out   io.Writer
	Debug bool
}

// Result is the outcome of one dataset run.
type Result struct {
	Path      string
	Name      string
	Summary   *analysis.Summary
	Artifacts *visualize.Artifacts
}

// NewRunner builds a Runner from loaded configuration.
func NewRunner(c *config.Global, out io.Writer) *Runner {
	r := &Runner{
		Analysis:  analysis.DefaultOptions(),
		Visualize: visualize.DefaultOptions(),
		Out:       out,
	}
	if c == nil {
		return r
	}
	r.Visualize.OutputDir = c.OutputDir
	r.Visualize.HeatmapWidth = inches(c.HeatmapWidthIn)
	r.Visualize.HeatmapHeight = inches(c.HeatmapHeightIn)
	r.Visualize.PairCell = inches(c.PairCellIn)
	r.Visualize.CountWidth = inches(c.CountWidthIn)
	r.Visualize.CountHeight = inches(c.CountHeightIn)
	r.Visualize.HistBins = c.HistBins
	if c.OutlierThreshold > 0 {
		r.Analysis.OutlierThreshold = c.OutlierThreshold
	}
	return r
}

func inches(v float64) vg.Length { return vg.Length(v) * vg.Inch }

// Run processes paths in order and stops at the first failure; later
// paths are not processed.
func (r *Runner) Run(paths []string) ([]*Result, error) {
	results := make([]*Result, 0, len(paths))
	for _, p := range paths {
		res, err := r.RunOne(p)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunOne analyzes one file and writes its visualizations into a folder
// named after the file stem.
func (r *Runner) RunOne(path string) (*Result, error) {
	name := utils.DatasetName(path)
	r.printf("Analyzing %s...\n", path)
	tbl, sum, err := analysis.Analyze(path, r.Analysis)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", path, err)
	}
	if r.Debug {
		p := sum.Partition
		r.printf("  rows=%d columns=%d numeric=[%s] categorical=[%s] other=[%s]\n",
			sum.NumRows, sum.NumColumns,
			strings.Join(p.Numeric, ", "), strings.Join(p.Categorical, ", "), strings.Join(p.Other, ", "))
	}
	r.printf("Creating visualizations for %s...\n", name)
	art, err := visualize.Visualize(tbl, name, r.Visualize)
	if err != nil {
		return nil, fmt.Errorf("visualize %s: %w", name, err)
	}
	r.printf("Analysis complete for %s. Visualizations saved.\n", name)
	return &Result{Path: path, Name: name, Summary: sum, Artifacts: art}, nil
}

func (r *Runner) printf(format string, args ...any) {
	if r.Out == nil {
		return
	}
	fmt.Fprintf(r.Out, format, args...)
}
