// Package visualize renders exploratory plots for a loaded table into a
// per-dataset folder.
package visualize

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/KaramelBytes/autolysis/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Artifact file names.
const (
	HeatmapFile   = "correlation_heatmap.png"
	PairPlotFile  = "pair_plot.png"
	CountPlotFile = "count_plot.png"
)

// Options controls image geometry. Zero values fall back to defaults.
type Options struct {
	// OutputDir is the parent of the per-dataset folder; empty means the
	// working directory.
	OutputDir     string
	HeatmapWidth  vg.Length
	HeatmapHeight vg.Length
	// PairCell is the edge length of one pair plot panel.
	PairCell    vg.Length
	CountWidth  vg.Length
	CountHeight vg.Length
	HistBins    int
}

// DefaultOptions returns the stock figure sizes.
func DefaultOptions() Options {
	return Options{
		HeatmapWidth:  10 * vg.Inch,
		HeatmapHeight: 8 * vg.Inch,
		PairCell:      2.5 * vg.Inch,
		CountWidth:    10 * vg.Inch,
		CountHeight:   6 * vg.Inch,
		HistBins:      10,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.HeatmapWidth <= 0 {
		o.HeatmapWidth = d.HeatmapWidth
	}
	if o.HeatmapHeight <= 0 {
		o.HeatmapHeight = d.HeatmapHeight
	}
	if o.PairCell <= 0 {
		o.PairCell = d.PairCell
	}
	if o.CountWidth <= 0 {
		o.CountWidth = d.CountWidth
	}
	if o.CountHeight <= 0 {
		o.CountHeight = d.CountHeight
	}
	if o.HistBins <= 0 {
		o.HistBins = d.HistBins
	}
	return o
}

// Artifacts lists the images written for one dataset.
type Artifacts struct {
	Dir   string
	Files []string // base names, in render order
}

// Has reports whether the named image was written.
func (a *Artifacts) Has(name string) bool {
	for _, f := range a.Files {
		if f == name {
			return true
		}
	}
	return false
}

// Visualize writes the plots supported by t's column composition into
// <OutputDir>/<name>. The folder is created when missing.
func Visualize(t *analysis.Table, name string, opt Options) (*Artifacts, error) {
	opt = opt.withDefaults()
	dir := filepath.Join(opt.OutputDir, name)
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	art := &Artifacts{Dir: dir}
	part := analysis.Classify(t)

	if len(part.Numeric) > 1 {
		corr := analysis.Correlations(t, part.Numeric)
		w, err := renderHeatmap(corr, fmt.Sprintf("%s - Correlation Heatmap", name), opt)
		if err != nil {
			return art, fmt.Errorf("render correlation heatmap: %w", err)
		}
		if err := save(art, HeatmapFile, w); err != nil {
			return art, err
		}
	}

	if len(part.Numeric) > 1 {
		w, err := renderPairPlot(t, part.Numeric, opt)
		if err != nil {
			return art, fmt.Errorf("render pair plot: %w", err)
		}
		if err := save(art, PairPlotFile, w); err != nil {
			return art, err
		}
	}

	if col, counts, ok := countPlotSource(t, part); ok {
		w, err := renderCountPlot(counts, col, fmt.Sprintf("%s - Count Plot (%s)", name, col), opt)
		if err != nil {
			return art, fmt.Errorf("render count plot: %w", err)
		}
		if err := save(art, CountPlotFile, w); err != nil {
			return art, err
		}
	}
	return art, nil
}

// countPlotSource picks the first categorical column in header order.
func countPlotSource(t *analysis.Table, part analysis.Partition) (string, []analysis.CategoryCount, bool) {
	if len(part.Categorical) == 0 {
		return "", nil, false
	}
	col := part.Categorical[0]
	return col, analysis.CountValues(t.Values(col)), true
}

func save(art *Artifacts, file string, w io.WriterTo) error {
	if err := utils.SafeWriteTo(filepath.Join(art.Dir, file), w); err != nil {
		return fmt.Errorf("save %s: %w", file, err)
	}
	art.Files = append(art.Files, file)
	return nil
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	return p
}
