package visualize

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var pairColor = color.RGBA{R: 76, G: 114, B: 176, A: 255}

// renderPairPlot draws an n×n grid: histograms on the diagonal, scatter
// plots of pairwise complete rows elsewhere.
func renderPairPlot(t *analysis.Table, names []string, opt Options) (io.WriterTo, error) {
	n := len(names)
	data := make([][]float64, n)
	for i, name := range names {
		data[i] = t.Floats(name)
	}

	plots := make([][]*plot.Plot, n)
	for row := 0; row < n; row++ {
		plots[row] = make([]*plot.Plot, n)
		for col := 0; col < n; col++ {
			p := plot.New()
			if row == col {
				if err := addHist(p, data[col], opt.HistBins); err != nil {
					return nil, fmt.Errorf("histogram %s: %w", names[col], err)
				}
			} else if err := addScatter(p, data[col], data[row]); err != nil {
				return nil, fmt.Errorf("scatter %s vs %s: %w", names[col], names[row], err)
			}
			if row == n-1 {
				p.X.Label.Text = names[col]
			}
			if col == 0 {
				p.Y.Label.Text = names[row]
			}
			plots[row][col] = p
		}
	}

	size := opt.PairCell * vg.Length(n)
	img := vgimg.New(size, size)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      n,
		Cols:      n,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}
	canvases := plot.Align(plots, tiles, dc)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			plots[row][col].Draw(canvases[row][col])
		}
	}
	return vgimg.PngCanvas{Canvas: img}, nil
}

func addHist(p *plot.Plot, col []float64, bins int) error {
	vals := make(plotter.Values, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	if lo, hi := floats.Min(vals), floats.Max(vals); lo == hi {
		// A single bin centred on the value; binning needs a non-empty range.
		p.Add(&plotter.Histogram{
			Bins:      []plotter.HistogramBin{{Min: lo - 0.5, Max: lo + 0.5, Weight: float64(len(vals))}},
			Width:     1,
			FillColor: pairColor,
			LineStyle: plotter.DefaultLineStyle,
		})
		return nil
	}
	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return err
	}
	h.FillColor = pairColor
	p.Add(h)
	return nil
}

func addScatter(p *plot.Plot, x, y []float64) error {
	xs, ys := analysis.CompletePairs(x, y)
	xys := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(xys) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = pairColor
	s.GlyphStyle.Radius = vg.Points(1.5)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	return nil
}
