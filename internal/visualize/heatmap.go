package visualize

import (
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first
// column drawn at the top row.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	return g.m.Values[len(g.m.Columns)-1-r][c]
}
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

const (
	colorBarWidth = 1.2 * vg.Inch
	colorBarTop   = 0.5 * vg.Inch
)

func renderHeatmap(m *analysis.CorrMatrix, title string, opt Options) (io.WriterTo, error) {
	n := len(m.Columns)
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	h := plotter.NewHeatMap(corrGrid{m}, cm.Palette(255))
	h.Min, h.Max = -1, 1
	h.NaN = color.White

	p := newPlot(title)
	p.Add(h)

	xys := make(plotter.XYs, 0, n*n)
	labels := make([]string, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := m.Values[n-1-r][c]
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			labels = append(labels, annotate(v))
		}
	}
	ann, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	for i := range ann.TextStyle {
		ann.TextStyle[i].XAlign = draw.XCenter
		ann.TextStyle[i].YAlign = draw.YCenter
		v := m.Values[n-1-int(xys[i].Y)][int(xys[i].X)]
		if math.Abs(v) > 0.6 {
			ann.TextStyle[i].Color = color.White
		}
	}
	p.Add(ann)

	xt := make([]plot.Tick, n)
	yt := make([]plot.Tick, n)
	for i, name := range m.Columns {
		xt[i] = plot.Tick{Value: float64(i), Label: name}
		yt[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xt)
	p.Y.Tick.Marker = plot.ConstantTicks(yt)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true, Colors: 255})
	bar.HideX()
	bar.Y.Padding = 0

	img := vgimg.New(opt.HeatmapWidth, opt.HeatmapHeight)
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, -colorBarWidth, 0, 0))
	bar.Draw(draw.Crop(dc, opt.HeatmapWidth-colorBarWidth, 0, 0, -colorBarTop))
	return vgimg.PngCanvas{Canvas: img}, nil
}

func annotate(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', 2, 64)
}
