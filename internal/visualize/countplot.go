package visualize

import (
	"io"
	"math"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const maxTickLabel = 24

// renderCountPlot draws one bar per label, in order of first appearance.
func renderCountPlot(counts []analysis.CategoryCount, column, title string, opt Options) (io.WriterTo, error) {
	vals := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		vals[i] = float64(c.Count)
		names[i] = shorten(c.Value)
	}

	p := newPlot(title)
	p.X.Label.Text = column
	p.Y.Label.Text = "count"
	p.Y.Min = 0

	width := (opt.CountWidth - vg.Inch) / vg.Length(len(counts)+1) * 0.8
	if width < vg.Points(1) {
		width = vg.Points(1)
	}
	bars, err := plotter.NewBarChart(vals, width)
	if err != nil {
		return nil, err
	}
	bars.Color = pairColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return p.WriterTo(opt.CountWidth, opt.CountHeight, "png")
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= maxTickLabel {
		return s
	}
	return string(r[:maxTickLabel-1]) + "…"
}
