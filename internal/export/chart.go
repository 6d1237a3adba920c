package export

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/jwaldner/atop/payoff"
)

// RenderPayoffChart saves a line chart of every leg and the strategy total
// with a dashed zero line. The image format follows the file extension;
// width and height are in points.
func RenderPayoffChart(path string, d *payoff.Diagram, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", width, height)
	}
	p, err := PayoffPlot(d)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Points(float64(width)), vg.Points(float64(height)), path); err != nil {
		return fmt.Errorf("save payoff chart: %w", err)
	}
	return nil
}

// PayoffPlot builds the chart without saving it.
func PayoffPlot(d *payoff.Diagram) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Payoff at expiry"
	p.X.Label.Text = "Underlying Value"
	p.Y.Label.Text = "Profit"
	p.Add(plotter.NewGrid())

	for i, s := range d.Legs {
		line, err := plotter.NewLine(xys(d.Underlying, s.Values))
		if err != nil {
			return nil, fmt.Errorf("plot %s: %w", s.Label, err)
		}
		line.Color = plotutil.Color(i + 1)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}

	total, err := plotter.NewLine(xys(d.Underlying, d.Total))
	if err != nil {
		return nil, fmt.Errorf("plot total: %w", err)
	}
	total.Color = plotutil.Color(0)
	total.Width = vg.Points(2)
	p.Add(total)
	p.Legend.Add(TotalSeries, total)

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.RGBA{R: 255, A: 255}
	zero.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(zero)

	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}
