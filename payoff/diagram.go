package payoff

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid is the inclusive range of underlying values a diagram is sampled on.
type Grid struct {
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
	Step float64 `yaml:"step" json:"step"`
}

// MaxGridPoints is the most points any grid may sample.
const MaxGridPoints = 1_000_000

// DefaultGrid samples every whole dollar from 0 to 100.
func DefaultGrid() Grid {
	return Grid{Min: 0, Max: 100, Step: 1}
}

func NewGrid(min, max, step float64) (Grid, error) {
	g := Grid{Min: min, Max: max, Step: step}
	return g, g.Validate()
}

func (g Grid) Validate() error {
	for _, v := range []float64{g.Min, g.Max, g.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounds and step must be finite", ErrInvalidGrid)
		}
	}
	if g.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %v", ErrInvalidGrid, g.Step)
	}
	if g.Max < g.Min {
		return fmt.Errorf("%w: max %v below min %v", ErrInvalidGrid, g.Max, g.Min)
	}
	if n := g.count(); math.IsNaN(n) || n > MaxGridPoints {
		return fmt.Errorf("%w: %v to %v by %v exceeds %d points", ErrInvalidGrid, g.Min, g.Max, g.Step, MaxGridPoints)
	}
	return nil
}

// count is the number of grid points as a float, +Inf when the span
// overflows.
func (g Grid) count() float64 {
	return math.Floor((g.Max-g.Min)/g.Step+1e-9) + 1
}

// Len is the number of points the grid samples, or 0 for an invalid grid.
func (g Grid) Len() int {
	if g.Validate() != nil {
		return 0
	}
	return int(g.count())
}

// Points lists min, min+step, ... up to max. Each point is computed from
// its index so long grids do not accumulate rounding. An invalid grid has
// no points.
func (g Grid) Points() []float64 {
	pts := make([]float64, g.Len())
	for i := range pts {
		pts[i] = g.Min + float64(i)*g.Step
	}
	return pts
}

// Series is the payoff of a single leg across the grid.
type Series struct {
	Label  string
	Values []float64
}

// Diagram holds per-leg and total strategy payoffs sampled on a grid.
type Diagram struct {
	Underlying []float64
	Legs       []Series
	Total      []float64
}

func NewDiagram(p *Portfolio, g Grid) (*Diagram, error) {
	if p == nil || p.Len() == 0 {
		return nil, ErrEmptyPortfolio
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	d := &Diagram{Underlying: g.Points()}
	d.Total = make([]float64, len(d.Underlying))
	for _, l := range p.Legs() {
		s := Series{Label: l.Label(), Values: make([]float64, len(d.Underlying))}
		for i, x := range d.Underlying {
			s.Values[i] = l.Payoff(x)
		}
		floats.Add(d.Total, s.Values)
		d.Legs = append(d.Legs, s)
	}
	return d, nil
}

// BreakEvens returns the underlying values where the total payoff crosses
// or touches zero, interpolating linearly between grid points.
func (d *Diagram) BreakEvens() []float64 {
	var out []float64
	for i, v := range d.Total {
		if v == 0 {
			out = append(out, d.Underlying[i])
			continue
		}
		if i+1 == len(d.Total) {
			break
		}
		next := d.Total[i+1]
		if next != 0 && (v < 0) != (next < 0) {
			x0, x1 := d.Underlying[i], d.Underlying[i+1]
			out = append(out, x0+(x1-x0)*v/(v-next))
		}
	}
	return out
}

// MaxProfit returns the largest total payoff on the grid and the first
// underlying value where it occurs.
func (d *Diagram) MaxProfit() (underlying, payoff float64) {
	i := floats.MaxIdx(d.Total)
	return d.Underlying[i], d.Total[i]
}

// MaxLoss returns the smallest total payoff on the grid and the first
// underlying value where it occurs.
func (d *Diagram) MaxLoss() (underlying, payoff float64) {
	i := floats.MinIdx(d.Total)
	return d.Underlying[i], d.Total[i]
}
