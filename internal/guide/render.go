package guide

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwaldner/atop/opm"
	"github.com/jwaldner/atop/payoff"
)

// stepInLimit is the largest lattice whose levels are printed in full.
const stepInLimit = 12

type SinglePeriodHide struct {
	HedgingSolution bool
	Bond            bool
	StatePayoffs    bool
	RiskNeutral     bool
}

func (h SinglePeriodHide) any() bool {
	return h.HedgingSolution || h.Bond || h.StatePayoffs || h.RiskNeutral
}

type BlackScholesHide struct {
	DValues bool
	NValues bool
	Delta   bool
	Gamma   bool
	Theta   bool
	Vega    bool
	Rho     bool
}

// Greeks hides every greek at once.
func (h *BlackScholesHide) Greeks() {
	h.Delta, h.Gamma, h.Theta, h.Vega, h.Rho = true, true, true, true, true
}

func (h BlackScholesHide) any() bool {
	return h.DValues || h.NValues || h.Delta || h.Gamma || h.Theta || h.Vega || h.Rho
}

type LatticeHide struct {
	Factors bool
	StepIn  bool
}

func (g *Guide) SinglePeriod(sp *opm.SinglePeriod, hide SinglePeriodHide) error {
	in := sp.Input
	g.header(fmt.Sprintf("SINGLE PERIOD %s %s", strings.ToUpper(in.Position.String()), strings.ToUpper(in.Type.String())))
	g.paragraph(fmt.Sprintf(
		"The calculations below are for a single period %s %s where the underlying value is %s,\n"+
			"with a strike value of %s, an up value of %s, a down value of %s, and a risk free rate of %s.",
		strings.ToLower(in.Position.String()), strings.ToLower(in.Type.String()),
		g.Round(in.Underlying), g.Round(in.Strike), g.Round(in.Up), g.Round(in.Down), g.Round(in.RiskFree)),
		hide.any(), sp.Overridden())

	g.subheading("Calculations")
	rows := [][]string{{"Option value", g.Round(sp.Value)}}
	if !hide.HedgingSolution {
		rows = append(rows, []string{"Hedge ratio", g.Round(sp.HedgeRatio)})
	}
	if !hide.Bond {
		rows = append(rows, []string{"Bond position (present value)", g.Round(sp.Bond)})
	}
	if !hide.StatePayoffs {
		rows = append(rows,
			[]string{"Up state payoff", g.Round(sp.UpPayoff)},
			[]string{"Down state payoff", g.Round(sp.DownPayoff)})
	}
	if !hide.RiskNeutral {
		rows = append(rows,
			[]string{"Risk-neutral up probability", g.Round(sp.UpProb)},
			[]string{"Risk-neutral down probability", g.Round(sp.DownProb)})
	}
	g.table([]string{"Output", "Value"}, rows)

	if !sp.ArbitrageFree() {
		g.warning.Fprintln(g.w, "The up and down values admit arbitrage at this risk free rate.")
	}
	return g.err()
}

func (g *Guide) OnePeriod(m *opm.OnePeriodBOPM) error {
	in := m.Input
	g.header(fmt.Sprintf("ONE PERIOD BINOMIAL %s %s", strings.ToUpper(in.Position.String()), strings.ToUpper(in.Type.String())))
	g.paragraph(fmt.Sprintf(
		"The calculations below price a %s %s over one annual Jarrow-Rudd step where the underlying value is %s,\n"+
			"with a strike value of %s, an annual volatility of %s, and a continuously compounded risk free rate of %s.",
		strings.ToLower(in.Position.String()), strings.ToLower(in.Type.String()),
		g.Round(in.Underlying), g.Round(in.Strike), g.Round(in.Volatility), g.Round(in.RiskFree)),
		false, false)

	g.subheading("Calculations")
	g.table([]string{"Output", "Value"}, [][]string{
		{"Up factor (u)", g.Round(m.Up)},
		{"Down factor (d)", g.Round(m.Down)},
		{"Up state underlying", g.Round(m.UpValue)},
		{"Down state underlying", g.Round(m.DownValue)},
		{"Up state payoff", g.Round(m.UpPayoff)},
		{"Down state payoff", g.Round(m.DownPayoff)},
		{"Hedge ratio", g.Round(m.HedgeRatio)},
		{"Bond position (present value)", g.Round(m.Bond)},
		{"Risk-neutral up probability", g.Round(m.UpProb)},
		{"Option value", g.Round(m.Value)},
	})
	return g.err()
}

func (g *Guide) NPeriod(m *opm.NPeriodBOPM, hide LatticeHide) error {
	in := m.Input
	g.header(fmt.Sprintf("%d PERIOD BINOMIAL %s %s", in.Periods, strings.ToUpper(in.Position.String()), strings.ToUpper(in.Type.String())))
	g.paragraph(fmt.Sprintf(
		"The calculations below price a %s %s on a %d period %s lattice spanning %s years,\n"+
			"where the underlying value is %s, with a strike value of %s, an annual volatility of %s,\n"+
			"and a continuously compounded risk free rate of %s.",
		strings.ToLower(in.Position.String()), strings.ToLower(in.Type.String()), in.Periods, in.Method,
		g.Round(in.Years), g.Round(in.Underlying), g.Round(in.Strike), g.Round(in.Volatility), g.Round(in.RiskFree)),
		hide.Factors || hide.StepIn, false)

	g.subheading("Calculations")
	rows := [][]string{{"Option value", g.Round(m.Value)}}
	if !hide.Factors {
		rows = append(rows,
			[]string{"Period length (years)", g.Round(m.DeltaTime)},
			[]string{"Up factor (u)", g.Round(m.Up)},
			[]string{"Down factor (d)", g.Round(m.Down)},
			[]string{"Risk-neutral up probability", g.Round(m.UpProb)},
			[]string{"Risk-neutral down probability", g.Round(m.DownProb)},
			[]string{"One period discount", g.Round(m.Discount)})
	}
	g.table([]string{"Output", "Value"}, rows)

	if hide.StepIn {
		return g.err()
	}
	fmt.Fprintln(g.w)
	g.subheading("Step-in")
	if in.Periods > stepInLimit {
		fmt.Fprintf(g.w, "The step-in table is shown for lattices of at most %d periods.\n", stepInLimit)
		return g.err()
	}
	levels := m.StepIn()
	header := []string{"Step"}
	for j := 0; j <= in.Periods; j++ {
		header = append(header, "Node "+strconv.Itoa(j))
	}
	rows = make([][]string, 0, len(levels))
	for i, level := range levels {
		row := []string{strconv.Itoa(in.Periods - i)}
		for _, v := range level {
			row = append(row, g.Round(v))
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	g.table(header, rows)
	return g.err()
}

func (g *Guide) BlackScholes(b *opm.BlackScholes, hide BlackScholesHide) error {
	in := b.Input
	g.header(fmt.Sprintf("BLACK-SCHOLES-MERTON %s %s", strings.ToUpper(in.Position.String()), strings.ToUpper(in.Type.String())))
	g.paragraph(b.String()+".", hide.any(), false)

	g.subheading("Internal Values")
	rows := [][]string{{in.Type.String() + " option value", g.Round(b.Value)}}
	if !hide.DValues {
		rows = append(rows, []string{"d1", g.Round(b.D1)}, []string{"d2", g.Round(b.D2)})
	}
	if !hide.NValues {
		rows = append(rows,
			[]string{"Cumulative normal using d1", g.Round(b.N1)},
			[]string{"Cumulative normal using d2", g.Round(b.N2)})
	}
	for _, greek := range []struct {
		name   string
		v      float64
		hidden bool
	}{
		{"Delta", b.Delta, hide.Delta},
		{"Gamma", b.Gamma, hide.Gamma},
		{"Theta (per year)", b.Theta, hide.Theta},
		{"Vega", b.Vega, hide.Vega},
		{"Rho", b.Rho, hide.Rho},
	} {
		if !greek.hidden {
			rows = append(rows, []string{greek.name, g.Round(greek.v)})
		}
	}
	g.table([]string{"Output", "Value"}, rows)
	return g.err()
}

// Convergence shows how the lattice value settles as periods grow.
func (g *Guide) Convergence(rows []opm.ConvergencePoint) error {
	g.header("LATTICE CONVERGENCE")
	fmt.Fprintln(g.w)
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{strconv.Itoa(r.Periods), g.Round(r.Value), g.Round(r.Change)})
	}
	g.table([]string{"Periods", "Value", "Change"}, out)
	return g.err()
}

func (g *Guide) Payoff(d *payoff.Diagram) error {
	labels := make([]string, len(d.Legs))
	for i, s := range d.Legs {
		labels[i] = s.Label
	}
	g.header("PAYOFF DIAGRAM")
	g.paragraph("Net payoff at expiry for the strategy: "+strings.Join(labels, ", ")+".", false, false)

	g.subheading("Summary")
	bes := make([]string, 0, len(d.BreakEvens()))
	for _, v := range d.BreakEvens() {
		bes = append(bes, g.Round(v))
	}
	if len(bes) == 0 {
		bes = append(bes, "none on grid")
	}
	px, pv := d.MaxProfit()
	lx, lv := d.MaxLoss()
	g.table([]string{"Output", "Value"}, [][]string{
		{"Break-even underlying", strings.Join(bes, ", ")},
		{"Max profit on grid", g.Round(pv) + " at " + g.Round(px)},
		{"Max loss on grid", g.Round(lv) + " at " + g.Round(lx)},
	})

	fmt.Fprintln(g.w)
	g.subheading("Payoffs")
	header := append([]string{"Underlying"}, labels...)
	header = append(header, "Total")
	rows := make([][]string, len(d.Underlying))
	for i, x := range d.Underlying {
		row := []string{g.Round(x)}
		for _, s := range d.Legs {
			row = append(row, g.Round(s.Values[i]))
		}
		rows[i] = append(row, g.Round(d.Total[i]))
	}
	g.table(header, rows)
	return g.err()
}
