package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/jwaldner/atop/internal/guide"
	"github.com/jwaldner/atop/opm"
)

// exampleContract is the contract used throughout the showcase.
var exampleContract = opm.NPeriodInput{
	Underlying: 100,
	Strike:     110,
	Volatility: 0.14247,
	RiskFree:   0.05,
	Years:      1,
	Method:     opm.JarrowRudd,
}

var exampleSides = []struct {
	pos opm.Position
	typ opm.OptionType
}{
	{opm.Long, opm.Call},
	{opm.Short, opm.Call},
	{opm.Long, opm.Put},
	{opm.Short, opm.Put},
}

func (a *commands) examplesCommand() *cli.Command {
	return &cli.Command{
		Name:  "examples",
		Usage: "print a tour of every model on one contract",
		Action: func(c *cli.Context) error {
			return a.runExamples(c.App.Writer, a.guide(c))
		},
	}
}

// tourWriter keeps the first write error and skips every write after it.
type tourWriter struct {
	w   io.Writer
	err error
}

func (t *tourWriter) printf(format string, args ...interface{}) {
	if t.err == nil {
		_, t.err = fmt.Fprintf(t.w, format, args...)
	}
}

func (t *tourWriter) println(args ...interface{}) {
	if t.err == nil {
		_, t.err = fmt.Fprintln(t.w, args...)
	}
}

func (a *commands) runExamples(w io.Writer, g *guide.Guide) error {
	tw := &tourWriter{w: w}
	tw.println("N-period binomial pricing model examples:")
	for _, n := range []int{2, 500} {
		for _, s := range exampleSides {
			in := exampleContract
			in.Position, in.Type, in.Periods = s.pos, s.typ, n
			m, err := opm.NewNPeriodBOPM(in)
			if err != nil {
				return err
			}
			tw.printf("%d period %s %s: %.5f\n", n, s.pos, s.typ, m.Value)
		}
	}

	tw.println("\nDiminishing change as periods are added:")
	sweep := []int{500, 1000, 5000, 10000}
	for _, n := range sweep {
		if err := a.requests.CheckPeriods(n); err != nil {
			return err
		}
	}
	base := exampleContract
	base.Type = opm.Call
	points, err := opm.Convergence(base, sweep)
	if err != nil {
		return err
	}
	for _, p := range points {
		tw.printf("%d period long call: %.5f (change %+.5f)\n", p.Periods, p.Value, p.Change)
	}

	tw.println("\nBlack-Scholes-Merton option pricing model examples:")
	for _, s := range exampleSides {
		b, err := opm.NewBlackScholes(opm.BlackScholesInput{
			Position:   s.pos,
			Type:       s.typ,
			Underlying: exampleContract.Underlying,
			Strike:     exampleContract.Strike,
			Volatility: exampleContract.Volatility,
			RiskFree:   exampleContract.RiskFree,
			Years:      exampleContract.Years,
		})
		if err != nil {
			return err
		}
		tw.printf("%s %s: %.5f\n", s.pos, s.typ, b.Value)
	}

	tw.println("\nOne period binomial examples:")
	for _, s := range exampleSides {
		m, err := opm.NewOnePeriodBOPM(opm.OnePeriodInput{
			Position:   s.pos,
			Type:       s.typ,
			Underlying: exampleContract.Underlying,
			Strike:     exampleContract.Strike,
			Volatility: exampleContract.Volatility,
			RiskFree:   exampleContract.RiskFree,
		})
		if err != nil {
			return err
		}
		tw.printf("%s %s: %.5f\n", s.pos, s.typ, m.Value)
	}

	tw.println("\nThe N-period lattice with a single period agrees:")
	for _, s := range exampleSides {
		in := exampleContract
		in.Position, in.Type, in.Periods = s.pos, s.typ, 1
		m, err := opm.NewNPeriodBOPM(in)
		if err != nil {
			return err
		}
		tw.printf("%s %s: %.5f\n", s.pos, s.typ, m.Value)
	}

	tw.println()
	if tw.err != nil {
		return tw.err
	}
	stepIn := exampleContract
	stepIn.Type, stepIn.Periods = opm.Call, 4
	m, err := opm.NewNPeriodBOPM(stepIn)
	if err != nil {
		return err
	}
	return g.NPeriod(m, guide.LatticeHide{})
}
