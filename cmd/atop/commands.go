package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jwaldner/atop/internal/config"
	"github.com/jwaldner/atop/internal/dto"
	"github.com/jwaldner/atop/internal/export"
	"github.com/jwaldner/atop/internal/guide"
	"github.com/jwaldner/atop/internal/logger"
	"github.com/jwaldner/atop/internal/services"
	"github.com/jwaldner/atop/opm"
	"github.com/jwaldner/atop/payoff"
)

// autoPath asks for a file name built from the export filename format.
const autoPath = "auto"

var defaultConvergence = []int{1, 2, 10, 100, 500, 1000}

type commands struct {
	cfg      *config.Config
	requests *services.RequestService
	now      func() time.Time
}

func newCommands(cfg *config.Config) *commands {
	return &commands{cfg: cfg, requests: services.NewRequestService(cfg), now: time.Now}
}

func (a *commands) guide(c *cli.Context) *guide.Guide {
	return guide.New(c.App.Writer, guide.Options{
		Rounding: c.Int("rounding"),
		Color:    a.cfg.Guide.Color && !c.Bool("no-color"),
	})
}

func sideFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "position", Value: "long", Usage: "long or short"},
		&cli.StringFlag{Name: "type", Value: "call", Usage: "call or put"},
		&cli.Float64Flag{Name: "underlying", Required: true, Usage: "current underlying value"},
		&cli.Float64Flag{Name: "strike", Required: true, Usage: "strike value"},
		&cli.Float64Flag{Name: "rate", Usage: "continuously compounded annual risk-free rate"},
	}
}

func contractFlags() []cli.Flag {
	return append(sideFlags(),
		&cli.Float64Flag{Name: "volatility", Required: true, Usage: "annual volatility"},
		&cli.Float64Flag{Name: "years", Usage: "time to expiry in years"},
		&cli.StringFlag{Name: "expiration", Usage: "expiration date (YYYY-MM-DD) or next, used when --years is not set"},
	)
}

func contract(c *cli.Context) dto.ContractRequest {
	return dto.ContractRequest{
		Position:       c.String("position"),
		OptionType:     c.String("type"),
		Underlying:     c.Float64("underlying"),
		Strike:         c.Float64("strike"),
		Volatility:     c.Float64("volatility"),
		RiskFreeRate:   c.Float64("rate"),
		Years:          c.Float64("years"),
		ExpirationDate: c.String("expiration"),
	}
}

func (a *commands) bsmCommand() *cli.Command {
	return &cli.Command{
		Name:  "bsm",
		Usage: "price a European option with Black-Scholes-Merton",
		Flags: append(contractFlags(),
			&cli.Float64Flag{Name: "dividend", Usage: "continuous dividend yield"},
			&cli.Float64Flag{Name: "market-price", Usage: "also solve for implied volatility at this price"},
			&cli.BoolFlag{Name: "hide-d", Usage: "hide d1 and d2"},
			&cli.BoolFlag{Name: "hide-n", Usage: "hide the cumulative normal values"},
			&cli.BoolFlag{Name: "hide-greeks", Usage: "hide every greek"},
			&cli.BoolFlag{Name: "hide-delta", Usage: "hide delta"},
			&cli.BoolFlag{Name: "hide-gamma", Usage: "hide gamma"},
			&cli.BoolFlag{Name: "hide-theta", Usage: "hide theta"},
			&cli.BoolFlag{Name: "hide-vega", Usage: "hide vega"},
			&cli.BoolFlag{Name: "hide-rho", Usage: "hide rho"},
		),
		Action: func(c *cli.Context) error {
			req := dto.BSMRequest{
				ContractRequest: contract(c),
				DividendYield:   c.Float64("dividend"),
				MarketPrice:     c.Float64("market-price"),
			}
			in, err := a.requests.BSMInput(req)
			if err != nil {
				return err
			}
			b, err := opm.NewBlackScholes(in)
			if err != nil {
				return err
			}
			logger.Info.Printf("bsm %s %s value %.6f", in.Position, in.Type, b.Value)

			hide := guide.BlackScholesHide{
				DValues: c.Bool("hide-d"),
				NValues: c.Bool("hide-n"),
				Delta:   c.Bool("hide-delta"),
				Gamma:   c.Bool("hide-gamma"),
				Theta:   c.Bool("hide-theta"),
				Vega:    c.Bool("hide-vega"),
				Rho:     c.Bool("hide-rho"),
			}
			if c.Bool("hide-greeks") {
				hide.Greeks()
			}
			g := a.guide(c)
			if err := g.BlackScholes(b, hide); err != nil {
				return err
			}
			if req.MarketPrice == 0 {
				return nil
			}
			iv, err := opm.ImpliedVolatility(in, req.MarketPrice)
			if err != nil {
				return fmt.Errorf("implied volatility: %w", err)
			}
			_, err = fmt.Fprintf(c.App.Writer, "\nImplied volatility at a market price of %s: %s\n", g.Round(req.MarketPrice), guide.Round(iv, 6))
			return err
		},
	}
}

func (a *commands) binomialCommand() *cli.Command {
	return &cli.Command{
		Name:  "binomial",
		Usage: "price a European option on an N-period binomial lattice",
		Flags: append(contractFlags(),
			&cli.IntFlag{Name: "periods", Value: a.cfg.Pricing.Periods, Usage: "number of lattice steps"},
			&cli.StringFlag{Name: "method", Value: a.cfg.Pricing.FactorMethod, Usage: "jarrow or cox"},
			&cli.BoolFlag{Name: "step-in", Usage: "print every lattice level"},
			&cli.BoolFlag{Name: "hide-factors", Usage: "hide the lattice factors"},
			&cli.StringFlag{Name: "csv", Usage: "write the lattice levels as CSV to a file, - for stdout, or auto"},
		),
		Action: func(c *cli.Context) error {
			in, err := a.requests.BinomialInput(dto.BinomialRequest{
				ContractRequest: contract(c),
				Periods:         c.Int("periods"),
				FactorMethod:    c.String("method"),
			})
			if err != nil {
				return err
			}
			start := time.Now()
			m, err := opm.NewNPeriodBOPM(in)
			if err != nil {
				return err
			}
			logger.Info.Printf("%d period %s %s value %.6f in %v", in.Periods, in.Position, in.Type, m.Value, time.Since(start))

			if path := c.String("csv"); path != "" {
				label := fmt.Sprintf("%d %s %s", in.Periods, in.Position, in.Type)
				return a.writeCSV(c, path, "lattice", label, func(w io.Writer) error {
					return export.WriteLatticeCSV(w, m)
				})
			}
			return a.guide(c).NPeriod(m, guide.LatticeHide{
				Factors: c.Bool("hide-factors"),
				StepIn:  !c.Bool("step-in"),
			})
		},
	}
}

func (a *commands) singleCommand() *cli.Command {
	return &cli.Command{
		Name:  "single",
		Usage: "replicate a single-period option from known up and down values",
		Flags: append(sideFlags(),
			&cli.Float64Flag{Name: "up", Required: true, Usage: "underlying value in the up state"},
			&cli.Float64Flag{Name: "down", Required: true, Usage: "underlying value in the down state"},
			&cli.Float64Flag{Name: "up-payoff", Usage: "override the up state payoff"},
			&cli.Float64Flag{Name: "down-payoff", Usage: "override the down state payoff"},
			&cli.BoolFlag{Name: "hide-hedge", Usage: "hide the hedge ratio"},
			&cli.BoolFlag{Name: "hide-bond", Usage: "hide the bond position"},
			&cli.BoolFlag{Name: "hide-payoffs", Usage: "hide the state payoffs"},
			&cli.BoolFlag{Name: "hide-probabilities", Usage: "hide the risk-neutral probabilities"},
		),
		Action: func(c *cli.Context) error {
			req := dto.SinglePeriodRequest{
				Position:     c.String("position"),
				OptionType:   c.String("type"),
				Underlying:   c.Float64("underlying"),
				Strike:       c.Float64("strike"),
				UpValue:      c.Float64("up"),
				DownValue:    c.Float64("down"),
				RiskFreeRate: c.Float64("rate"),
			}
			if c.IsSet("up-payoff") {
				v := c.Float64("up-payoff")
				req.UpPayoff = &v
			}
			if c.IsSet("down-payoff") {
				v := c.Float64("down-payoff")
				req.DownPayoff = &v
			}
			in, err := a.requests.SinglePeriodInput(req)
			if err != nil {
				return err
			}
			sp, err := opm.NewSinglePeriod(in)
			if err != nil {
				return err
			}
			if !sp.ArbitrageFree() {
				logger.Warn.Printf("single period inputs admit arbitrage: up %v down %v rate %v", in.Up, in.Down, in.RiskFree)
			}
			return a.guide(c).SinglePeriod(sp, guide.SinglePeriodHide{
				HedgingSolution: c.Bool("hide-hedge"),
				Bond:            c.Bool("hide-bond"),
				StatePayoffs:    c.Bool("hide-payoffs"),
				RiskNeutral:     c.Bool("hide-probabilities"),
			})
		},
	}
}

func (a *commands) onePeriodCommand() *cli.Command {
	return &cli.Command{
		Name:  "one-period",
		Usage: "price a one-year, one-step lattice option and show its hedge",
		Flags: append(sideFlags(),
			&cli.Float64Flag{Name: "volatility", Required: true, Usage: "annual volatility"},
		),
		Action: func(c *cli.Context) error {
			in, err := a.requests.OnePeriodInput(dto.OnePeriodRequest{
				Position:     c.String("position"),
				OptionType:   c.String("type"),
				Underlying:   c.Float64("underlying"),
				Strike:       c.Float64("strike"),
				Volatility:   c.Float64("volatility"),
				RiskFreeRate: c.Float64("rate"),
			})
			if err != nil {
				return err
			}
			m, err := opm.NewOnePeriodBOPM(in)
			if err != nil {
				return err
			}
			return a.guide(c).OnePeriod(m)
		},
	}
}

func (a *commands) convergeCommand() *cli.Command {
	return &cli.Command{
		Name:  "converge",
		Usage: "price one contract over increasing lattice sizes",
		Flags: append(contractFlags(),
			&cli.IntSliceFlag{Name: "periods", Value: cli.NewIntSlice(defaultConvergence...), Usage: "period counts to price, in order"},
			&cli.StringFlag{Name: "method", Value: a.cfg.Pricing.FactorMethod, Usage: "jarrow or cox"},
			&cli.StringFlag{Name: "csv", Usage: "write the sweep as CSV to a file, - for stdout, or auto"},
		),
		Action: func(c *cli.Context) error {
			periods := c.IntSlice("periods")
			if err := a.requests.CheckConvergence(periods); err != nil {
				return err
			}
			base, err := a.requests.BinomialInput(dto.BinomialRequest{
				ContractRequest: contract(c),
				Periods:         periods[0],
				FactorMethod:    c.String("method"),
			})
			if err != nil {
				return err
			}
			points, err := opm.Convergence(base, periods)
			if err != nil {
				return err
			}
			if path := c.String("csv"); path != "" {
				label := fmt.Sprintf("%s %s", base.Position, base.Type)
				return a.writeCSV(c, path, "convergence", label, func(w io.Writer) error {
					return export.WriteConvergenceCSV(w, points)
				})
			}
			return a.guide(c).Convergence(points)
		},
	}
}

func (a *commands) payoffCommand() *cli.Command {
	return &cli.Command{
		Name:      "payoff",
		Usage:     "tabulate and chart the payoff of a multi-leg strategy",
		UsageText: "atop payoff --leg long:call:40:5.23 --leg long:put:25:3.22 [--png auto]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "leg", Required: true, Usage: "position:call|put:strike:premium[:qty], position:stock:price[:fee[:qty]] or position:bond:price:face[:qty]"},
			&cli.Float64Flag{Name: "min", Value: a.cfg.Payoff.GridMin, Usage: "lowest underlying value"},
			&cli.Float64Flag{Name: "max", Value: a.cfg.Payoff.GridMax, Usage: "highest underlying value"},
			&cli.Float64Flag{Name: "step", Value: a.cfg.Payoff.GridStep, Usage: "grid spacing"},
			&cli.StringFlag{Name: "csv", Usage: "write the diagram as CSV to a file, - for stdout, or auto"},
			&cli.StringFlag{Name: "png", Usage: "save a chart to this file, or auto"},
		},
		Action: func(c *cli.Context) error {
			specs := c.StringSlice("leg")
			req := dto.PayoffRequest{
				Legs: make([]dto.LegRequest, 0, len(specs)),
				Grid: &payoff.Grid{Min: c.Float64("min"), Max: c.Float64("max"), Step: c.Float64("step")},
			}
			for _, spec := range specs {
				lr, err := services.ParseLegSpec(spec)
				if err != nil {
					return err
				}
				req.Legs = append(req.Legs, lr)
			}
			p, grid, err := a.requests.PayoffInput(req)
			if err != nil {
				return err
			}
			d, err := payoff.NewDiagram(p, grid)
			if err != nil {
				return err
			}
			label := strings.Join(legLabels(d), " ")

			if path := c.String("png"); path != "" {
				if path == autoPath {
					path = strings.TrimSuffix(a.filename("payoff", label), filepath.Ext(a.cfg.Export.FilenameFormat)) + ".png"
				}
				if err := export.RenderPayoffChart(path, d, a.cfg.Export.ChartWidth, a.cfg.Export.ChartHeight); err != nil {
					return err
				}
				logger.Info.Printf("payoff chart saved to %s", path)
			}
			if path := c.String("csv"); path != "" {
				return a.writeCSV(c, path, "payoff", label, func(w io.Writer) error {
					return export.WritePayoffCSV(w, d)
				})
			}
			return a.guide(c).Payoff(d)
		},
	}
}

func legLabels(d *payoff.Diagram) []string {
	labels := make([]string, len(d.Legs))
	for i, s := range d.Legs {
		labels[i] = s.Label
	}
	return labels
}

func (a *commands) filename(kind, label string) string {
	return export.FormatFilename(a.cfg.Export.FilenameFormat, export.FilenameFields(kind, label, a.now()))
}

// writeCSV sends CSV output to stdout for "-", to a generated file name
// for "auto" and to path otherwise.
func (a *commands) writeCSV(c *cli.Context, path, kind, label string, write func(io.Writer) error) error {
	if path == "-" {
		return write(c.App.Writer)
	}
	if path == autoPath {
		path = a.filename(kind, label)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s csv: %w", kind, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logger.Info.Printf("%s csv saved to %s", kind, path)
	_, err = fmt.Fprintf(c.App.Writer, "✅ %s written to %s\n", kind, path)
	return err
}
