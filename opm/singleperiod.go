package opm

import "fmt"

// SinglePeriodInput describes a one-step, two-state option where the
// next-period underlying values are known in advance. RiskFree is the
// simple rate earned over the period.
//
// UpPayoff and DownPayoff override the computed state payoffs. An
// overridden payoff is used as given, which lets a node be priced from
// the values of the nodes that follow it in a larger tree.
type SinglePeriodInput struct {
	Position   Position
	Type       OptionType
	Underlying float64
	Strike     float64
	Up         float64
	Down       float64
	RiskFree   float64
	UpPayoff   *float64
	DownPayoff *float64
}

// SinglePeriod is a priced single-period replication: the option is
// matched by HedgeRatio units of the underlying plus a risk-free bond
// position worth Bond today.
type SinglePeriod struct {
	Input SinglePeriodInput

	UpPayoff   float64
	DownPayoff float64
	HedgeRatio float64
	Bond       float64
	Value      float64
	UpProb     float64
	DownProb   float64
}

func NewSinglePeriod(in SinglePeriodInput) (*SinglePeriod, error) {
	if err := requirePositive("underlying", in.Underlying); err != nil {
		return nil, err
	}
	if err := requirePositive("strike", in.Strike); err != nil {
		return nil, err
	}
	if err := requireFinite("up value", in.Up); err != nil {
		return nil, err
	}
	if err := requireFinite("down value", in.Down); err != nil {
		return nil, err
	}
	if in.Up <= in.Down {
		return nil, fmt.Errorf("%w: up value %v must exceed down value %v", ErrInvalidInput, in.Up, in.Down)
	}
	if err := requireFinite("risk-free rate", in.RiskFree); err != nil {
		return nil, err
	}
	if in.RiskFree <= -1 {
		return nil, fmt.Errorf("%w: risk-free rate %v must exceed -1", ErrInvalidInput, in.RiskFree)
	}

	sp := &SinglePeriod{Input: in}
	sign := in.Position.Sign()

	sp.UpPayoff = Intrinsic(in.Type, in.Up, in.Strike) * sign
	if in.UpPayoff != nil {
		sp.UpPayoff = *in.UpPayoff
	}
	sp.DownPayoff = Intrinsic(in.Type, in.Down, in.Strike) * sign
	if in.DownPayoff != nil {
		sp.DownPayoff = *in.DownPayoff
	}

	growth := 1 + in.RiskFree
	sp.HedgeRatio = (sp.UpPayoff - sp.DownPayoff) / (in.Up - in.Down)
	sp.Bond = (sp.UpPayoff - sp.HedgeRatio*in.Up) / growth
	sp.Value = sp.HedgeRatio*in.Underlying + sp.Bond

	sp.UpProb = (growth*in.Underlying - in.Down) / (in.Up - in.Down)
	sp.DownProb = 1 - sp.UpProb
	return sp, nil
}

// Overridden reports whether either state payoff was supplied by the caller.
func (sp *SinglePeriod) Overridden() bool {
	return sp.Input.UpPayoff != nil || sp.Input.DownPayoff != nil
}

// ArbitrageFree reports whether the risk-neutral probabilities lie in
// [0, 1], i.e. Down <= Underlying*(1+rf) <= Up.
func (sp *SinglePeriod) ArbitrageFree() bool {
	return sp.UpProb >= 0 && sp.UpProb <= 1
}
