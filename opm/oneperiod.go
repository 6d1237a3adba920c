package opm

import "math"

// OnePeriodInput describes a one-year, one-step lattice option. Unlike
// SinglePeriodInput the next-period values come from volatility rather
// than being given.
type OnePeriodInput struct {
	Position   Position
	Type       OptionType
	Underlying float64
	Strike     float64
	Volatility float64
	RiskFree   float64
}

// OnePeriodBOPM prices a single Jarrow-Rudd step by replication and
// keeps the hedge so it can be displayed. Its value equals an
// NPeriodBOPM with one period over one year.
type OnePeriodBOPM struct {
	Input OnePeriodInput
	Factors

	UpValue    float64
	DownValue  float64
	UpPayoff   float64
	DownPayoff float64
	HedgeRatio float64
	Bond       float64
	Value      float64
}

func NewOnePeriodBOPM(in OnePeriodInput) (*OnePeriodBOPM, error) {
	lattice, err := NewNPeriodBOPM(NPeriodInput{
		Position:   in.Position,
		Type:       in.Type,
		Underlying: in.Underlying,
		Strike:     in.Strike,
		Volatility: in.Volatility,
		RiskFree:   in.RiskFree,
		Periods:    1,
		Years:      1,
		Method:     JarrowRudd,
	})
	if err != nil {
		return nil, err
	}

	m := &OnePeriodBOPM{Input: in, Factors: lattice.Factors}
	sign := in.Position.Sign()
	m.UpValue = in.Underlying * m.Up
	m.DownValue = in.Underlying * m.Down
	m.UpPayoff = Intrinsic(in.Type, m.UpValue, in.Strike) * sign
	m.DownPayoff = Intrinsic(in.Type, m.DownValue, in.Strike) * sign

	m.HedgeRatio = (m.UpPayoff - m.DownPayoff) / (m.UpValue - m.DownValue)
	m.Bond = math.Exp(-in.RiskFree) * (m.UpPayoff - m.HedgeRatio*m.UpValue)
	m.Value = m.HedgeRatio*in.Underlying + m.Bond
	return m, nil
}
