package opm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholesInput describes a European option under Black-Scholes-Merton.
// RiskFree and Dividend are continuously compounded annual rates.
type BlackScholesInput struct {
	Position   Position
	Type       OptionType
	Underlying float64
	Strike     float64
	Volatility float64
	RiskFree   float64
	Years      float64
	Dividend   float64
}

// BlackScholes holds the intermediate values, the value and the greeks
// of a priced contract. Value and greeks carry the position sign; theta
// is per year, vega per unit of volatility and rho per unit of rate.
type BlackScholes struct {
	Input BlackScholesInput

	D1 float64
	D2 float64
	// N1 and N2 are N(d1), N(d2) for a call and N(-d1), N(-d2) for a put.
	N1 float64
	N2 float64

	Value float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

func NewBlackScholes(in BlackScholesInput) (*BlackScholes, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := &BlackScholes{Input: in}
	b.calc()
	return b, nil
}

func (in BlackScholesInput) validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"underlying", in.Underlying},
		{"strike", in.Strike},
		{"volatility", in.Volatility},
		{"time in years", in.Years},
	} {
		if err := requirePositive(c.name, c.v); err != nil {
			return err
		}
	}
	if err := requireFinite("risk-free rate", in.RiskFree); err != nil {
		return err
	}
	return requireFinite("dividend yield", in.Dividend)
}

func (b *BlackScholes) calc() {
	in := b.Input
	norm := distuv.UnitNormal
	sqrtT := math.Sqrt(in.Years)
	volT := in.Volatility * sqrtT
	df := math.Exp(-in.RiskFree * in.Years)
	qf := math.Exp(-in.Dividend * in.Years)

	b.D1 = (math.Log(in.Underlying/in.Strike) + (in.RiskFree-in.Dividend+in.Volatility*in.Volatility/2)*in.Years) / volT
	b.D2 = b.D1 - volT
	pdf := norm.Prob(b.D1)

	b.Gamma = qf * pdf / (in.Underlying * volT)
	b.Vega = in.Underlying * qf * pdf * sqrtT
	decay := -in.Underlying * qf * pdf * in.Volatility / (2 * sqrtT)

	if in.Type == Call {
		b.N1, b.N2 = norm.CDF(b.D1), norm.CDF(b.D2)
		b.Value = in.Underlying*qf*b.N1 - in.Strike*df*b.N2
		b.Delta = qf * b.N1
		b.Theta = decay - in.RiskFree*in.Strike*df*b.N2 + in.Dividend*in.Underlying*qf*b.N1
		b.Rho = in.Strike * in.Years * df * b.N2
	} else {
		b.N1, b.N2 = norm.CDF(-b.D1), norm.CDF(-b.D2)
		b.Value = in.Strike*df*b.N2 - in.Underlying*qf*b.N1
		b.Delta = -qf * b.N1
		b.Theta = decay + in.RiskFree*in.Strike*df*b.N2 - in.Dividend*in.Underlying*qf*b.N1
		b.Rho = -in.Strike * in.Years * df * b.N2
	}

	sign := in.Position.Sign()
	b.Value *= sign
	b.Delta *= sign
	b.Gamma *= sign
	b.Theta *= sign
	b.Vega *= sign
	b.Rho *= sign
}

func (b *BlackScholes) String() string {
	in := b.Input
	return fmt.Sprintf("Black-Scholes-Merton %s %s: underlying $%v, strike $%v, annual volatility %v, "+
		"continuously compounded risk-free rate %v, dividend yield %v, expiring in %v years",
		in.Position, in.Type, in.Underlying, in.Strike, in.Volatility, in.RiskFree, in.Dividend, in.Years)
}

// PutCallParityGap returns C - P - (S*e^(-qT) - K*e^(-rT)) for long call
// and put values. It is zero when the two prices are consistent.
func PutCallParityGap(call, put, underlying, strike, riskFree, dividend, years float64) float64 {
	return call - put - (underlying*math.Exp(-dividend*years) - strike*math.Exp(-riskFree*years))
}

const (
	ivTolerance     = 1e-10
	ivMaxIterations = 100
	ivLow           = 1e-6
	ivHigh          = 5.0
)

// ImpliedVolatility finds the volatility at which the long value of in
// equals target. in.Volatility and in.Position are ignored. Newton steps
// are taken while vega is usable and they stay inside the bracket;
// otherwise the bracket is bisected.
func ImpliedVolatility(in BlackScholesInput, target float64) (float64, error) {
	in.Position = Long
	in.Volatility = ivHigh
	if err := in.validate(); err != nil {
		return 0, err
	}
	if err := requirePositive("target value", target); err != nil {
		return 0, err
	}

	priceAt := func(vol float64) *BlackScholes {
		in.Volatility = vol
		b := &BlackScholes{Input: in}
		b.calc()
		return b
	}

	lo, hi := ivLow, ivHigh
	if pl := priceAt(lo).Value; target < pl {
		return 0, fmt.Errorf("%w: target %v below the minimum model value %v", ErrInvalidInput, target, pl)
	}
	if ph := priceAt(hi).Value; target > ph {
		return 0, fmt.Errorf("%w: target %v above the maximum model value %v", ErrInvalidInput, target, ph)
	}

	vol := 0.2
	for i := 0; i < ivMaxIterations; i++ {
		b := priceAt(vol)
		diff := b.Value - target
		if math.Abs(diff) < ivTolerance {
			return vol, nil
		}
		if diff > 0 {
			hi = vol
		} else {
			lo = vol
		}
		next := vol - diff/b.Vega
		if b.Vega < 1e-12 || next <= lo || next >= hi || math.IsNaN(next) {
			next = (lo + hi) / 2
		}
		vol = next
	}
	return vol, fmt.Errorf("%w: implied volatility did not converge after %d iterations", ErrInvalidInput, ivMaxIterations)
}
