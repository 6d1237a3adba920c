package opm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// NPeriodInput describes a European option priced on a recombining
// binomial lattice of Periods steps spanning Years.
type NPeriodInput struct {
	Position   Position
	Type       OptionType
	Underlying float64
	Strike     float64
	Volatility float64
	RiskFree   float64
	Periods    int
	Years      float64
	Method     FactorMethod
}

// NPeriodBOPM is the N-period binomial option pricing model. Pricing runs
// backward induction over the terminal payoff vector in O(n^2) time and
// O(n) memory.
type NPeriodBOPM struct {
	Input NPeriodInput
	Factors

	DeltaTime float64
	Value     float64

	terminal []float64
	payoffs  []float64
}

func NewNPeriodBOPM(in NPeriodInput) (*NPeriodBOPM, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	m := &NPeriodBOPM{Input: in, DeltaTime: in.Years / float64(in.Periods)}
	f, err := StepFactors(in.Method, in.RiskFree, in.Volatility, m.DeltaTime)
	if err != nil {
		return nil, err
	}
	m.Factors = f

	m.terminal = m.terminalUnderlying()
	m.payoffs = make([]float64, len(m.terminal))
	for j, s := range m.terminal {
		m.payoffs[j] = Intrinsic(in.Type, s, in.Strike)
	}

	m.Value = m.rollback(nil) * in.Position.Sign()
	return m, nil
}

func (in NPeriodInput) validate() error {
	if in.Periods < 1 {
		return fmt.Errorf("%w: periods must be at least 1, got %d", ErrInvalidInput, in.Periods)
	}
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
	return requireFinite("risk-free rate", in.RiskFree)
}

// terminalUnderlying returns S*u^j*d^(n-j) for j = 0..n, computed in log
// space so large lattices do not overflow.
func (m *NPeriodBOPM) terminalUnderlying() []float64 {
	n := m.Input.Periods
	lu, ld := math.Log(m.Up), math.Log(m.Down)
	ls := math.Log(m.Input.Underlying)
	out := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		out[j] = math.Exp(ls + float64(j)*lu + float64(n-j)*ld)
	}
	return out
}

// rollback discounts the terminal payoffs back to the root. When visit is
// non-nil it is called with every level, terminal level first.
func (m *NPeriodBOPM) rollback(visit func(step int, level []float64)) float64 {
	n := m.Input.Periods
	cur := make([]float64, n+1)
	copy(cur, m.payoffs)
	next := make([]float64, n+1)

	if visit != nil {
		visit(n, cur)
	}
	pu := m.Discount * m.UpProb
	pd := m.Discount * m.DownProb
	for i := n - 1; i >= 0; i-- {
		floats.ScaleTo(next[:i+1], pd, cur[:i+1])
		floats.AddScaled(next[:i+1], pu, cur[1:i+2])
		cur, next = next, cur
		if visit != nil {
			visit(i, cur[:i+1])
		}
	}
	return cur[0]
}

// StepIn returns every level of the lattice, terminal payoffs first and
// the root value last, all with the position sign applied. It keeps the
// whole triangle in memory, so it is meant for small teaching lattices.
func (m *NPeriodBOPM) StepIn() [][]float64 {
	sign := m.Input.Position.Sign()
	levels := make([][]float64, 0, m.Input.Periods+1)
	m.rollback(func(_ int, level []float64) {
		l := make([]float64, len(level))
		floats.ScaleTo(l, sign, level)
		levels = append(levels, l)
	})
	return levels
}

// TerminalUnderlying returns a copy of the underlying values at expiry,
// lowest first.
func (m *NPeriodBOPM) TerminalUnderlying() []float64 {
	return append([]float64(nil), m.terminal...)
}

// TerminalPayoffs returns a copy of the long payoffs at expiry, aligned
// with TerminalUnderlying.
func (m *NPeriodBOPM) TerminalPayoffs() []float64 {
	return append([]float64(nil), m.payoffs...)
}

// ConvergencePoint is one row of a period-count sweep.
type ConvergencePoint struct {
	Periods int
	Value   float64
	Change  float64
}

// Convergence prices base at each period count, in the order given, and
// reports the change from the previous count. It illustrates how the
// lattice value settles as steps are added.
func Convergence(base NPeriodInput, periods []int) ([]ConvergencePoint, error) {
	out := make([]ConvergencePoint, 0, len(periods))
	for i, n := range periods {
		in := base
		in.Periods = n
		m, err := NewNPeriodBOPM(in)
		if err != nil {
			return nil, fmt.Errorf("%d periods: %w", n, err)
		}
		p := ConvergencePoint{Periods: n, Value: m.Value}
		if i > 0 {
			p.Change = p.Value - out[i-1].Value
		}
		out = append(out, p)
	}
	return out, nil
}
