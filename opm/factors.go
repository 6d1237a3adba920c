package opm

import (
	"fmt"
	"math"
	"strings"
)

// FactorMethod selects how the up and down moves of a binomial step are
// derived from volatility.
type FactorMethod int

const (
	// JarrowRudd centres the log move on the risk-neutral drift, giving
	// risk-neutral probabilities close to one half.
	JarrowRudd FactorMethod = iota
	// CoxRossRubinstein uses symmetric log moves, d = 1/u.
	CoxRossRubinstein
)

func (m FactorMethod) String() string {
	if m == CoxRossRubinstein {
		return "Cox-Ross-Rubinstein"
	}
	return "Jarrow-Rudd"
}

func ParseFactorMethod(s string) (FactorMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jarrow", "jarrow-rudd", "jarrowrudd", "jr":
		return JarrowRudd, nil
	case "cox", "crr", "cox-ross-rubinstein", "coxrossrubinstein":
		return CoxRossRubinstein, nil
	}
	return JarrowRudd, fmt.Errorf("%w: %q (use jarrow or cox)", ErrInvalidFactorMethod, s)
}

// Factors are the per-step multipliers and risk-neutral probabilities of
// a recombining binomial lattice.
type Factors struct {
	Up       float64
	Down     float64
	UpProb   float64
	DownProb float64
	// Discount is exp(-r*dt), the one-step discount factor.
	Discount float64
}

// StepFactors derives the lattice factors for a step of dt years under a
// continuously compounded rate r and annual volatility sigma.
func StepFactors(method FactorMethod, r, sigma, dt float64) (Factors, error) {
	var f Factors
	sq := sigma * math.Sqrt(dt)
	switch method {
	case JarrowRudd:
		drift := r*dt - sigma*sigma/2*dt
		f.Up = math.Exp(drift + sq)
		f.Down = math.Exp(drift - sq)
	case CoxRossRubinstein:
		f.Up = math.Exp(sq)
		f.Down = 1 / f.Up
	default:
		return f, fmt.Errorf("%w: %d", ErrInvalidFactorMethod, method)
	}

	growth := math.Exp(r * dt)
	f.UpProb = (growth - f.Down) / (f.Up - f.Down)
	f.DownProb = 1 - f.UpProb
	f.Discount = 1 / growth

	if f.UpProb < 0 || f.UpProb > 1 || math.IsNaN(f.UpProb) {
		return f, fmt.Errorf("%w: risk-neutral up probability %v outside [0,1] (u=%v d=%v)",
			ErrInvalidInput, f.UpProb, f.Up, f.Down)
	}
	return f, nil
}
