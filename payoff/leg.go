// Package payoff builds expiry payoff diagrams for strategies made of
// option, stock and zero-coupon bond legs.
package payoff

import (
	"errors"
	"fmt"
	"math"

	"github.com/jwaldner/atop/opm"
)

var (
	ErrInvalidLeg      = errors.New("invalid leg")
	ErrInvalidGrid     = errors.New("invalid grid")
	ErrEmptyPortfolio  = errors.New("portfolio has no legs")
	ErrIndexOutOfRange = errors.New("leg index out of range")
)

// Leg is one position of a strategy. Payoff is the net profit at expiry
// for an underlying value x, premiums and fees included.
type Leg interface {
	Payoff(x float64) float64
	Label() string
	Validate() error
}

// Option is a European option bought or written for Premium per unit.
// A zero Quantity counts as one contract.
type Option struct {
	Position opm.Position
	Type     opm.OptionType
	Strike   float64
	Premium  float64
	Quantity float64
}

func (o Option) Payoff(x float64) float64 {
	net := opm.Intrinsic(o.Type, x, o.Strike) - o.Premium
	return o.Position.Sign() * net * quantity(o.Quantity)
}

func (o Option) Label() string {
	return fmt.Sprintf("%s %s %g", o.Position, o.Type, o.Strike)
}

func (o Option) Validate() error {
	if !(o.Strike > 0) || math.IsInf(o.Strike, 0) {
		return fmt.Errorf("%w: strike must be positive, got %v", ErrInvalidLeg, o.Strike)
	}
	if err := nonNegative("premium", o.Premium); err != nil {
		return err
	}
	return nonNegative("quantity", o.Quantity)
}

// Stock is shares bought or sold short at Price, paying Fee per share
// either way.
type Stock struct {
	Position opm.Position
	Price    float64
	Fee      float64
	Quantity float64
}

func (s Stock) Payoff(x float64) float64 {
	return (s.Position.Sign()*(x-s.Price) - s.Fee) * quantity(s.Quantity)
}

func (s Stock) Label() string {
	return fmt.Sprintf("%s Stock %g", s.Position, s.Price)
}

func (s Stock) Validate() error {
	if !(s.Price > 0) || math.IsInf(s.Price, 0) {
		return fmt.Errorf("%w: stock price must be positive, got %v", ErrInvalidLeg, s.Price)
	}
	if err := nonNegative("fee", s.Fee); err != nil {
		return err
	}
	return nonNegative("quantity", s.Quantity)
}

// Bond is a zero-coupon bond bought or issued at Price and redeemed at
// Face. Its payoff does not depend on the underlying.
type Bond struct {
	Position opm.Position
	Price    float64
	Face     float64
	Quantity float64
}

func (b Bond) Payoff(float64) float64 {
	return b.Position.Sign() * (b.Face - b.Price) * quantity(b.Quantity)
}

func (b Bond) Label() string {
	return fmt.Sprintf("%s Bond %g", b.Position, b.Face)
}

func (b Bond) Validate() error {
	if !(b.Price > 0) || math.IsInf(b.Price, 0) {
		return fmt.Errorf("%w: bond price must be positive, got %v", ErrInvalidLeg, b.Price)
	}
	if !(b.Face > 0) || math.IsInf(b.Face, 0) {
		return fmt.Errorf("%w: face value must be positive, got %v", ErrInvalidLeg, b.Face)
	}
	return nonNegative("quantity", b.Quantity)
}

func quantity(q float64) float64 {
	if q == 0 {
		return 1
	}
	return q
}

func nonNegative(name string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be zero or positive, got %v", ErrInvalidLeg, name, v)
	}
	return nil
}
