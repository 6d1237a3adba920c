package payoff

import "fmt"

// Portfolio is an ordered set of legs forming one strategy.
type Portfolio struct {
	legs []Leg
}

func NewPortfolio(legs ...Leg) (*Portfolio, error) {
	p := &Portfolio{}
	if err := p.Add(legs...); err != nil {
		return nil, err
	}
	return p, nil
}

// Add validates every leg before appending any of them.
func (p *Portfolio) Add(legs ...Leg) error {
	for i, l := range legs {
		if l == nil {
			return fmt.Errorf("%w: leg %d is nil", ErrInvalidLeg, i)
		}
		if err := l.Validate(); err != nil {
			return fmt.Errorf("leg %d (%s): %w", i, l.Label(), err)
		}
	}
	p.legs = append(p.legs, legs...)
	return nil
}

func (p *Portfolio) Remove(index int) error {
	if index < 0 || index >= len(p.legs) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(p.legs))
	}
	p.legs = append(p.legs[:index], p.legs[index+1:]...)
	return nil
}

func (p *Portfolio) Legs() []Leg {
	out := make([]Leg, len(p.legs))
	copy(out, p.legs)
	return out
}

func (p *Portfolio) Len() int { return len(p.legs) }
