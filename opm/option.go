package opm

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidOptionType   = errors.New("invalid option type")
	ErrInvalidPosition     = errors.New("invalid trade position")
	ErrInvalidFactorMethod = errors.New("invalid factor method")
	ErrInvalidInput        = errors.New("invalid pricing input")
)

// OptionType is the right carried by the contract.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (t OptionType) String() string {
	if t == Put {
		return "Put"
	}
	return "Call"
}

// ParseOptionType accepts "call"/"put" in any case, plus the single
// letter forms "c" and "p".
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return Call, fmt.Errorf("%w: %q (use call or put)", ErrInvalidOptionType, s)
}

// Position is the side of the trade.
type Position int

const (
	Long Position = iota
	Short
)

func (p Position) String() string {
	if p == Short {
		return "Short"
	}
	return "Long"
}

// Sign is +1 for long and -1 for short. A short value is the cash inflow
// from writing the contract, so it carries the opposite sign.
func (p Position) Sign() float64 {
	if p == Short {
		return -1
	}
	return 1
}

// ParsePosition accepts "long"/"short" in any case.
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long":
		return Long, nil
	case "short":
		return Short, nil
	}
	return Long, fmt.Errorf("%w: %q (use long or short)", ErrInvalidPosition, s)
}

// Intrinsic is the exercise value of a long contract at the given
// underlying value.
func Intrinsic(t OptionType, underlying, strike float64) float64 {
	if t == Put {
		return math.Max(strike-underlying, 0)
	}
	return math.Max(underlying-strike, 0)
}

func requirePositive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidInput, name, v)
	}
	return nil
}

func requireFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidInput, name, v)
	}
	return nil
}
