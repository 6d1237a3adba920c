package dto

import "github.com/jwaldner/atop/payoff"

// ContractRequest carries the fields shared by every priced contract.
// Position defaults to long. Either Years or ExpirationDate (YYYY-MM-DD)
// sets the time to expiry; Years wins when both are given.
type ContractRequest struct {
	Position       string  `json:"position"`
	OptionType     string  `json:"option_type"`
	Underlying     float64 `json:"underlying"`
	Strike         float64 `json:"strike"`
	Volatility     float64 `json:"volatility"`
	RiskFreeRate   float64 `json:"risk_free_rate"`
	Years          float64 `json:"years"`
	ExpirationDate string  `json:"expiration_date"`
}

// BSMRequest represents a Black-Scholes-Merton pricing request
type BSMRequest struct {
	ContractRequest
	DividendYield float64 `json:"dividend_yield"`
	// MarketPrice, when set, also solves for implied volatility
	MarketPrice float64 `json:"market_price"`
}

// BinomialRequest represents an N-period lattice pricing request
type BinomialRequest struct {
	ContractRequest
	Periods      int    `json:"periods"`
	FactorMethod string `json:"factor_method"`
	StepIn       bool   `json:"step_in"`
	// Convergence lists extra period counts to price for comparison
	Convergence []int `json:"convergence"`
}

// OnePeriodRequest represents a one-period lattice request
type OnePeriodRequest struct {
	Position     string  `json:"position"`
	OptionType   string  `json:"option_type"`
	Underlying   float64 `json:"underlying"`
	Strike       float64 `json:"strike"`
	Volatility   float64 `json:"volatility"`
	RiskFreeRate float64 `json:"risk_free_rate"`
}

// SinglePeriodRequest represents a single-period replication request
type SinglePeriodRequest struct {
	Position     string   `json:"position"`
	OptionType   string   `json:"option_type"`
	Underlying   float64  `json:"underlying"`
	Strike       float64  `json:"strike"`
	UpValue      float64  `json:"up_value"`
	DownValue    float64  `json:"down_value"`
	RiskFreeRate float64  `json:"risk_free_rate"`
	UpPayoff     *float64 `json:"up_payoff,omitempty"`
	DownPayoff   *float64 `json:"down_payoff,omitempty"`
}

// LegRequest is one leg of a payoff strategy. Kind is option, stock or bond.
type LegRequest struct {
	Kind       string  `json:"kind"`
	Position   string  `json:"position"`
	OptionType string  `json:"option_type,omitempty"`
	Strike     float64 `json:"strike,omitempty"`
	Premium    float64 `json:"premium,omitempty"`
	Price      float64 `json:"price,omitempty"`
	Fee        float64 `json:"fee,omitempty"`
	Face       float64 `json:"face,omitempty"`
	Quantity   float64 `json:"quantity,omitempty"`
}

// PayoffRequest represents a payoff diagram request. A nil Grid uses the
// configured default.
type PayoffRequest struct {
	Legs []LegRequest `json:"legs"`
	Grid *payoff.Grid `json:"grid,omitempty"`
}
