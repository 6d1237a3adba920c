package models

// Response is the envelope every pricing endpoint returns
type Response struct {
	Success bool             `json:"success"`
	Data    interface{}      `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
	Meta    ResponseMetadata `json:"meta"`
}

type ResponseMetadata struct {
	RequestID      string  `json:"request_id"`
	Model          string  `json:"model,omitempty"`
	Timestamp      string  `json:"timestamp"`
	ProcessingTime float64 `json:"processing_time_ms"`
}

// ContractDescription echoes the priced contract back to the client
type ContractDescription struct {
	Position     string  `json:"position"`
	OptionType   string  `json:"option_type"`
	Underlying   float64 `json:"underlying"`
	Strike       float64 `json:"strike"`
	Volatility   float64 `json:"volatility,omitempty"`
	RiskFreeRate float64 `json:"risk_free_rate"`
	Years        float64 `json:"years,omitempty"`
	Description  string  `json:"description"`
}

// BSMResult represents Black-Scholes-Merton output
type BSMResult struct {
	Contract          ContractDescription `json:"contract"`
	DividendYield     float64             `json:"dividend_yield"`
	D1                float64             `json:"d1"`
	D2                float64             `json:"d2"`
	N1                float64             `json:"n1"`
	N2                float64             `json:"n2"`
	Value             float64             `json:"value"`
	Delta             float64             `json:"delta"`
	Gamma             float64             `json:"gamma"`
	Theta             float64             `json:"theta"`
	Vega              float64             `json:"vega"`
	Rho               float64             `json:"rho"`
	ImpliedVolatility *float64            `json:"implied_volatility,omitempty"`
}

// FactorsResult are the per-step lattice factors
type FactorsResult struct {
	Up       float64 `json:"up"`
	Down     float64 `json:"down"`
	UpProb   float64 `json:"up_probability"`
	DownProb float64 `json:"down_probability"`
	Discount float64 `json:"discount"`
}

// ConvergenceRow is one entry of a period-count comparison
type ConvergenceRow struct {
	Periods int     `json:"periods"`
	Value   float64 `json:"value"`
	Change  float64 `json:"change"`
}

// BinomialResult represents N-period lattice output
type BinomialResult struct {
	Contract     ContractDescription `json:"contract"`
	Periods      int                 `json:"periods"`
	FactorMethod string              `json:"factor_method"`
	DeltaTime    float64             `json:"delta_time"`
	Factors      FactorsResult       `json:"factors"`
	Value        float64             `json:"value"`
	StepIn       [][]float64         `json:"step_in,omitempty"`
	Convergence  []ConvergenceRow    `json:"convergence,omitempty"`
}

// OnePeriodResult represents one-period lattice output
type OnePeriodResult struct {
	Contract   ContractDescription `json:"contract"`
	Factors    FactorsResult       `json:"factors"`
	UpValue    float64             `json:"up_value"`
	DownValue  float64             `json:"down_value"`
	UpPayoff   float64             `json:"up_payoff"`
	DownPayoff float64             `json:"down_payoff"`
	HedgeRatio float64             `json:"hedge_ratio"`
	Bond       float64             `json:"bond"`
	Value      float64             `json:"value"`
}

// SinglePeriodResult represents single-period replication output
type SinglePeriodResult struct {
	Contract      ContractDescription `json:"contract"`
	UpValue       float64             `json:"up_value"`
	DownValue     float64             `json:"down_value"`
	UpPayoff      float64             `json:"up_payoff"`
	DownPayoff    float64             `json:"down_payoff"`
	Overridden    bool                `json:"payoffs_overridden"`
	HedgeRatio    float64             `json:"hedge_ratio"`
	Bond          float64             `json:"bond"`
	Value         float64             `json:"value"`
	UpProb        float64             `json:"up_probability"`
	DownProb      float64             `json:"down_probability"`
	ArbitrageFree bool                `json:"arbitrage_free"`
}

// SeriesResult is one named payoff line
type SeriesResult struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// PayoffResult represents a payoff diagram
type PayoffResult struct {
	Underlying []float64      `json:"underlying"`
	Legs       []SeriesResult `json:"legs"`
	Total      []float64      `json:"total"`
	BreakEvens []float64      `json:"break_evens"`
	MaxProfit  Extremum       `json:"max_profit"`
	MaxLoss    Extremum       `json:"max_loss"`
}

type Extremum struct {
	Underlying float64 `json:"underlying"`
	Payoff     float64 `json:"payoff"`
}
