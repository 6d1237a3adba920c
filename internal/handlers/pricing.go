package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jwaldner/atop/internal/config"
	"github.com/jwaldner/atop/internal/logger"
	"github.com/jwaldner/atop/internal/models"
	"github.com/jwaldner/atop/internal/services"
	"github.com/jwaldner/atop/opm"
	"github.com/jwaldner/atop/payoff"
)

// RequestIDHeader carries the id assigned to every API request.
const RequestIDHeader = "X-Request-ID"

// PricingHandler serves the pricing models over JSON - DUMB HTTP layer only
type PricingHandler struct {
	config   *config.Config
	requests *services.RequestService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(cfg *config.Config) *PricingHandler {
	return &PricingHandler{
		config:   cfg,
		requests: services.NewRequestService(cfg),
	}
}

// RequestID tags each request with a fresh uuid unless the client sent one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// HealthHandler reports liveness
func (h *PricingHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "health", time.Now(), map[string]interface{}{
		"status":      "ok",
		"max_periods": h.config.Pricing.MaxPeriods,
	})
}

// BSMHandler prices a contract with Black-Scholes-Merton
func (h *PricingHandler) BSMHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, in, err := h.requests.ParseBSMRequest(r)
	if err != nil {
		h.fail(w, "bsm", start, err)
		return
	}
	b, err := opm.NewBlackScholes(in)
	if err != nil {
		h.fail(w, "bsm", start, err)
		return
	}

	result := models.BSMResult{
		Contract:      describe(in.Position, in.Type, in.Underlying, in.Strike, in.Volatility, in.RiskFree, in.Years, b.String()),
		DividendYield: in.Dividend,
		D1:            b.D1,
		D2:            b.D2,
		N1:            b.N1,
		N2:            b.N2,
		Value:         b.Value,
		Delta:         b.Delta,
		Gamma:         b.Gamma,
		Theta:         b.Theta,
		Vega:          b.Vega,
		Rho:           b.Rho,
	}
	if req.MarketPrice > 0 {
		iv, err := opm.ImpliedVolatility(in, req.MarketPrice)
		if err != nil {
			h.fail(w, "bsm", start, err)
			return
		}
		result.ImpliedVolatility = &iv
	}
	h.respond(w, "bsm", start, result)
}

// BinomialHandler prices a contract on the N-period lattice
func (h *PricingHandler) BinomialHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, in, err := h.requests.ParseBinomialRequest(r)
	if err != nil {
		h.fail(w, "binomial", start, err)
		return
	}
	m, err := opm.NewNPeriodBOPM(in)
	if err != nil {
		h.fail(w, "binomial", start, err)
		return
	}

	result := models.BinomialResult{
		Contract: describe(in.Position, in.Type, in.Underlying, in.Strike, in.Volatility, in.RiskFree, in.Years,
			fmt.Sprintf("%d-period %s lattice", in.Periods, in.Method)),
		Periods:      in.Periods,
		FactorMethod: in.Method.String(),
		DeltaTime:    m.DeltaTime,
		Factors:      factorsResult(m.Factors),
		Value:        m.Value,
	}
	if req.StepIn {
		result.StepIn = m.StepIn()
	}
	if len(req.Convergence) > 0 {
		rows, err := opm.Convergence(in, req.Convergence)
		if err != nil {
			h.fail(w, "binomial", start, err)
			return
		}
		for _, row := range rows {
			result.Convergence = append(result.Convergence, models.ConvergenceRow(row))
		}
	}
	logger.Debug.Printf("🌳 %d-period %s lattice priced at %.6f", in.Periods, in.Method, m.Value)
	h.respond(w, "binomial", start, result)
}

// OnePeriodHandler prices a contract on a single Jarrow-Rudd step
func (h *PricingHandler) OnePeriodHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	in, err := h.requests.ParseOnePeriodRequest(r)
	if err != nil {
		h.fail(w, "one-period", start, err)
		return
	}
	m, err := opm.NewOnePeriodBOPM(in)
	if err != nil {
		h.fail(w, "one-period", start, err)
		return
	}
	h.respond(w, "one-period", start, models.OnePeriodResult{
		Contract:   describe(in.Position, in.Type, in.Underlying, in.Strike, in.Volatility, in.RiskFree, 1, "one-period Jarrow-Rudd lattice"),
		Factors:    factorsResult(m.Factors),
		UpValue:    m.UpValue,
		DownValue:  m.DownValue,
		UpPayoff:   m.UpPayoff,
		DownPayoff: m.DownPayoff,
		HedgeRatio: m.HedgeRatio,
		Bond:       m.Bond,
		Value:      m.Value,
	})
}

// SinglePeriodHandler runs single-period replication
func (h *PricingHandler) SinglePeriodHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	in, err := h.requests.ParseSinglePeriodRequest(r)
	if err != nil {
		h.fail(w, "single-period", start, err)
		return
	}
	sp, err := opm.NewSinglePeriod(in)
	if err != nil {
		h.fail(w, "single-period", start, err)
		return
	}
	if !sp.ArbitrageFree() {
		logger.Warn.Printf("⚠️ single-period inputs admit arbitrage: q=%.4f", sp.UpProb)
	}
	h.respond(w, "single-period", start, models.SinglePeriodResult{
		Contract:      describe(in.Position, in.Type, in.Underlying, in.Strike, 0, in.RiskFree, 0, "single-period replication"),
		UpValue:       in.Up,
		DownValue:     in.Down,
		UpPayoff:      sp.UpPayoff,
		DownPayoff:    sp.DownPayoff,
		Overridden:    sp.Overridden(),
		HedgeRatio:    sp.HedgeRatio,
		Bond:          sp.Bond,
		Value:         sp.Value,
		UpProb:        sp.UpProb,
		DownProb:      sp.DownProb,
		ArbitrageFree: sp.ArbitrageFree(),
	})
}

// PayoffHandler samples a strategy's expiry payoff
func (h *PricingHandler) PayoffHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, grid, err := h.requests.ParsePayoffRequest(r)
	if err != nil {
		h.fail(w, "payoff", start, err)
		return
	}
	d, err := payoff.NewDiagram(p, grid)
	if err != nil {
		h.fail(w, "payoff", start, err)
		return
	}

	result := models.PayoffResult{
		Underlying: d.Underlying,
		Total:      d.Total,
		BreakEvens: d.BreakEvens(),
	}
	if result.BreakEvens == nil {
		result.BreakEvens = []float64{}
	}
	for _, s := range d.Legs {
		result.Legs = append(result.Legs, models.SeriesResult{Label: s.Label, Values: s.Values})
	}
	result.MaxProfit.Underlying, result.MaxProfit.Payoff = d.MaxProfit()
	result.MaxLoss.Underlying, result.MaxLoss.Payoff = d.MaxLoss()
	h.respond(w, "payoff", start, result)
}

func (h *PricingHandler) respond(w http.ResponseWriter, model string, start time.Time, data interface{}) {
	writeJSON(w, http.StatusOK, models.Response{
		Success: true,
		Data:    data,
		Meta:    meta(w, model, start),
	})
}

func (h *PricingHandler) fail(w http.ResponseWriter, model string, start time.Time, err error) {
	status := http.StatusInternalServerError
	if isClientError(err) {
		status = http.StatusBadRequest
		logger.Warn.Printf("⚠️ %s request rejected: %v", model, err)
	} else {
		logger.Error.Printf("❌ %s request failed: %v", model, err)
	}
	writeJSON(w, status, models.Response{
		Error: err.Error(),
		Meta:  meta(w, model, start),
	})
}

func isClientError(err error) bool {
	for _, target := range []error{
		services.ErrBadRequest,
		opm.ErrInvalidInput,
		opm.ErrInvalidOptionType,
		opm.ErrInvalidPosition,
		opm.ErrInvalidFactorMethod,
		payoff.ErrInvalidLeg,
		payoff.ErrInvalidGrid,
		payoff.ErrEmptyPortfolio,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func meta(w http.ResponseWriter, model string, start time.Time) models.ResponseMetadata {
	return models.ResponseMetadata{
		RequestID:      w.Header().Get(RequestIDHeader),
		Model:          model,
		Timestamp:      start.UTC().Format(time.RFC3339),
		ProcessingTime: float64(time.Since(start).Microseconds()) / 1000,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("❌ failed to encode response: %v", err)
	}
}

func describe(pos opm.Position, typ opm.OptionType, underlying, strike, vol, rate, years float64, description string) models.ContractDescription {
	return models.ContractDescription{
		Position:     pos.String(),
		OptionType:   typ.String(),
		Underlying:   underlying,
		Strike:       strike,
		Volatility:   vol,
		RiskFreeRate: rate,
		Years:        years,
		Description:  description,
	}
}

func factorsResult(f opm.Factors) models.FactorsResult {
	return models.FactorsResult{
		Up:       f.Up,
		Down:     f.Down,
		UpProb:   f.UpProb,
		DownProb: f.DownProb,
		Discount: f.Discount,
	}
}
