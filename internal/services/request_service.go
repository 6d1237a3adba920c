package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jwaldner/atop/internal/config"
	"github.com/jwaldner/atop/internal/dto"
	"github.com/jwaldner/atop/internal/utils"
	"github.com/jwaldner/atop/opm"
	"github.com/jwaldner/atop/payoff"
)

// ErrBadRequest marks request problems that are the caller's fault.
var ErrBadRequest = errors.New("bad request")

// NextExpiration may be given instead of an expiration date to price to
// the next standard monthly expiration.
const NextExpiration = "next"

// RequestService handles request parsing and turns requests into model
// inputs, filling gaps from the pricing defaults.
type RequestService struct {
	pricing   config.PricingConfig
	grid      payoff.Grid
	maxPoints int
	now       func() time.Time
}

// NewRequestService creates a new request service
func NewRequestService(cfg *config.Config) *RequestService {
	return &RequestService{
		pricing: cfg.Pricing,
		grid:      payoff.Grid{Min: cfg.Payoff.GridMin, Max: cfg.Payoff.GridMax, Step: cfg.Payoff.GridStep},
		maxPoints: cfg.Payoff.MaxPoints,
		now:       time.Now,
	}
}

func (s *RequestService) decode(r *http.Request, v interface{}) error {
	if r.Method != http.MethodPost {
		return fmt.Errorf("%w: method not allowed: %s", ErrBadRequest, r.Method)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: failed to decode request: %v", ErrBadRequest, err)
	}
	return nil
}

// ParseBSMRequest parses an HTTP request into Black-Scholes-Merton inputs
func (s *RequestService) ParseBSMRequest(r *http.Request) (*dto.BSMRequest, opm.BlackScholesInput, error) {
	var req dto.BSMRequest
	if err := s.decode(r, &req); err != nil {
		return nil, opm.BlackScholesInput{}, err
	}
	in, err := s.BSMInput(req)
	return &req, in, err
}

// ParseBinomialRequest parses an HTTP request into lattice inputs
func (s *RequestService) ParseBinomialRequest(r *http.Request) (*dto.BinomialRequest, opm.NPeriodInput, error) {
	var req dto.BinomialRequest
	if err := s.decode(r, &req); err != nil {
		return nil, opm.NPeriodInput{}, err
	}
	in, err := s.BinomialInput(req)
	if err != nil {
		return &req, in, err
	}
	if req.StepIn {
		if limit := s.pricing.MaxStepInPeriods; limit > 0 && in.Periods > limit {
			return &req, in, fmt.Errorf("%w: step_in is limited to %d periods, got %d", ErrBadRequest, limit, in.Periods)
		}
	}
	if err := s.CheckConvergence(req.Convergence); err != nil {
		return &req, in, err
	}
	return &req, in, nil
}

func (s *RequestService) ParseOnePeriodRequest(r *http.Request) (opm.OnePeriodInput, error) {
	var req dto.OnePeriodRequest
	if err := s.decode(r, &req); err != nil {
		return opm.OnePeriodInput{}, err
	}
	return s.OnePeriodInput(req)
}

func (s *RequestService) ParseSinglePeriodRequest(r *http.Request) (opm.SinglePeriodInput, error) {
	var req dto.SinglePeriodRequest
	if err := s.decode(r, &req); err != nil {
		return opm.SinglePeriodInput{}, err
	}
	return s.SinglePeriodInput(req)
}

// ParsePayoffRequest parses legs into a portfolio and resolves the grid
func (s *RequestService) ParsePayoffRequest(r *http.Request) (*payoff.Portfolio, payoff.Grid, error) {
	var req dto.PayoffRequest
	if err := s.decode(r, &req); err != nil {
		return nil, payoff.Grid{}, err
	}
	return s.PayoffInput(req)
}

func (s *RequestService) BSMInput(req dto.BSMRequest) (opm.BlackScholesInput, error) {
	pos, typ, err := parseSide(req.Position, req.OptionType)
	if err != nil {
		return opm.BlackScholesInput{}, err
	}
	years, err := s.years(req.ContractRequest)
	if err != nil {
		return opm.BlackScholesInput{}, err
	}
	if req.MarketPrice < 0 || math.IsNaN(req.MarketPrice) || math.IsInf(req.MarketPrice, 0) {
		return opm.BlackScholesInput{}, fmt.Errorf("%w: market_price must be a non-negative number, got %v", ErrBadRequest, req.MarketPrice)
	}
	return opm.BlackScholesInput{
		Position:   pos,
		Type:       typ,
		Underlying: req.Underlying,
		Strike:     req.Strike,
		Volatility: req.Volatility,
		RiskFree:   req.RiskFreeRate,
		Years:      years,
		Dividend:   req.DividendYield,
	}, nil
}

func (s *RequestService) BinomialInput(req dto.BinomialRequest) (opm.NPeriodInput, error) {
	pos, typ, err := parseSide(req.Position, req.OptionType)
	if err != nil {
		return opm.NPeriodInput{}, err
	}
	years, err := s.years(req.ContractRequest)
	if err != nil {
		return opm.NPeriodInput{}, err
	}

	periods := req.Periods
	if periods == 0 {
		periods = s.pricing.Periods
	}
	if err := s.CheckPeriods(periods); err != nil {
		return opm.NPeriodInput{}, err
	}

	methodName := req.FactorMethod
	if methodName == "" {
		methodName = s.pricing.FactorMethod
	}
	method, err := opm.ParseFactorMethod(methodName)
	if err != nil {
		return opm.NPeriodInput{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	return opm.NPeriodInput{
		Position:   pos,
		Type:       typ,
		Underlying: req.Underlying,
		Strike:     req.Strike,
		Volatility: req.Volatility,
		RiskFree:   req.RiskFreeRate,
		Periods:    periods,
		Years:      years,
		Method:     method,
	}, nil
}

func (s *RequestService) OnePeriodInput(req dto.OnePeriodRequest) (opm.OnePeriodInput, error) {
	pos, typ, err := parseSide(req.Position, req.OptionType)
	if err != nil {
		return opm.OnePeriodInput{}, err
	}
	return opm.OnePeriodInput{
		Position:   pos,
		Type:       typ,
		Underlying: req.Underlying,
		Strike:     req.Strike,
		Volatility: req.Volatility,
		RiskFree:   req.RiskFreeRate,
	}, nil
}

func (s *RequestService) SinglePeriodInput(req dto.SinglePeriodRequest) (opm.SinglePeriodInput, error) {
	pos, typ, err := parseSide(req.Position, req.OptionType)
	if err != nil {
		return opm.SinglePeriodInput{}, err
	}
	return opm.SinglePeriodInput{
		Position:   pos,
		Type:       typ,
		Underlying: req.Underlying,
		Strike:     req.Strike,
		Up:         req.UpValue,
		Down:       req.DownValue,
		RiskFree:   req.RiskFreeRate,
		UpPayoff:   req.UpPayoff,
		DownPayoff: req.DownPayoff,
	}, nil
}

func (s *RequestService) PayoffInput(req dto.PayoffRequest) (*payoff.Portfolio, payoff.Grid, error) {
	if len(req.Legs) == 0 {
		return nil, payoff.Grid{}, fmt.Errorf("%w: legs are required", ErrBadRequest)
	}
	legs := make([]payoff.Leg, 0, len(req.Legs))
	for i, lr := range req.Legs {
		leg, err := BuildLeg(lr)
		if err != nil {
			return nil, payoff.Grid{}, fmt.Errorf("leg %d: %w", i, err)
		}
		legs = append(legs, leg)
	}
	p, err := payoff.NewPortfolio(legs...)
	if err != nil {
		return nil, payoff.Grid{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	grid := s.grid
	if req.Grid != nil {
		grid = *req.Grid
	}
	if err := s.CheckGrid(grid); err != nil {
		return nil, payoff.Grid{}, err
	}
	return p, grid, nil
}

// CheckGrid validates a sampling grid and enforces the configured point limit.
func (s *RequestService) CheckGrid(g payoff.Grid) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if s.maxPoints > 0 && g.Len() > s.maxPoints {
		return fmt.Errorf("%w: grid samples %d points, limit is %d", ErrBadRequest, g.Len(), s.maxPoints)
	}
	return nil
}

// BuildLeg converts a leg request into a payoff leg
func BuildLeg(lr dto.LegRequest) (payoff.Leg, error) {
	pos := opm.Long
	if lr.Position != "" {
		var err error
		if pos, err = opm.ParsePosition(lr.Position); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}

	switch strings.ToLower(strings.TrimSpace(lr.Kind)) {
	case "option", "":
		typ, err := opm.ParseOptionType(lr.OptionType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return payoff.Option{Position: pos, Type: typ, Strike: lr.Strike, Premium: lr.Premium, Quantity: lr.Quantity}, nil
	case "stock":
		return payoff.Stock{Position: pos, Price: lr.Price, Fee: lr.Fee, Quantity: lr.Quantity}, nil
	case "bond":
		return payoff.Bond{Position: pos, Price: lr.Price, Face: lr.Face, Quantity: lr.Quantity}, nil
	}
	return nil, fmt.Errorf("%w: unknown leg kind %q (use option, stock or bond)", ErrBadRequest, lr.Kind)
}

// ParseLegSpec reads the compact command-line leg form:
//
//	long:call:40:5.23[:qty]
//	short:stock:20[:fee[:qty]]
//	long:bond:95:100[:qty]
func ParseLegSpec(spec string) (dto.LegRequest, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 {
		return dto.LegRequest{}, fmt.Errorf("%w: leg %q needs at least position:kind:value", ErrBadRequest, spec)
	}
	nums := make([]float64, len(parts)-2)
	for i, p := range parts[2:] {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return dto.LegRequest{}, fmt.Errorf("%w: leg %q: %q is not a number", ErrBadRequest, spec, p)
		}
		nums[i] = v
	}
	at := func(i int) float64 {
		if i < len(nums) {
			return nums[i]
		}
		return 0
	}

	lr := dto.LegRequest{Position: parts[0]}
	switch kind := strings.ToLower(parts[1]); kind {
	case "call", "put", "c", "p":
		if len(nums) < 2 || len(nums) > 3 {
			return dto.LegRequest{}, fmt.Errorf("%w: option leg %q is position:type:strike:premium[:qty]", ErrBadRequest, spec)
		}
		lr.Kind, lr.OptionType = "option", kind
		lr.Strike, lr.Premium, lr.Quantity = nums[0], nums[1], at(2)
	case "stock":
		if len(nums) > 3 {
			return dto.LegRequest{}, fmt.Errorf("%w: stock leg %q is position:stock:price[:fee[:qty]]", ErrBadRequest, spec)
		}
		lr.Kind = kind
		lr.Price, lr.Fee, lr.Quantity = nums[0], at(1), at(2)
	case "bond":
		if len(nums) < 2 || len(nums) > 3 {
			return dto.LegRequest{}, fmt.Errorf("%w: bond leg %q is position:bond:price:face[:qty]", ErrBadRequest, spec)
		}
		lr.Kind = kind
		lr.Price, lr.Face, lr.Quantity = nums[0], nums[1], at(2)
	default:
		return dto.LegRequest{}, fmt.Errorf("%w: leg %q has unknown kind %q", ErrBadRequest, spec, parts[1])
	}
	return lr, nil
}

// CheckPeriods enforces the configured lattice size limit.
func (s *RequestService) CheckPeriods(n int) error {
	if n < 1 || (s.pricing.MaxPeriods > 0 && n > s.pricing.MaxPeriods) {
		return fmt.Errorf("%w: periods must be between 1 and %d, got %d", ErrBadRequest, s.pricing.MaxPeriods, n)
	}
	return nil
}

// CheckConvergence enforces the sweep length limit and checks every period count.
func (s *RequestService) CheckConvergence(periods []int) error {
	if limit := s.pricing.MaxConvergence; limit > 0 && len(periods) > limit {
		return fmt.Errorf("%w: convergence is limited to %d entries, got %d", ErrBadRequest, limit, len(periods))
	}
	for _, n := range periods {
		if err := s.CheckPeriods(n); err != nil {
			return err
		}
	}
	return nil
}

func (s *RequestService) years(req dto.ContractRequest) (float64, error) {
	if req.Years != 0 {
		return req.Years, nil
	}
	if req.ExpirationDate != "" {
		now := s.now()
		expiration := req.ExpirationDate
		if strings.EqualFold(expiration, NextExpiration) {
			expiration = utils.NextOptionsExpiration(now).Format(utils.DateLayout)
		}
		y, err := utils.YearsUntil(expiration, now)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return y, nil
	}
	return s.pricing.Years, nil
}

func parseSide(position, optionType string) (opm.Position, opm.OptionType, error) {
	pos := opm.Long
	if position != "" {
		var err error
		if pos, err = opm.ParsePosition(position); err != nil {
			return pos, opm.Call, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}
	typ, err := opm.ParseOptionType(optionType)
	if err != nil {
		return pos, typ, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return pos, typ, nil
}
