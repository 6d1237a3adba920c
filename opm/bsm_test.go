package opm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bsmInput(typ OptionType) BlackScholesInput {
	return BlackScholesInput{Type: typ, Underlying: 100, Strike: 110, Volatility: 0.14247, RiskFree: 0.05, Years: 1}
}

func TestBlackScholesReferenceCase(t *testing.T) {
	in := BlackScholesInput{Type: Call, Underlying: 100, Strike: 100, Volatility: 0.2, RiskFree: 0.05, Years: 1}
	call, err := NewBlackScholes(in)
	require.NoError(t, err)
	in.Type = Put
	put, err := NewBlackScholes(in)
	require.NoError(t, err)

	assert.InDelta(t, 10.450583572185565, call.Value, 1e-9)
	assert.InDelta(t, 5.573526022256971, put.Value, 1e-9)
	assert.InDelta(t, 0.35, call.D1, 1e-12)
	assert.InDelta(t, 0.15, call.D2, 1e-12)
}

func TestBlackScholesGreeks(t *testing.T) {
	call, err := NewBlackScholes(bsmInput(Call))
	require.NoError(t, err)
	assert.InDelta(t, 3.783772102287216, call.Value, 1e-9)
	assert.InDelta(t, -0.24679812840826057, call.D1, 1e-12)
	assert.InDelta(t, -0.3892681284082606, call.D2, 1e-12)
	assert.InDelta(t, 0.40253222950554823, call.Delta, 1e-9)
	assert.InDelta(t, 0.027161912858130882, call.Gamma, 1e-9)
	assert.InDelta(t, -4.580094457744405, call.Theta, 1e-9)
	assert.InDelta(t, 38.69757724897907, call.Vega, 1e-8)
	assert.InDelta(t, 36.469450848267606, call.Rho, 1e-8)
	assert.InDelta(t, call.Delta, call.N1, 1e-15)

	put, err := NewBlackScholes(bsmInput(Put))
	require.NoError(t, err)
	assert.InDelta(t, 8.41900879736577, put.Value, 1e-9)
	assert.InDelta(t, -0.5974677704944518, put.Delta, 1e-9)
	assert.InDelta(t, call.Gamma, put.Gamma, 1e-12)
	assert.InDelta(t, 0.6516673770095225, put.Theta, 1e-9)
	assert.InDelta(t, call.Vega, put.Vega, 1e-9)
	assert.InDelta(t, -68.16578584681095, put.Rho, 1e-8)
}

func TestBlackScholesShortFlipsSign(t *testing.T) {
	in := bsmInput(Put)
	long, err := NewBlackScholes(in)
	require.NoError(t, err)
	in.Position = Short
	short, err := NewBlackScholes(in)
	require.NoError(t, err)

	assert.InDelta(t, -long.Value, short.Value, 1e-12)
	assert.InDelta(t, -long.Delta, short.Delta, 1e-12)
	assert.InDelta(t, -long.Gamma, short.Gamma, 1e-12)
	assert.InDelta(t, -long.Rho, short.Rho, 1e-12)
	assert.Equal(t, long.D1, short.D1)
}

func TestBlackScholesDividendYield(t *testing.T) {
	in := BlackScholesInput{Type: Call, Underlying: 1000, Strike: 1100, Volatility: 0.14247, RiskFree: 0.06, Years: 1, Dividend: 0.02}
	call, err := NewBlackScholes(in)
	require.NoError(t, err)
	in.Type = Put
	put, err := NewBlackScholes(in)
	require.NoError(t, err)

	assert.InDelta(t, 33.62856358788838, call.Value, 1e-8)
	assert.InDelta(t, 89.3708772238067, put.Value, 1e-8)
	assert.InDelta(t, 0, PutCallParityGap(call.Value, put.Value, 1000, 1100, 0.06, 0.02, 1), 1e-9)
}

func TestPutCallParity(t *testing.T) {
	call, err := NewBlackScholes(bsmInput(Call))
	require.NoError(t, err)
	put, err := NewBlackScholes(bsmInput(Put))
	require.NoError(t, err)

	gap := PutCallParityGap(call.Value, put.Value, 100, 110, 0.05, 0, 1)
	assert.InDelta(t, 0, gap, 1e-10)
	assert.InDelta(t, 1.0, PutCallParityGap(call.Value+1, put.Value, 100, 110, 0.05, 0, 1), 1e-10)
}

func TestBlackScholesValidation(t *testing.T) {
	for name, mutate := range map[string]func(*BlackScholesInput){
		"zero years":   func(in *BlackScholesInput) { in.Years = 0 },
		"zero vol":     func(in *BlackScholesInput) { in.Volatility = 0 },
		"zero strike":  func(in *BlackScholesInput) { in.Strike = 0 },
		"nan rate":     func(in *BlackScholesInput) { in.RiskFree = math.NaN() },
		"inf dividend": func(in *BlackScholesInput) { in.Dividend = math.Inf(1) },
	} {
		in := bsmInput(Call)
		mutate(&in)
		_, err := NewBlackScholes(in)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestBlackScholesString(t *testing.T) {
	b, err := NewBlackScholes(bsmInput(Call))
	require.NoError(t, err)
	assert.Contains(t, b.String(), "Long Call")
	assert.Contains(t, b.String(), "strike $110")
}

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	for _, typ := range []OptionType{Call, Put} {
		for _, vol := range []float64{0.05, 0.14247, 0.6, 1.8} {
			in := bsmInput(typ)
			in.Volatility = vol
			b, err := NewBlackScholes(in)
			require.NoError(t, err)

			got, err := ImpliedVolatility(in, b.Value)
			require.NoError(t, err, "%s vol %v", typ, vol)
			assert.InDelta(t, vol, got, 1e-6, "%s vol %v", typ, vol)
		}
	}
}

func TestImpliedVolatilityOutOfRange(t *testing.T) {
	in := bsmInput(Call)
	_, err := ImpliedVolatility(in, 150)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ImpliedVolatility(in, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
