package opm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionType(t *testing.T) {
	for _, s := range []string{"call", "Call", "CALL", " c "} {
		got, err := ParseOptionType(s)
		require.NoError(t, err, s)
		assert.Equal(t, Call, got, s)
	}
	for _, s := range []string{"put", "Put", "P"} {
		got, err := ParseOptionType(s)
		require.NoError(t, err, s)
		assert.Equal(t, Put, got, s)
	}
	_, err := ParseOptionType("straddle")
	assert.True(t, errors.Is(err, ErrInvalidOptionType))
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition("SHORT")
	require.NoError(t, err)
	assert.Equal(t, Short, p)
	assert.Equal(t, -1.0, p.Sign())

	p, err = ParsePosition("long")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Sign())

	_, err = ParsePosition("flat")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestParseFactorMethod(t *testing.T) {
	cases := map[string]FactorMethod{
		"":       JarrowRudd,
		"Jarrow": JarrowRudd,
		"jr":     JarrowRudd,
		"Cox":    CoxRossRubinstein,
		"CRR":    CoxRossRubinstein,
	}
	for in, want := range cases {
		got, err := ParseFactorMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFactorMethod("trinomial")
	assert.ErrorIs(t, err, ErrInvalidFactorMethod)
}

func TestIntrinsic(t *testing.T) {
	assert.Equal(t, 10.0, Intrinsic(Call, 120, 110))
	assert.Equal(t, 0.0, Intrinsic(Call, 90, 110))
	assert.Equal(t, 19.75, Intrinsic(Put, 90.25, 110))
	assert.Equal(t, 0.0, Intrinsic(Put, 120, 110))
}

func TestStepFactorsJarrowRuddOneYear(t *testing.T) {
	f, err := StepFactors(JarrowRudd, 0.05, 0.14247, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.199999511307354, f.Up, 1e-12)
	assert.InDelta(t, 0.9024708843080668, f.Down, 1e-12)
	assert.InDelta(t, 0.5001206558463828, f.UpProb, 1e-12)
	assert.InDelta(t, 1, f.UpProb+f.DownProb, 1e-15)
	assert.InDelta(t, math.Exp(-0.05), f.Discount, 1e-15)
}

func TestStepFactorsCoxRossRubinstein(t *testing.T) {
	f, err := StepFactors(CoxRossRubinstein, 0.05, 0.14247, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.1059907096561672, f.Up, 1e-12)
	assert.InDelta(t, 1/f.Up, f.Down, 1e-15)
	assert.InDelta(t, 0.6002675794287607, f.UpProb, 1e-12)
}

func TestStepFactorsRejectsArbitrageLattice(t *testing.T) {
	// rate growth outruns a tiny symmetric move
	_, err := StepFactors(CoxRossRubinstein, 0.5, 0.01, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
