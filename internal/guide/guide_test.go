package guide

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwaldner/atop/opm"
	"github.com/jwaldner/atop/payoff"
)

func plain(buf *bytes.Buffer, rounding int) *Guide {
	return New(buf, Options{Rounding: rounding})
}

func TestRound(t *testing.T) {
	assert.Equal(t, "2.68", Round(2.675, 2))
	assert.Equal(t, "-2.68", Round(-2.675, 2))
	assert.Equal(t, "4.72", Round(4.721896, 2))
	assert.Equal(t, "5", Round(4.5, 0))
	assert.Equal(t, "3.7838", Round(3.783772102287216, 4))
	assert.Equal(t, "10.00", Round(10, 2))
	assert.Equal(t, "NaN", Round(math.NaN(), 2))
}

func TestSinglePeriodGuide(t *testing.T) {
	sp, err := opm.NewSinglePeriod(opm.SinglePeriodInput{
		Type: opm.Call, Underlying: 100, Strike: 110, Up: 120, Down: 90.25, RiskFree: 0.05,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, plain(&buf, 2).SinglePeriod(sp, SinglePeriodHide{}))
	out := buf.String()

	assert.Contains(t, out, "SINGLE PERIOD LONG CALL")
	assert.Contains(t, out, "an up value of 120.00, a down value of 90.25")
	assert.Contains(t, out, "rounded to 2 decimal places.")
	assert.Contains(t, out, "4.72")
	assert.Contains(t, out, "Hedge ratio")
	assert.Contains(t, out, "0.34")
	assert.NotContains(t, out, hiddenNotice)
	assert.NotContains(t, out, overrideNotice)
	assert.NotContains(t, out, "\x1b[", "color disabled")
}

func TestSinglePeriodGuideHideAndOverride(t *testing.T) {
	up := 6.98
	sp, err := opm.NewSinglePeriod(opm.SinglePeriodInput{
		Type: opm.Call, Underlying: 100, Strike: 110, Up: 110, Down: 95, RiskFree: 0.05, UpPayoff: &up,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, plain(&buf, 3).SinglePeriod(sp, SinglePeriodHide{Bond: true, RiskNeutral: true}))
	out := buf.String()

	assert.Contains(t, out, hiddenNotice)
	assert.Contains(t, out, overrideNotice)
	assert.NotContains(t, out, "Bond position")
	assert.NotContains(t, out, "Risk-neutral")
	assert.Contains(t, out, "6.980")
}

func TestBlackScholesGuide(t *testing.T) {
	b, err := opm.NewBlackScholes(opm.BlackScholesInput{
		Type: opm.Put, Underlying: 100, Strike: 110, Volatility: 0.14247, RiskFree: 0.05, Years: 1,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, plain(&buf, 4).BlackScholes(b, BlackScholesHide{}))
	out := buf.String()
	assert.Contains(t, out, "BLACK-SCHOLES-MERTON LONG PUT")
	assert.Contains(t, out, "8.4190")
	assert.Contains(t, out, "-0.5975")
	assert.Contains(t, out, "-68.1658")

	hide := BlackScholesHide{DValues: true}
	hide.Greeks()
	buf.Reset()
	require.NoError(t, plain(&buf, 2).BlackScholes(b, hide))
	out = buf.String()
	assert.Contains(t, out, hiddenNotice)
	assert.NotContains(t, out, "| d1")
	assert.NotContains(t, out, "Delta")
	assert.NotContains(t, out, "Rho")
	assert.Contains(t, out, "Cumulative normal using d1")
}

func TestNPeriodGuideStepIn(t *testing.T) {
	m, err := opm.NewNPeriodBOPM(opm.NPeriodInput{
		Type: opm.Call, Underlying: 100, Strike: 110, Volatility: 0.14247, RiskFree: 0.05, Periods: 2, Years: 1,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, plain(&buf, 2).NPeriod(m, LatticeHide{}))
	out := buf.String()
	assert.Contains(t, out, "2 PERIOD BINOMIAL LONG CALL")
	assert.Contains(t, out, "Jarrow-Rudd")
	assert.Contains(t, out, "4.11")
	assert.Contains(t, out, "Step-in")
	assert.Contains(t, out, "Node 2")
	assert.Contains(t, out, "17.29")

	buf.Reset()
	require.NoError(t, plain(&buf, 2).NPeriod(m, LatticeHide{Factors: true, StepIn: true}))
	out = buf.String()
	assert.NotContains(t, out, "Step-in")
	assert.NotContains(t, out, "Up factor")
	assert.Contains(t, out, hiddenNotice)
}

func TestNPeriodGuideLargeLatticeSkipsTable(t *testing.T) {
	m, err := opm.NewNPeriodBOPM(opm.NPeriodInput{
		Type: opm.Call, Underlying: 100, Strike: 110, Volatility: 0.14247, RiskFree: 0.05, Periods: 50, Years: 1,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, plain(&buf, 2).NPeriod(m, LatticeHide{}))
	assert.Contains(t, buf.String(), "at most 12 periods")
	assert.NotContains(t, buf.String(), "Node 0")
}

func TestOnePeriodAndConvergenceGuides(t *testing.T) {
	one, err := opm.NewOnePeriodBOPM(opm.OnePeriodInput{
		Type: opm.Call, Underlying: 100, Strike: 110, Volatility: 0.14247, RiskFree: 0.05,
	})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, plain(&buf, 2).OnePeriod(one))
	assert.Contains(t, buf.String(), "120.00")
	assert.Contains(t, buf.String(), "90.25")
	assert.Contains(t, buf.String(), "4.76")

	buf.Reset()
	require.NoError(t, plain(&buf, 4).Convergence([]opm.ConvergencePoint{
		{Periods: 1, Value: 4.757271587866735},
		{Periods: 2, Value: 4.11349220017553, Change: -0.643779387691205},
	}))
	assert.Contains(t, buf.String(), "4.7573")
	assert.Contains(t, buf.String(), "-0.6438")
}

func TestPayoffGuide(t *testing.T) {
	p, err := payoff.NewPortfolio(
		payoff.Option{Type: opm.Call, Strike: 40, Premium: 5.23},
		payoff.Option{Type: opm.Put, Strike: 25, Premium: 3.22},
	)
	require.NoError(t, err)
	d, err := payoff.NewDiagram(p, payoff.Grid{Min: 0, Max: 60, Step: 5})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, plain(&buf, 2).Payoff(d))
	out := buf.String()
	assert.Contains(t, out, "Long Call 40, Long Put 25")
	assert.Contains(t, out, "16.55, 48.45")
	assert.Contains(t, out, "-8.45 at 25.00")
	assert.Contains(t, out, "| Underlying")
	assert.Contains(t, out, "16.55 at 0.00")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrorReturned(t *testing.T) {
	b, err := opm.NewBlackScholes(opm.BlackScholesInput{
		Type: opm.Call, Underlying: 100, Strike: 100, Volatility: 0.2, RiskFree: 0.05, Years: 1,
	})
	require.NoError(t, err)
	err = New(failingWriter{}, DefaultOptions()).BlackScholes(b, BlackScholesHide{})
	assert.EqualError(t, err, "disk full")
}
