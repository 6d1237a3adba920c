package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwaldner/atop/opm"
	"github.com/jwaldner/atop/payoff"
)

func strangleDiagram(t *testing.T) *payoff.Diagram {
	t.Helper()
	p, err := payoff.NewPortfolio(
		payoff.Option{Type: opm.Call, Strike: 40, Premium: 5.23},
		payoff.Option{Type: opm.Put, Strike: 25, Premium: 3.22},
	)
	require.NoError(t, err)
	d, err := payoff.NewDiagram(p, payoff.Grid{Min: 20, Max: 50, Step: 10})
	require.NoError(t, err)
	return d
}

func TestWritePayoffCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePayoffCSV(&buf, strangleDiagram(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "underlying,series,payoff", lines[0])
	assert.Len(t, lines, 1+4*3)
	assert.Equal(t, "20,Long Call 40,-5.23", lines[1])

	var rows []*PayoffRow
	require.NoError(t, gocsv.UnmarshalBytes(buf.Bytes(), &rows))
	total := rows[len(rows)-1]
	assert.Equal(t, TotalSeries, total.Series)
	assert.Equal(t, 50.0, total.Underlying)
	assert.InDelta(t, 1.55, total.Payoff, 1e-9)
}

func TestWriteLatticeCSV(t *testing.T) {
	m, err := opm.NewNPeriodBOPM(opm.NPeriodInput{
		Type: opm.Call, Underlying: 100, Strike: 110, Volatility: 0.14247, RiskFree: 0.05, Periods: 2, Years: 1,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteLatticeCSV(&buf, m))

	var rows []*LatticeRow
	require.NoError(t, gocsv.UnmarshalBytes(buf.Bytes(), &rows))
	require.Len(t, rows, 6)
	assert.Equal(t, LatticeRow{Step: 0, Node: 0, Value: m.Value}, *rows[0])
	last := rows[5]
	assert.Equal(t, 2, last.Step)
	assert.Equal(t, 2, last.Node)
	assert.InDelta(t, 17.2946326621815, last.Value, 1e-9)
}

func TestWriteConvergenceCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConvergenceCSV(&buf, []opm.ConvergencePoint{
		{Periods: 1, Value: 4.75},
		{Periods: 2, Value: 4.25, Change: -0.5},
	}))
	assert.Equal(t, "periods,value,change\n1,4.75,0\n2,4.25,-0.5\n", buf.String())
}

func TestFormatFilename(t *testing.T) {
	now := time.Date(2026, 10, 16, 14, 5, 9, 0, time.UTC)
	fields := FilenameFields("payoff", "long call 40/put 25", now)

	got := FormatFilename("{time}_{kind}_{label}.csv", fields)
	assert.Equal(t, "14-05-09_payoff_long-call-40-put-25.csv", got)
	assert.Equal(t, "2026-10-16-{missing}.png", FormatFilename("{date}-{missing}.png", fields))
}

func TestRenderPayoffChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strangle.png")
	require.NoError(t, RenderPayoffChart(path, strangleDiagram(t), 320, 200))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	assert.Error(t, RenderPayoffChart(path, strangleDiagram(t), 0, 200))
}
