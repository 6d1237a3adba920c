// Package export writes pricing results to CSV files and payoff charts.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/jwaldner/atop/opm"
	"github.com/jwaldner/atop/payoff"
)

// PayoffRow is one series value at one grid point. The strategy total is
// written as the series named "Total".
type PayoffRow struct {
	Underlying float64 `csv:"underlying"`
	Series     string  `csv:"series"`
	Payoff     float64 `csv:"payoff"`
}

// LatticeRow is one node of the step-in lattice. Step 0 is the root.
type LatticeRow struct {
	Step  int     `csv:"step"`
	Node  int     `csv:"node"`
	Value float64 `csv:"value"`
}

type ConvergenceRow struct {
	Periods int     `csv:"periods"`
	Value   float64 `csv:"value"`
	Change  float64 `csv:"change"`
}

// TotalSeries names the summed strategy payoff in payoff exports.
const TotalSeries = "Total"

func WritePayoffCSV(w io.Writer, d *payoff.Diagram) error {
	rows := make([]*PayoffRow, 0, len(d.Underlying)*(len(d.Legs)+1))
	for i, x := range d.Underlying {
		for _, s := range d.Legs {
			rows = append(rows, &PayoffRow{Underlying: x, Series: s.Label, Payoff: s.Values[i]})
		}
		rows = append(rows, &PayoffRow{Underlying: x, Series: TotalSeries, Payoff: d.Total[i]})
	}
	return marshal(rows, w, "payoff")
}

func WriteLatticeCSV(w io.Writer, m *opm.NPeriodBOPM) error {
	levels := m.StepIn()
	n := len(levels) - 1
	rows := make([]*LatticeRow, 0, (n+1)*(n+2)/2)
	for i := n; i >= 0; i-- {
		step := n - i
		for j, v := range levels[i] {
			rows = append(rows, &LatticeRow{Step: step, Node: j, Value: v})
		}
	}
	return marshal(rows, w, "lattice")
}

func WriteConvergenceCSV(w io.Writer, points []opm.ConvergencePoint) error {
	rows := make([]*ConvergenceRow, len(points))
	for i, p := range points {
		rows[i] = &ConvergenceRow{Periods: p.Periods, Value: p.Value, Change: p.Change}
	}
	return marshal(rows, w, "convergence")
}

func marshal(rows interface{}, w io.Writer, kind string) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write %s csv: %w", kind, err)
	}
	return nil
}

// FormatFilename substitutes {key} placeholders in format with fields.
// Unknown placeholders are left as they are.
func FormatFilename(format string, fields map[string]string) string {
	result := format
	for k, v := range fields {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// FilenameFields are the standard placeholders: {time} (HH-MM-SS),
// {date} (YYYY-MM-DD), {kind} and {label}.
func FilenameFields(kind, label string, now time.Time) map[string]string {
	return map[string]string{
		"time":  now.Format("15-04-05"),
		"date":  now.Format("2006-01-02"),
		"kind":  kind,
		"label": sanitize(label),
	}
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, strings.TrimSpace(s))
}
