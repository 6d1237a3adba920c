// Package guide renders the teaching guide for each pricing model: a
// banner, a paragraph restating the inputs, and a table of every
// intermediate value.
package guide

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

const (
	hiddenNotice   = "Additionally, not all calculated fields are displayed!"
	overrideNotice = "USER HAS OPTED TO OVERRIDE PAYOFF VALUES! BE AWARE THIS WILL AFFECT CALCULATIONS!"
)

type Options struct {
	// Rounding is the number of decimal places shown. Values are rounded
	// half away from zero.
	Rounding int
	Color    bool
}

func DefaultOptions() Options {
	return Options{Rounding: 2, Color: true}
}

// Guide writes guides to one destination. The first write error stops
// all further output and is returned by the render call.
type Guide struct {
	w    *errWriter
	opts Options

	banner  *color.Color
	section *color.Color
	warning *color.Color
}

func New(w io.Writer, opts Options) *Guide {
	if opts.Rounding < 0 {
		opts.Rounding = 0
	}
	g := &Guide{
		w:       &errWriter{w: w},
		opts:    opts,
		banner:  color.New(color.FgCyan, color.Bold),
		section: color.New(color.FgYellow),
		warning: color.New(color.FgRed, color.Bold),
	}
	if !opts.Color {
		g.banner.DisableColor()
		g.section.DisableColor()
		g.warning.DisableColor()
	}
	return g
}

// Round formats v to the configured number of decimals.
func (g *Guide) Round(v float64) string {
	return Round(v, g.opts.Rounding)
}

// Round formats v with places decimals, rounding half away from zero.
func Round(v float64, places int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return decimal.NewFromFloat(v).StringFixed(int32(places))
}

func (g *Guide) header(title string) {
	rule := strings.Repeat("=", len(title)+4)
	g.banner.Fprintln(g.w, rule)
	g.banner.Fprintf(g.w, "  %s\n", title)
	g.banner.Fprintln(g.w, rule)
}

func (g *Guide) paragraph(text string, hidden, overridden bool) {
	fmt.Fprintf(g.w, "\n%s\nAll outputs are rounded to %d decimal places.", text, g.opts.Rounding)
	if hidden {
		fmt.Fprintf(g.w, " %s", hiddenNotice)
	}
	fmt.Fprintln(g.w)
	if overridden {
		g.warning.Fprintln(g.w, overrideNotice)
	}
	fmt.Fprintln(g.w)
}

func (g *Guide) subheading(title string) {
	rule := strings.Repeat("-", len(title)+2)
	g.section.Fprintln(g.w, rule)
	g.section.Fprintln(g.w, title)
	g.section.Fprintln(g.w, rule)
}

func (g *Guide) table(header []string, rows [][]string) {
	t := tablewriter.NewWriter(g.w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	align := make([]int, len(header))
	for i := range align {
		align[i] = tablewriter.ALIGN_RIGHT
	}
	align[0] = tablewriter.ALIGN_LEFT
	t.SetColumnAlignment(align)
	t.AppendBulk(rows)
	t.Render()
}

func (g *Guide) err() error { return g.w.err }

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
