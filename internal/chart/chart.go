// Package chart draws small text charts for terminal output.
package chart

import (
	"fmt"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	fullBlock  = "█"
	emptyBlock = "░"

	// DefaultWidth is used when the terminal size is unknown.
	DefaultWidth = 80
	minBarWidth  = 8
)

// Row is one labelled bar.
type Row struct {
	Label string
	Value float64
	// Note is printed after the bar, defaulting to the formatted value.
	Note string
}

// TermWidth returns the width of the terminal on stdout, or DefaultWidth.
func TermWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Bars renders rows as horizontal bars scaled to the largest value, fitting
// each line within width columns.
func Bars(rows []Row, width int) string {
	if len(rows) == 0 {
		return ""
	}
	labelW, noteW := 0, 0
	max := 0.0
	notes := make([]string, len(rows))
	for i, r := range rows {
		labelW = maxInt(labelW, len([]rune(r.Label)))
		notes[i] = r.Note
		if notes[i] == "" {
			notes[i] = formatValue(r.Value)
		}
		noteW = maxInt(noteW, len([]rune(notes[i])))
		if finite(r.Value) && r.Value > max {
			max = r.Value
		}
	}
	barW := width - labelW - noteW - 4
	if barW < minBarWidth {
		barW = minBarWidth
	}

	var b strings.Builder
	for i, r := range rows {
		n := 0
		if max > 0 && r.Value > 0 && finite(r.Value) {
			n = int(math.Round(r.Value / max * float64(barW)))
			if n == 0 {
				n = 1
			}
		}
		fmt.Fprintf(&b, "%-*s  %s%s %s\n", labelW, r.Label,
			strings.Repeat(fullBlock, n), strings.Repeat(emptyBlock, barW-n), notes[i])
	}
	return b.String()
}

// Meter renders a fixed-width progress meter for pct in 0..100.
func Meter(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	if pct < 0 || math.IsNaN(pct) {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	n := int(math.Round(pct / 100 * float64(width)))
	return strings.Repeat(fullBlock, n) + strings.Repeat(emptyBlock, width-n)
}

// Spark renders values as a one-line sparkline.
func Spark(values []float64) string {
	ticks := []rune("▁▂▃▄▅▆▇█")
	max := 0.0
	for _, v := range values {
		if finite(v) && v > max {
			max = v
		}
	}
	out := make([]rune, len(values))
	for i, v := range values {
		if max <= 0 || v <= 0 || !finite(v) {
			out[i] = ticks[0]
			continue
		}
		idx := int(math.Round(v / max * float64(len(ticks)-1)))
		out[i] = ticks[idx]
	}
	return string(out)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
