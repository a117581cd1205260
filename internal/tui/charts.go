package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/xpboard/internal/profile"
)

// lineStride thins long daily series: only every lineStride-th day is drawn
// once the series is wider than the plot.
const lineStride = 10

// minBarWidth keeps bars readable on narrow terminals.
const minBarWidth = 10

var sparkBlocks = []rune(" ▁▂▃▄▅▆▇█")

func maxLabelWidth(points []profile.Point) int {
	w := 0
	for _, p := range points {
		if n := utf8.RuneCountInString(p.Label); n > w {
			w = n
		}
	}
	return w
}

func colorAt(colors []lipgloss.Color, i int) lipgloss.Color {
	if len(colors) == 0 {
		return lipgloss.Color("")
	}
	return colors[i%len(colors)]
}

// barLength scales v against maxV onto width cells.
func barLength(v, maxV int64, width int) int {
	if maxV <= 0 || v <= 0 {
		return 0
	}
	n := int(math.Round(float64(v) / float64(maxV) * float64(width)))
	if n > width {
		n = width
	}
	return n
}

func renderBar(n, width int, color, track lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", n)) +
		lipgloss.NewStyle().Foreground(track).Render(strings.Repeat("░", width-n))
}

// renderBarChart draws one horizontal bar per category, scaled to the largest.
func renderBarChart(points []profile.Point, width int, st styles) string {
	labelW := maxLabelWidth(points)
	values := make([]string, len(points))
	valueW := 0
	var maxV int64
	for i, p := range points {
		values[i] = profile.FormatKB(p.Value)
		if n := len(values[i]); n > valueW {
			valueW = n
		}
		if p.Value > maxV {
			maxV = p.Value
		}
	}
	barW := width - labelW - valueW - 6
	if barW < minBarWidth {
		barW = minBarWidth
	}

	lines := make([]string, 0, len(points))
	for i, p := range points {
		n := barLength(p.Value, maxV, barW)
		lines = append(lines, "  "+
			st.label.Render(padRight(p.Label, labelW))+" "+
			renderBar(n, barW, colorAt(st.palette.bars, i), st.palette.track)+" "+
			st.normal.Render(values[i]))
	}
	return strings.Join(lines, "\n")
}

// renderShareChart draws each skill's share of the total as a bar with its
// percentage. An empty series renders a single notice instead of a chart.
func renderShareChart(points []profile.Point, width int, st styles) string {
	if len(points) == 0 {
		return "  " + st.hint.Render("no skill data")
	}
	labelW := maxLabelWidth(points)
	var total int64
	for _, p := range points {
		if p.Value > 0 {
			total += p.Value
		}
	}
	const suffixW = 14 // " 100.0%  1234"
	barW := width - labelW - suffixW - 4
	if barW < minBarWidth {
		barW = minBarWidth
	}

	lines := make([]string, 0, len(points))
	for i, p := range points {
		var pct float64
		if total > 0 && p.Value > 0 {
			pct = float64(p.Value) / float64(total) * 100
		}
		n := barLength(p.Value, total, barW)
		lines = append(lines, "  "+
			st.label.Render(padRight(p.Label, labelW))+" "+
			renderBar(n, barW, colorAt(st.palette.slices, i), st.palette.track)+" "+
			st.normal.Render(fmt.Sprintf("%5.1f%%", pct))+"  "+
			st.dim.Render(strconv.FormatInt(p.Value, 10)))
	}
	return strings.Join(lines, "\n")
}

// subsampleDaily keeps days 0, stride, 2*stride, ... when the series is wider
// than width, then the most recent width of those. The input is never
// modified.
func subsampleDaily(days []profile.DayTotal, stride, width int) []profile.DayTotal {
	if width <= 0 || len(days) <= width {
		return days
	}
	if stride < 1 {
		stride = 1
	}
	out := make([]profile.DayTotal, 0, len(days)/stride+1)
	for i := 0; i < len(days); i += stride {
		out = append(out, days[i])
	}
	if len(out) > width {
		out = out[len(out)-width:]
	}
	return out
}

// renderLineChart draws the per-day series as columns of block glyphs, height
// rows tall, with the peak value on the axis and the first and last day below.
func renderLineChart(days []profile.DayTotal, width, height int, st styles) string {
	if len(days) == 0 {
		return "  " + st.hint.Render("no activity yet")
	}
	if height < 1 {
		height = 1
	}

	var peak int64
	for _, d := range days {
		if d.Total > peak {
			peak = d.Total
		}
	}
	top := strconv.FormatInt(peak, 10)
	axisW := len(top) + 1
	plotW := width - axisW - 4
	if plotW < minBarWidth {
		plotW = minBarWidth
	}
	points := subsampleDaily(days, lineStride, plotW)

	levels := make([]int, len(points))
	for i, d := range points {
		if peak > 0 && d.Total > 0 {
			levels[i] = int(math.Round(float64(d.Total) / float64(peak) * float64(height*8)))
		}
	}

	line := lipgloss.NewStyle().Foreground(st.palette.accent)
	var b strings.Builder
	for row := height - 1; row >= 0; row-- {
		axis := ""
		switch row {
		case height - 1:
			axis = top
		case 0:
			axis = "0"
		}
		fmt.Fprintf(&b, "  %s", st.meta.Render(fmt.Sprintf("%*s", axisW-1, axis)+"┤"))
		var cells strings.Builder
		for _, lvl := range levels {
			cell := lvl - row*8
			if cell < 0 {
				cell = 0
			} else if cell > 8 {
				cell = 8
			}
			cells.WriteRune(sparkBlocks[cell])
		}
		b.WriteString(line.Render(cells.String()))
		b.WriteString("\n")
	}

	first, last := points[0].Day, points[len(points)-1].Day
	under := first
	if len(points) > 1 {
		gap := len(points) - len(first) - len(last)
		if gap < 1 {
			gap = 1
		}
		under = first + strings.Repeat(" ", gap) + last
	}
	b.WriteString("  " + strings.Repeat(" ", axisW) + st.meta.Render(under))
	return b.String()
}
