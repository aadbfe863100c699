package render

import (
	"math"
	"strings"
)

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Trends values are relative to the peak of the queried window.
const scaleMax = 100.0

// bucket reduces values to at most width points by averaging neighbours.
func bucket(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > scaleMax {
		return scaleMax
	}
	return v
}

// Sparkline renders values on a fixed 0-100 scale so rows of different
// keywords stay comparable.
func Sparkline(values []float64, width int) string {
	var b strings.Builder
	top := len(sparkTicks) - 1
	for _, v := range bucket(values, width) {
		idx := int(math.Round(clamp(v) / scaleMax * float64(top)))
		b.WriteRune(sparkTicks[idx])
	}
	return b.String()
}

// ColumnChart renders values as vertical columns height rows tall, top row
// first, with a y-axis label on the first and last rows.
func ColumnChart(values []float64, width, height int) []string {
	if height < 1 {
		height = 1
	}
	cols := bucket(values, width)
	levels := make([]int, len(cols))
	for i, v := range cols {
		levels[i] = int(math.Round(clamp(v) / scaleMax * float64(height*2)))
	}

	lines := make([]string, 0, height)
	for row := height; row >= 1; row-- {
		var b strings.Builder
		switch row {
		case height:
			b.WriteString("100 ┤")
		case 1:
			b.WriteString("  0 ┤")
		default:
			b.WriteString("    │")
		}
		full, half := row*2, row*2-1
		for _, lvl := range levels {
			switch {
			case lvl >= full:
				b.WriteRune('█')
			case lvl == half:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}

// Bar renders one horizontal bar for v on the 0-100 scale.
func Bar(v float64, width int) string {
	n := int(math.Round(clamp(v) / scaleMax * float64(width)))
	if n == 0 && v > 0 {
		n = 1
	}
	return strings.Repeat("■", n)
}
