package output

import (
	"math"
	"strconv"
	"strings"

	"razor/internal/assemble"
)

// Float renders x the way the CSV consumers of this tool have always seen
// it: shortest round-trip digits, a trailing ".0" on integral values, and
// "nan"/"inf" for non-finite values.
func Float(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	abs := math.Abs(x)
	var s string
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		s = strconv.FormatFloat(x, 'e', -1, 64)
	} else {
		s = strconv.FormatFloat(x, 'f', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Floats renders a list as "[a, b, c]".
func Floats(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = Float(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Ints renders a list as "[1, 0, 1]".
func Ints(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatRow returns the cells of one row in Columns order.
func FormatRow(r assemble.Row) []string {
	if r.Failed() {
		cells := make([]string, len(Columns))
		cells[0], cells[1] = r.ID, r.Seq
		for i := 2; i < len(cells); i++ {
			cells[i] = NA
		}
		return cells
	}
	return []string{
		r.ID,
		r.Seq,
		Floats(r.YScore),
		Ints(r.SPPrediction),
		Floats(r.MaxC),
		Ints(r.ProbableCleavages),
		strconv.Itoa(r.Cleavage),
		Float(r.SPScore),
		Floats(r.FungiScores),
		Ints(r.FungiPrediction),
		Float(r.FungiMedian),
		Floats(r.ToxinScores),
		Ints(r.ToxinPrediction),
		Float(r.ToxinMedian),
	}
}
