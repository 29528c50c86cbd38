package codec

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders v with the shortest digits that round-trip through a
// float32 and always at least one fractional digit. Magnitudes below 1e-3
// or at and above 1e7 use E notation, e.g. "1.0E7" or "2.5E-4".
func FormatFloat(v float32) string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 32)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'e', -1, 32)
	mant, exp, _ := strings.Cut(s, "e")
	if !strings.ContainsRune(mant, '.') {
		mant += ".0"
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mant + "E" + strconv.Itoa(n)
}
