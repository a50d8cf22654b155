package bignum

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Notation selects how a Formatter renders large values.
type Notation string

const (
	NotationScientific  Notation = "scientific"  // 1.23e45
	NotationStandard    Notation = "standard"    // 1.23Qa, scientific past the suffix table
	NotationEngineering Notation = "engineering" // 12.3e6 (exponent multiple of 3)
)

// suffixes are the short-scale names for each power of 1000.
var suffixes = []string{"", "K", "M", "B", "T", "Qa", "Qi", "Sx", "Sp", "Oc", "No", "Dc"}

// ParseNotation converts a config or flag string to a Notation.
func ParseNotation(s string) (Notation, error) {
	switch Notation(strings.ToLower(strings.TrimSpace(s))) {
	case NotationScientific, "":
		return NotationScientific, nil
	case NotationStandard:
		return NotationStandard, nil
	case NotationEngineering:
		return NotationEngineering, nil
	}
	return "", fmt.Errorf("bignum: unknown notation %q (want scientific, standard or engineering)", s)
}

// Formatter renders Numbers for display.
type Formatter struct {
	Notation  Notation
	Precision int // Mantissa decimals for large values
}

// DefaultFormatter matches Number.String.
func DefaultFormatter() Formatter {
	return Formatter{Notation: NotationScientific, Precision: 2}
}

// Format renders n. Values below one thousand always render as plain decimals.
func (f Formatter) Format(n Number) string {
	if n.inf || n.m == 0 || n.e < 3 {
		return n.String()
	}
	if n.m < 0 {
		return "-" + f.Format(n.Neg())
	}

	prec := f.Precision
	if prec < 0 {
		prec = 2
	}

	switch f.Notation {
	case NotationStandard:
		if s, ok := formatSuffix(n, prec); ok {
			return s
		}
		return formatExp(n.m, n.e, prec)
	case NotationEngineering:
		return formatEngineering(n, prec)
	}

	if n.e < 6 {
		return n.String()
	}
	return formatExp(n.m, n.e, prec)
}

// formatSuffix renders n as a value in [1, 1000) followed by its short-scale suffix.
// It reports false once the value outgrows the suffix table.
func formatSuffix(n Number, prec int) (string, bool) {
	group := n.e / 3
	v := roundTo(n.m*math.Pow10(int(n.e-group*3)), prec)
	if v >= 1000 {
		v /= 1000
		group++
	}
	if group >= int64(len(suffixes)) {
		return "", false
	}
	return strconv.FormatFloat(v, 'f', prec, 64) + suffixes[group], true
}

func formatEngineering(n Number, prec int) string {
	exp := n.e - n.e%3
	if n.e < 0 && n.e%3 != 0 {
		exp -= 3
	}
	v := roundTo(n.m*math.Pow10(int(n.e-exp)), prec)
	if v >= 1000 {
		v /= 1000
		exp += 3
	}
	return strconv.FormatFloat(v, 'f', prec, 64) + "e" + strconv.FormatInt(exp, 10)
}

func roundTo(v float64, prec int) float64 {
	pow := math.Pow10(prec)
	return math.Round(v*pow) / pow
}
