package domain

import (
	"strconv"
	"strings"
)

// Grams is a normalized weight. Every serving resolves to a Grams value.
type Grams float64

// Kilocalories is an energy amount as printed on nutrition labels.
type Kilocalories float64

// Ratio is a dimensionless multiplier between two gram quantities.
type Ratio float64

// String renders the weight as "150g".
func (g Grams) String() string {
	return formatAmount(float64(g), ".") + "g"
}

// Scale returns the calories multiplied by r.
func (k Kilocalories) Scale(r Ratio) Kilocalories {
	return Kilocalories(float64(k) * float64(r))
}

// formatAmount prints v with the shortest exact representation and the given
// decimal separator.
func formatAmount(v float64, sep string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if sep != "." {
		s = strings.Replace(s, ".", sep, 1)
	}
	return s
}

// roundTo rounds v to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	out, _ := strconv.ParseFloat(s, 64)
	return out
}
