package tradecalc

import "math"

// round rounds half up at the given number of decimals. Half-up (rather than
// math.Round's half-away-from-zero) keeps negative P/L values identical to
// what browser clients compute for the same inputs.
func round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Floor(x*p+0.5) / p
}

// Round1 rounds to one decimal place
func Round1(x float64) float64 { return round(x, 1) }

// Round2 rounds to two decimal places
func Round2(x float64) float64 { return round(x, 2) }

// orDefault substitutes def for zero or NaN inputs
func orDefault(v, def float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return def
	}
	return v
}
