// Package tradecalc is the trading-performance calculation engine shared by the
// HTTP API and the offline calculator. Every function is a pure computation over
// its arguments; nothing here performs I/O or keeps state between calls.
package tradecalc

import "strings"

// InstrumentClass groups symbols that share pip conventions
type InstrumentClass string

const (
	ClassGold      InstrumentClass = "gold"
	ClassCommodity InstrumentClass = "commodity"
	ClassForex     InstrumentClass = "forex"
)

// Pip sizes per instrument class
const (
	PipSizeGold      = 0.10
	PipSizeCommodity = 0.01
	PipSizeForexJPY  = 0.01
	PipSizeForex     = 0.0001
)

// Instrument is the classification result for a symbol
type Instrument struct {
	Symbol  string          `json:"symbol"`
	Class   InstrumentClass `json:"class"`
	PipSize float64         `json:"pip_size"`
}

var (
	goldMarkers      = []string{"XAU", "GOLD"}
	commodityMarkers = []string{"XAG", "OIL", "BTC"}
)

// ClassOf returns the instrument class of a symbol. Matching is a
// case-insensitive substring test; anything unrecognized is treated as forex.
func ClassOf(symbol string) InstrumentClass {
	upper := strings.ToUpper(symbol)
	if containsAny(upper, goldMarkers) {
		return ClassGold
	}
	if containsAny(upper, commodityMarkers) {
		return ClassCommodity
	}
	return ClassForex
}

// PipSize returns the price increment of one pip for the symbol
func PipSize(symbol string) float64 {
	switch ClassOf(symbol) {
	case ClassGold:
		return PipSizeGold
	case ClassCommodity:
		return PipSizeCommodity
	}
	if strings.Contains(strings.ToUpper(symbol), "JPY") {
		return PipSizeForexJPY
	}
	return PipSizeForex
}

// Classify returns the full instrument description for a symbol
func Classify(symbol string) Instrument {
	return Instrument{
		Symbol:  FormatSymbol(symbol),
		Class:   ClassOf(symbol),
		PipSize: PipSize(symbol),
	}
}

// FormatSymbol uppercases the symbol and strips all whitespace
func FormatSymbol(symbol string) string {
	return strings.Join(strings.Fields(strings.ToUpper(symbol)), "")
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
