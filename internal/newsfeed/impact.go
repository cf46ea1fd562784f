package newsfeed

import "strings"

const (
	ImpactHigh   = "High"
	ImpactMedium = "Medium"
	ImpactLow    = "Low"
)

// MapImpact normalizes a provider's impact text. Unknown or empty text is
// treated as Medium.
func MapImpact(text string) string {
	lower := strings.ToLower(text)
	switch {
	case lower == "":
		return ImpactMedium
	case strings.Contains(lower, "high") || strings.Contains(lower, "3"):
		return ImpactHigh
	case strings.Contains(lower, "low") || strings.Contains(lower, "1"):
		return ImpactLow
	}
	return ImpactMedium
}

var countryCurrency = map[string]string{
	"US":  "USD",
	"EU":  "EUR",
	"EMU": "EUR",
	"DE":  "EUR",
	"FR":  "EUR",
	"IT":  "EUR",
	"ES":  "EUR",
	"GB":  "GBP",
	"UK":  "GBP",
	"JP":  "JPY",
	"AU":  "AUD",
	"CA":  "CAD",
	"CH":  "CHF",
	"NZ":  "NZD",
}

// CurrencyFor maps an ISO country code to its currency. Currency codes pass
// through unchanged and an empty code defaults to USD.
func CurrencyFor(country string) string {
	code := strings.ToUpper(strings.TrimSpace(country))
	if code == "" {
		return "USD"
	}
	if ccy, ok := countryCurrency[code]; ok {
		return ccy
	}
	return code
}
