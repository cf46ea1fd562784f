package newsfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapImpact(t *testing.T) {
	tests := map[string]string{
		"":       ImpactMedium,
		"high":   ImpactHigh,
		"HIGH":   ImpactHigh,
		"3":      ImpactHigh,
		"low":    ImpactLow,
		"1":      ImpactLow,
		"medium": ImpactMedium,
		"2":      ImpactMedium,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapImpact(in), "impact %q", in)
	}
}

func TestCurrencyFor(t *testing.T) {
	assert.Equal(t, "USD", CurrencyFor("US"))
	assert.Equal(t, "EUR", CurrencyFor("eu"))
	assert.Equal(t, "GBP", CurrencyFor("GB"))
	assert.Equal(t, "JPY", CurrencyFor("JPY"))
	assert.Equal(t, "USD", CurrencyFor(""))
}
