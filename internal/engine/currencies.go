package engine

import "k8s.io/apimachinery/pkg/util/sets"

// Run count bounds for a simulation request, enforced before any process is
// spawned.
const (
	MinRuns = 100
	MaxRuns = 100000
)

// OutputCurrencies is the allow-list of currency codes the engine's FX
// normalization accepts.
var OutputCurrencies = sets.New(
	"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "NZD", "SEK",
	"NOK", "DKK", "SGD", "HKD", "CNY", "INR", "BRL", "ZAR", "PLN",
)

// ValidRuns reports whether runs is inside the accepted range.
func ValidRuns(runs int) bool {
	return runs >= MinRuns && runs <= MaxRuns
}

// ValidCurrency reports whether code is on the output currency allow-list.
func ValidCurrency(code string) bool {
	return OutputCurrencies.Has(code)
}
