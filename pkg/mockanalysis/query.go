package mockanalysis

import (
	"regexp"
	"strings"
)

const (
	IntentPriceForecast = "price_forecast"
	defaultHorizonDays  = 7
)

var symbolPattern = regexp.MustCompile(`\b([A-Z]{3})\b`)

// Horizon phrases, checked in order.
var horizonPhrases = []struct {
	phrase string
	days   int
}{
	{phrase: "tomorrow", days: 1},
	{phrase: "3 days", days: 3},
	{phrase: "next week", days: 7},
	{phrase: "2 weeks", days: 14},
}

// Entities are the parts of a question the engine understands.
type Entities struct {
	Symbol string
	Days   int
	Intent string
}

// ParseQuery extracts a ticker (first standalone three-letter uppercase word)
// and a forecast horizon from text.
func ParseQuery(text string) Entities {
	entities := Entities{Days: defaultHorizonDays, Intent: IntentPriceForecast}
	if match := symbolPattern.FindStringSubmatch(text); match != nil {
		entities.Symbol = match[1]
	}

	lower := strings.ToLower(text)
	for _, h := range horizonPhrases {
		if strings.Contains(lower, h.phrase) {
			entities.Days = h.days
			break
		}
	}
	return entities
}
