package mockanalysis

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// reason turns the forecast and sentiment into a rule-based summary.
func reason(forecast *ForecastData, analysis *QualitativeAnalysis, symbol string) Summary {
	trend := strings.ToLower(forecast.Trend)
	sentiment := strings.ToLower(analysis.Sentiment)

	var text, confidence string
	switch {
	case strings.Contains(trend, "increase") && sentiment == "positive":
		text = fmt.Sprintf("The %s trend is reinforced by fundamental information %s from the market. "+
			"Our model predicts that the price may move towards the %s zone. This is a noteworthy signal.",
			trend, sentiment, formatPrice(forecast))
		confidence = ConfidenceHigh
	case strings.Contains(trend, "decrease") && sentiment == "negative":
		text = fmt.Sprintf("The stock may face correction pressure. Both technical analysis (trend %s) and market news are unfavorable. "+
			"Investors should be cautious.", trend)
		confidence = ConfidenceHigh
	case strings.Contains(trend, "increase"):
		text = fmt.Sprintf("Technical analysis shows %s signal, however fundamentals do not really support this bullish momentum. "+
			"Need to observe more trading sessions to confirm the trend.", trend)
		confidence = ConfidenceMedium
	default:
		text = fmt.Sprintf("The forecasting model shows the trend %s. There is not much sudden news affecting the stock price at the moment. "+
			"Price may fluctuate around the current price range.", trend)
		confidence = ConfidenceLow
	}

	return Summary{
		Title:      fmt.Sprintf("Summary for %s", symbol),
		Text:       fmt.Sprintf("For code stock %s, %s", symbol, text),
		Confidence: confidence,
	}
}

// formatPrice renders the last forecast price with thousands separators.
func formatPrice(forecast *ForecastData) string {
	if len(forecast.PredictedPrices) == 0 {
		return pricePrinter.Sprintf("%d", forecast.CurrentPrice.IntPart())
	}
	last := forecast.PredictedPrices[len(forecast.PredictedPrices)-1].Price
	return pricePrinter.Sprintf("%d", last.IntPart())
}
