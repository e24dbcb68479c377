package mockanalysis

import (
	"fmt"
	"strings"
)

type newsItem struct {
	title     string
	sentiment string
}

var newsDB = map[string][]newsItem{
	"FPT": {
		{title: "FPT Software signs $100 million digital transformation contract with US partner", sentiment: "positive"},
		{title: "FPT revenue grew 20% in the second quarter, exceeding the set plan", sentiment: "positive"},
		{title: "FPT shares edge slightly lower in a quiet session", sentiment: "neutral"},
	},
	"VIC": {
		{title: "VinFast prepares to launch new electric car model in European market", sentiment: "positive"},
		{title: "Vingroup announced plans to build a new urban area in Hung Yen", sentiment: "positive"},
		{title: "VIC's real estate profit shows signs of slowing down", sentiment: "negative"},
		{title: "VinFast losses widen as delivery targets are cut", sentiment: "negative"},
	},
	"VCB": {
		{title: "Vietcombank honored as 'Best Bank in Vietnam' for 5 consecutive years", sentiment: "positive"},
		{title: "VCB credit growth is stable, NIM is improved", sentiment: "positive"},
		{title: "The State Bank may increase operating interest rates, affecting the banking industry.", sentiment: "neutral"},
	},
}

// SupportedSymbols lists the tickers with news coverage, in display order.
var SupportedSymbols = []string{"FPT", "VIC", "VCB"}

var newsSources = []string{"CafeF", "Vietstock", "VnExpress"}

const maxHeadlines = 2

// IsSupported reports whether symbol has news coverage.
func IsSupported(symbol string) bool {
	_, ok := newsDB[symbol]
	return ok
}

func headlineURL(symbol string, index int) string {
	return fmt.Sprintf("https://mock-news.com/%s/article-%d", strings.ToLower(symbol), index)
}
