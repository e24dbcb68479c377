package mockanalysis

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"investchat/pkg/money"
)

// WelcomeMessage is returned by the engine's index endpoint.
const WelcomeMessage = "Welcome to the Stock Advisor API! Send questions to /api/v1/chatbot/query."

// ErrUnsupportedSymbol is returned when a question names no supported ticker.
var ErrUnsupportedSymbol = errors.New("The stock code in question was not found or does not support it. Supported codes: " +
	strings.Join(SupportedSymbols, ", "))

const (
	defaultBasePrice = 50000
	priceStep        = 100
	minDailyChange   = -0.015
	maxDailyChange   = 0.02
	dateLayout       = "2006-01-02"
)

var basePrices = map[string]int64{
	"FPT": 135000,
	"VIC": 45000,
	"VCB": 92000,
}

// Trend labels.
const (
	TrendStrongIncrease = "Strong increase"
	TrendSlightIncrease = "Slight increase"
	TrendSharpDecrease  = "Sharp decrease"
	TrendMitigate       = "Mitigate"
	TrendSideways       = "Go sideways"
)

// Sentiment labels.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// Confidence labels.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Options controls Analyzer initialization.
type Options struct {
	// Rand drives price moves, sources, dates and response ids.
	Rand *rand.Rand
	Now  func() time.Time
}

// Analyzer simulates a price forecast model, a news sentiment model and a
// reasoning module. It is safe for concurrent use.
type Analyzer struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Analyzer{rng: rng, now: now}
}

// Analyze answers a free-text question about a supported ticker.
func (a *Analyzer) Analyze(text string) (*Response, error) {
	entities := ParseQuery(text)
	if entities.Symbol == "" || !IsSupported(entities.Symbol) {
		return nil, ErrUnsupportedSymbol
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	today := a.now()
	forecast := a.forecast(entities.Symbol, entities.Days, today)
	qualitative := a.qualitative(entities.Symbol, today)
	summary := reason(forecast, qualitative, entities.Symbol)

	return &Response{
		ResponseID: fmt.Sprintf("resp-%d", 1000+a.rng.Intn(9000)),
		Request: RequestInfo{
			StockSymbol:   entities.Symbol,
			DaysToPredict: entities.Days,
		},
		ForecastData:        forecast,
		QualitativeAnalysis: qualitative,
		Summary:             summary,
		SuggestedQuestions:  SuggestedQuestions(entities.Symbol),
	}, nil
}

// SuggestedQuestions returns the follow-up prompts offered for symbol.
func SuggestedQuestions(symbol string) []string {
	return []string{
		fmt.Sprintf("Compare %s with another code?", symbol),
		fmt.Sprintf("Financial Summary of %s", symbol),
		fmt.Sprintf("Technical analysis for %s", symbol),
	}
}

func basePrice(symbol string) money.Amount {
	if price, ok := basePrices[symbol]; ok {
		return money.NewAmountFromInt(price)
	}
	return money.NewAmountFromInt(defaultBasePrice)
}

// forecast walks the price for days, starting tomorrow. Caller holds a.mu.
func (a *Analyzer) forecast(symbol string, days int, today time.Time) *ForecastData {
	base := basePrice(symbol)
	current := base.Decimal
	one := decimal.NewFromInt(1)

	prices := make([]PricePrediction, 0, days)
	for i := 0; i < days; i++ {
		change := minDailyChange + a.rng.Float64()*(maxDailyChange-minDailyChange)
		current = current.Mul(one.Add(decimal.NewFromFloat(change)))
		prices = append(prices, PricePrediction{
			Date:  today.AddDate(0, 0, i+1).Format(dateLayout),
			Price: money.Amount{Decimal: current}.RoundToStep(priceStep),
		})
	}

	return &ForecastData{
		CurrentPrice:    base,
		PredictedPrices: prices,
		Trend:           classifyTrend(base, prices),
	}
}

func classifyTrend(base money.Amount, prices []PricePrediction) string {
	if len(prices) == 0 {
		return TrendSideways
	}
	final := prices[len(prices)-1].Price.Decimal
	switch {
	case final.GreaterThan(base.Mul(decimal.NewFromFloat(1.03))):
		return TrendStrongIncrease
	case final.GreaterThan(base.Decimal):
		return TrendSlightIncrease
	case final.LessThan(base.Mul(decimal.NewFromFloat(0.97))):
		return TrendSharpDecrease
	case final.LessThan(base.Decimal):
		return TrendMitigate
	default:
		return TrendSideways
	}
}

// qualitative samples up to maxHeadlines headlines for symbol and scores
// them. Caller holds a.mu.
func (a *Analyzer) qualitative(symbol string, today time.Time) *QualitativeAnalysis {
	items := newsDB[symbol]
	if len(items) == 0 {
		return &QualitativeAnalysis{Sentiment: SentimentNeutral, KeyHeadlines: []Headline{}}
	}
	n := min(len(items), maxHeadlines)

	picked := make([]newsItem, 0, n)
	headlines := make([]Headline, 0, n)
	for i, idx := range a.rng.Perm(len(items))[:n] {
		item := items[idx]
		picked = append(picked, item)
		headlines = append(headlines, Headline{
			Title:         item.title,
			Source:        newsSources[a.rng.Intn(len(newsSources))],
			URL:           headlineURL(symbol, i),
			PublishedDate: today.AddDate(0, 0, -(1 + a.rng.Intn(10))).Format(dateLayout),
		})
	}
	return &QualitativeAnalysis{Sentiment: scoreSentiment(picked), KeyHeadlines: headlines}
}

// scoreSentiment is Negative when negative items outnumber positive ones,
// otherwise Positive when at least half are positive, otherwise Neutral.
func scoreSentiment(items []newsItem) string {
	positive, negative := 0, 0
	for _, item := range items {
		switch item.sentiment {
		case "positive":
			positive++
		case "negative":
			negative++
		}
	}
	switch {
	case len(items) == 0:
		return SentimentNeutral
	case negative > positive:
		return SentimentNegative
	case float64(positive) >= float64(len(items))/2:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}
