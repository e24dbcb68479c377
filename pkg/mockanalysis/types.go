package mockanalysis

import "investchat/pkg/money"

// Query is the request body accepted by the mock engine.
type Query struct {
	UserID    string `json:"userId"`
	QueryText string `json:"queryText"`
}

// PricePrediction is one forecast day.
type PricePrediction struct {
	Date  string       `json:"date"`
	Price money.Amount `json:"price"`
}

// Headline is a news item backing the sentiment.
type Headline struct {
	Title         string `json:"title"`
	Source        string `json:"source"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate"`
}

// ForecastData is the simulated price path for a symbol.
type ForecastData struct {
	CurrentPrice    money.Amount      `json:"currentPrice"`
	PredictedPrices []PricePrediction `json:"predictedPrices"`
	Trend           string            `json:"trend"`
}

// QualitativeAnalysis is the headline-based sentiment.
type QualitativeAnalysis struct {
	Sentiment    string     `json:"sentiment"`
	KeyHeadlines []Headline `json:"keyHeadlines"`
}

// Summary is the final judgment text.
type Summary struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	Confidence string `json:"confidence"`
}

// RequestInfo echoes the entities extracted from the query.
type RequestInfo struct {
	StockSymbol   string `json:"stock_symbol"`
	DaysToPredict int    `json:"days_to_predict"`
}

// Response is the mock engine's answer.
type Response struct {
	ResponseID          string               `json:"responseId"`
	Request             RequestInfo          `json:"request"`
	ForecastData        *ForecastData        `json:"forecastData,omitempty"`
	QualitativeAnalysis *QualitativeAnalysis `json:"qualitativeAnalysis,omitempty"`
	Summary             Summary              `json:"summary"`
	SuggestedQuestions  []string             `json:"suggestedQuestions"`
}
