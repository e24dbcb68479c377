package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"investchat/pkg/mockanalysis"
)

const (
	mockForecastSource  = "Mock Forecast Model"
	mockSentimentSource = "Mock News Sentiment"
)

var mockConfidence = map[string]float64{
	mockanalysis.ConfidenceHigh:   0.85,
	mockanalysis.ConfidenceMedium: 0.6,
	mockanalysis.ConfidenceLow:    0.35,
}

// MockTransport answers requests with the built-in mock analysis engine.
type MockTransport struct {
	analyzer *mockanalysis.Analyzer
}

// NewMockTransport wraps analyzer.
func NewMockTransport(analyzer *mockanalysis.Analyzer) *MockTransport {
	return &MockTransport{analyzer: analyzer}
}

// Analyze runs the mock engine on the question.
// Questions without a supported ticker get a guidance answer rather than an error.
func (t *MockTransport) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, WrapError(ErrCodeTransport, "mock analysis cancelled", err)
	}

	result, err := t.analyzer.Analyze(req.Question)
	if errors.Is(err, mockanalysis.ErrUnsupportedSymbol) {
		return unsupportedSymbolResponse(req.Question), nil
	}
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "mock analysis failed", err)
	}
	return mockResultToResponse(req.Question, result), nil
}

func mockResultToResponse(question string, result *mockanalysis.Response) *AnalysisResponse {
	symbol := result.Request.StockSymbol
	resp := &AnalysisResponse{
		Question:           question,
		Symbols:            []string{symbol},
		Recommendations:    map[string]string{},
		Reasoning:          result.Summary.Text,
		Confidence:         mockConfidence[result.Summary.Confidence],
		BiasStatus:         BiasStatus{Checked: true},
		DataSources:        []string{mockForecastSource, mockSentimentSource},
		DetectedLanguage:   fallbackLanguage,
		SourceLinks:        []SourceLink{},
		SuggestedQuestions: result.SuggestedQuestions,
	}

	trend := ""
	if forecast := result.ForecastData; forecast != nil {
		trend = forecast.Trend
		resp.Recommendations[symbol] = fmt.Sprintf("%s over the next %d days (from %s)",
			forecast.Trend, result.Request.DaysToPredict, forecast.CurrentPrice.StringFixed(0))
	}
	sentiment := mockanalysis.SentimentNeutral
	if qualitative := result.QualitativeAnalysis; qualitative != nil {
		sentiment = qualitative.Sentiment
		for i, headline := range qualitative.KeyHeadlines {
			resp.SourceLinks = append(resp.SourceLinks, SourceLink{
				Index: i + 1,
				Title: fmt.Sprintf("%s (%s, %s)", headline.Title, headline.Source, headline.PublishedDate),
				URL:   headline.URL,
			})
		}
	}

	resp.PersonalizedAdvice = adviceForTrend(trend)
	resp.RiskAssessment = fmt.Sprintf("Forecast trend: %s. News sentiment: %s. Simulated figures, not investment advice.",
		strings.ToLower(trend), strings.ToLower(sentiment))
	return resp
}

func adviceForTrend(trend string) string {
	lower := strings.ToLower(trend)
	switch {
	case strings.Contains(lower, "increase"):
		return "Consider building a position gradually and set a stop-loss below the current price."
	case strings.Contains(lower, "decrease"), lower == strings.ToLower(mockanalysis.TrendMitigate):
		return "Consider waiting for the price to stabilize before adding to this position."
	default:
		return "Holding your current position and watching the next few sessions looks reasonable."
	}
}

func unsupportedSymbolResponse(question string) *AnalysisResponse {
	examples := make([]string, 0, len(mockanalysis.SupportedSymbols))
	for _, symbol := range mockanalysis.SupportedSymbols {
		examples = append(examples, fmt.Sprintf("%s price forecast next week?", symbol))
	}
	return &AnalysisResponse{
		Question:           question,
		Symbols:            []string{},
		Recommendations:    map[string]string{},
		Reasoning:          mockanalysis.ErrUnsupportedSymbol.Error(),
		PersonalizedAdvice: "Ask about one of the supported stock codes to get a forecast.",
		Confidence:         0,
		RiskAssessment:     "No analysis was performed.",
		DataSources:        []string{mockForecastSource},
		DetectedLanguage:   fallbackLanguage,
		SourceLinks:        []SourceLink{},
		SuggestedQuestions: examples,
	}
}
