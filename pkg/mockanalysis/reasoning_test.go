package mockanalysis

import (
	"strings"
	"testing"

	"investchat/pkg/money"
)

func TestReason(t *testing.T) {
	prices := []PricePrediction{{Date: "2025-08-13", Price: money.NewAmountFromInt(137300)}}
	tests := []struct {
		name           string
		trend          string
		sentiment      string
		wantConfidence string
		wantText       string
	}{
		{name: "bullish", trend: TrendSlightIncrease, sentiment: SentimentPositive, wantConfidence: ConfidenceHigh, wantText: "137,300 zone"},
		{name: "bearish", trend: TrendSharpDecrease, sentiment: SentimentNegative, wantConfidence: ConfidenceHigh, wantText: "correction pressure"},
		{name: "unsupported rise", trend: TrendStrongIncrease, sentiment: SentimentNeutral, wantConfidence: ConfidenceMedium, wantText: "do not really support"},
		{name: "sideways", trend: TrendSideways, sentiment: SentimentPositive, wantConfidence: ConfidenceLow, wantText: "trend go sideways"},
		{name: "mild decline neutral", trend: TrendMitigate, sentiment: SentimentNeutral, wantConfidence: ConfidenceLow, wantText: "trend mitigate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := reason(
				&ForecastData{CurrentPrice: money.NewAmountFromInt(135000), PredictedPrices: prices, Trend: tt.trend},
				&QualitativeAnalysis{Sentiment: tt.sentiment},
				"FPT",
			)
			if summary.Confidence != tt.wantConfidence {
				t.Fatalf("confidence = %s, want %s", summary.Confidence, tt.wantConfidence)
			}
			if !strings.HasPrefix(summary.Text, "For code stock FPT, ") {
				t.Fatalf("unexpected prefix: %q", summary.Text)
			}
			if !strings.Contains(summary.Text, tt.wantText) {
				t.Fatalf("expected %q in %q", tt.wantText, summary.Text)
			}
			if summary.Title != "Summary for FPT" {
				t.Fatalf("unexpected title %q", summary.Title)
			}
		})
	}
}
