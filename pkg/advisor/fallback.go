package advisor

import (
	"strings"
	"time"
)

const (
	fallbackReasoning = "Our analysis service is temporarily unavailable, so this answer was prepared from general guidance. Please try again in a few minutes for a personalized analysis."
	fallbackAdvice    = "Diversify across asset classes, invest only money you can leave untouched for several years and review your allocation regularly."
	fallbackRisk      = "Risk could not be assessed right now. All investments carry risk, including the possible loss of principal."
	fallbackSource    = "Fallback Response"
	fallbackLanguage  = "en"
	// FallbackConfidence is the confidence reported by fallback responses.
	FallbackConfidence = 0.5
)

var (
	techSuggestion = InvestmentSuggestion{
		Title:       "Technology Leaders Fund",
		Description: "Broad exposure to established technology companies with strong balance sheets and steady earnings growth.",
		AssetClass:  AssetClassStock,
		Symbol:      "TECH",
		ImageURL:    "https://placehold.co/600x400/png?text=TECH",
	}
	goldSuggestion = InvestmentSuggestion{
		Title:       "Gold Reserve",
		Description: "Physical gold holdings that have historically held value during inflation and market stress.",
		AssetClass:  AssetClassCommodity,
		Symbol:      "GOLD",
		ImageURL:    "https://placehold.co/600x400/png?text=GOLD",
	}
	btcSuggestion = InvestmentSuggestion{
		Title:       "Bitcoin",
		Description: "The largest cryptocurrency by market value. Highly volatile, so size positions conservatively.",
		AssetClass:  AssetClassCrypto,
		Symbol:      "BTC",
		ImageURL:    "https://placehold.co/600x400/png?text=BTC",
	}
)

// fallbackRule pairs a question predicate with the suggestions it yields.
type fallbackRule struct {
	name        string
	matches     func(question string) bool
	suggestions []InvestmentSuggestion
}

// Evaluated top to bottom; the first match wins.
var fallbackRules = []fallbackRule{
	{name: "gold", matches: containsAny("gold", "precious metal"), suggestions: []InvestmentSuggestion{goldSuggestion}},
	{name: "tech", matches: containsAny("tech", "technology"), suggestions: []InvestmentSuggestion{techSuggestion}},
	{name: "crypto", matches: containsAny("crypto", "bitcoin"), suggestions: []InvestmentSuggestion{btcSuggestion}},
}

var defaultFallbackSuggestions = []InvestmentSuggestion{techSuggestion, goldSuggestion, btcSuggestion}

func containsAny(keywords ...string) func(string) bool {
	return func(question string) bool {
		lower := strings.ToLower(question)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
		return false
	}
}

// FallbackSuggestions returns the keyword-selected suggestion cards for a question.
// The result is never empty and is safe to modify.
func FallbackSuggestions(question string) []InvestmentSuggestion {
	for _, rule := range fallbackRules {
		if rule.matches(question) {
			return cloneSuggestions(rule.suggestions)
		}
	}
	return cloneSuggestions(defaultFallbackSuggestions)
}

// FallbackResponse builds the complete response used when the analysis call fails.
func FallbackResponse(question string, now time.Time) *AnalysisResponse {
	return &AnalysisResponse{
		Question:              question,
		Symbols:               []string{},
		Recommendations:       map[string]string{},
		Reasoning:             fallbackReasoning,
		PersonalizedAdvice:    fallbackAdvice,
		Confidence:            FallbackConfidence,
		RiskAssessment:        fallbackRisk,
		BiasStatus:            BiasStatus{},
		DataSources:           []string{fallbackSource},
		Timestamp:             now.UTC().Format(time.RFC3339),
		DetectedLanguage:      fallbackLanguage,
		SourceLinks:           []SourceLink{},
		InvestmentSuggestions: FallbackSuggestions(question),
	}
}

func cloneSuggestions(items []InvestmentSuggestion) []InvestmentSuggestion {
	out := make([]InvestmentSuggestion, len(items))
	copy(out, items)
	return out
}
