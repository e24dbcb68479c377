package advisor

import (
	"time"

	"investchat/pkg/money"
)

// DefaultPortfolioCurrency is the currency of the placeholder summary entry.
const DefaultPortfolioCurrency = "USD"

// DefaultPortfolio returns the placeholder snapshot sent with every request.
// Each call returns a fresh value so callers can never share mutable slices.
func DefaultPortfolio(now time.Time) PortfolioSnapshot {
	return PortfolioSnapshot{
		Transactions: []PortfolioTransaction{},
		Watchlist:    []string{},
		Summary: []PortfolioSummary{
			{
				Currency:    DefaultPortfolioCurrency,
				Amount:      money.Zero(),
				MedianPrice: money.Zero(),
				LastUpdate:  now.UTC().Format(time.RFC3339),
			},
		},
	}
}

// ComposeRequest builds the analysis request for a user question.
// Nothing is validated here; the analysis service owns validation.
func ComposeRequest(userID, question string, now time.Time) AnalysisRequest {
	return AnalysisRequest{
		Question:  question,
		UserID:    userID,
		Context:   map[string]any{},
		Portfolio: DefaultPortfolio(now),
	}
}
