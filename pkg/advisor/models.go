package advisor

import (
	"encoding/json"

	"investchat/pkg/money"
)

// AssetClass tags the kind of instrument an investment suggestion describes.
type AssetClass string

const (
	AssetClassStock     AssetClass = "stock"
	AssetClassCommodity AssetClass = "commodity"
	AssetClassCrypto    AssetClass = "crypto"
)

// AnalysisRequest is the normalized payload sent to the analysis service.
type AnalysisRequest struct {
	Question  string            `json:"question"`
	UserID    string            `json:"user_id"`
	Context   map[string]any    `json:"context"`
	Portfolio PortfolioSnapshot `json:"portfolio"`
}

// PortfolioSnapshot is the placeholder holdings structure sent with every request.
type PortfolioSnapshot struct {
	Transactions []PortfolioTransaction `json:"transactions"`
	Watchlist    []string               `json:"watchlist"`
	Summary      []PortfolioSummary     `json:"summary"`
}

// PortfolioTransaction is one historical trade in a snapshot.
type PortfolioTransaction struct {
	Symbol   string       `json:"symbol"`
	Side     string       `json:"side"`
	Quantity money.Amount `json:"quantity"`
	Price    money.Amount `json:"price"`
	Date     string       `json:"date"`
}

// PortfolioSummary aggregates holdings for one currency.
type PortfolioSummary struct {
	Currency    string       `json:"currency"`
	Amount      money.Amount `json:"amount"`
	MedianPrice money.Amount `json:"median_price"`
	LastUpdate  string       `json:"last_update"`
}

// AnalysisResponse is the structured answer rendered by the chat UI.
type AnalysisResponse struct {
	Question              string                 `json:"question"`
	Symbols               []string               `json:"symbols"`
	Recommendations       map[string]string      `json:"recommendations"`
	Reasoning             string                 `json:"reasoning"`
	PersonalizedAdvice    string                 `json:"personalized_advice"`
	Confidence            float64                `json:"confidence"`
	RiskAssessment        string                 `json:"risk_assessment"`
	BiasStatus            BiasStatus             `json:"bias_status"`
	DataSources           []string               `json:"data_sources"`
	Timestamp             string                 `json:"timestamp"`
	DetectedLanguage      string                 `json:"detected_language"`
	SourceLinks           []SourceLink           `json:"source_links"`
	InvestmentSuggestions []InvestmentSuggestion `json:"investment_suggestions"`
	SuggestedQuestions    []string               `json:"suggested_questions,omitempty"`
}

// BiasStatus reports whether the analysis was screened for biased advice.
type BiasStatus struct {
	Checked  bool   `json:"checked"`
	Detected bool   `json:"detected"`
	Notes    string `json:"notes,omitempty"`
}

// SourceLink references material the analysis was based on.
type SourceLink struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// InvestmentSuggestion is a displayable recommendation card.
type InvestmentSuggestion struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssetClass  AssetClass `json:"asset_class"`
	Symbol      string     `json:"symbol"`
	ImageURL    string     `json:"image_url,omitempty"`
}

// UnmarshalJSON accepts the web front end's camelCase imageUrl as well as image_url.
func (s *InvestmentSuggestion) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title         string     `json:"title"`
		Description   string     `json:"description"`
		AssetClass    AssetClass `json:"asset_class"`
		Symbol        string     `json:"symbol"`
		ImageURL      string     `json:"image_url"`
		ImageURLCamel string     `json:"imageUrl"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Title = raw.Title
	s.Description = raw.Description
	s.AssetClass = raw.AssetClass
	s.Symbol = raw.Symbol
	s.ImageURL = raw.ImageURL
	if s.ImageURL == "" {
		s.ImageURL = raw.ImageURLCamel
	}
	return nil
}

// wireAnalysisResponse mirrors AnalysisResponse but keeps required fields
// nullable so their absence can be detected.
type wireAnalysisResponse struct {
	Question              string                 `json:"question"`
	Symbols               []string               `json:"symbols"`
	Recommendations       map[string]string      `json:"recommendations"`
	Reasoning             string                 `json:"reasoning"`
	PersonalizedAdvice    string                 `json:"personalized_advice"`
	Confidence            *float64               `json:"confidence"`
	RiskAssessment        string                 `json:"risk_assessment"`
	BiasStatus            BiasStatus             `json:"bias_status"`
	DataSources           []string               `json:"data_sources"`
	Timestamp             string                 `json:"timestamp"`
	DetectedLanguage      string                 `json:"detected_language"`
	SourceLinks           []SourceLink           `json:"source_links"`
	InvestmentSuggestions []InvestmentSuggestion `json:"investment_suggestions"`
	SuggestedQuestions    []string               `json:"suggested_questions"`
}
