package advisor

import (
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DecodeAnalysisResponse parses a remote response body.
// confidence is required and must lie in [0,1]; everything else is optional
// and filled in by Normalize.
func DecodeAnalysisResponse(body []byte) (*AnalysisResponse, error) {
	var wire wireAnalysisResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, WrapError(ErrCodeDecode, "decode analysis response", err)
	}
	if wire.Confidence == nil {
		return nil, NewError(ErrCodeIncomplete, "analysis response is missing confidence")
	}
	if *wire.Confidence < 0 || *wire.Confidence > 1 {
		return nil, NewError(ErrCodeIncomplete, "analysis response confidence is outside [0,1]")
	}

	return &AnalysisResponse{
		Question:              wire.Question,
		Symbols:               wire.Symbols,
		Recommendations:       wire.Recommendations,
		Reasoning:             wire.Reasoning,
		PersonalizedAdvice:    wire.PersonalizedAdvice,
		Confidence:            *wire.Confidence,
		RiskAssessment:        wire.RiskAssessment,
		BiasStatus:            wire.BiasStatus,
		DataSources:           wire.DataSources,
		Timestamp:             wire.Timestamp,
		DetectedLanguage:      wire.DetectedLanguage,
		SourceLinks:           wire.SourceLinks,
		InvestmentSuggestions: wire.InvestmentSuggestions,
		SuggestedQuestions:    wire.SuggestedQuestions,
	}, nil
}

// Normalize fills the optional fields of a successful response in place and returns it.
// Missing investment suggestions are replaced by the keyword fallback for question.
func Normalize(resp *AnalysisResponse, question string, now time.Time) *AnalysisResponse {
	if resp == nil {
		return FallbackResponse(question, now)
	}
	if strings.TrimSpace(resp.Question) == "" {
		resp.Question = question
	}
	if resp.Symbols == nil {
		resp.Symbols = []string{}
	}
	if resp.Recommendations == nil {
		resp.Recommendations = map[string]string{}
	}
	if resp.DataSources == nil {
		resp.DataSources = []string{}
	}
	if resp.SourceLinks == nil {
		resp.SourceLinks = []SourceLink{}
	}
	if strings.TrimSpace(resp.Timestamp) == "" {
		resp.Timestamp = now.UTC().Format(time.RFC3339)
	}
	resp.DetectedLanguage = normalizeLanguage(resp.DetectedLanguage)
	if len(resp.InvestmentSuggestions) == 0 {
		resp.InvestmentSuggestions = FallbackSuggestions(question)
	}
	return resp
}

// normalizeLanguage keeps a parsable language tag as sent and defaults
// empty or unparsable values to en.
func normalizeLanguage(code string) string {
	if strings.TrimSpace(code) == "" {
		return fallbackLanguage
	}
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil || tag == language.Und {
		return fallbackLanguage
	}
	return code
}

// cleanupModelJSON strips markdown fences and surrounding prose from model output.
func cleanupModelJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
				lines = lines[:len(lines)-1]
			}
			trimmed = strings.Join(lines, "\n")
		}
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		trimmed = trimmed[start : end+1]
	}
	return strings.TrimSpace(trimmed)
}
