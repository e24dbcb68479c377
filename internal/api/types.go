package api

import (
	"strings"

	"investchat/pkg/advisor"
)

// chatbotPayload accepts both the snake_case body and the legacy camelCase
// one sent by older front ends.
type chatbotPayload struct {
	UserID       string `json:"user_id"`
	Question     string `json:"question"`
	LegacyUserID string `json:"userId"`
	QueryText    string `json:"queryText"`
}

func (p chatbotPayload) userID() string {
	if strings.TrimSpace(p.UserID) != "" {
		return p.UserID
	}
	return p.LegacyUserID
}

func (p chatbotPayload) question() string {
	if p.Question != "" {
		return p.Question
	}
	return p.QueryText
}

type healthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode,omitempty"`
}

type recommendationsResponse struct {
	InvestmentSuggestions []advisor.InvestmentSuggestion `json:"investment_suggestions"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}
