package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"investchat/pkg/advisor"
	"investchat/pkg/mockanalysis"
)

const (
	maxRequestBodyBytes    = 1 << 20
	defaultRecommendationQ = "show recommendations"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Mode: h.mode})
}

// chatbot always answers 200 with a complete analysis once the body decodes.
func (h *handler) chatbot(w http.ResponseWriter, r *http.Request) {
	var payload chatbotPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, advisor.WrapError(advisor.ErrCodeInvalidInput, "invalid request body", err))
		return
	}

	resp := h.service.Ask(r.Context(), payload.userID(), payload.question())
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) recommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	question := strings.TrimSpace(query.Get("q"))
	if question == "" {
		question = defaultRecommendationQ
	}

	resp := h.service.Ask(r.Context(), query.Get("user_id"), question)
	writeJSON(w, http.StatusOK, recommendationsResponse{InvestmentSuggestions: resp.InvestmentSuggestions})
}

func (h *handler) mockWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: mockanalysis.WelcomeMessage})
}

func (h *handler) mockQuery(w http.ResponseWriter, r *http.Request) {
	var query mockanalysis.Query
	if err := decodeJSON(w, r, &query); err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, advisor.WrapError(advisor.ErrCodeInvalidInput, "invalid request body", err))
		return
	}
	if strings.TrimSpace(query.QueryText) == "" {
		writeErrorResponse(w, r, http.StatusBadRequest, advisor.NewError(advisor.ErrCodeInvalidInput, "queryText is required"))
		return
	}

	result, err := h.analyzer.Analyze(query.QueryText)
	if errors.Is(err, mockanalysis.ErrUnsupportedSymbol) {
		recordErrorMessage(w, err.Error())
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: err.Error()})
		return
	}
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
