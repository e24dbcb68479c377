package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"investchat/pkg/advisor"
)

// Client talks to a running investchat server.
type Client struct {
	http *resty.Client
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Message, e.Error, e.Detail} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: client}
}

// Ask sends a question to /api/chatbot.
func (c *Client) Ask(ctx context.Context, userID, question string) (*advisor.AnalysisResponse, error) {
	var out advisor.AnalysisResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"user_id": userID, "question": question}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/chatbot")
	if err != nil {
		return nil, fmt.Errorf("ask: %w", err)
	}
	if resp.IsError() {
		return nil, statusError(resp, apiErr)
	}
	return &out, nil
}

// Recommendations fetches side-panel suggestion cards.
func (c *Client) Recommendations(ctx context.Context, userID, question string) ([]advisor.InvestmentSuggestion, error) {
	var out struct {
		InvestmentSuggestions []advisor.InvestmentSuggestion `json:"investment_suggestions"`
	}
	var apiErr apiError
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("user_id", userID).
		SetResult(&out).
		SetError(&apiErr)
	if strings.TrimSpace(question) != "" {
		req.SetQueryParam("q", question)
	}
	resp, err := req.Get("/api/recommendations")
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	if resp.IsError() {
		return nil, statusError(resp, apiErr)
	}
	return out.InvestmentSuggestions, nil
}

// Health returns the server's relay mode.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
		Mode   string `json:"mode"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/health")
	if err != nil {
		return "", fmt.Errorf("health: %w", err)
	}
	if resp.IsError() || out.Status != "ok" {
		return "", fmt.Errorf("server unhealthy: status %d", resp.StatusCode())
	}
	return out.Mode, nil
}

func statusError(resp *resty.Response, apiErr apiError) error {
	if message := apiErr.text(); message != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode(), message)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode())
}
