package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// LLMProvider names a supported model vendor.
type LLMProvider string

const (
	LLMProviderOpenAI    LLMProvider = "openai"
	LLMProviderAnthropic LLMProvider = "anthropic"
	LLMProviderGemini    LLMProvider = "gemini"
)

const (
	llmMaxOutputTokens = 4096
	llmTemperature     = 0.2
)

const analysisSystemPrompt = `You are an investment research assistant for retail investors.
Answer the user's question using the request JSON you are given. The portfolio may be empty.
Reply with a single JSON object and nothing else, using exactly these keys:
{
  "question": string,
  "symbols": [string],
  "recommendations": {symbol: string},
  "reasoning": string,
  "personalized_advice": string,
  "confidence": number between 0 and 1,
  "risk_assessment": string,
  "bias_status": {"checked": boolean, "detected": boolean, "notes": string},
  "data_sources": [string],
  "timestamp": RFC3339 string,
  "detected_language": ISO 639-1 code of the question's language,
  "source_links": [{"index": number, "title": string, "url": string}],
  "investment_suggestions": [{"title": string, "description": string, "asset_class": "stock" | "commodity" | "crypto", "symbol": string, "image_url": string}],
  "suggested_questions": [string]
}
Write reasoning and advice in the language of the question. Never invent source URLs; leave source_links empty instead.`

// completer sends one system/user prompt pair to a model and returns its text.
type completer interface {
	complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMOptions configures an LLMTransport.
type LLMOptions struct {
	// Provider is detected from BaseURL and Model when empty.
	Provider   LLMProvider
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// LLMTransport answers analysis requests with a large language model.
type LLMTransport struct {
	provider  LLMProvider
	model     string
	completer completer
	logger    *slog.Logger
}

// NewLLMTransport creates a transport for the configured provider.
func NewLLMTransport(ctx context.Context, opts LLMOptions) (*LLMTransport, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, NewError(ErrCodeInvalidInput, "llm model is required")
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, NewError(ErrCodeInvalidInput, "llm api key is required")
	}
	opts.Model = model
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRelayTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	provider, err := resolveLLMProvider(opts.Provider, opts.BaseURL, model)
	if err != nil {
		return nil, err
	}

	var c completer
	switch provider {
	case LLMProviderOpenAI:
		c = newOpenAICompleter(opts)
	case LLMProviderAnthropic:
		c = newAnthropicCompleter(opts)
	case LLMProviderGemini:
		c, err = newGeminiCompleter(ctx, opts)
		if err != nil {
			return nil, err
		}
	}

	return &LLMTransport{provider: provider, model: model, completer: c, logger: opts.Logger}, nil
}

// Provider returns the resolved provider.
func (t *LLMTransport) Provider() LLMProvider {
	return t.provider
}

// Analyze asks the model for an analysis response and decodes its JSON reply.
func (t *LLMTransport) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	userPrompt, err := buildAnalysisUserPrompt(req)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("llm prompt",
		"provider", string(t.provider),
		"model", t.model,
		"system_prompt_chars", len(analysisSystemPrompt),
		"user_prompt", userPrompt,
	)

	content, err := t.completer.complete(ctx, analysisSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("llm raw response", "provider", string(t.provider), "body_bytes", len(content))

	cleaned := cleanupModelJSON(content)
	if cleaned == "" {
		return nil, NewError(ErrCodeDecode, "llm response content is empty")
	}
	return DecodeAnalysisResponse([]byte(cleaned))
}

func buildAnalysisUserPrompt(req AnalysisRequest) (string, error) {
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", WrapError(ErrCodeInternal, "encode analysis prompt", err)
	}
	return fmt.Sprintf("Analysis request:\n%s", payload), nil
}

func resolveLLMProvider(provider LLMProvider, baseURL, model string) (LLMProvider, error) {
	switch LLMProvider(strings.ToLower(strings.TrimSpace(string(provider)))) {
	case LLMProviderOpenAI:
		return LLMProviderOpenAI, nil
	case LLMProviderAnthropic:
		return LLMProviderAnthropic, nil
	case LLMProviderGemini:
		return LLMProviderGemini, nil
	case "":
	default:
		return "", NewError(ErrCodeUnsupported, fmt.Sprintf("unsupported llm provider: %s", provider))
	}

	if isGeminiRequest(baseURL, model) {
		return LLMProviderGemini, nil
	}
	if isAnthropicRequest(baseURL, model) {
		return LLMProviderAnthropic, nil
	}
	return LLMProviderOpenAI, nil
}

func isAnthropicRequest(endpointURL, model string) bool {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "claude") {
		return true
	}
	return strings.Contains(strings.ToLower(endpointURL), "anthropic.com")
}

func emptyContentError(provider LLMProvider) error {
	return NewError(ErrCodeDecode, fmt.Sprintf("%s response content is empty", provider))
}
