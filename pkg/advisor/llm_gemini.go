package advisor

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type geminiCompleter struct {
	client *genai.Client
	model  string
}

func newGeminiCompleter(ctx context.Context, opts LLMOptions) (*geminiCompleter, error) {
	if shouldFallbackToGeminiDefaultBaseURL(opts.BaseURL) && strings.TrimSpace(opts.BaseURL) != "" {
		opts.Logger.Warn("gemini provider configured with openai base url; using gemini base url",
			"configured_base_url", opts.BaseURL,
			"fallback_base_url", defaultGeminiBaseURL,
		)
	}

	clientConfig, err := buildGeminiClientConfig(opts.BaseURL, opts.APIKey)
	if err != nil {
		return nil, err
	}
	clientConfig.HTTPClient = opts.HTTPClient

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "create gemini client", err)
	}
	return &geminiCompleter{client: client, model: opts.Model}, nil
}

func (c *geminiCompleter) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	response, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature:      genai.Ptr(float32(llmTemperature)),
		MaxOutputTokens:  llmMaxOutputTokens,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", WrapError(ErrCodeTransport, "gemini generate content failed", err)
	}
	content := strings.TrimSpace(response.Text())
	if content == "" {
		return "", emptyContentError(LLMProviderGemini)
	}
	return content, nil
}

func buildGeminiClientConfig(endpoint, apiKey string) (*genai.ClientConfig, error) {
	normalized := strings.TrimSpace(endpoint)
	if shouldFallbackToGeminiDefaultBaseURL(normalized) {
		normalized = defaultGeminiBaseURL
	}

	baseURL, apiVersion, err := parseGeminiBaseURLAndVersion(normalized)
	if err != nil {
		return nil, err
	}
	return &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: apiVersion,
		},
	}, nil
}

// An empty endpoint or the OpenAI default host both mean "use Google's endpoint".
func shouldFallbackToGeminiDefaultBaseURL(endpoint string) bool {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return true
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Hostname(), "api.openai.com")
}

// parseGeminiBaseURLAndVersion splits ".../v1beta/..." into a base URL and API version.
func parseGeminiBaseURLAndVersion(endpoint string) (string, string, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = defaultGeminiBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", "", WrapError(ErrCodeInvalidInput, "invalid gemini endpoint", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", "", NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid gemini endpoint scheme: %s", parsed.Scheme))
	}
	if parsed.Host == "" {
		return "", "", NewError(ErrCodeInvalidInput, "invalid gemini endpoint host")
	}

	var segments []string
	if path := strings.Trim(parsed.Path, "/"); path != "" {
		segments = strings.Split(path, "/")
	}

	apiVersion := "v1beta"
	prefix := segments
	for idx, segment := range segments {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(segment)), "v1") {
			apiVersion = segment
			prefix = segments[:idx]
			break
		}
	}

	baseURL := fmt.Sprintf("%s://%s/", parsed.Scheme, parsed.Host)
	if basePath := strings.Trim(strings.Join(prefix, "/"), "/"); basePath != "" {
		baseURL += basePath + "/"
	}
	return baseURL, apiVersion, nil
}

func isGeminiRequest(endpointURL, model string) bool {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gemini") {
		return true
	}
	endpointLower := strings.ToLower(strings.TrimSpace(endpointURL))
	if endpointLower == "" {
		return false
	}
	return strings.Contains(endpointLower, "generativelanguage.googleapis.com") || strings.Contains(endpointLower, "/gemini")
}
