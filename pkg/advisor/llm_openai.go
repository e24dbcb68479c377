package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAICompleter struct {
	client openai.Client
	model  string
}

func newOpenAICompleter(opts LLMOptions) *openAICompleter {
	requestOptions := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(opts.APIKey)),
		option.WithHTTPClient(opts.HTTPClient),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(ensureTrailingSlash(baseURL)))
	}
	return &openAICompleter{
		client: openai.NewClient(requestOptions...),
		model:  opts.Model,
	}
}

func (c *openAICompleter) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature:         openai.Float(llmTemperature),
		MaxCompletionTokens: openai.Int(llmMaxOutputTokens),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", WrapError(ErrCodeUpstreamStatus, fmt.Sprintf("openai returned status %d", apiErr.StatusCode), err)
		}
		return "", WrapError(ErrCodeTransport, "openai chat completion failed", err)
	}
	if len(completion.Choices) == 0 {
		return "", emptyContentError(LLMProviderOpenAI)
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", emptyContentError(LLMProviderOpenAI)
	}
	return content, nil
}

func ensureTrailingSlash(value string) string {
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
