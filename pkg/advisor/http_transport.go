package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultRelayTimeout  = 30 * time.Second
	maxResponseBodyBytes = 2 << 20
)

// HTTPTransportOptions configures an HTTPTransport.
type HTTPTransportOptions struct {
	Endpoint string
	// APIKey is sent as a bearer token when set.
	APIKey  string
	Timeout time.Duration
	// MaxResponseBytes caps the response body; defaults to 2 MiB.
	MaxResponseBytes int
	Logger           *slog.Logger
	// HTTPClient overrides the underlying client, mostly for tests.
	HTTPClient *http.Client
}

// HTTPTransport relays analysis requests to a remote JSON endpoint.
type HTTPTransport struct {
	endpoint string
	client   *resty.Client
	logger   *slog.Logger
}

// NewHTTPTransport creates a transport posting to opts.Endpoint.
func NewHTTPTransport(opts HTTPTransportOptions) (*HTTPTransport, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, NewError(ErrCodeInvalidInput, "analysis endpoint is required")
	}

	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRelayTimeout
	}
	limit := opts.MaxResponseBytes
	if limit <= 0 {
		limit = maxResponseBodyBytes
	}
	client.SetTimeout(timeout)
	client.SetResponseBodyLimit(limit)
	client.SetHeader("Accept", "application/json")
	if key := strings.TrimSpace(opts.APIKey); key != "" {
		client.SetAuthToken(key)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPTransport{endpoint: endpoint, client: client, logger: logger}, nil
}

// Analyze posts req as JSON and decodes the analysis response.
func (t *HTTPTransport) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "encode analysis request", err)
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(t.endpoint)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, WrapError(ErrCodeDecode, "analysis response body too large", err)
	}
	if err != nil {
		return nil, WrapError(ErrCodeTransport, "post analysis request", err)
	}

	respBody := resp.Body()
	t.logger.Debug("analysis raw response",
		"endpoint", t.endpoint,
		"status_code", resp.StatusCode(),
		"body_bytes", len(respBody),
	)

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		message := parseUpstreamErrorMessage(respBody)
		if message == "" {
			message = fmt.Sprintf("status %d", resp.StatusCode())
		}
		return nil, NewError(ErrCodeUpstreamStatus, message)
	}
	return DecodeAnalysisResponse(respBody)
}

func parseUpstreamErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	for _, candidate := range []string{payload.Error.Message, payload.Message, payload.Detail} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
