package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Transport delivers an analysis request to an analysis backend.
type Transport interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error)

// Analyze calls f.
func (f TransportFunc) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	return f(ctx, req)
}

// ServiceOptions controls Service initialization.
type ServiceOptions struct {
	Logger *slog.Logger
	// Timeout bounds a single transport call. Zero means no extra bound.
	Timeout time.Duration
	Now     func() time.Time
}

// Service answers user questions through a Transport and always returns a
// complete response.
type Service struct {
	transport Transport
	logger    *slog.Logger
	timeout   time.Duration
	now       func() time.Time
}

// NewService creates a Service on top of transport.
func NewService(transport Transport, opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		transport: transport,
		logger:    logger,
		timeout:   opts.Timeout,
		now:       now,
	}
}

// Ask composes a request, sends it and normalizes the outcome.
// Every failure, including a panicking transport, yields the fallback response.
func (s *Service) Ask(ctx context.Context, userID, question string) *AnalysisResponse {
	req := ComposeRequest(userID, question, s.now())

	resp, err := s.call(ctx, req)
	if err != nil {
		s.logger.Warn("analysis failed; serving fallback response",
			"user_id", userID,
			"error_code", string(CodeOf(err)),
			"err", err,
		)
		return FallbackResponse(question, s.now())
	}
	return Normalize(resp, question, s.now())
}

func (s *Service) call(ctx context.Context, req AnalysisRequest) (resp *AnalysisResponse, err error) {
	if s.transport == nil {
		return nil, NewError(ErrCodeInternal, "no analysis transport configured")
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			resp = nil
			err = NewError(ErrCodeInternal, fmt.Sprintf("analysis transport panicked: %v", recovered))
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err = s.transport.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, NewError(ErrCodeIncomplete, "analysis transport returned no response")
	}
	return resp, nil
}
