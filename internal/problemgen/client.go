package problemgen

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/llm"
)

// Purpose labels recorded with every LLM request.
const (
	PurposeIdea       = "idea"
	PurposeSketch     = "sketch"
	PurposeRefine     = "refine"
	PurposeSolution   = "solution"
	PurposeSimilars   = "similars"
	PurposeStressTest = "stress-test"
	PurposeDiagram    = "diagram"
)

// Call is a single model invocation.
type Call struct {
	Purpose string
	Prompt  string
	System  string
	Budget  int

	// Fallback is returned when the provider call fails.
	Fallback string
	// Empty is returned when the provider answers with no text.
	Empty string
}

// Client performs exactly one provider call per Send. Failures never reach
// the caller: they are logged and replaced by the call's fallback text.
type Client struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
}

// NewClient creates a Client. A nil logger discards failure logs.
func NewClient(provider llm.Provider, cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{provider: provider, config: cfg, log: log}
}

// Send runs the call and returns the model text, Empty, or Fallback.
func (c *Client) Send(ctx context.Context, call Call) string {
	text, ok := c.Do(ctx, call)
	if !ok {
		return call.Fallback
	}
	if strings.TrimSpace(text) == "" {
		return call.Empty
	}
	return text
}

// Do runs the call and reports whether the provider answered. A failed
// call is logged and returns ("", false); an empty answer returns ("", true).
func (c *Client) Do(ctx context.Context, call Call) (string, bool) {
	ctx = llm.WithPurpose(ctx, call.Purpose)

	req := llm.Request{
		System: call.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: call.Prompt},
		},
		MaxTokens:      c.config.MaxTokens,
		Temperature:    c.config.Temperature,
		ThinkingBudget: call.Budget,
	}

	start := time.Now()
	resp, err := c.provider.Generate(ctx, req)
	latency := time.Since(start)

	if err != nil {
		c.log.Warn("generation failed",
			zap.String("purpose", call.Purpose),
			zap.String("model", c.provider.ModelID()),
			zap.String("kind", errorKind(err)),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return "", false
	}

	if strings.TrimSpace(resp.Text) == "" {
		c.log.Warn("generation returned no text",
			zap.String("purpose", call.Purpose),
			zap.String("model", resp.Model),
			zap.String("stop_reason", resp.StopReason),
			zap.Duration("latency", latency),
		)
		return "", true
	}

	c.log.Debug("generation complete",
		zap.String("purpose", call.Purpose),
		zap.String("model", resp.Model),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("latency", latency),
	)
	return resp.Text, true
}

// errorKind names the failure class for log filtering.
func errorKind(err error) string {
	var (
		rl      *llm.ErrRateLimit
		unavail *llm.ErrProviderUnavailable
		invalid *llm.ErrInvalidResponse
		maxTok  *llm.ErrMaxTokensExceeded
	)
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &rl):
		return "rate_limit"
	case errors.As(err, &maxTok):
		return "max_tokens"
	case errors.As(err, &invalid):
		return "invalid_response"
	case errors.As(err, &unavail):
		return "unavailable"
	default:
		return "other"
	}
}
