package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"faqagent/internal/metrics"
)

const promptPrefix = "You are a helpful customer support agent for Thoughtful AI. " +
	"Answer the user clearly and concisely. If you are unsure, say what you need to know.\n\n" +
	"User: "

// Config holds the chat completion settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// OpenAI generates fallback replies through an OpenAI-compatible chat API.
// Each call is a single attempt.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewOpenAI creates a chat completion generator.
func NewOpenAI(cfg *Config) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAI{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		timeout:     timeout,
		logger:      logger,
	}
}

// Generate implements domain.Generator. Failures are logged and reported as
// unavailable.
func (o *OpenAI) Generate(ctx context.Context, text string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: promptPrefix + text},
		},
		Temperature: wireTemperature(o.temperature),
	})
	duration := time.Since(start)
	metrics.FallbackRequestDuration.WithLabelValues(KindOpenAI, o.model).Observe(duration.Seconds())

	if err != nil {
		metrics.FallbackRequestsTotal.WithLabelValues(KindOpenAI, o.model, "error").Inc()
		o.logger.Warn("fallback generation failed",
			zap.String("model", o.model),
			zap.Duration("latency", duration),
			zap.Error(describeError(err)),
		)
		return "", false
	}
	if len(resp.Choices) == 0 {
		metrics.FallbackRequestsTotal.WithLabelValues(KindOpenAI, o.model, "empty_response").Inc()
		o.logger.Warn("fallback generation returned no choices", zap.String("model", o.model))
		return "", false
	}

	metrics.FallbackRequestsTotal.WithLabelValues(KindOpenAI, o.model, "success").Inc()
	o.logger.Debug("fallback generated",
		zap.String("model", o.model),
		zap.Duration("latency", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), true
}

// wireTemperature keeps a zero temperature on the wire; the request field is
// omitempty and would otherwise fall back to the provider default.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

// describeError extracts a human-readable error from the API response.
func describeError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("chat API error %d: %s", reqErr.HTTPStatusCode, detail)
		}
		return fmt.Errorf("chat API error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("chat request failed: %w", err)
}

// extractDetail reads the "detail" field some OpenAI-compatible providers use
// for error bodies.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
