package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultMaxRetries  = 3
	defaultBackoffBase = 2 * time.Second
	defaultBackoffCap  = 10 * time.Second
	defaultTimeout     = 120 * time.Second
)

var errEmptyResponse = errors.New("no choices in response")

// Config holds configuration for the OpenAI-compatible translation client.
// BaseURL points at any chat-completions endpoint (DeepSeek exposes one).
type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string        // fixed domain context, supplied once per run
	MaxRetries   int           // attempt ceiling per unit (default 3)
	BackoffBase  time.Duration // first retry delay (default 2s)
	BackoffCap   time.Duration // delay ceiling (default 10s)
	Timeout      time.Duration // per-attempt HTTP timeout
	HTTPClient   *http.Client  // optional (tests)
}

// Client translates text through an OpenAI-compatible chat endpoint.
type Client struct {
	model        string
	systemPrompt string
	maxRetries   int
	backoffBase  time.Duration
	backoffCap   time.Duration
	client       openai.Client
	logger       *slog.Logger
}

// New creates a translation client. Retry policy lives here, not in the SDK
// transport, so the attempt ceiling in the config is the only retry schedule
// applied per unit.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.BackoffCap <= 0 {
		cfg.BackoffCap = defaultBackoffCap
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0), // retry handled by this package
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		maxRetries:   cfg.MaxRetries,
		backoffBase:  cfg.BackoffBase,
		backoffCap:   cfg.BackoffCap,
		client:       openai.NewClient(opts...),
		logger:       logger,
	}
}

// Translate sends one unit of text through the chat endpoint.
//
// Empty or whitespace-only input short-circuits to an empty result with zero
// network calls. Transient failures are retried up to the attempt ceiling
// with exponential backoff; when retries are exhausted the failure is
// returned as a sentinel string rather than an error.
func (c *Client) Translate(ctx context.Context, text, label string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	requestID := uuid.New().String()
	start := time.Now()

	var out string
	err := retry.Do(
		func() error {
			result, err := c.translateOnce(ctx, trimmed)
			if err != nil {
				return err
			}
			out = result
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.backoffBase),
		retry.MaxDelay(c.backoffCap),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(attempt uint, err error) {
			c.logger.Debug("translation attempt failed",
				"request_id", requestID,
				"attempt", attempt+1,
				"error", err,
			)
		}),
	)
	if err != nil {
		out = Sentinel(err)
	}

	c.logger.Debug("translation request",
		"request_id", requestID,
		"source", trimmed,
		"result", out,
		"latency", time.Since(start),
		"progress", label,
	)

	return out
}

func (c *Client) translateOnce(ctx context.Context, text string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// retryable classifies failures. Rate limits, server errors, network errors
// and malformed responses are transient; client-side request errors and
// cancellation are not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return true
		case apiErr.StatusCode >= 500:
			return true
		default:
			return false
		}
	}
	return true
}
