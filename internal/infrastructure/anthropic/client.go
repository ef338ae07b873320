package anthropic

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"github.com/skiconcierge/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Default request settings
const (
	DefaultModel               = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens           = 300
	DefaultTemperature         = 0.7
	DefaultAnalysisTemperature = 0.1
	defaultAnalysisMaxTokens   = 500
)

// Config holds the conversation engine settings
type Config struct {
	APIKey              string
	BaseURL             string
	Model               string
	MaxTokens           int64
	Temperature         float64
	AnalysisTemperature float64
	// AnalysisPrompt is the system prompt for profile extraction
	AnalysisPrompt string
	// RequestsPerSecond caps outbound calls; zero means unlimited
	RequestsPerSecond float64
	MaxRetries        int
}

// Client is the conversation engine and profile analyzer backed by the Anthropic Messages API
type Client struct {
	client              sdk.Client
	model               string
	maxTokens           int64
	temperature         float64
	analysisTemperature float64
	analysisPrompt      string
	rateLimiter         *rate.Limiter
}

// NewClient creates a new Anthropic client backed by the SDK
func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		client:              sdk.NewClient(opts...),
		model:               cfg.Model,
		maxTokens:           cfg.MaxTokens,
		temperature:         cfg.Temperature,
		analysisTemperature: cfg.AnalysisTemperature,
		analysisPrompt:      cfg.AnalysisPrompt,
		rateLimiter:         limiter,
	}
}

// Reply sends the system prompt, replayed history and the new message
func (c *Client) Reply(ctx context.Context, req domain.ConversationRequest) (string, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   c.maxTokens,
		Messages:    toSDKMessages(req.History, req.Message),
		Temperature: sdk.Float(c.temperature),
	}
	if req.SystemPrompt != "" {
		params.System = []sdk.TextBlockParam{{Text: req.SystemPrompt}}
	}

	return c.complete(ctx, params, "reply")
}

// AnalyzeProfile asks the model for a JSON object of profile facts found in message.
// Values are returned as strings; nested values are dropped.
func (c *Client) AnalyzeProfile(ctx context.Context, message string) (map[string]string, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   defaultAnalysisMaxTokens,
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(message))},
		Temperature: sdk.Float(c.analysisTemperature),
	}
	if c.analysisPrompt != "" {
		params.System = []sdk.TextBlockParam{{Text: c.analysisPrompt}}
	}

	text, err := c.complete(ctx, params, "analysis")
	if err != nil {
		return nil, err
	}
	return parseProfileFacts(text)
}

func (c *Client) complete(ctx context.Context, params sdk.MessageNewParams, phase string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrEngineFailure, eris.Wrap(err, "anthropic: create message"))
	}

	zap.L().Debug("anthropic message",
		zap.String("phase", phase),
		zap.String("model", string(msg.Model)),
		zap.String("stop_reason", string(msg.StopReason)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	text := strings.TrimSpace(textContent(msg))
	if text == "" {
		return "", domain.ErrEmptyReply
	}
	return text, nil
}

// toSDKMessages replays each exchange as a user/assistant pair, then appends message
func toSDKMessages(history []domain.Exchange, message string) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(history)*2+1)
	for _, exchange := range history {
		out = append(out,
			sdk.NewUserMessage(sdk.NewTextBlock(exchange.UserMessage)),
			sdk.NewAssistantMessage(sdk.NewTextBlock(exchange.AdvisorReply)),
		)
	}
	return append(out, sdk.NewUserMessage(sdk.NewTextBlock(message)))
}

// textContent joins all text blocks of a response
func textContent(msg *sdk.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		b.WriteString(block.Text)
	}
	return b.String()
}
