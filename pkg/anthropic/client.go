// Package anthropic wraps the Anthropic SDK behind the single completion
// operation the pipeline needs. A nil Client is the supported offline mode:
// callers detect it and fall back to deterministic generation.
package anthropic

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client defines the model operations used by the structured call engine.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Options configure the SDK-backed client.
type Options struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// RPS throttles outbound calls; <=0 disables throttling.
	RPS float64
}

type sdkClient struct {
	client    sdk.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
}

// NewClient creates a model client backed by the official SDK. Returns nil
// (offline mode) when no API key is configured.
func NewClient(opts Options) Client {
	if opts.APIKey == "" {
		return nil
	}
	if opts.Model == "" {
		opts.Model = "claude-sonnet-4-5-20250929"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}

	var limiter *rate.Limiter
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}

	return &sdkClient{
		client:    sdk.NewClient(option.WithAPIKey(opts.APIKey)),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		limiter:   limiter,
	}
}

func (c *sdkClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "anthropic: rate limit wait")
		}
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(user)),
		},
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	zap.L().Debug("model call completed",
		zap.String("model", string(msg.Model)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	var parts []string
	for _, block := range msg.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
