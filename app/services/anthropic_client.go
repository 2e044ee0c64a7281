package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/amirphl/reachbee/config"
)

// AnthropicClient generates text through the Anthropic Messages API
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

// NewAnthropicClient creates an Anthropic-backed TextGenerator
func NewAnthropicClient(cfg *config.InferenceConfig) *AnthropicClient {
	return &AnthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:     cfg.AnthropicModel,
		maxTokens: int64(cfg.MaxTokens),
		timeout:   cfg.Timeout,
	}
}

// GenerateText sends the prompt as a single user message and joins the text blocks of the reply
func (a *AnthropicClient) GenerateText(ctx context.Context, prompt string) (text string, err error) {
	defer func() { observeUpstream("anthropic", err) }()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic returned no text content")
	}
	return sb.String(), nil
}
