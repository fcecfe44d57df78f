package llmservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"resume-rag/internal/config"
)

// ErrRateLimited signals that the hosted model rejected the call with a
// too-many-requests response. Handlers map it to a blanket 429.
var ErrRateLimited = errors.New("llm rate limited")

// Completer is the chat-completion operation used by the labeler and
// the summarizer. Satisfied by *Client and by test fakes.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client performs single, non-streaming chat completions against an
// OpenAI-compatible endpoint. No retries and no token budgeting; the
// caller pre-truncates oversized input.
type Client struct {
	llm   *openai.LLM
	model string
}

func NewClient(cfg *config.LLMConfig) (*Client, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm: %v", err)
	}
	return &Client{llm: llm, model: cfg.Model}, nil
}

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	log.Debug().Str("model", c.model).Int("system_len", len(system)).Int("user_len", len(user)).Msg("Generating content")

	messages := []llms.MessageContent{}
	if system != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: system}},
		})
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: user}},
	})

	res, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		if isRateLimited(err) {
			return "", ErrRateLimited
		}
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return res.Choices[0].Content, nil
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}
