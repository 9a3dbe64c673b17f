package api

import (
	"context"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"llmstxt-go/pkg/logger"
)

const (
	DefaultChatEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	DefaultChatModel    = "moonshotai/kimi-k2-instruct"
)

type ChatConfig struct {
	Endpoint    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatClient talks to an OpenAI-compatible chat completions endpoint.
type ChatClient struct {
	client *fasthttp.Client
	cfg    ChatConfig
	log    *logger.Logger
}

func NewChatClient(cfg ChatConfig) *ChatClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultChatEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &ChatClient{
		client: newFastHTTPClient(),
		cfg:    cfg,
		log:    logger.GetLogger().WithField("component", "chat_client"),
	}
}

// Complete makes a single completion attempt and returns the first choice's content.
func (c *ChatClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	timeout := c.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	start := time.Now()
	var out chatResponse
	if err := postJSON(c.client, c.cfg.Endpoint, c.cfg.APIKey, timeout, payload, &out); err != nil {
		c.log.WithError(err).WithField("severity", ClassifyError(err).String()).Warn("Chat completion failed")
		return "", err
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrNoChoices
	}

	c.log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Chat completion succeeded")
	return out.Choices[0].Message.Content, nil
}
