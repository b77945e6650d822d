package interpreter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/domain/invoice"
)

// OpenAIConfig configures the chat completion interpreter
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	MaxRetries  int
}

// OpenAIInterpreter asks a chat model for a JSON draft
type OpenAIInterpreter struct {
	client *openai.Client
	cfg    OpenAIConfig
	logger *zap.Logger
}

// NewOpenAIInterpreter creates an interpreter against the OpenAI API or a compatible BaseURL
func NewOpenAIInterpreter(cfg OpenAIConfig, logger *zap.Logger) *OpenAIInterpreter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIInterpreter{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger.Named("interpreter.openai"),
	}
}

// Name implements Interpreter
func (i *OpenAIInterpreter) Name() string { return "openai" }

// Interpret implements Interpreter. Transport failures and replies that do not
// match the draft schema are retried up to MaxRetries times.
func (i *OpenAIInterpreter) Interpret(ctx context.Context, req Request) (*invoice.Draft, error) {
	var lastErr error
	for attempt := 1; attempt <= i.cfg.MaxRetries; attempt++ {
		draft, err := i.complete(ctx, req)
		if err == nil {
			return draft, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		i.logger.Warn("interpreter attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", i.cfg.MaxRetries),
			zap.Error(err),
		)
	}
	return nil, fmt.Errorf("%w: %v", ErrUninterpretable, lastErr)
}

func (i *OpenAIInterpreter) complete(ctx context.Context, req Request) (*invoice.Draft, error) {
	resp, err := i.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       i.cfg.Model,
		Temperature: i.cfg.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Message},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response choices")
	}
	content := resp.Choices[0].Message.Content
	i.logger.Debug("interpreter reply",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return DecodeDraft([]byte(content))
}

var _ Interpreter = (*OpenAIInterpreter)(nil)
