package interpreter

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/infrastructure/config"
)

// Fallback tries primary and answers with secondary when primary fails
type Fallback struct {
	primary   Interpreter
	secondary Interpreter
	logger    *zap.Logger
}

// NewFallback chains two interpreters
func NewFallback(primary, secondary Interpreter, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Name implements Interpreter
func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

// Interpret implements Interpreter
func (f *Fallback) Interpret(ctx context.Context, req Request) (*invoice.Draft, error) {
	d, err := f.primary.Interpret(ctx, req)
	if err == nil {
		return d, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	f.logger.Warn("interpreter failed, using fallback",
		zap.String("primary", f.primary.Name()),
		zap.String("fallback", f.secondary.Name()),
		zap.Error(err),
	)
	return f.secondary.Interpret(ctx, req)
}

// New builds the interpreter selected by cfg.Provider
func New(cfg config.InterpreterConfig, logger *zap.Logger) (Interpreter, error) {
	switch cfg.Provider {
	case config.InterpreterRules:
		return NewRulesInterpreter(), nil
	case config.InterpreterOpenAI, "":
		if cfg.APIKey == "" {
			if cfg.Fallback {
				logger.Warn("no interpreter api key configured, using the rules interpreter")
				return NewRulesInterpreter(), nil
			}
			return nil, fmt.Errorf("interpreter api key is required for provider %q", config.InterpreterOpenAI)
		}
		ai := NewOpenAIInterpreter(OpenAIConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
			MaxRetries:  cfg.MaxRetries,
		}, logger)
		if cfg.Fallback {
			return NewFallback(ai, NewRulesInterpreter(), logger), nil
		}
		return ai, nil
	}
	return nil, fmt.Errorf("unknown interpreter provider %q", cfg.Provider)
}
