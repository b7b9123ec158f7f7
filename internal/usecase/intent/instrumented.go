package intent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/domain/llm"
)

// InstrumentedCompleter wraps a Completer with request logging.
// Transport metrics (requests, duration) are recorded by the provider adapters.
type InstrumentedCompleter struct {
	inner    Completer
	provider string
	model    string
	logger   *zap.Logger
}

// NewInstrumentedCompleter wraps a completer with observability.
func NewInstrumentedCompleter(inner Completer, provider, model string, logger *zap.Logger) *InstrumentedCompleter {
	return &InstrumentedCompleter{inner: inner, provider: provider, model: model, logger: logger}
}

// Complete delegates to the inner completer and logs the outcome.
func (p *InstrumentedCompleter) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	start := time.Now()

	result, err := p.inner.Complete(ctx, req)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("LLM request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Int("messages", len(req.Messages)),
			zap.Error(err),
		)
		return llm.Completion{}, fmt.Errorf("complete: %w", err)
	}

	p.logger.Debug("LLM request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("messages", len(req.Messages)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("completion_tokens", result.CompletionTokens),
	)

	return result, nil
}
