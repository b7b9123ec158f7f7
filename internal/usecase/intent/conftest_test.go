package intent

import (
	"context"
	"sync"

	"github.com/cabswale/raahi/internal/domain/llm"
)

// mockCompleter records requests and returns canned replies.
type mockCompleter struct {
	mu       sync.Mutex
	requests []llm.Request
	fn       func(ctx context.Context, req llm.Request) (llm.Completion, error)
}

func (m *mockCompleter) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.fn(ctx, req)
}

func replyWith(text string) func(context.Context, llm.Request) (llm.Completion, error) {
	return func(context.Context, llm.Request) (llm.Completion, error) {
		return llm.Completion{Text: text}, nil
	}
}
