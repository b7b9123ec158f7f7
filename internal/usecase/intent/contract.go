package intent

import (
	"context"

	"github.com/cabswale/raahi/internal/domain/llm"
)

// Completer is the language model behind the classifier.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (llm.Completion, error)
}
