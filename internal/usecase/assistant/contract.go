package assistant

import (
	"context"

	domassistant "github.com/cabswale/raahi/internal/domain/assistant"
	"github.com/cabswale/raahi/internal/domain/collection"
	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/domain/intent"
	"github.com/cabswale/raahi/internal/domain/search/request"
	"github.com/cabswale/raahi/internal/domain/search/result"
)

// Classifier turns an utterance into an intent (see usecase/intent).
type Classifier interface {
	Classify(ctx context.Context, u intent.Utterance) intent.Result
	ClearSession(id string)
}

// Resolver classifies a city name (see usecase/country).
type Resolver interface {
	Resolve(ctx context.Context, city string) geo.Resolution
}

// Searcher runs a dual-stage search over one collection (see usecase/search).
type Searcher interface {
	Search(ctx context.Context, schema collection.Schema, req request.Request) result.Outcome
}

// FraudLookup rates a phone number. An empty rating means no answer.
type FraudLookup interface {
	Lookup(ctx context.Context, phone string) (rating string, data map[string]any)
}

// AnalyticsLogger records events. Failures are reported as false, never as errors.
type AnalyticsLogger interface {
	LogIntent(ctx context.Context, e domassistant.IntentEvent) bool
	LogSearch(ctx context.Context, e domassistant.SearchEvent) bool
}

// AudioCatalog resolves pre-recorded prompt URLs (see usecase/audio).
type AudioCatalog interface {
	URL(t intent.Type, interactionCount int, isHome bool, requestCount int) string
	Direct(key string) string
}
