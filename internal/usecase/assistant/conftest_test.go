package assistant

import (
	"context"
	"sync"

	domassistant "github.com/cabswale/raahi/internal/domain/assistant"
	"github.com/cabswale/raahi/internal/domain/collection"
	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/domain/intent"
	"github.com/cabswale/raahi/internal/domain/record"
	"github.com/cabswale/raahi/internal/domain/search/request"
	"github.com/cabswale/raahi/internal/domain/search/result"
)

// --- Mocks ---

type mockClassifier struct {
	result  intent.Result
	calls   []intent.Utterance
	cleared []string
}

func (m *mockClassifier) Classify(_ context.Context, u intent.Utterance) intent.Result {
	m.calls = append(m.calls, u)
	return m.result
}

func (m *mockClassifier) ClearSession(id string) { m.cleared = append(m.cleared, id) }

type mockResolver struct {
	mu      sync.Mutex
	byCity  map[string]geo.Resolution
	panicOn string
	calls   []string
}

func (m *mockResolver) Resolve(_ context.Context, city string) geo.Resolution {
	m.mu.Lock()
	m.calls = append(m.calls, city)
	m.mu.Unlock()
	if city == "" {
		return geo.AbsentCity()
	}
	if city == m.panicOn {
		panic("geocoder exploded")
	}
	if r, ok := m.byCity[city]; ok {
		return r
	}
	return geo.UnresolvedCity()
}

type mockSearcher struct {
	mu       sync.Mutex
	byName   map[string][]record.Record
	panicOn  string
	requests map[string]request.Request
}

func (m *mockSearcher) Search(_ context.Context, schema collection.Schema, req request.Request) result.Outcome {
	m.mu.Lock()
	if m.requests == nil {
		m.requests = map[string]request.Request{}
	}
	m.requests[schema.Name()] = req
	m.mu.Unlock()
	if schema.Name() == m.panicOn {
		panic("backend exploded")
	}
	return result.Outcome{Records: m.byName[schema.Name()]}
}

func (m *mockSearcher) called() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type mockFraud struct {
	rating string
	data   map[string]any
	phones []string
}

func (m *mockFraud) Lookup(_ context.Context, phone string) (string, map[string]any) {
	m.phones = append(m.phones, phone)
	return m.rating, m.data
}

type mockAnalytics struct {
	mu       sync.Mutex
	intents  []domassistant.IntentEvent
	searches []domassistant.SearchEvent
}

func (m *mockAnalytics) LogIntent(_ context.Context, e domassistant.IntentEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intents = append(m.intents, e)
	return true
}

func (m *mockAnalytics) LogSearch(_ context.Context, e domassistant.SearchEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, e)
	return true
}

// mockAudio returns predictable URLs; keys in missing resolve to "".
type mockAudio struct {
	missing map[string]bool
}

func (m *mockAudio) URL(t intent.Type, _ int, _ bool, _ int) string {
	return "url:" + string(t)
}

func (m *mockAudio) Direct(key string) string {
	if m.missing[key] {
		return ""
	}
	return "direct:" + key
}
