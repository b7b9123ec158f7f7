// Package llm holds provider-neutral chat completion types.
package llm

// Role is the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Request is a chat completion request. Messages end with the current user turn.
type Request struct {
	System   string
	Messages []Message
	// JSON asks the provider for a single JSON object response.
	JSON bool
}

// Completion is the model's reply plus token usage when reported.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}
