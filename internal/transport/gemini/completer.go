// Package gemini adapts Vertex AI Gemini to the chat completion contract.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/cabswale/raahi/internal/domain"
	"github.com/cabswale/raahi/internal/domain/llm"
	"github.com/cabswale/raahi/internal/metrics"
)

const provider = "gemini"

// generator is the subset of genai.Models the completer uses.
type generator interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Completer generates chat completions with Gemini on Vertex AI.
type Completer struct {
	models generator
	model  string
	logger *zap.Logger
}

// Config holds the Vertex AI settings.
type Config struct {
	Project  string
	Location string
	Model    string
	Logger   *zap.Logger
}

// NewCompleter creates a Vertex AI client. Credentials come from the environment (ADC).
func NewCompleter(ctx context.Context, cfg *Config) (*Completer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Completer{models: client.Models, model: cfg.Model, logger: cfg.Logger}, nil
}

// Complete sends the conversation and joins the text parts of the first candidate.
func (c *Completer) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, "")
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	start := time.Now()

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(provider, c.model, "error").Inc()
		return llm.Completion{}, fmt.Errorf("generate content: %w: %w", err, domain.ErrLLMProviderError)
	}

	text := candidateText(resp)
	if text == "" {
		metrics.LLMRequestsTotal.WithLabelValues(provider, c.model, "error").Inc()
		return llm.Completion{}, fmt.Errorf("empty gemini response: %w", domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(provider, c.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(provider, c.model).Observe(duration.Seconds())

	out := llm.Completion{Text: text}
	if u := resp.UsageMetadata; u != nil {
		out.PromptTokens = int(u.PromptTokenCount)
		out.CompletionTokens = int(u.CandidatesTokenCount)
	}
	return out, nil
}

// HealthCheck sends a one-word prompt; Vertex AI has no free ping endpoint.
func (c *Completer) HealthCheck(ctx context.Context) error {
	_, err := c.models.GenerateContent(ctx, c.model, genai.Text("ping"), nil)
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}
	return nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
