package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/domain"
	"github.com/cabswale/raahi/internal/domain/intent"
	"github.com/cabswale/raahi/internal/domain/llm"
)

// Fallback replies when the model cannot be used.
const (
	MalformedReply     = "I'm here to help. Can you say that again?"
	ProviderErrorReply = "There's a technical problem. Please try again later."
	missingTextReply   = "I didn't understand. Can you say that again?"
)

// reply is the JSON object the model is asked to produce.
type reply struct {
	Intent          string         `json:"intent"`
	UIAction        string         `json:"ui_action"`
	ResponseText    *string        `json:"response_text"`
	ExtractedParams map[string]any `json:"extracted_params"`
}

// Classifier turns an utterance into an intent.Result with an LLM.
type Classifier struct {
	completer Completer
	sessions  *SessionStore
	timeout   time.Duration
	logger    *zap.Logger
}

// NewClassifier creates a classifier. timeout bounds each model call; zero disables it.
func NewClassifier(c Completer, sessions *SessionStore, timeout time.Duration, logger *zap.Logger) *Classifier {
	return &Classifier{completer: c, sessions: sessions, timeout: timeout, logger: logger}
}

// Classify never fails. Model errors and unparsable replies come back as
// a Generic result with a canned response. With a session id the call
// holds that session's lock and extends its history only on success.
func (c *Classifier) Classify(ctx context.Context, in intent.Utterance) intent.Result {
	prompt := buildContext(in.Profile, in.Location) + "\nUser: " + in.Text

	var history []llm.Message
	if in.SessionID != "" {
		unlock := c.sessions.Lock(in.SessionID)
		defer unlock()
		history = c.sessions.History(in.SessionID)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	userTurn := llm.Message{Role: llm.RoleUser, Content: prompt}
	messages := append(history, userTurn)

	completion, err := c.completer.Complete(ctx, llm.Request{
		System:   systemPrompt,
		Messages: messages,
		JSON:     true,
	})
	if err != nil {
		c.logger.Error("Intent classification failed",
			zap.String("session_id", in.SessionID),
			zap.Error(err),
		)
		return intent.NewResult(intent.Generic, intent.ActionNone, ProviderErrorReply, intent.Params{})
	}

	result, err := parseReply(completion.Text)
	if err != nil {
		c.logger.Error("Failed to parse model reply as JSON",
			zap.String("session_id", in.SessionID),
			zap.Error(err),
		)
		return intent.NewResult(intent.Generic, intent.ActionNone, MalformedReply, intent.Params{})
	}

	if in.SessionID != "" {
		c.sessions.Append(in.SessionID, userTurn, llm.Message{Role: llm.RoleAssistant, Content: completion.Text})
	}

	c.logger.Debug("Intent classified",
		zap.String("session_id", in.SessionID),
		zap.String("intent", string(result.Intent())),
		zap.String("ui_action", string(result.UIAction())),
	)
	return result
}

// ClearSession drops the conversation history for a session.
func (c *Classifier) ClearSession(id string) {
	c.sessions.Clear(id)
}

func parseReply(text string) (intent.Result, error) {
	var r reply
	if err := json.Unmarshal([]byte(stripFences(text)), &r); err != nil {
		return intent.Result{}, fmt.Errorf("%w: %v", domain.ErrMalformedLLMOutput, err)
	}

	t := intent.Type(r.Intent)
	if r.Intent == "" {
		t = intent.Generic
	}
	a := intent.UIAction(r.UIAction)
	if r.UIAction == "" {
		a = intent.ActionNone
	}
	responseText := missingTextReply
	if r.ResponseText != nil {
		responseText = *r.ResponseText
	}

	params := intent.Params{Raw: r.ExtractedParams}
	if params.Raw == nil {
		params.Raw = map[string]any{}
	}
	params.FromCity = stringParam(r.ExtractedParams, "from_city")
	params.ToCity = stringParam(r.ExtractedParams, "to_city")

	return intent.NewResult(t, a, responseText, params), nil
}

// stripFences removes a surrounding markdown code block such as ```json ... ```.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return strings.Trim(text, "`")
	}
	lines = lines[1:]
	if last := strings.TrimSpace(lines[len(lines)-1]); strings.HasPrefix(last, "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return strings.TrimSpace(s)
}
