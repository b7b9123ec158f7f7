package openai

import (
	"context"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/domain"
)

// Speaker synthesizes speech through the OpenAI-compatible /audio/speech
// endpoint. Audio is raw PCM: 24 kHz, 16-bit little-endian, mono.
type Speaker struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// SpeakerConfig holds the text-to-speech settings.
type SpeakerConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewSpeaker creates a text-to-speech provider.
func NewSpeaker(cfg *SpeakerConfig) *Speaker {
	return &Speaker{
		client: newClient(cfg.APIKey, cfg.BaseURL),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Synthesize starts a speech request and returns the PCM body as it streams.
// The caller must close the reader.
func (s *Speaker) Synthesize(ctx context.Context, text, voice string) (io.ReadCloser, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		s.logger.Warn("Speech request failed",
			zap.String("model", s.model),
			zap.String("voice", voice),
			zap.Error(err),
		)
		return nil, wrapAPIError("speech", err, domain.ErrSpeechProviderError)
	}
	return resp, nil
}
