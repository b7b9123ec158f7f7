package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/domain"
)

func newTestSpeaker(url string) *Speaker {
	return NewSpeaker(&SpeakerConfig{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "gpt-4o-mini-tts",
		Logger:  zap.NewNop(),
	})
}

func TestSpeaker_Synthesize(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["response_format"] != "pcm" || body["voice"] != "nova" || body["input"] != "namaste" {
			t.Errorf("unexpected body %v", body)
		}
		w.Header().Set("Content-Type", "audio/pcm")
		w.Write(pcm)
	}))
	defer server.Close()

	rc, err := newTestSpeaker(server.URL).Synthesize(context.Background(), "namaste", "nova")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(pcm) {
		t.Errorf("audio = %v, want %v", got, pcm)
	}
}

func TestSpeaker_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"bad voice","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	_, err := newTestSpeaker(server.URL).Synthesize(context.Background(), "namaste", "nova")
	if !errors.Is(err, domain.ErrSpeechProviderError) {
		t.Fatalf("expected ErrSpeechProviderError, got %v", err)
	}
}
