package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/domain"
	"github.com/cabswale/raahi/internal/domain/assistant"
	"github.com/cabswale/raahi/internal/domain/driver"
	"github.com/cabswale/raahi/internal/domain/intent"
	"github.com/cabswale/raahi/internal/logger"
	healthuc "github.com/cabswale/raahi/internal/usecase/health"
)

const (
	maxBodyBytes = 1 << 20

	internalErrorDetail = "Internal server error"
	mixedContentType    = "application/json+audio/wav"
)

// infoProfile stands in for the driver on GET /assistant/stream, which carries no profile.
var infoProfile = driver.Profile{ID: "info-query", Name: "Driver"}

// Assistant runs assistant turns (see usecase/assistant).
type Assistant interface {
	Handle(ctx context.Context, q assistant.Query) (assistant.Outcome, error)
	Answer(ctx context.Context, u intent.Utterance) intent.Result
	ClearSession(id string)
}

// SpeechStreamer writes synthesized speech as a WAV stream (see usecase/speech).
type SpeechStreamer interface {
	Stream(ctx context.Context, w io.Writer, text, voice string) error
}

// Voices selects the TTS voice per endpoint.
type Voices struct {
	Query  string
	Stream string
}

// Server serves the assistant HTTP API.
type Server struct {
	assistant Assistant
	speech    SpeechStreamer
	health    *healthuc.Service
	voices    Voices
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(a Assistant, speech SpeechStreamer, health *healthuc.Service, voices Voices, logger *zap.Logger) *Server {
	return &Server{assistant: a, speech: speech, health: health, voices: voices, logger: logger}
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/assistant", func(r chi.Router) {
		r.Post("/query", s.Query)
		r.Post("/query-with-audio", s.QueryWithAudio)
		r.Delete("/session/{session_id}", s.ClearSession)
		r.Get("/stream", s.StreamGet)
		r.Post("/stream", s.StreamPost)
	})
}

// Query handles POST /assistant/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	out, err := s.assistant.Handle(r.Context(), req.toDomain())
	if err != nil {
		s.handleError(r.Context(), w, "Error processing query", err)
		return
	}

	writeJSON(w, http.StatusOK, responseFromDomain(out.Response))
}

// QueryWithAudio handles POST /assistant/query-with-audio. The body is one
// JSON line followed, when there is no pre-recorded audio_url, by a WAV stream.
func (s *Server) QueryWithAudio(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	out, err := s.assistant.Handle(r.Context(), req.toDomain())
	if err != nil {
		s.handleError(r.Context(), w, "Error in query-with-audio", err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Content-Type", mixedContentType)
	w.Header().Set("X-Intent", string(out.Response.Intent))
	w.WriteHeader(http.StatusOK)

	// Encode terminates the JSON with the newline clients split on.
	if err := json.NewEncoder(w).Encode(responseFromDomain(out.Response)); err != nil {
		logger.FromContext(r.Context()).Warn("Failed to write response metadata", zap.Error(err))
		return
	}
	flush(w)

	if out.Response.AudioURL != "" || out.SpeechText == "" {
		return
	}
	if err := s.speech.Stream(r.Context(), w, out.SpeechText, s.voices.Query); err != nil {
		logger.FromContext(r.Context()).Warn("Audio stream aborted", zap.Error(err))
	}
}

// ClearSession handles DELETE /assistant/session/{session_id}.
func (s *Server) ClearSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	s.assistant.ClearSession(id)
	writeJSON(w, http.StatusOK, sessionClearedResponse{
		Status:  "ok",
		Message: fmt.Sprintf("Session %s cleared", id),
	})
}

// StreamGet handles GET /assistant/stream?text=...&voice=...
func (s *Server) StreamGet(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		writeError(w, http.StatusUnprocessableEntity, "text is required")
		return
	}
	voice := r.URL.Query().Get("voice")
	if voice == "" {
		voice = s.voices.Stream
	}

	res := s.assistant.Answer(r.Context(), intent.Utterance{Text: text, Profile: infoProfile})
	s.streamAnswer(w, r, res, voice)
}

// StreamPost handles POST /assistant/stream with full driver context.
func (s *Server) StreamPost(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	res := s.assistant.Answer(r.Context(), intent.Utterance{
		Text:      *req.Text,
		Profile:   *req.DriverProfile,
		Location:  *req.CurrentLocation,
		SessionID: req.SessionID,
	})
	s.streamAnswer(w, r, res, s.voices.Stream)
}

func (s *Server) streamAnswer(w http.ResponseWriter, r *http.Request, res intent.Result, voice string) {
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Intent", string(res.Intent()))
	w.WriteHeader(http.StatusOK)

	if err := s.speech.Stream(r.Context(), w, res.ResponseText(), voice); err != nil {
		logger.FromContext(r.Context()).Warn("Audio stream aborted", zap.Error(err))
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// handleError maps pipeline failures to responses without exposing internals.
func (s *Server) handleError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		logger.FromContext(ctx).Warn(msg, zap.Error(err))
		writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest.Error())
		return
	}
	logger.FromContext(ctx).Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, internalErrorDetail)
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (*queryRequest, bool) {
	var req queryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return nil, false
	}
	if field := req.missingField(); field != "" {
		writeError(w, http.StatusUnprocessableEntity, field+" is required")
		return nil, false
	}
	return &req, true
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
