// Package speech frames synthesized speech as a streamed WAV body.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/metrics"
)

// DefaultChunkSize is the PCM write size when none is configured.
const DefaultChunkSize = 4096

// errorMarker prefixes a failure written into an already started stream.
const (
	errorMarker    = "ERROR:"
	maxErrorDetail = 100
)

type flusher interface {
	Flush()
}

// Streamer writes one WAV header followed by PCM chunks as they arrive.
type Streamer struct {
	synth     Synthesizer
	chunkSize int
	logger    *zap.Logger
}

// NewStreamer creates a streamer. chunkSize <= 0 uses DefaultChunkSize.
func NewStreamer(synth Synthesizer, chunkSize int, logger *zap.Logger) *Streamer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Streamer{synth: synth, chunkSize: chunkSize, logger: logger}
}

// Stream synthesizes text and writes the framed audio to w, flushing after
// every chunk when w supports it. A synthesis failure after the header is
// reported in-band as "ERROR:<detail>" and is not returned. The returned
// error means w itself failed (usually a gone client).
func (s *Streamer) Stream(ctx context.Context, w io.Writer, text, voice string) error {
	if err := s.write(w, wavHeader()); err != nil {
		metrics.SpeechStreamsTotal.WithLabelValues("aborted").Inc()
		return err
	}

	body, err := s.synth.Synthesize(ctx, text, voice)
	if err != nil {
		return s.fail(w, err)
	}
	defer body.Close()

	buf := make([]byte, s.chunkSize)
	for {
		n, readErr := io.ReadFull(body, buf)
		if n > 0 {
			if err := s.write(w, buf[:n]); err != nil {
				metrics.SpeechStreamsTotal.WithLabelValues("aborted").Inc()
				return err
			}
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			return s.fail(w, readErr)
		}
	}

	metrics.SpeechStreamsTotal.WithLabelValues("ok").Inc()
	return nil
}

func (s *Streamer) fail(w io.Writer, cause error) error {
	s.logger.Error("TTS streaming failed", zap.Error(cause))
	metrics.SpeechStreamsTotal.WithLabelValues("error").Inc()

	detail := cause.Error()
	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail]
	}
	if err := s.write(w, []byte(errorMarker+detail)); err != nil {
		return fmt.Errorf("write error marker: %w", err)
	}
	return nil
}

func (s *Streamer) write(w io.Writer, p []byte) error {
	if _, err := w.Write(p); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	if f, ok := w.(flusher); ok {
		f.Flush()
	}
	return nil
}
