package speech

import (
	"context"
	"io"
)

// Synthesizer produces raw PCM (24 kHz, 16-bit little-endian, mono) for a text.
// The caller closes the returned reader.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (io.ReadCloser, error)
}
