package tts

import (
	"context"
	"strings"
)

// Synthesizer turns an SSML document into encoded audio.
type Synthesizer interface {

	// Synthesize renders the document in the given output format and
	// returns the complete audio payload.
	Synthesize(ctx context.Context, ssml, format string) ([]byte, error)

	// Name identifies the provider for logging.
	Name() string
}

// VoiceCatalog is implemented by providers that can enumerate their
// available voices. The payload is provider JSON passed through verbatim.
type VoiceCatalog interface {
	Voices(ctx context.Context) ([]byte, error)
}

// invalidSSMLMarker is the substring synthesis services use when they
// reject the markup itself. Such failures are fatal and never retried.
const invalidSSMLMarker = "SSML is invalid"

// IsInvalidSSML reports whether err means the service rejected the markup.
func IsInvalidSSML(err error) bool {
	return err != nil && strings.Contains(err.Error(), invalidSSMLMarker)
}
