// internal/tts/factory.go
package tts

import (
	"fmt"

	"github.com/wangshuai-123/read-aloud/config"
	"github.com/wangshuai-123/read-aloud/internal/tts/edge"
	"github.com/wangshuai-123/read-aloud/internal/tts/google"
)

type Provider string

const (
	ProviderEdge   Provider = "edge"
	ProviderGoogle Provider = "google"
	ProviderDummy  Provider = "dummy"
)

// New creates a Synthesizer based on the configuration.
func New(cfg *config.Config) (Synthesizer, error) {
	switch Provider(cfg.Tts.Provider) {
	case ProviderEdge:
		return edge.NewClient(), nil
	case ProviderGoogle:
		return google.NewClient(&cfg.Tts)
	case ProviderDummy:
		return NewDummy(), nil
	default:
		return nil, fmt.Errorf("unsupported TTS provider: %s", cfg.Tts.Provider)
	}
}
