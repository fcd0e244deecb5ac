package tts

import (
	"context"

	"github.com/wangshuai-123/read-aloud/internal/logger"
)

// Dummy is a stand-in synthesizer for environments without a real
// provider. It returns a tiny fixed payload.
type Dummy struct {
	log *logger.Log
}

func NewDummy() *Dummy {
	return &Dummy{log: logger.New()}
}

func (d *Dummy) Synthesize(_ context.Context, ssml, format string) ([]byte, error) {
	d.log.WithField("format", format).Debug("dummy synthesizer invoked, returning silence")
	return []byte("ID3"), nil
}

func (d *Dummy) Name() string {
	return "dummy"
}
