package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wangshuai-123/read-aloud/internal/auth"
	"github.com/wangshuai-123/read-aloud/internal/logger"
	"github.com/wangshuai-123/read-aloud/internal/retry"
	"github.com/wangshuai-123/read-aloud/internal/ssml"
	"github.com/wangshuai-123/read-aloud/internal/token"
	"github.com/wangshuai-123/read-aloud/internal/tts"
)

const (
	defaultVoice  = "zh-CN-XiaoxiaoNeural"
	defaultFormat = "audio-24khz-48kbitrate-mono-mp3"

	invalidSSMLMessage = "SSML 无效"
)

// Handler serves the synthesis endpoint. All collaborators are injected;
// the handler itself holds no mutable state, so one instance serves
// concurrent requests.
type Handler struct {
	synth     tts.Synthesizer
	secrets   auth.SecretProvider
	freshness token.Freshness
	policy    retry.Policy
	log       *logger.Log
	now       func() time.Time
}

func NewHandler(synth tts.Synthesizer, secrets auth.SecretProvider, freshness token.Freshness, policy retry.Policy) *Handler {
	return &Handler{
		synth:     synth,
		secrets:   secrets,
		freshness: freshness,
		policy:    policy,
		log:       logger.New(),
		now:       time.Now,
	}
}

// GET / - synthesize the text query parameter and stream the audio back.
func (h *Handler) Synthesize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	voiceToken := q.Get("voice")
	if !h.freshness.Fresh(voiceToken, h.now()) {
		writeError(w, h.log, badRequest("invalid voice parameter: token is missing, malformed or stale"))
		return
	}

	if !auth.Authorize(h.secrets, q.Get("token")) {
		h.log.Warn("rejected request with mismatched token")
		writeError(w, h.log, unauthorized("unauthorized"))
		return
	}

	format := q.Get("format")
	if format == "" {
		format = defaultFormat
	}
	contentType, ok := tts.ContentType(format)
	if !ok {
		msg := fmt.Sprintf("unsupported format: %q", format)
		if suggestion := tts.SuggestFormat(format); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		writeError(w, h.log, badRequest("%s", msg))
		return
	}

	voiceName := q.Get("voiceName")
	if voiceName == "" {
		voiceName = defaultVoice
	}
	doc := ssml.Build(q.Get("text"), ssml.Options{
		Voice:  voiceName,
		Pitch:  q.Get("pitch"),
		Rate:   q.Get("rate"),
		Volume: q.Get("volume"),
	})

	audio, err := retry.Do(r.Context(), h.policy,
		func(ctx context.Context) ([]byte, error) {
			return h.synth.Synthesize(ctx, doc, format)
		},
		func(attempt int, attemptErr error) retry.Decision {
			h.log.WithError(attemptErr).WithField("attempt", attempt).Warn("synthesis attempt failed")
			if tts.IsInvalidSSML(attemptErr) {
				return retry.Abort
			}
			return retry.Continue
		},
	)
	if err != nil {
		if tts.IsInvalidSSML(err) {
			err = badRequest("%s", invalidSSMLMessage)
		}
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(audio); err != nil {
		h.log.WithError(err).Warn("failed to stream audio to client")
	}
}

// GET /voices - proxy the provider's voice catalog.
func (h *Handler) Voices(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.synth.(tts.VoiceCatalog)
	if !ok {
		writeError(w, h.log, &HTTPError{
			Status:  http.StatusNotFound,
			Message: fmt.Sprintf("provider %s does not expose a voice list", h.synth.Name()),
		})
		return
	}

	voices, err := catalog.Voices(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to fetch voice list")
		writeError(w, h.log, &HTTPError{Status: http.StatusBadGateway, Message: "failed to fetch voice list"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(voices)
}

// GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}
