package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/wangshuai-123/read-aloud/internal/auth"
	"github.com/wangshuai-123/read-aloud/internal/retry"
	"github.com/wangshuai-123/read-aloud/internal/token"
)

// scriptedSynth fails with the scripted errors in order, then succeeds.
type scriptedSynth struct {
	errs  []error
	calls int
	audio []byte
	ssml  []string
}

func (s *scriptedSynth) Synthesize(_ context.Context, ssml, format string) ([]byte, error) {
	s.calls++
	s.ssml = append(s.ssml, ssml)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	return s.audio, nil
}

func (s *scriptedSynth) Name() string { return "scripted" }

func testHandler(synth *scriptedSynth, secret string) *Handler {
	return NewHandler(synth, auth.Static(secret), token.Freshness{Window: 6 * time.Hour}, retry.Policy{MaxAttempts: 3})
}

func freshToken(t *testing.T) string {
	t.Helper()
	return token.EncodeTime(time.Now())
}

func doRequest(h *Handler, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/?"+params.Encode(), nil)
	w := httptest.NewRecorder()
	h.Synthesize(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	return resp.Error
}

func TestSynthesize_Success(t *testing.T) {
	synth := &scriptedSynth{audio: []byte("mp3-bytes")}
	h := testHandler(synth, "")

	w := doRequest(h, url.Values{
		"voice": {freshToken(t)},
		"text":  {"hello world"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Errorf("Content-Type = %q, want %q", got, "audio/mpeg")
	}
	if w.Body.String() != "mp3-bytes" {
		t.Errorf("body = %q, want raw audio bytes", w.Body.String())
	}
	if synth.calls != 1 {
		t.Errorf("synthesizer called %d times, want 1", synth.calls)
	}
	if len(synth.ssml) != 1 || !strings.Contains(synth.ssml[0], "hello world") {
		t.Errorf("synthesizer did not receive the text: %v", synth.ssml)
	}
	if !strings.Contains(synth.ssml[0], "zh-CN-XiaoxiaoNeural") {
		t.Errorf("expected default voice in markup: %s", synth.ssml[0])
	}
}

func TestSynthesize_MissingVoiceToken(t *testing.T) {
	synth := &scriptedSynth{}
	h := testHandler(synth, "")

	w := doRequest(h, url.Values{"text": {"hello"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if synth.calls != 0 {
		t.Errorf("synthesizer called %d times, want 0", synth.calls)
	}
}

func TestSynthesize_ExpiredVoiceToken(t *testing.T) {
	synth := &scriptedSynth{}
	h := testHandler(synth, "")

	w := doRequest(h, url.Values{
		"voice": {token.EncodeTime(time.Now().Add(-7 * time.Hour))},
		"text":  {"hello"},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(decodeError(t, w), "voice") {
		t.Errorf("error should name the voice parameter: %s", w.Body.String())
	}
	if synth.calls != 0 {
		t.Errorf("synthesis invoked despite stale token, calls = %d", synth.calls)
	}
}

func TestSynthesize_SecretMismatch(t *testing.T) {
	synth := &scriptedSynth{}
	h := testHandler(synth, "abc")

	w := doRequest(h, url.Values{
		"voice": {freshToken(t)},
		"token": {"xyz"},
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	if synth.calls != 0 {
		t.Errorf("synthesizer called %d times, want 0", synth.calls)
	}
}

func TestSynthesize_SecretMatch(t *testing.T) {
	synth := &scriptedSynth{audio: []byte("ok")}
	h := testHandler(synth, "abc")

	w := doRequest(h, url.Values{
		"voice": {freshToken(t)},
		"token": {"abc"},
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestSynthesize_InvalidFormat(t *testing.T) {
	synth := &scriptedSynth{}
	h := testHandler(synth, "")

	w := doRequest(h, url.Values{
		"voice":  {freshToken(t)},
		"format": {"invalid-format"},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(decodeError(t, w), "invalid-format") {
		t.Errorf("error should name the rejected format: %s", w.Body.String())
	}
	if synth.calls != 0 {
		t.Errorf("synthesizer called %d times, want 0", synth.calls)
	}
}

func TestSynthesize_ExplicitFormatContentType(t *testing.T) {
	synth := &scriptedSynth{audio: []byte("wav")}
	h := testHandler(synth, "")

	w := doRequest(h, url.Values{
		"voice":  {freshToken(t)},
		"format": {"riff-24khz-16bit-mono-pcm"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "audio/x-wav" {
		t.Errorf("Content-Type = %q, want %q", got, "audio/x-wav")
	}
}

func TestSynthesize_InvalidSSMLAbortsRetries(t *testing.T) {
	synth := &scriptedSynth{errs: []error{
		errors.New("SSML is invalid: close 1007"),
		errors.New("SSML is invalid: close 1007"),
		errors.New("SSML is invalid: close 1007"),
	}}
	h := testHandler(synth, "")

	w := doRequest(h, url.Values{
		"voice": {freshToken(t)},
		"text":  {"hello"},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
	}
	if got := decodeError(t, w); got != "SSML 无效" {
		t.Errorf("error = %q, want %q", got, "SSML 无效")
	}
	if synth.calls != 1 {
		t.Errorf("synthesizer called %d times, want 1 (no retries for fatal errors)", synth.calls)
	}
}

func TestSynthesize_TransientFailuresExhaustRetries(t *testing.T) {
	synth := &scriptedSynth{errs: []error{
		errors.New("connection reset"),
		errors.New("timeout"),
		errors.New("connection reset"),
	}}
	h := testHandler(synth, "")

	w := doRequest(h, url.Values{
		"voice": {freshToken(t)},
		"text":  {"hello"},
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d: %s", http.StatusInternalServerError, w.Code, w.Body.String())
	}
	if synth.calls != 3 {
		t.Errorf("synthesizer called %d times, want 3", synth.calls)
	}
	msg := decodeError(t, w)
	for _, cause := range []string{"all 3 attempts failed", "connection reset", "timeout"} {
		if !strings.Contains(msg, cause) {
			t.Errorf("exhaustion message missing %q: %s", cause, msg)
		}
	}
}

func TestSynthesize_TransientFailureThenSuccess(t *testing.T) {
	synth := &scriptedSynth{
		errs:  []error{errors.New("connection reset")},
		audio: []byte("recovered"),
	}
	h := testHandler(synth, "")

	w := doRequest(h, url.Values{
		"voice": {freshToken(t)},
		"text":  {"hello"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if w.Body.String() != "recovered" {
		t.Errorf("body = %q, want %q", w.Body.String(), "recovered")
	}
	if synth.calls != 2 {
		t.Errorf("synthesizer called %d times, want 2", synth.calls)
	}
}

func TestVoices_NotSupported(t *testing.T) {
	h := testHandler(&scriptedSynth{}, "")

	req := httptest.NewRequest("GET", "/voices", nil)
	w := httptest.NewRecorder()
	h.Voices(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

// catalogSynth adds a scripted voice catalog on top of scriptedSynth.
type catalogSynth struct {
	scriptedSynth
	voices []byte
	err    error
}

func (c *catalogSynth) Voices(context.Context) ([]byte, error) {
	return c.voices, c.err
}

func TestVoices_Passthrough(t *testing.T) {
	synth := &catalogSynth{voices: []byte(`[{"ShortName":"zh-CN-XiaoxiaoNeural"}]`)}
	h := NewHandler(synth, auth.Static(""), token.Freshness{}, retry.Policy{MaxAttempts: 1})

	req := httptest.NewRequest("GET", "/voices", nil)
	w := httptest.NewRecorder()
	h.Voices(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "XiaoxiaoNeural") {
		t.Errorf("expected catalog passthrough, got %s", w.Body.String())
	}
}

func TestVoices_UpstreamFailure(t *testing.T) {
	synth := &catalogSynth{err: errors.New("upstream down")}
	h := NewHandler(synth, auth.Static(""), token.Freshness{}, retry.Policy{MaxAttempts: 1})

	req := httptest.NewRequest("GET", "/voices", nil)
	w := httptest.NewRecorder()
	h.Voices(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status %d, got %d", http.StatusBadGateway, w.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := testHandler(&scriptedSynth{}, "")

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	h.Healthz(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected health body: %s", w.Body.String())
	}
}
