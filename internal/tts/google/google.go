// Package google synthesizes speech through Google Cloud Text-to-Speech.
// It exists as an alternative to the default Edge provider for deployments
// that already carry Google credentials.
package google

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/wangshuai-123/read-aloud/config"
	"github.com/wangshuai-123/read-aloud/internal/logger"
)

type Client struct {
	client *texttospeech.Client
	log    *logger.Log
}

func NewClient(cfg *config.TtsConfig) (*Client, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
	}

	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google TTS client: %w", err)
	}

	return &Client{
		client: client,
		log:    logger.New(),
	}, nil
}

func (c *Client) Name() string {
	return "Google Cloud Text-to-Speech"
}

// Synthesize renders the SSML document. Voice selection lives inside the
// document, so only the language code is lifted out for the API call.
func (c *Client) Synthesize(ctx context.Context, ssml, format string) ([]byte, error) {
	encoding, sampleRate, err := encodingFor(format)
	if err != nil {
		return nil, err
	}

	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{
			InputSource: &ttspb.SynthesisInput_Ssml{Ssml: ssml},
		},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: languageOf(ssml),
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding:   encoding,
			SampleRateHertz: sampleRate,
		},
	}

	c.log.WithField("language", languageOf(ssml)).Debug("requesting Google TTS synthesis")

	resp, err := c.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	if len(resp.AudioContent) == 0 {
		return nil, fmt.Errorf("empty audio content received from Google TTS")
	}
	return resp.AudioContent, nil
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// encodingFor maps the read-aloud format identifiers onto the encodings
// Google supports. SILK formats have no equivalent here.
func encodingFor(format string) (ttspb.AudioEncoding, int32, error) {
	switch {
	case strings.Contains(format, "mp3"):
		return ttspb.AudioEncoding_MP3, sampleRateOf(format), nil
	case strings.Contains(format, "opus"):
		return ttspb.AudioEncoding_OGG_OPUS, sampleRateOf(format), nil
	case strings.Contains(format, "pcm"):
		return ttspb.AudioEncoding_LINEAR16, sampleRateOf(format), nil
	default:
		return ttspb.AudioEncoding_AUDIO_ENCODING_UNSPECIFIED, 0,
			fmt.Errorf("format %q is not supported by the google provider", format)
	}
}

var sampleRatePattern = regexp.MustCompile(`(\d+)khz`)

func sampleRateOf(format string) int32 {
	m := sampleRatePattern.FindStringSubmatch(format)
	if m == nil {
		return 24000
	}
	var khz int32
	fmt.Sscanf(m[1], "%d", &khz)
	return khz * 1000
}

var langPattern = regexp.MustCompile(`xml:lang="([^"]+)"`)

func languageOf(ssml string) string {
	m := langPattern.FindStringSubmatch(ssml)
	if m == nil {
		return "en-US"
	}
	return m[1]
}
