package tts

import (
	"sort"

	"github.com/schollz/closestmatch"
)

// contentTypes maps the supported output format identifiers to the
// Content-Type header served with the audio. The set mirrors the Edge
// read-aloud surface.
var contentTypes = map[string]string{
	"raw-16khz-16bit-mono-pcm":          "audio/basic",
	"raw-48khz-16bit-mono-pcm":          "audio/basic",
	"raw-8khz-8bit-mono-mulaw":          "audio/basic",
	"raw-8khz-8bit-mono-alaw":           "audio/basic",
	"raw-16khz-16bit-mono-truesilk":     "audio/SILK",
	"raw-24khz-16bit-mono-truesilk":     "audio/SILK",
	"riff-16khz-16bit-mono-pcm":         "audio/x-wav",
	"riff-24khz-16bit-mono-pcm":         "audio/x-wav",
	"riff-48khz-16bit-mono-pcm":         "audio/x-wav",
	"riff-8khz-8bit-mono-mulaw":         "audio/x-wav",
	"riff-8khz-8bit-mono-alaw":          "audio/x-wav",
	"audio-16khz-32kbitrate-mono-mp3":   "audio/mpeg",
	"audio-16khz-64kbitrate-mono-mp3":   "audio/mpeg",
	"audio-16khz-128kbitrate-mono-mp3":  "audio/mpeg",
	"audio-24khz-48kbitrate-mono-mp3":   "audio/mpeg",
	"audio-24khz-96kbitrate-mono-mp3":   "audio/mpeg",
	"audio-24khz-160kbitrate-mono-mp3":  "audio/mpeg",
	"audio-48khz-96kbitrate-mono-mp3":   "audio/mpeg",
	"audio-48khz-192kbitrate-mono-mp3":  "audio/mpeg",
	"webm-16khz-16bit-mono-opus":        "audio/webm; codec=opus",
	"webm-24khz-16bit-mono-opus":        "audio/webm; codec=opus",
	"ogg-16khz-16bit-mono-opus":         "audio/ogg; codecs=opus; rate=16000",
	"ogg-24khz-16bit-mono-opus":         "audio/ogg; codecs=opus; rate=24000",
	"ogg-48khz-16bit-mono-opus":         "audio/ogg; codecs=opus; rate=48000",
}

var formatMatcher = closestmatch.New(Formats(), []int{2, 3})

// ContentType resolves a format identifier to its Content-Type. The second
// return is false for unknown formats.
func ContentType(format string) (string, bool) {
	ct, ok := contentTypes[format]
	return ct, ok
}

// Formats returns the supported format identifiers in sorted order.
func Formats() []string {
	formats := make([]string, 0, len(contentTypes))
	for f := range contentTypes {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// SuggestFormat fuzzy-matches an unknown format against the supported set
// for friendlier error messages. Returns "" when nothing is close.
func SuggestFormat(format string) string {
	return formatMatcher.Closest(format)
}
