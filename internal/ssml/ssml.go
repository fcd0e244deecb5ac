// Package ssml builds Speech Synthesis Markup Language documents from
// loosely typed voice parameters.
package ssml

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const defaultLanguage = "en-US"

// Options selects the voice and optional prosody adjustments. Empty
// prosody fields are omitted from the generated markup.
type Options struct {
	Voice  string
	Pitch  string // e.g. "+0Hz"
	Rate   string // e.g. "+0%"
	Volume string // e.g. "+0%"
}

// Build renders a well-formed SSML document. Every character of text ends
// up as literal spoken content; markup-significant characters are escaped.
// Pure function: identical inputs produce identical output.
func Build(text string, opts Options) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="%s">`,
		escape(languageOf(opts.Voice)))
	fmt.Fprintf(&sb, `<voice name="%s">`, escape(opts.Voice))

	prosody := prosodyAttrs(opts)
	if prosody != "" {
		fmt.Fprintf(&sb, `<prosody%s>`, prosody)
	}
	sb.WriteString(escape(text))
	if prosody != "" {
		sb.WriteString(`</prosody>`)
	}

	sb.WriteString(`</voice></speak>`)
	return sb.String()
}

func prosodyAttrs(opts Options) string {
	var sb strings.Builder
	if opts.Pitch != "" {
		fmt.Fprintf(&sb, ` pitch="%s"`, escape(opts.Pitch))
	}
	if opts.Rate != "" {
		fmt.Fprintf(&sb, ` rate="%s"`, escape(opts.Rate))
	}
	if opts.Volume != "" {
		fmt.Fprintf(&sb, ` volume="%s"`, escape(opts.Volume))
	}
	return sb.String()
}

// Extract language code from a voice name (e.g. "zh-CN-XiaoxiaoNeural" -> "zh-CN")
func languageOf(voice string) string {
	parts := strings.Split(voice, "-")
	if len(parts) >= 2 {
		return fmt.Sprintf("%s-%s", parts[0], parts[1])
	}
	return defaultLanguage
}

func escape(s string) string {
	var sb strings.Builder
	// Writes to strings.Builder cannot fail.
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
