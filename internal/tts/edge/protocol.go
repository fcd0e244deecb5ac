package edge

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Edge read-aloud speech endpoints.
// Protocol reference: https://github.com/jing332/tts-server-go
const (
	trustedClientToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	wssEndpoint        = "wss://speech.platform.bing.com/consumer/speech/synthesize/" +
		"readaloud/edge/v1?trustedClientToken=" + trustedClientToken
	voiceListEndpoint = "https://speech.platform.bing.com/consumer/speech/synthesize/" +
		"readaloud/voices/list?trustedclienttoken=" + trustedClientToken
)

// Message paths used by the service.
const (
	pathTurnStart     = "turn.start"
	pathTurnEnd       = "turn.end"
	pathAudio         = "audio"
	pathAudioMetadata = "audio.metadata"
	pathResponse      = "response"
)

const headerSep = "\r\n\r\n"

// configFrame builds the speech.config message selecting the output format.
func configFrame(format string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("X-Timestamp:" + protocolTimestamp(now) + "\r\n")
	sb.WriteString("Content-Type:application/json; charset=utf-8\r\n")
	sb.WriteString("Path:speech.config")
	sb.WriteString(headerSep)
	fmt.Fprintf(&sb, `{"context":{"synthesis":{"audio":{"metadataoptions":`+
		`{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},`+
		`"outputFormat":"%s"}}}}`, format)
	return sb.String()
}

// ssmlFrame builds the synthesis request message carrying the document.
func ssmlFrame(requestID, ssml string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("X-RequestId:" + requestID + "\r\n")
	sb.WriteString("Content-Type:application/ssml+xml\r\n")
	sb.WriteString("X-Timestamp:" + protocolTimestamp(now) + "\r\n")
	sb.WriteString("Path:ssml")
	sb.WriteString(headerSep)
	sb.WriteString(ssml)
	return sb.String()
}

func protocolTimestamp(now time.Time) string {
	return now.UTC().Format("Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)")
}

// parseTextFrame splits a text message into its headers. The body after
// the blank line is ignored by this client.
func parseTextFrame(msg string) map[string]string {
	head, _, _ := strings.Cut(msg, headerSep)
	return parseHeaders(head)
}

// parseBinaryFrame splits a binary message into headers and audio payload.
// The first two bytes are the big-endian header block length.
func parseBinaryFrame(msg []byte) (map[string]string, []byte, error) {
	if len(msg) < 2 {
		return nil, nil, fmt.Errorf("binary frame too short: %d bytes", len(msg))
	}
	headerLen := int(binary.BigEndian.Uint16(msg[:2]))
	if 2+headerLen > len(msg) {
		return nil, nil, fmt.Errorf("binary frame header length %d exceeds frame size %d", headerLen, len(msg))
	}
	headers := parseHeaders(string(msg[2 : 2+headerLen]))
	return headers, msg[2+headerLen:], nil
}

func parseHeaders(block string) map[string]string {
	headers := make(map[string]string)
	for _, line := range strings.Split(block, "\r\n") {
		if key, value, ok := strings.Cut(line, ":"); ok {
			headers[key] = value
		}
	}
	return headers
}
