// Package edge synthesizes speech through the Microsoft Edge read-aloud
// websocket service.
package edge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wangshuai-123/read-aloud/internal/logger"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36 Edg/122.0.0.0"

const origin = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"

// Client speaks the read-aloud websocket protocol. One websocket
// connection is dialed per Synthesize call; the service tears connections
// down after each turn anyway.
type Client struct {
	dialer     *websocket.Dialer
	httpClient *http.Client
	log        *logger.Log
}

func NewClient() *Client {
	return &Client{
		dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
		},
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.New(),
	}
}

func (c *Client) Name() string {
	return "Microsoft Edge read-aloud"
}

// Synthesize renders the SSML document and collects the audio chunks until
// the service signals the end of the turn.
func (c *Client) Synthesize(ctx context.Context, ssml, format string) ([]byte, error) {
	connectionID := strings.ReplaceAll(uuid.NewString(), "-", "")

	header := http.Header{}
	header.Set("Origin", origin)
	header.Set("User-Agent", userAgent)

	conn, resp, err := c.dialer.DialContext(ctx, wssEndpoint+"&ConnectionId="+connectionID, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("speech service handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect to speech service: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	now := time.Now()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(configFrame(format, now))); err != nil {
		return nil, fmt.Errorf("failed to send speech config: %w", err)
	}

	requestID := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlFrame(requestID, ssml, now))); err != nil {
		return nil, fmt.Errorf("failed to send synthesis request: %w", err)
	}

	c.log.WithField("request_id", requestID).Debug("synthesis request sent")

	var audio []byte
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			return nil, readError(err)
		}

		switch msgType {
		case websocket.TextMessage:
			headers := parseTextFrame(string(msg))
			switch headers["Path"] {
			case pathTurnEnd:
				if len(audio) == 0 {
					return nil, fmt.Errorf("speech service returned no audio for request %s", requestID)
				}
				return audio, nil
			case pathTurnStart, pathAudioMetadata, pathResponse:
				// bookkeeping frames, nothing to collect
			}
		case websocket.BinaryMessage:
			headers, payload, err := parseBinaryFrame(msg)
			if err != nil {
				return nil, err
			}
			if headers["Path"] == pathAudio {
				audio = append(audio, payload...)
			}
		}
	}
}

// readError maps websocket close codes onto the failure taxonomy. The
// service closes with an invalid-payload code when it rejects the markup;
// that class must not be retried.
func readError(err error) error {
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.ClosePolicyViolation) {
		return fmt.Errorf("SSML is invalid: %w", err)
	}
	return fmt.Errorf("speech service connection failed: %w", err)
}

// Voices fetches the service's voice catalog as raw JSON.
func (c *Client) Voices(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, voiceListEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create voice list request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voice list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voice list returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read voice list: %w", err)
	}
	return body, nil
}
