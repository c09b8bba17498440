// Package backend implements the streaming HTTP client for the reply
// service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/quillmail/quill/internal/stream"
)

// ErrRequestFailed is returned when the backend rejects a request
// before any streaming begins.
var ErrRequestFailed = errors.New("backend request failed")

// ChatMessage is one turn sent to the backend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the wire format of a streaming request.
type chatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"maxTokens"`
	Temperature float64       `json:"temperature"`
	Model       string        `json:"model"`
}

// Client posts chat requests to the backend endpoint and decodes the
// resulting event stream.
type Client struct {
	endpoint    string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewClient creates a backend client. There is no client-side stream
// timeout: a closed connection without a done event already resolves to
// a terminal error event.
func NewClient(endpoint, model string, maxTokens int, temperature float64) *Client {
	return &Client{
		endpoint:    endpoint,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		httpClient:  &http.Client{},
	}
}

// Stream sends the conversation to the backend and calls emit for each
// decoded event, ending with exactly one terminal event. Transport
// failures after streaming has begun surface as a synthetic error
// event, not as a returned error; a returned error means the request
// never started streaming.
func (c *Client) Stream(ctx context.Context, messages []ChatMessage, emit func(stream.Event)) error {
	body, err := json.Marshal(chatRequest{
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Model:       c.model,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	slog.Debug("HTTP POST", "endpoint", c.endpoint, "model", c.model, "messages", len(messages))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("HTTP request failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		slog.Error("backend error", "status", resp.StatusCode, "body", string(b))
		return fmt.Errorf("%w: %d - %s", ErrRequestFailed, resp.StatusCode, string(b))
	}

	return c.decode(ctx, resp.Body, emit)
}

// decode feeds the response body through the stream decoder, honoring
// context cancellation between reads.
func (c *Client) decode(ctx context.Context, r io.Reader, emit func(stream.Event)) error {
	var d stream.Decoder
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			for _, ev := range d.Feed(string(buf[:n])) {
				emit(ev)
				if ev.Terminal() {
					return nil
				}
			}
		}
		if err != nil {
			// When the context is canceled the body closes and the read
			// fails; report the cancellation rather than a fake stream
			// error.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != io.EOF {
				slog.Warn("stream read error", "error", err)
			}
			for _, ev := range d.Close() {
				emit(ev)
			}
			return nil
		}
	}
}
