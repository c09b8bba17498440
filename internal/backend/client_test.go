package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quillmail/quill/internal/stream"
)

func TestClient_StreamDecodesEvents(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		// Split one event across two writes to exercise reassembly.
		w.Write([]byte("data: {\"type\":\"chunk\",\"del"))
		flusher.Flush()
		w.Write([]byte("ta\":\"Hello\"}\n"))
		flusher.Flush()
		w.Write([]byte("data: {\"type\":\"done\",\"fullText\":\"Hello\"}\n"))
		flusher.Flush()
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model", 512, 0.5)

	var events []stream.Event
	err := client.Stream(context.Background(), []ChatMessage{
		{Role: "user", Content: "hi"},
	}, func(ev stream.Event) { events = append(events, ev) })
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if gotReq.Model != "test-model" || gotReq.MaxTokens != 512 || gotReq.Temperature != 0.5 {
		t.Errorf("request = %+v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "hi" {
		t.Errorf("request messages = %+v", gotReq.Messages)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].Type != stream.EventChunk || events[0].Delta != "Hello" {
		t.Errorf("event 0 = %+v", events[0])
	}
	if events[1].Type != stream.EventDone || events[1].FullText != "Hello" {
		t.Errorf("event 1 = %+v", events[1])
	}
}

func TestClient_StreamNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "m", 100, 0)
	err := client.Stream(context.Background(), nil, func(stream.Event) {
		t.Error("emit called on failed request")
	})
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("Stream error = %v, want ErrRequestFailed", err)
	}
}

func TestClient_EarlyCloseSynthesizesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"type\":\"chunk\",\"delta\":\"half a rep\"}\n"))
		// Connection closes without a done event.
	}))
	defer server.Close()

	client := NewClient(server.URL, "m", 100, 0)

	var events []stream.Event
	err := client.Stream(context.Background(), nil, func(ev stream.Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[1].Type != stream.EventError {
		t.Errorf("final event = %+v, want synthetic error", events[1])
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"type\":\"chunk\",\"delta\":\"x\"}\n"))
		w.(http.Flusher).Flush()
		cancel()
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, "m", 100, 0)
	err := client.Stream(ctx, nil, func(stream.Event) {})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Stream error = %v, want context.Canceled", err)
	}
}
