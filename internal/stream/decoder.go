// Package stream decodes server-sent event streams from the reply backend.
//
// The backend responds with a text/event-stream body whose lines are
// "data: <json>", where each JSON payload is a chunk, done, or error
// event. The network is free to split one event across reads or pack
// several into one, so the decoder buffers an incomplete trailing line
// until more input arrives or the stream ends.
package stream

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
)

// EventType identifies the type of a decoded stream event.
type EventType string

const (
	// EventChunk carries one text fragment of the reply.
	EventChunk EventType = "chunk"
	// EventDone marks successful completion of the stream.
	EventDone EventType = "done"
	// EventError marks stream failure, server-reported or synthesized.
	EventError EventType = "error"
)

// Event is one decoded server-sent event.
type Event struct {
	Type EventType `json:"type"`

	// Delta is the text fragment for chunk events.
	Delta string `json:"delta,omitempty"`

	// FullText optionally carries the complete reply on done events.
	FullText string `json:"fullText,omitempty"`

	// Error is the failure message for error events.
	Error string `json:"error,omitempty"`
}

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

// dataPrefix introduces an SSE payload line.
const dataPrefix = "data:"

// Decoder reassembles raw transport chunks into discrete events.
// Feed it chunks as they arrive, then Close it when the transport ends.
// After a terminal event has been decoded, further input is ignored:
// the producer is expected to stop sending, but the decoder does not
// depend on that.
type Decoder struct {
	buf      strings.Builder
	terminal bool
}

// Feed appends a raw chunk and returns the events it completed.
func (d *Decoder) Feed(chunk string) []Event {
	if d.terminal {
		return nil
	}
	d.buf.WriteString(chunk)

	data := d.buf.String()
	lastNL := strings.LastIndexByte(data, '\n')
	if lastNL == -1 {
		return nil
	}

	// Retain the incomplete trailing line for the next chunk.
	complete := data[:lastNL]
	rest := data[lastNL+1:]
	d.buf.Reset()
	d.buf.WriteString(rest)

	var events []Event
	for _, line := range strings.Split(complete, "\n") {
		ev, ok := d.decodeLine(line)
		if !ok {
			continue
		}
		events = append(events, ev)
		if ev.Terminal() {
			d.terminal = true
			break
		}
	}
	return events
}

// Close ends the stream. Any buffered trailing line is decoded first.
// If the transport ended without a terminal event, a synthetic error
// event is returned so callers can treat "stream closed early"
// identically to an explicit server error.
func (d *Decoder) Close() []Event {
	if d.terminal {
		return nil
	}

	var events []Event
	if line := d.buf.String(); line != "" {
		d.buf.Reset()
		if ev, ok := d.decodeLine(line); ok {
			events = append(events, ev)
			if ev.Terminal() {
				d.terminal = true
				return events
			}
		}
	}

	d.terminal = true
	events = append(events, Event{
		Type:  EventError,
		Error: "stream closed before completion",
	})
	return events
}

// decodeLine parses a single "data: <json>" line. Malformed lines are
// dropped with a warning so one bad event cannot abort the stream.
func (d *Decoder) decodeLine(line string) (Event, bool) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return Event{}, false
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return Event{}, false
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if payload == "" {
		return Event{}, false
	}

	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		slog.Warn("dropping malformed stream event", "error", err, "payload_len", len(payload))
		return Event{}, false
	}
	switch ev.Type {
	case EventChunk, EventDone, EventError:
		return ev, true
	default:
		slog.Warn("dropping stream event with unknown type", "type", string(ev.Type))
		return Event{}, false
	}
}

// Decode reads the transport until a terminal event or EOF, calling emit
// for each decoded event. Read errors are converted into a synthetic
// error event rather than returned, per the partial-failure contract.
func Decode(r io.Reader, emit func(Event)) {
	var d Decoder
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, ev := range d.Feed(string(buf[:n])) {
				emit(ev)
				if ev.Terminal() {
					return
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				slog.Warn("stream transport error", "error", err)
			}
			for _, ev := range d.Close() {
				emit(ev)
			}
			return
		}
	}
}
