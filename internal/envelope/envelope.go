// Package envelope reconstructs the structured reply payload from
// streamed text.
//
// The backend's full reply is expected to be a JSON object
// {"response": "<text>", "buttons": [...]}, but during streaming only a
// prefix of the serialized JSON is available at any moment. LiveText
// trades strict correctness for responsiveness, scraping the best
// available human-readable text out of the incomplete document;
// Finalize trades it back, making one authoritative parse at the end
// and degrading to raw text rather than losing the turn.
package envelope

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/quillmail/quill/internal/conversation"
)

// Envelope is the parsed final reply payload.
type Envelope struct {
	Content string

	// SuggestedActions is nil when the reply carried no buttons field,
	// and empty (non-nil) when it carried an empty one.
	SuggestedActions []conversation.SuggestedAction
}

// The scraping is deliberately bounded to the single known field shape;
// anything it cannot match falls back to showing text rather than
// nothing.
var (
	// closedFieldRe matches a complete "response" string field.
	closedFieldRe = regexp.MustCompile(`"response"\s*:\s*"((?:[^"\\]|\\.)*)"`)

	// openFieldRe matches a "response" field whose closing quote has not
	// arrived yet, tolerating a trailing half-finished escape.
	openFieldRe = regexp.MustCompile(`"response"\s*:\s*"((?:[^"\\]|\\.)*)\\?$`)
)

// envelopeOpening is the compacted prefix of a well-formed envelope up
// to the start of the response value.
const envelopeOpening = `{"response":"`

// LiveText returns the best-available display text for an accumulated,
// possibly incomplete, reply.
//
// Input that does not look like the start of a JSON object is returned
// verbatim (plain-text backends). For JSON-looking input, a complete
// response field wins, then a still-open one; while the envelope header
// itself is still assembling, the result is empty rather than raw JSON
// so that displayed text only ever grows. Anything else falls back to
// the accumulated text so the user never watches a blank bubble while
// data is arriving.
func LiveText(accumulated string) string {
	trimmed := strings.TrimSpace(accumulated)
	if !strings.HasPrefix(trimmed, "{") {
		return accumulated
	}

	if m := closedFieldRe.FindStringSubmatch(trimmed); m != nil {
		return unescape(m[1])
	}
	if m := openFieldRe.FindStringSubmatch(trimmed); m != nil {
		return unescape(m[1])
	}
	if strings.HasPrefix(envelopeOpening, compactWhitespace(trimmed)) {
		return ""
	}
	return accumulated
}

// Finalize parses the complete accumulated reply into an Envelope.
// A reply that is not valid JSON, or that lacks a response field,
// degrades to raw text with no suggested actions. Finalize never fails.
func Finalize(accumulated string) Envelope {
	var parsed struct {
		Response *string                        `json:"response"`
		Buttons  []conversation.SuggestedAction `json:"buttons"`
	}
	if err := json.Unmarshal([]byte(accumulated), &parsed); err != nil || parsed.Response == nil {
		return Envelope{Content: accumulated}
	}
	return Envelope{
		Content:          *parsed.Response,
		SuggestedActions: parsed.Buttons,
	}
}

// unescape decodes the JSON string escapes that appear in streamed
// reply text: \n \r \t \" and \\. An escape cut off by the chunk
// boundary is dropped rather than shown half-decoded.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			break
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func compactWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
