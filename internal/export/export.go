// Package export renders a conversation transcript to a standalone HTML
// document.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/quillmail/quill/internal/conversation"
)

// pageTemplate is the embedded HTML shell for exported transcripts.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
.turn { margin: 1rem 0; padding: 0.75rem 1rem; border-radius: 8px; }
.user { background: #eef2ff; }
.assistant { background: #f3f4f6; }
.role { font-size: 0.8rem; color: #6b7280; margin-bottom: 0.25rem; }
.actions { font-size: 0.85rem; color: #6b7280; margin-top: 0.5rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Turns}}<div class="turn {{.Role}}">
<div class="role">{{.Role}} &middot; {{.Timestamp}}</div>
{{.Body}}
{{if .Actions}}<div class="actions">Suggested: {{.Actions}}</div>{{end}}
</div>
{{end}}</body>
</html>
`

// pageData is passed to the HTML template.
type pageData struct {
	Title string
	Turns []turnData
}

type turnData struct {
	Role      string
	Timestamp string
	Body      template.HTML
	Actions   string
}

// Exporter renders transcripts to HTML.
type Exporter struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// New creates a transcript exporter. Message bodies are treated as
// Markdown, with tables and autolinks enabled.
func New() (*Exporter, error) {
	tmpl, err := template.New("transcript").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &Exporter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Linkify,
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
		tmpl: tmpl,
	}, nil
}

// Render produces the HTML document for a transcript.
func (e *Exporter) Render(title string, msgs []conversation.Message) ([]byte, error) {
	data := pageData{Title: title}
	for _, m := range msgs {
		var body bytes.Buffer
		if err := e.md.Convert([]byte(m.Content), &body); err != nil {
			return nil, fmt.Errorf("rendering message %s: %w", m.ID, err)
		}
		var actions string
		for i, a := range m.SuggestedActions {
			if i > 0 {
				actions += ", "
			}
			actions += a.Label
		}
		data.Turns = append(data.Turns, turnData{
			Role:      string(m.Role),
			Timestamp: m.Timestamp.Format("2006-01-02 15:04"),
			Body:      template.HTML(body.String()),
			Actions:   actions,
		})
	}

	var out bytes.Buffer
	if err := e.tmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return out.Bytes(), nil
}

// WriteFile renders a transcript and writes it to path.
func (e *Exporter) WriteFile(path, title string, msgs []conversation.Message) error {
	data, err := e.Render(title, msgs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
