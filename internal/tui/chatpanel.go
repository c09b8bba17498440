package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/muesli/reflow/wordwrap"

	"github.com/quillmail/quill/internal/conversation"
)

// spinnerFrames animate the in-flight assistant bubble.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ChatPanel displays the conversation transcript.
type ChatPanel struct {
	messages []conversation.Message
	width    int
	height   int
	viewport viewport.Model
	ready    bool

	// streaming marks the transcript as having an in-flight reply so an
	// empty trailing assistant bubble renders a spinner.
	streaming    bool
	spinnerFrame int
}

// NewChatPanel creates a new transcript panel.
func NewChatPanel() ChatPanel {
	return ChatPanel{}
}

// SetSize updates the component dimensions.
func (p *ChatPanel) SetSize(width, height int) {
	p.width = width
	p.height = height

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	if !p.ready {
		p.viewport = viewport.New(width, height)
		p.ready = true
	} else {
		p.viewport.Width = width
		p.viewport.Height = height
	}
	p.updateContent()
}

// SetMessages replaces the transcript.
func (p *ChatPanel) SetMessages(msgs []conversation.Message) {
	p.messages = msgs
	p.updateContent()

	// Follow the stream unless the user scrolled away.
	if p.viewport.AtBottom() || p.viewport.YOffset >= p.viewport.TotalLineCount()-p.viewport.Height-5 {
		p.viewport.GotoBottom()
	}
}

// SetStreaming toggles the in-flight spinner.
func (p *ChatPanel) SetStreaming(streaming bool) {
	if p.streaming != streaming {
		p.streaming = streaming
		p.updateContent()
	}
}

// Tick advances the spinner animation.
func (p *ChatPanel) Tick() {
	if p.streaming {
		p.spinnerFrame = (p.spinnerFrame + 1) % len(spinnerFrames)
		p.updateContent()
	}
}

// PageUp scrolls up by one page.
func (p *ChatPanel) PageUp() {
	p.viewport.ViewUp()
}

// PageDown scrolls down by one page.
func (p *ChatPanel) PageDown() {
	p.viewport.ViewDown()
}

// updateContent refreshes the viewport from the transcript.
func (p *ChatPanel) updateContent() {
	if !p.ready {
		return
	}

	var blocks []string
	for i, msg := range p.messages {
		blocks = append(blocks, p.renderMessage(msg, i == len(p.messages)-1))
	}
	p.viewport.SetContent(strings.Join(blocks, "\n\n"))
}

// renderMessage renders one transcript bubble.
func (p *ChatPanel) renderMessage(msg conversation.Message, last bool) string {
	var label string
	switch msg.Role {
	case conversation.RoleUser:
		label = chatUserStyle.Render("You")
	case conversation.RoleAssistant:
		label = chatAssistantStyle.Render("Assistant")
	default:
		label = string(msg.Role)
	}

	header := label + " " + chatTimeStyle.Render(msg.Timestamp.Format("15:04"))

	content := msg.Content
	if content == "" && last && p.streaming {
		content = spinnerFrames[p.spinnerFrame] + " thinking..."
	}

	wrapWidth := p.width - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}
	return header + "\n" + wordwrap.String(content, wrapWidth)
}

// View renders the panel.
func (p ChatPanel) View() string {
	if len(p.messages) == 0 {
		return chatEmptyStyle.Width(p.width).Height(p.height).Render("No messages yet")
	}
	return p.viewport.View()
}
