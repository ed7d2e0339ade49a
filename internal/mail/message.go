package mail

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jhillyerd/enmime"
)

// ErrNoBody is returned when a message has neither an HTML nor a text part.
var ErrNoBody = errors.New("message has no body")

// Message is a parsed MIME email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Body returns the HTML part, or the plain text part when there is no HTML.
func (m *Message) Body() string {
	if m.HTML != "" {
		return m.HTML
	}
	return m.Text
}

// ParseMessage parses a raw RFC 5322 message.
func ParseMessage(raw []byte) (*Message, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("reading envelope: %w", err)
	}

	msg := &Message{
		From:    env.GetHeader("From"),
		To:      env.GetHeader("To"),
		Subject: env.GetHeader("Subject"),
		HTML:    env.HTML,
		Text:    env.Text,
	}
	if msg.Body() == "" {
		return nil, ErrNoBody
	}
	return msg, nil
}

// Parser exposes ParseEvent and ParseMessage as methods for callers that
// take them as injected steps.
type Parser struct{}

// ParseEvent calls the package-level ParseEvent.
func (Parser) ParseEvent(raw []byte) (*Mail, error) {
	return ParseEvent(raw)
}

// ParseMessage calls the package-level ParseMessage.
func (Parser) ParseMessage(raw []byte) (*Message, error) {
	return ParseMessage(raw)
}
