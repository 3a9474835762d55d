// Package email sends HTML mails through Postmark, or writes them to disk
// during development.
package email

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/a-h/templ"
)

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one mail with an HTML body.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Tag     string
}

// Validate checks addresses and that subject and body are present.
func (m Message) Validate() error {
	if _, err := mail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("%w: recipient %q: %v", ErrInvalidMessage, m.To, err)
	}
	if m.From != "" {
		if _, err := mail.ParseAddress(m.From); err != nil {
			return fmt.Errorf("%w: sender %q: %v", ErrInvalidMessage, m.From, err)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: empty subject", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.HTML) == "" {
		return fmt.Errorf("%w: empty body", ErrInvalidMessage)
	}
	return nil
}

// NewFromConfig picks the backend described by cfg.
func NewFromConfig(cfg Config) (Sender, error) {
	if !cfg.Enabled {
		return NoopSender{}, nil
	}
	switch strings.ToLower(cfg.Driver) {
	case "postmark":
		return NewPostmarkSender(cfg)
	case "dev", "":
		return NewDevSender(cfg.DevDir, cfg.From), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, cfg.Driver)
	}
}

// NoopSender drops every message.
type NoopSender struct{}

func (NoopSender) Send(context.Context, Message) error { return nil }

// Render renders a templ component into a string for Message.HTML.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
