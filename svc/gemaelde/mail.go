package gemaelde

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/acme/gemaelde/pkg/email"
)

// MailNotifier announces new paintings by mail.
type MailNotifier struct {
	sender email.Sender
	from   string
	to     string
}

var _ Notifier = (*MailNotifier)(nil)

// NewMailNotifier sends to the recipient to. An empty from leaves the
// sender address to the mail backend.
func NewMailNotifier(sender email.Sender, from, to string) *MailNotifier {
	return &MailNotifier{sender: sender, from: from, to: to}
}

// Created sends "Neues Gemaelde <id>".
func (n *MailNotifier) Created(ctx context.Context, g Gemaelde) error {
	body, err := email.Render(ctx, createdMail(g.Titel))
	if err != nil {
		return fmt.Errorf("gemaelde: render mail: %w", err)
	}
	return n.sender.Send(ctx, email.Message{
		From:    n.from,
		To:      n.to,
		Subject: "Neues Gemaelde " + g.ID,
		HTML:    body,
		Tag:     "gemaelde-created",
	})
}

// createdMail renders the mail body; titel is escaped by templ.
func createdMail(titel string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			"Das Gemaelde mit dem Titel <strong>"+templ.EscapeString(titel)+"</strong> ist angelegt")
		return err
	})
}
