package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender writes each message as an .eml file that any mail client opens.
type DevSender struct {
	dir  string
	from string
	now  func() time.Time
}

// NewDevSender writes messages into dir, using from when a message has none.
func NewDevSender(dir, from string) *DevSender {
	return &DevSender{dir: dir, from: from, now: time.Now}
}

func (d *DevSender) Send(_ context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = d.from
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	if msg.Tag != "" {
		fmt.Fprintf(&b, "X-Tag: %s\r\n", msg.Tag)
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTML)

	name := fmt.Sprintf("%s_%s.eml", now.Format("2006_01_02_150405.000000"), fileSafe(msg.Subject))
	if err := os.WriteFile(filepath.Join(d.dir, name), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendEmail, err)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func fileSafe(s string) string {
	s = unsafeChars.ReplaceAllString(strings.ReplaceAll(s, " ", "_"), "")
	if len(s) > 80 {
		s = s[:80]
	}
	if s == "" {
		return "mail"
	}
	return strings.ToLower(s)
}
