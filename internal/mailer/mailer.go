package mailer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/config"
	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("no recipients specified")

// Email is a single outgoing message. When both bodies are set the message is
// multipart/alternative with HTMLBody last, the part clients prefer.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Sender delivers email.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// New returns an SMTP sender when SMTP_HOST is configured, otherwise a sender
// that only logs.
func New(cfg *config.Config) Sender {
	if !cfg.SMTPEnabled() {
		slog.Warn("SMTP_HOST not set, outgoing mail will only be logged")
		return LogSender{}
	}
	return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
}

type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		from:   from,
		dialer: gomail.NewDialer(host, port, username, password),
	}
}

func (m *SMTPSender) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.dialer.DialAndSend(buildMessage(m.from, email))
}

func buildMessage(from string, email Email) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	switch {
	case email.Body != "" && email.HTMLBody != "":
		msg.SetBody("text/plain", email.Body)
		msg.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		msg.SetBody("text/html", email.HTMLBody)
	default:
		msg.SetBody("text/plain", email.Body)
	}
	return msg
}

// LogSender records that a message was dropped. Bodies carry live tokens and
// are never logged.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipients
	}
	slog.InfoContext(ctx, "mail not delivered, SMTP disabled",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}
