// Package email renders and delivers transactional email.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Sender sends transactional emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message represents an email to send.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// SMTPConfig configures an SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)}
}

// Send delivers msg. gomail has no context support, so the dial runs in a
// goroutine and Send returns early when ctx is done.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			m.AddAlternative("text/html", msg.HTML)
		}
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		// The dial keeps running and may still deliver. The caller then
		// stores nothing, so the emailed token verifies as NOT_FOUND.
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

// LogSender logs emails instead of sending them. Used when no SMTP relay is
// configured.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log}
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	l.log.InfoContext(ctx, "email not delivered (log sender)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Text),
	)
	return nil
}
