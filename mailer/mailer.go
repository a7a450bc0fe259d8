package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/yeremiapane/projectflow/config"
	"github.com/yeremiapane/projectflow/utils"
)

// Sender delivers a plain-text email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns the sender for mail.provider. "none" logs instead of sending.
func New(c config.MailConfig) (Sender, error) {
	switch c.Provider {
	case "none", "":
		return LogSender{}, nil
	case "mailgun":
		return NewMailgunSender(c)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", c.Provider)
	}
}

type MailgunSender struct {
	mg      mailgun.Mailgun
	from    string
	timeout time.Duration
}

func NewMailgunSender(c config.MailConfig) (*MailgunSender, error) {
	if c.Key == "" || c.Domain == "" || c.From == "" {
		return nil, errors.New("invalid mailgun configuration")
	}
	return &MailgunSender{
		mg:      mailgun.NewMailgun(c.Domain, c.Key),
		from:    c.From,
		timeout: 30 * time.Second,
	}, nil
}

func (s *MailgunSender) Send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	message := s.mg.NewMessage(s.from, subject, body, to)
	_, id, err := s.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	utils.InfoLogger.Printf("Email queued: %s", id)
	return nil
}

// LogSender writes emails to the info log.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, subject, _ string) error {
	utils.InfoLogger.Printf("Email to %s skipped (no provider): %s", to, subject)
	return nil
}
