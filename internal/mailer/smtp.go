package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPTransport sends mail through an authenticated SMTP submission server.
type SMTPTransport struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (t *SMTPTransport) Send(ctx context.Context, m Message) error {
	if t.Password == "" {
		return ErrNotConfigured
	}
	msg, err := t.build(m)
	if err != nil {
		return err
	}

	port := t.Port
	if port == 0 {
		port = 587
	}
	c, err := mail.NewClient(t.Host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithUsername(t.Username),
		mail.WithPassword(t.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (t *SMTPTransport) build(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if err := msg.ReplyTo(m.ReplyTo); err != nil {
		return nil, fmt.Errorf("reply-to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Text)
	msg.AddAlternativeString(mail.TypeTextHTML, m.HTML)
	return msg, nil
}
