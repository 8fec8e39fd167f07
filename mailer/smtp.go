package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTP delivers messages through an authenticated SMTP relay.
type SMTP struct {
	client *mail.Client
	from   string
}

func NewSMTP(host string, port int, username, password, from string) (*SMTP, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return &SMTP{client: client, from: from}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending mail to %s: %w", msg.To, err)
	}
	return nil
}
