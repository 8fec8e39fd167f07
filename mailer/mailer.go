// Package mailer sends transactional email. Handlers depend on the
// Mailer interface; the SMTP transport lives in smtp.go and tests swap in
// a recording fake.
package mailer

import (
	"context"
	"fmt"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ResetMessage builds the password reset email. The raw secret appears
// only here and in the recipient's inbox, never in storage or logs.
func ResetMessage(to, resetURL string) Message {
	body := fmt.Sprintf(
		"Forgot your password? Submit a PATCH request with your new password and passwordConfirm to:\n\n%s\n\nIf you didn't forget your password, please ignore this email.",
		resetURL,
	)
	return Message{
		To:      to,
		Subject: "Your password reset token (valid for 10 minutes)",
		Body:    body,
	}
}
