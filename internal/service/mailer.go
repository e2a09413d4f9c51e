// Package service holds the outbound collaborators of the back office: the
// reset-link mailer, the image store, and the audit event publisher.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Mailer delivers a message to a single recipient.  The reset flow depends
// on delivery, so implementations must report failure rather than swallow
// it; an undelivered reset link is a failed reset request.
type Mailer interface {
	Send(ctx context.Context, to, subject, plainBody, htmlBody string) error
}

// SendGridMailer implements Mailer on the SendGrid v3 API.
type SendGridMailer struct {
	key  string
	from string
}

// NewSendGridMailer builds a mailer from an API key and sender address.
func NewSendGridMailer(key, from string) (*SendGridMailer, error) {
	if key == "" || from == "" {
		return nil, fmt.Errorf("sendgrid: key and from address are required")
	}
	return &SendGridMailer{key: key, from: from}, nil
}

// Send submits one message and fails on any non-2xx response.
func (m *SendGridMailer) Send(ctx context.Context, to, subject, plainBody, htmlBody string) error {
	from := mail.NewEmail("Kennel Back Office", m.from)
	rcpt := mail.NewEmail("", to)
	msg := mail.NewSingleEmail(from, subject, rcpt, plainBody, htmlBody)

	client := sendgrid.NewSendClient(m.key)
	sctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := client.SendWithContext(sctx, msg)
	if err != nil {
		logrus.WithError(err).Warn("mailer: send failed")
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("mailer: unexpected status %d", resp.StatusCode)
		logrus.WithField("status", resp.StatusCode).Warn("mailer: send rejected")
		return err
	}
	return nil
}
