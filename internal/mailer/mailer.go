// Package mailer sends the benchmark report as a multipart email.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// DefaultPort is the SMTP submission port.
const DefaultPort = 587

// Mailer sends reports through an authenticated SMTP relay with STARTTLS.
type Mailer struct {
	Server   string
	Port     int
	Sender   string
	Password string
}

// New creates a mailer for the given relay. The sender address doubles as
// the SMTP username.
func New(server, sender, password string) *Mailer {
	return &Mailer{
		Server:   server,
		Port:     DefaultPort,
		Sender:   sender,
		Password: password,
	}
}

// Send delivers a multipart message with a plain text body and an optional
// HTML alternative. Errors are fatal to the pipeline; there is no retry.
func (m *Mailer) Send(ctx context.Context, recipients []string, subject, plain, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.Sender); err != nil {
		return fmt.Errorf("mailer: invalid sender %q: %w", m.Sender, err)
	}
	if err := msg.To(recipients...); err != nil {
		return fmt.Errorf("mailer: invalid recipients %v: %w", recipients, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, plain)
	if html != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, html)
	}

	client, err := mail.NewClient(m.Server,
		mail.WithPort(m.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.Sender),
		mail.WithPassword(m.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("mailer: client setup: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send via %s: %w", m.Server, err)
	}
	return nil
}
