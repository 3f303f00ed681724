package mailer

import (
	"context"
	"fmt"

	"medcare-api/config"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// SMTPMailer sends plain-text mail through an authenticated SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
	log    *logrus.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, log *logrus.Logger) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From, log: log}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg, err := buildMessage(m.from, to, subject, body)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.Warnf("Failed to send mail to %s: %+v", to, err)
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.log.Infof("Mail %q sent to %s", subject, to)
	return nil
}

func buildMessage(from, to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}
