package mailer

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"crm-backend/internal/config"
)

// Mailer is the outbound email capability. Registration treats a send
// failure as fatal; the post-verification welcome email is best-effort.
type Mailer interface {
	Send(to, subject, html string) error
}

type SMTPMailer struct {
	cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, html string) error {
	if m.cfg.SMTPHost == "" || m.cfg.SMTPUser == "" {
		return fmt.Errorf("smtp config missing")
	}

	from := m.cfg.FromEmail
	if from == "" {
		from = m.cfg.SMTPUser
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", from, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}
