// Package mailer sends transactional emails over SMTP.
package mailer

import (
	"fmt"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"gopkg.in/mail.v2"
)

// Template is an email whose subject and body contain {{1}}, {{2}}, ... placeholders
type Template struct {
	Subject string
	Body    string
}

// Render substitutes positional placeholders with vars
func (t Template) Render(vars ...string) (subject, body string) {
	subject, body = t.Subject, t.Body
	for i, v := range vars {
		placeholder := fmt.Sprintf("{{%d}}", i+1)
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body
}

// Built-in templates
var (
	// ConfirmationTemplate vars: name, confirmation link
	ConfirmationTemplate = Template{
		Subject: "Confirm your email",
		Body:    `<p>Hi {{1}},</p><p>Please confirm your email address by opening <a href="{{2}}">this link</a>.</p>`,
	}
	// CertificateTemplate vars: name, course title, certificate link
	CertificateTemplate = Template{
		Subject: "Your certificate for {{2}}",
		Body:    `<p>Congratulations {{1}}!</p><p>You completed <b>{{2}}</b>. Your certificate is available <a href="{{3}}">here</a>.</p>`,
	}
)

// SMTPMailer sends HTML emails
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers an HTML email to a single recipient
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if err := m.dialer.DialAndSend(m.newMessage(to, subject, htmlBody)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) newMessage(to, subject, htmlBody string) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return msg
}
