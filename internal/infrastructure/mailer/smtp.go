package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"chatspace/pkg/errors"
	"chatspace/pkg/logger"
)

// SMTPMailer delivers transactional mail. The only message this system sends
// is the password-reset link.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *SMTPMailer) SendPasswordReset(to, resetURL string) error {
	subject := "Your password reset token (valid for 10 minutes)"
	body := fmt.Sprintf(
		"<h1>You have requested a password reset</h1>"+
			"<p>Please follow the link below to choose a new password:</p>"+
			"<a href=%q>%s</a>",
		resetURL, resetURL,
	)

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return errors.Unavailable("Failed to send email", err)
	}

	logger.Debug("Sent password reset mail to %s", to)
	return nil
}
