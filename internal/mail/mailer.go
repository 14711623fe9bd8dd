package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends a single message. Implemented over SMTP in production
// and faked in tests.
type Mailer interface {
	Send(to, subject, body string, isHTML bool) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
	}
}

func (m *SMTPMailer) Send(to, subject, body string, isHTML bool) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)

	if isHTML {
		msg.SetBody("text/html", body)
	} else {
		msg.SetBody("text/plain", body)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}
