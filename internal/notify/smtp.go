package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPSender(host string, port int, user, password, from, fromName string) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(host, port, user, password),
		from:     from,
		fromName: fromName,
	}
}

func (s *SMTPSender) Send(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", s.fromName, s.from))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
