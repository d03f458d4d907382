package notify

import (
	"fmt"
	"net/smtp"
)

// Mailer sends ticket emails over plain SMTP.
type Mailer struct {
	addr     string // host:port
	host     string
	from     string
	password string
}

func NewMailer(addr, host, from, password string) *Mailer {
	return &Mailer{
		addr:     addr,
		host:     host,
		from:     from,
		password: password,
	}
}

// SendTicket mails the registration code issued for a booking.
func (m *Mailer) SendTicket(msg BookingMessage) error {
	subject := fmt.Sprintf("Your ticket for %s", msg.EventTitle)
	body := fmt.Sprintf(
		"Hi,\n\nYour booking for %q is confirmed.\nRegistration code: %s\n\nPresent this code at check-in.",
		msg.EventTitle, msg.RegistrationCode,
	)

	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, msg.Email, subject, body,
	)

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	if err := smtp.SendMail(m.addr, auth, m.from, []string{msg.Email}, []byte(payload)); err != nil {
		return fmt.Errorf("send ticket email: %w", err)
	}
	return nil
}
