// Package mailer sends the account lifecycle emails (verification
// codes and password reset codes) over SMTP.  Send failures are
// returned to the caller: registration and forgot-password both
// fail the whole request when the email cannot be delivered, so the
// user is never left waiting for a code that was silently dropped.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer wraps an SMTP dialer with the configured sender address.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New returns a Mailer for the given SMTP endpoint.
func New(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendVerificationCode emails the 6-digit verification code issued
// at registration.
func (m *Mailer) SendVerificationCode(to, code string) error {
	body := fmt.Sprintf(`<h1>Welcome to UniHub!</h1>
<p>Thank you for registering. Please verify your email address by entering the following code:</p>
<h2>%s</h2>
<p>This code will expire in 24 hours.</p>
<p>If you didn't request this verification, please ignore this email.</p>`, code)
	return m.send(to, "Email Verification - UniHub", body)
}

// SendResetCode emails the password reset code.
func (m *Mailer) SendResetCode(to, code string) error {
	body := fmt.Sprintf(`<h1>Password Reset - UniHub</h1>
<p>Enter the following code to reset your password:</p>
<h2>%s</h2>
<p>This code will expire in 1 hour.</p>
<p>If you didn't request a password reset, please ignore this email.</p>`, code)
	return m.send(to, "Password Reset - UniHub", body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}
