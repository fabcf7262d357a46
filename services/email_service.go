// services/email_service.go
package services

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer dispatches a formatted message to a recipient. It reports success
// or failure only; retry policy belongs to the caller.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through the configured SMTP relay
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPMailer builds a mailer from the SMTP_* environment variables
func NewSMTPMailer() (*SMTPMailer, error) {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("FROM_EMAIL")

	if host == "" || portStr == "" || user == "" || pass == "" || from == "" {
		return nil, fmt.Errorf("missing SMTP configuration")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port: %v", err)
	}

	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}, nil
}

// Send dispatches a single HTML email
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// OTPEmailSubject is the subject line of verification code emails
const OTPEmailSubject = "Your SHIFT Verification Code"

// OTPEmailBody renders the verification code email
func OTPEmailBody(fullName, code string) string {
	return fmt.Sprintf(`
		<html>
		<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5; margin: 0; padding: 20px;">
			<div style="max-width: 480px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; padding: 40px;">
				<h1 style="color: #1a1a1a; font-size: 24px; margin-bottom: 8px; text-align: center;">Welcome to SHIFT</h1>
				<p style="color: #666666; font-size: 16px; text-align: center; margin-bottom: 32px;">Hi %s, here's your verification code:</p>
				<div style="background-color: #f0f9ff; border-radius: 8px; padding: 24px; text-align: center; margin-bottom: 24px;">
					<span style="font-size: 36px; font-weight: bold; color: #0ea5e9; letter-spacing: 8px;">%s</span>
				</div>
				<p style="color: #888888; font-size: 14px; text-align: center; margin-bottom: 0;">This code expires in 10 minutes.</p>
				<p style="color: #888888; font-size: 14px; text-align: center;">If you didn't request this code, please ignore this email.</p>
			</div>
		</body>
		</html>
	`, fullName, code)
}

// ApplicationEmailSubject is the subject line of application confirmations
const ApplicationEmailSubject = "Your SHIFT Housing Application"

// ApplicationEmailBody renders the application confirmation email
func ApplicationEmailBody(fullName, reference, governorate, housingType string) string {
	return fmt.Sprintf(`
		<html>
		<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5; margin: 0; padding: 20px;">
			<div style="max-width: 480px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; padding: 40px;">
				<h1 style="color: #1a1a1a; font-size: 24px; margin-bottom: 8px; text-align: center;">Application Received</h1>
				<p style="color: #666666; font-size: 16px;">Hello %s,</p>
				<p style="color: #666666; font-size: 16px;">We received your housing application for a %s in %s. Your reference number is:</p>
				<div style="background-color: #f0f9ff; border-radius: 8px; padding: 16px; text-align: center; margin: 24px 0;">
					<span style="font-size: 20px; font-weight: bold; color: #0ea5e9;">%s</span>
				</div>
				<p style="color: #888888; font-size: 14px;">Our team will contact you with available options. Keep the reference number for any follow-up.</p>
				<p style="color: #888888; font-size: 14px;">The SHIFT Team</p>
			</div>
		</body>
		</html>
	`, fullName, housingType, governorate, reference)
}
