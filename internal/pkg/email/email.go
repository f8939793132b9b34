package email

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendWelcomeEmail(toEmail, toName string) error
	SendPasswordResetEmail(toEmail, toName, resetURL string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	// Without SMTP credentials just log the email (development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("toName", toName).
			Msg("SMTP credentials not configured - welcome email not sent.")
		return nil
	}
	subject := "Welcome to Trek Tours!"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to Trek Tours!</h2>
				<p>Hello %s,</p>
				<p>Your account is ready. Log in to browse our tours and book your next adventure.</p>

				<p>Best regards,<br>The Trek Tours Team</p>
			</div>
		</body>
		</html>
	`, toName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends the reset link for the password-reset flow.
// The link stays valid for ten minutes.
func (s *EmailServiceImpl) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	// Without SMTP credentials just log the reset URL (development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("resetURL", resetURL).
			Msg("SMTP credentials not configured - reset email not sent. Use the URL above for testing.")
		return nil
	}
	subject := "Your password reset token (valid for 10 minutes)"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Forgot your password?</h2>
				<p>Hello %s,</p>
				<p>Submit a PATCH request with your new password and passwordConfirm to:</p>

				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #55c57a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
				</div>

				<p>This link will expire in 10 minutes.</p>

				<p>If you didn't forget your password, please ignore this email.</p>

				<p>Best regards,<br>The Trek Tours Team</p>
			</div>
		</body>
		</html>
	`, toName, resetURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
