// Package notify handles outbound email. Delivery is always best effort:
// a failed send is logged and swallowed, it never fails the request that
// triggered it.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
)

// Sender delivers one rendered message, either straight over SMTP or by
// publishing to the mail topic for the mailer worker.
type Sender interface {
	Send(to, subject, html string) error
}

type EmailService struct {
	sender      Sender
	fromName    string
	frontendURL string
	logger      *slog.Logger
}

func NewEmailService(sender Sender, fromName, frontendURL string, logger *slog.Logger) *EmailService {
	return &EmailService{
		sender:      sender,
		fromName:    fromName,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// SendEmail reports whether the message was handed off. It never errors.
func (s *EmailService) SendEmail(to, subject, html string) bool {
	if s == nil || s.sender == nil {
		return false
	}
	if err := s.sender.Send(to, subject, html); err != nil {
		s.logger.Error("failed to send email",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return false
	}
	s.logger.Info("email sent", slog.String("to", to), slog.String("subject", subject))
	return true
}

func (s *EmailService) SendWelcomeEmail(to, name, verificationToken string) bool {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, url.QueryEscape(verificationToken))
	body, err := render(welcomeTemplate, mailData{Name: name, Link: link, AppName: s.fromName})
	if err != nil {
		s.logger.Error("failed to render welcome email", slog.String("error", err.Error()))
		return false
	}
	return s.SendEmail(to, "Verify your email", body)
}

func (s *EmailService) SendPasswordResetEmail(to, name, resetToken string) bool {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, url.QueryEscape(resetToken))
	body, err := render(resetTemplate, mailData{Name: name, Link: link, AppName: s.fromName})
	if err != nil {
		s.logger.Error("failed to render reset email", slog.String("error", err.Error()))
		return false
	}
	return s.SendEmail(to, "Reset your password", body)
}

func (s *EmailService) SendPasswordChangedEmail(to, name string) bool {
	body, err := render(changedTemplate, mailData{Name: name, AppName: s.fromName})
	if err != nil {
		s.logger.Error("failed to render password changed email", slog.String("error", err.Error()))
		return false
	}
	return s.SendEmail(to, "Your password was changed", body)
}

type mailData struct {
	Name    string
	Link    string
	AppName string
}

func render(t *template.Template, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Welcome to {{.AppName}}!</h2>
    <p>Hi {{.Name}},</p>
    <p>Thanks for registering. Please verify your email address by clicking the button below:</p>
    <p><a href="{{.Link}}" style="display:inline-block; padding:12px 30px; background:#667eea; color:#fff; text-decoration:none; border-radius:5px;">Verify Email</a></p>
    <p>Or copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #666;">{{.Link}}</p>
    <p>This link expires in 24 hours.</p>
    <p>If you did not create this account, please ignore this email.</p>
  </div>
</body>
</html>`))

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Reset your password</h2>
    <p>Hi {{.Name}},</p>
    <p>You requested a password reset for your account. Click the button below to choose a new password:</p>
    <p><a href="{{.Link}}" style="display:inline-block; padding:12px 30px; background:#667eea; color:#fff; text-decoration:none; border-radius:5px;">Reset Password</a></p>
    <p>Or copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #666;">{{.Link}}</p>
    <p>This link expires in 1 hour.</p>
    <p>If you did not request this reset, please ignore this email. Your password will remain unchanged.</p>
  </div>
</body>
</html>`))

var changedTemplate = template.Must(template.New("changed").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Password changed</h2>
    <p>Hi {{.Name}},</p>
    <p>Your {{.AppName}} password was just changed and all active sessions were signed out.</p>
    <p>If this was not you, please reset your password immediately.</p>
  </div>
</body>
</html>`))
