package service

import (
	"bytes"
	"context"
	"html/template"

	"medical-appointment-booking/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type MailService interface {
	SendPasswordReset(ctx context.Context, to, fullName, resetLink string) error
}

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<p>Hello {{.Name}},</p>
<p>We received a request to reset your password. The link below is valid for one hour.</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>If you did not ask for this, you can ignore this email.</p>`))

type passwordResetData struct {
	Name string
	Link string
}

func renderPasswordReset(fullName, resetLink string) (string, error) {
	var buf bytes.Buffer
	if err := passwordResetTemplate.Execute(&buf, passwordResetData{Name: fullName, Link: resetLink}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type smtpMailService struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	log    *logrus.Logger
}

// NewMailService sends through SMTP when configured. Without an SMTP host
// messages are only logged, which keeps local development usable.
func NewMailService(cfg config.SMTPConfig, log *logrus.Logger) MailService {
	if !cfg.Enabled() {
		return &logMailService{log: log}
	}
	return &smtpMailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		log:    log,
	}
}

func (s *smtpMailService) SendPasswordReset(ctx context.Context, to, fullName, resetLink string) error {
	body, err := renderPasswordReset(fullName, resetLink)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Reset your password")
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Warnf("Failed to send password reset email to %s: %+v", to, err)
		return err
	}

	s.log.Infof("Password reset email sent to %s", to)
	return nil
}

type logMailService struct {
	log *logrus.Logger
}

func (s *logMailService) SendPasswordReset(ctx context.Context, to, fullName, resetLink string) error {
	s.log.WithFields(logrus.Fields{
		"to":   to,
		"link": resetLink,
	}).Info("SMTP not configured, password reset email not sent")
	return nil
}
