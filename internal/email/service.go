package email

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/config"
)

type Service interface {
	SendReceipt(ctx context.Context, to, subject, body string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPService builds a gomail-backed sender. Returns nil when no SMTP
// host is configured; callers treat a nil service as "channel disabled".
func NewSMTPService(cfg config.SMTPConfig) Service {
	if cfg.Host == "" {
		return nil
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendReceipt(_ context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}
