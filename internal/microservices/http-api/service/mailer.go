package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"yamdb/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer delivers confirmation codes.
type Mailer interface {
	SendConfirmationCode(ctx context.Context, to, code string) error
}

type smtpMailer struct {
	host     string
	addr     string
	auth     smtp.Auth
	from     string
	useTLS   bool
	implicit bool
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &smtpMailer{
		host:     cfg.SMTPHost,
		addr:     cfg.SMTPHost + ":" + strconv.Itoa(cfg.SMTPPort),
		auth:     auth,
		from:     cfg.MailFrom,
		useTLS:   cfg.SMTPUseTLS,
		implicit: cfg.SMTPPort == 465,
	}
}

func (m *smtpMailer) SendConfirmationCode(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = "YaMDb confirmation code"
	e.Text = []byte(fmt.Sprintf("Your confirmation code: %s\n\nExchange it at POST /api/v1/auth/token.\n", code))

	tlsConfig := &tls.Config{ServerName: m.host, MinVersion: tls.VersionTLS12}
	switch {
	case m.useTLS && m.implicit:
		return e.SendWithTLS(m.addr, m.auth, tlsConfig)
	case m.useTLS:
		return e.SendWithStartTLS(m.addr, m.auth, tlsConfig)
	default:
		return e.Send(m.addr, m.auth)
	}
}
