package services

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/config"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks SMTP when SMTP_HOST is set and logs messages otherwise.
func NewMailer(cfg *config.Config, logger *zap.Logger) Mailer {
	if cfg.SMTPEnabled() {
		return &SMTPMailer{
			addr: cfg.SMTPHost + ":" + strconv.Itoa(cfg.SMTPPort),
			host: cfg.SMTPHost,
			user: cfg.SMTPUsername,
			pass: cfg.SMTPPassword,
			from: cfg.EmailFrom,
		}
	}
	return &LogMailer{logger: logger}
}

type SMTPMailer struct {
	addr string
	host string
	user string
	pass string
	from string
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(m.addr, auth, m.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	logger *zap.Logger
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email not sent (SMTP not configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

func verificationMessage(frontendURL, to, name, token string) Message {
	link := frontendURL + "/verify-email?token=" + url.QueryEscape(token)
	return Message{
		To:      to,
		Subject: "Verify your email",
		Body: fmt.Sprintf("Hi %s,\n\nConfirm your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours.\n",
			displayName(name), link),
	}
}

func resetMessage(frontendURL, to, name, token string) Message {
	link := frontendURL + "/reset-password?token=" + url.QueryEscape(token)
	return Message{
		To:      to,
		Subject: "Reset your password",
		Body: fmt.Sprintf("Hi %s,\n\nSomeone asked to reset the password for this account. If it was you, open:\n\n%s\n\nThe link expires in 1 hour. Otherwise ignore this email.\n",
			displayName(name), link),
	}
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
