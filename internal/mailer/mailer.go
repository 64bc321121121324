// Package mailer sends transactional email over SMTP. Only one message
// exists today: the password-reset link. When SMTP credentials are not
// configured, messages are logged instead of sent so that local
// development does not require a mail account.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// Config holds SMTP connection settings, loaded from the environment once
// at startup.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

// LoadConfig reads SMTP settings from environment variables. Username and
// password may be empty, in which case the mailer runs in mock mode.
func LoadConfig() Config {
	return Config{
		Host:     getenv("SMTP_HOST", "smtp.gmail.com"),
		Port:     getenv("SMTP_PORT", "587"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		FromName: getenv("SMTP_FROM_NAME", "No Reply"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Mailer sends email through a single SMTP account.
type Mailer struct{ cfg Config }

func New(cfg Config) *Mailer { return &Mailer{cfg: cfg} }

// configured reports whether real SMTP delivery is possible.
func (m *Mailer) configured() bool {
	return m.cfg.Host != "" && m.cfg.Port != "" && m.cfg.Username != "" && m.cfg.Password != ""
}

// SendPasswordReset delivers the reset link to the given address. The link
// embeds the raw reset token and expires one hour after issuance; the body
// says so. Errors are returned so the caller can decide whether delivery
// failure should fail the request.
func (m *Mailer) SendPasswordReset(to, resetLink string) error {
	resetLink = strings.ReplaceAll(strings.TrimSpace(resetLink), "\r\n", " ")
	if !m.configured() {
		log.Printf("[MOCK EMAIL] password reset to:%s link:%s", to, resetLink)
		return nil
	}

	from := fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.Username)
	subject := "Password Reset"
	boundary := "----=_RESET_EMAIL_BOUNDARY"

	plainBody := fmt.Sprintf(
		"You requested a password reset.\n\n"+
			"Open the link below to choose a new password. This link expires in 1 hour.\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n",
		resetLink,
	)

	htmlBody := fmt.Sprintf(
		"<p>You requested a password reset.</p>\n"+
			"<p>Click <a href=\"%s\">here</a> to reset your password. This link expires in 1 hour.</p>\n"+
			"<p>If you did not request this, you can ignore this email.</p>\n",
		resetLink,
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.Username, []string{to}, []byte(sb.String())); err != nil {
		log.Printf("mailer: failed to send reset email to %s: %v", to, err)
		return err
	}
	return nil
}
