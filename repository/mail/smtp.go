package mailrepo

import (
	"fmt"
	"net/smtp"
	"strings"
)

type smtpRepo struct {
	host   string
	port   string
	user   string
	pass   string
	sender string
}

// NewSMTP returns a plain SMTP sender. An empty host yields a no-op sender
// so local development works without a mail server.
func NewSMTP(host, port, user, pass, sender string) Repo {
	if host == "" {
		return noopRepo{}
	}
	return &smtpRepo{host: host, port: port, user: user, pass: pass, sender: sender}
}

func (r *smtpRepo) SendPasswordReset(to, resetURL string) error {
	body := strings.Join([]string{
		"From: " + r.sender,
		"To: " + to,
		"Subject: Password Reset",
		"",
		"Click here to reset your password:",
		resetURL,
		"This link expires in 30 minutes.",
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", r.host, r.port)
	auth := smtp.PlainAuth("", r.user, r.pass, r.host)
	if err := smtp.SendMail(addr, auth, r.sender, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

type noopRepo struct{}

func (noopRepo) SendPasswordReset(string, string) error { return nil }
