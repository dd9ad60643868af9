package notifications

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"text/template"
	"time"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPNotifier struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

var resetMail = template.Must(template.New("reset").Parse(
	"From: {{.From}}\r\n" +
		"To: {{.To}}\r\n" +
		"Subject: Password reset request\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		"Hello {{.Name}},\r\n\r\n" +
		"To reset your password, visit the following link:\r\n\r\n" +
		"{{.URL}}\r\n\r\n" +
		"The link expires at {{.Expires}}.\r\n" +
		"If you did not make this request, simply ignore this email.\r\n",
))

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, in PasswordResetInput) error {
	var body bytes.Buffer

	err := resetMail.Execute(&body, map[string]string{
		"From":    n.cfg.From,
		"To":      in.Email,
		"Name":    in.Name,
		"URL":     in.ResetURL,
		"Expires": in.ExpiresAt.UTC().Format(time.RFC1123),
	})
	if err != nil {
		return fmt.Errorf("render reset mail: %w", err)
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))

	// net/smtp has no context support; run it aside and honour cancellation.
	done := make(chan error, 1)
	go func() {
		done <- n.send(addr, auth, n.cfg.From, []string{in.Email}, body.Bytes())
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
