package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	cfg   SMTPConfig
	links Links
	auth  smtp.Auth
	send  sendFunc
	now   func() time.Time
}

func NewSMTPMailer(cfg SMTPConfig, links Links) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		cfg:   cfg,
		links: links,
		auth:  auth,
		send:  smtp.SendMail,
		now:   time.Now,
	}
}

func (m *SMTPMailer) SendVerification(ctx context.Context, email, token string) error {
	return m.deliver(ctx, email, m.links.verification(token))
}

func (m *SMTPMailer) SendEmailChangeConfirmation(ctx context.Context, email, token string) error {
	return m.deliver(ctx, email, m.links.emailChange(token))
}

func (m *SMTPMailer) SendPasswordChange(ctx context.Context, email, token string) error {
	return m.deliver(ctx, email, m.links.passwordChange(token))
}

func (m *SMTPMailer) deliver(ctx context.Context, to string, msg message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, m.auth, m.cfg.FromAddress, []string{to}, m.compose(to, msg)); err != nil {
		return fmt.Errorf("send %q mail: %w", msg.subject, err)
	}
	return nil
}

func (m *SMTPMailer) compose(to string, msg message) []byte {
	link := html.EscapeString(msg.link)

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", m.cfg.FromName), m.cfg.FromAddress)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.subject))
	fmt.Fprintf(&b, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	fmt.Fprintf(&b, "<p>%s</p>\r\n", html.EscapeString(msg.intro))
	fmt.Fprintf(&b, "<a href=\"%s\">%s</a>\r\n", link, link)
	fmt.Fprintf(&b, "<p>This link will expire in %s.</p>\r\n", m.links.expiry())
	return b.Bytes()
}
