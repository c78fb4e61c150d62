package mailer

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer writes links to the log instead of sending mail. Used when
// SMTP_HOST is unset.
type ConsoleMailer struct {
	log   *zap.Logger
	links Links
}

func NewConsoleMailer(log *zap.Logger, links Links) *ConsoleMailer {
	return &ConsoleMailer{log: log.Named("mailer"), links: links}
}

func (m *ConsoleMailer) SendVerification(_ context.Context, email, token string) error {
	m.print(email, m.links.verification(token))
	return nil
}

func (m *ConsoleMailer) SendEmailChangeConfirmation(_ context.Context, email, token string) error {
	m.print(email, m.links.emailChange(token))
	return nil
}

func (m *ConsoleMailer) SendPasswordChange(_ context.Context, email, token string) error {
	m.print(email, m.links.passwordChange(token))
	return nil
}

func (m *ConsoleMailer) print(to string, msg message) {
	m.log.Info("dev email",
		zap.String("to", to),
		zap.String("subject", msg.subject),
		zap.String("link", msg.link),
	)
}
