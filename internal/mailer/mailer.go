package mailer

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Mailer delivers email-action links. Delivery is fire-and-forget: a failure
// is reported to the caller once and never retried.
type Mailer interface {
	SendVerification(ctx context.Context, email, token string) error
	SendEmailChangeConfirmation(ctx context.Context, email, token string) error
	SendPasswordChange(ctx context.Context, email, token string) error
}

type message struct {
	subject string
	intro   string
	link    string
}

// Links builds the frontend URLs that carry email-action tokens. TTL is the
// email-action token lifetime quoted in the message body.
type Links struct {
	FrontendURL string
	TTL         time.Duration
}

// expiry renders TTL for humans: "1 hour", "30 minutes", else Duration.String.
func (l Links) expiry() string {
	d := l.TTL
	if d <= 0 {
		d = time.Hour
	}
	switch {
	case d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func (l Links) build(path, token string) string {
	return l.FrontendURL + path + "?token=" + url.QueryEscape(token)
}

func (l Links) verification(token string) message {
	return message{
		subject: "Please verify your email address",
		intro:   "Welcome! Please verify your email by clicking the link below:",
		link:    l.build("/verify-email", token),
	}
}

func (l Links) emailChange(token string) message {
	return message{
		subject: "Confirm your email address change",
		intro:   "You requested to change your email address. To confirm this change, please click the link below:",
		link:    l.build("/change-email", token),
	}
}

func (l Links) passwordChange(token string) message {
	return message{
		subject: "Change your password",
		intro:   "You requested to change your password. To choose a new one, please click the link below:",
		link:    l.build("/change-password", token),
	}
}
