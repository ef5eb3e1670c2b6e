// Package mail sends transactional email over SMTP. Sends are dispatched on
// goroutines by the callers; failures here are logged and never surfaced to
// the request that triggered them.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andklim/contacts-be/internal/config"
)

// Mailer is the confirmation-mail surface the handlers depend on.
type Mailer interface {
	SendConfirmation(email, username, token string)
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	addr    string
	auth    smtp.Auth
	from    string
	baseURL string
}

// NewSMTPMailer builds a mailer from configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPMailer{
		addr:    fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth:    auth,
		from:    cfg.MailFrom,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// SendConfirmation mails the email-confirmation link to a new or
// unconfirmed user.
func (m *SMTPMailer) SendConfirmation(email, username, token string) {
	link := fmt.Sprintf("%s/auth/confirmed_email/%s", m.baseURL, token)
	body := strings.Join([]string{
		"From: " + m.from,
		"To: " + email,
		"Subject: Confirm your email",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		fmt.Sprintf("Hi %s,", username),
		"",
		"Please confirm your email address by opening the link below:",
		link,
		"",
		"The link is valid for 7 days.",
	}, "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, []byte(body)); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to send confirmation email")
		return
	}
	log.Info().Str("email", email).Msg("Confirmation email sent")
}

// SendBirthdayDigest mails a short list of upcoming birthdays to a user.
func (m *SMTPMailer) SendBirthdayDigest(email, username string, lines []string) {
	body := strings.Join(append([]string{
		"From: " + m.from,
		"To: " + email,
		"Subject: Upcoming birthdays this week",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		fmt.Sprintf("Hi %s,", username),
		"",
		"These contacts have birthdays in the next seven days:",
		"",
	}, lines...), "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, []byte(body)); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to send birthday digest")
		return
	}
	log.Info().Str("email", email).Msg("Birthday digest sent")
}
