// Package mailer delivers meeting summaries over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/jwulff/notesum/internal/api"
	"github.com/jwulff/notesum/internal/apperr"
	"github.com/jwulff/notesum/internal/config"
)

// Mailer sends a summary to a list of recipients.
type Mailer interface {
	Send(ctx context.Context, summary string, recipients []string, subject string) error
}

// smtpAuthFailed is the reply code for rejected credentials.
const smtpAuthFailed = 535

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	cfg  config.SMTPConfig
	send sendFunc
	now  func() time.Time
}

// NewSMTP creates a mailer from cfg. Credentials are checked per send.
func NewSMTP(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

// Send composes and delivers the summary email. Missing credentials yield
// apperr.EmailNotConfigured, a rejected login apperr.EmailAuthFailed, and any
// other delivery failure apperr.EmailFailed.
func (m *SMTPMailer) Send(ctx context.Context, summary string, recipients []string, subject string) error {
	if m.cfg.User == "" || m.cfg.Password == "" {
		return apperr.EmailNotConfigured()
	}
	if subject == "" {
		subject = api.DefaultSubject
	}
	for _, r := range recipients {
		if strings.ContainsAny(r, "\r\n") {
			return apperr.InvalidArgument("Recipient addresses must not contain line breaks")
		}
	}
	if err := ctx.Err(); err != nil {
		return apperr.EmailFailed(err)
	}

	msg := ComposeMessage(m.cfg.User, recipients, subject, BuildBody(summary, subject), m.now())
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, m.cfg.User, recipients, msg); err != nil {
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) && tpErr.Code == smtpAuthFailed {
			return apperr.EmailAuthFailed(err)
		}
		return apperr.EmailFailed(err)
	}
	return nil
}

// BuildBody renders the plain-text email around summary.
func BuildBody(summary, subject string) string {
	return fmt.Sprintf(`Dear Team,

Please find below the %s:

%s

Best regards,
AI Meeting Notes Summarizer

---
This summary was automatically generated using AI technology.`, subjectHint(subject), summary)
}

// subjectHint turns the subject into the phrase used in the greeting.
func subjectHint(subject string) string {
	hint := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(subject, api.DefaultSubject, "")))
	if hint == "" {
		return "meeting summary"
	}
	return hint
}

// ComposeMessage builds an RFC 5322 message with a plain-text body. Header
// values have CR and LF folded to spaces and non-ASCII subjects are
// Q-encoded; body line endings are normalized to CRLF.
func ComposeMessage(from string, to []string, subject, body string, date time.Time) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", headerValue(from))
	fmt.Fprintf(&sb, "To: %s\r\n", headerValue(strings.Join(to, ", ")))
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(subject)))
	fmt.Fprintf(&sb, "Date: %s\r\n", date.Format(time.RFC1123Z))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	sb.WriteString("\r\n")
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	sb.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

// headerValue keeps v on a single header line.
func headerValue(v string) string {
	return strings.Join(strings.FieldsFunc(v, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
}
