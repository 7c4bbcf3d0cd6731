package mail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/jordan-wright/email"
)

// SMTPConfig configures the SMTP implementation.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender when Message.From is empty.
	From Address
}

// SMTP is a Mail implementation that builds MIME messages with jordan-wright/email.
type SMTP struct {
	addr        string
	host        string
	defaultFrom Address
	auth        smtp.Auth
}

// NewSMTP constructs an SMTP mail sender. A missing host leaves it unconfigured.
func NewSMTP(cfg SMTPConfig) *SMTP {
	s := &SMTP{host: cfg.Host, defaultFrom: cfg.From}
	if cfg.Host == "" {
		return s
	}

	port := cfg.Port
	if port == 0 {
		port = 587
	}
	s.addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))

	if cfg.Username != "" && cfg.Password != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return s
}

func (s *SMTP) Configured() bool {
	return s.addr != ""
}

// Send delivers msg over SMTP. The returned id is the Message-Id header value.
func (s *SMTP) Send(ctx context.Context, msg Message) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	if !msg.hasRecipients() {
		return "", ErrNoRecipients
	}

	from := msg.From
	if from.Email == "" {
		from = s.defaultFrom
	}
	if from.Email == "" {
		return "", ErrNoSender
	}

	id := messageID(from.Email)

	e := &email.Email{
		From:    from.String(),
		To:      formatted(msg.To),
		Cc:      formatted(msg.Cc),
		Bcc:     emails(msg.Bcc),
		Subject: msg.Subject,
		Text:    []byte(msg.TextBody),
		HTML:    []byte(msg.HTMLBody),
		Headers: textproto.MIMEHeader{},
	}
	e.Headers.Set("Message-Id", id)
	if len(msg.Tags) > 0 {
		e.Headers.Set("X-Tags", strings.Join(msg.Tags, ","))
	}

	// net/smtp has no context support; honor cancellation up to the dial.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := e.Send(s.addr, s.auth); err != nil {
		return "", fmt.Errorf("mail: smtp send: %w", err)
	}

	return id, nil
}

func (s *SMTP) Close() error {
	return nil
}

func messageID(from string) string {
	domain := "localhost"
	if _, d, ok := strings.Cut(from, "@"); ok && d != "" {
		domain = d
	}

	var b [16]byte
	_, _ = rand.Read(b[:])

	return "<" + hex.EncodeToString(b[:]) + "@" + domain + ">"
}
