package mail

import (
	"context"
	"errors"
	"io"
	netmail "net/mail"
)

var (
	// ErrNotConfigured is returned by Send when the provider credential is missing.
	ErrNotConfigured = errors.New("mail: provider is not configured")
	// ErrNoRecipients is returned when To, Cc and Bcc are all empty.
	ErrNoRecipients = errors.New("mail: no recipients provided")
	// ErrNoSender is returned when neither Message.From nor the default sender is set.
	ErrNoSender = errors.New("mail: no sender provided")
)

const (
	DriverBrevo = "brevo"
	DriverSMTP  = "smtp"
)

// Address is a mailbox with an optional display name.
type Address struct {
	Email string
	Name  string
}

// String formats the address per RFC 5322, quoting the name when needed.
func (a Address) String() string {
	return (&netmail.Address{Name: a.Name, Address: a.Email}).String()
}

// Message is a provider-agnostic email payload.
type Message struct {
	// From overrides the provider's default sender when its Email is set.
	From    Address
	To      []Address
	Cc      []Address
	Bcc     []Address
	Subject string
	// TextBody is the plain-text alternative; HTMLBody is preferred by clients when both are set.
	TextBody string
	HTMLBody string
	// Tags label the message in providers that support it.
	Tags []string
}

func (m Message) hasRecipients() bool {
	return len(m.To)+len(m.Cc)+len(m.Bcc) > 0
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	// Send dispatches msg and returns the provider's message id.
	Send(ctx context.Context, msg Message) (string, error)
	// Configured reports whether the provider has the credentials it needs to send.
	Configured() bool
}

func emails(addrs []Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.Email)
	}
	return out
}

func formatted(addrs []Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return out
}
