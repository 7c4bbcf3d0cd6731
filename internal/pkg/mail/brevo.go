package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBrevoEndpoint is the Brevo transactional email API.
const DefaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoConfig configures the Brevo driver.
type BrevoConfig struct {
	APIKey string
	// Endpoint overrides DefaultBrevoEndpoint, mainly for tests.
	Endpoint string
	// From is the default sender when Message.From is empty.
	From    Address
	Timeout time.Duration
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

// Brevo sends mail through the Brevo (formerly Sendinblue) HTTP API.
type Brevo struct {
	apiKey      string
	endpoint    string
	defaultFrom Address
	client      *http.Client
}

func NewBrevo(cfg BrevoConfig) *Brevo {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultBrevoEndpoint
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Brevo{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		endpoint:    endpoint,
		defaultFrom: cfg.From,
		client:      client,
	}
}

func (b *Brevo) Configured() bool {
	return b.apiKey != ""
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoRequest struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Cc          []brevoContact `json:"cc,omitempty"`
	Bcc         []brevoContact `json:"bcc,omitempty"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent,omitempty"`
	TextContent string         `json:"textContent,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

type brevoResponse struct {
	MessageID string `json:"messageId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// BrevoError is returned when the API answers with a non-2xx status.
type BrevoError struct {
	Status  int
	Code    string
	Message string
}

func (e *BrevoError) Error() string {
	return fmt.Sprintf("mail: brevo responded %d %s: %s", e.Status, e.Code, e.Message)
}

func (b *Brevo) Send(ctx context.Context, msg Message) (string, error) {
	if !b.Configured() {
		return "", ErrNotConfigured
	}
	if len(msg.To) == 0 {
		// Brevo rejects messages without a primary recipient.
		return "", ErrNoRecipients
	}

	from := msg.From
	if from.Email == "" {
		from = b.defaultFrom
	}
	if from.Email == "" {
		return "", ErrNoSender
	}

	payload, err := json.Marshal(brevoRequest{
		Sender:      brevoContact(from),
		To:          contacts(msg.To),
		Cc:          contacts(msg.Cc),
		Bcc:         contacts(msg.Bcc),
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLBody,
		TextContent: msg.TextBody,
		Tags:        msg.Tags,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mail: brevo request: %w", err)
	}
	defer resp.Body.Close()

	var out brevoResponse
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("mail: brevo read response: %w", err)
	}
	if len(body) > 0 {
		// error bodies are best effort
		_ = json.Unmarshal(body, &out)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &BrevoError{Status: resp.StatusCode, Code: out.Code, Message: out.Message}
	}

	return out.MessageID, nil
}

func (b *Brevo) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

func contacts(addrs []Address) []brevoContact {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]brevoContact, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, brevoContact(a))
	}
	return out
}
