package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/A-Mayank/Order-FollowUp-System/internal/config"
)

// ProviderMessage is a message as reported by the provider's log.
type ProviderMessage struct {
	SID       string
	Body      string
	Direction string // "inbound" or "outbound-api"
	From      string
	To        string
	SentAt    time.Time
}

func (m ProviderMessage) Incoming() bool {
	return m.Direction == "inbound"
}

// CustomerNumber is the customer side of the conversation, with the
// provider's channel prefix stripped.
func (m ProviderMessage) CustomerNumber() string {
	number := m.To
	if m.Incoming() {
		number = m.From
	}
	return strings.TrimPrefix(number, "whatsapp:")
}

// Client sends WhatsApp messages and lists recent ones.
type Client interface {
	Send(ctx context.Context, toNumber, body string) (sid string, err error)
	Recent(ctx context.Context, limit int) ([]ProviderMessage, error)
}

// NewFromConfig returns the Twilio client when credentials are configured
// and the console fallback otherwise, so dev flows work offline.
func NewFromConfig(cfg config.TwilioConfig) Client {
	if cfg.AccountSID != "" && cfg.AuthToken != "" && cfg.WhatsAppNumber != "" {
		return NewTwilioClient(cfg)
	}
	fmt.Println("twilio credentials not configured, using console transport")
	return &ConsoleClient{}
}

// TwilioClient talks to the Twilio Messages API.
type TwilioClient struct {
	accountSID string
	authToken  string
	fromNumber string
	apiURL     string
	http       *http.Client
}

func NewTwilioClient(cfg config.TwilioConfig) *TwilioClient {
	return &TwilioClient{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.WhatsAppNumber,
		apiURL:     fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", cfg.AccountSID),
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *TwilioClient) Send(ctx context.Context, toNumber, body string) (string, error) {
	if !strings.HasPrefix(toNumber, "whatsapp:") {
		toNumber = "whatsapp:" + toNumber
	}

	form := url.Values{}
	form.Set("From", c.fromNumber)
	form.Set("To", toNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("twilio send failed: status %d: %s", res.StatusCode, string(raw))
	}

	var payload struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.SID, nil
}

func (c *TwilioClient) Recent(ctx context.Context, limit int) ([]ProviderMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?PageSize=%d", c.apiURL, limit), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("twilio list failed: status %d: %s", res.StatusCode, string(raw))
	}

	var payload struct {
		Messages []struct {
			SID       string `json:"sid"`
			Body      string `json:"body"`
			Direction string `json:"direction"`
			From      string `json:"from"`
			To        string `json:"to"`
			DateSent  string `json:"date_sent"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}

	messages := make([]ProviderMessage, 0, len(payload.Messages))
	for _, m := range payload.Messages {
		messages = append(messages, ProviderMessage{
			SID:       m.SID,
			Body:      m.Body,
			Direction: m.Direction,
			From:      m.From,
			To:        m.To,
			SentAt:    parseDateSent(m.DateSent),
		})
	}
	return messages, nil
}

// parseDateSent handles the RFC 2822 format the Messages API returns, plus
// ISO 8601 seen from some API versions; anything else falls back to now.
func parseDateSent(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	if strings.Contains(s, "T") {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC()
		}
	}
	if t, err := time.Parse(time.RFC1123Z, s); err == nil {
		return t.UTC()
	}
	fmt.Printf("warning: could not parse message date %q\n", s)
	return time.Now().UTC()
}

// ConsoleClient prints outgoing messages instead of delivering them.
type ConsoleClient struct{}

func (c *ConsoleClient) Send(_ context.Context, toNumber, body string) (string, error) {
	fmt.Printf("[whatsapp -> %s] %s\n", toNumber, body)
	return "console-" + uuid.NewString(), nil
}

func (c *ConsoleClient) Recent(_ context.Context, _ int) ([]ProviderMessage, error) {
	return []ProviderMessage{}, nil
}
