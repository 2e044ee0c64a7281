package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amirphl/reachbee/config"
)

// WhatsAppMessage is the provider's view of a queued message
type WhatsAppMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	Body   string `json:"body"`
}

// WhatsAppSender sends WhatsApp messages
type WhatsAppSender interface {
	Send(ctx context.Context, phone, message string) (*WhatsAppMessage, error)
}

// TwilioWhatsAppSender implements WhatsAppSender with the Twilio Messages API
type TwilioWhatsAppSender struct {
	config *config.WhatsAppConfig
	client *http.Client
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewTwilioWhatsAppSender creates a new Twilio WhatsApp sender
func NewTwilioWhatsAppSender(cfg *config.WhatsAppConfig) *TwilioWhatsAppSender {
	return &TwilioWhatsAppSender{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send queues one message from the configured WhatsApp number
func (t *TwilioWhatsAppSender) Send(ctx context.Context, phone, message string) (msg *WhatsAppMessage, err error) {
	defer func() { observeUpstream("twilio", err) }()

	form := url.Values{}
	form.Set("From", "whatsapp:"+t.config.FromNumber)
	form.Set("To", "whatsapp:"+phone)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(t.config.APIBaseURL, "/"), url.PathEscape(t.config.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(t.config.AccountSID, t.config.AuthToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr twilioError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("twilio API error (%d): %s", resp.StatusCode, apiErr.Message)
	}

	var out WhatsAppMessage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode twilio response: %w", err)
	}
	return &out, nil
}

// MockWhatsAppSender implements WhatsAppSender for testing
type MockWhatsAppSender struct {
	Sent []WhatsAppMessage
	Err  error
}

// Send records the message
func (m *MockWhatsAppSender) Send(ctx context.Context, phone, message string) (*WhatsAppMessage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	msg := WhatsAppMessage{SID: fmt.Sprintf("SM%04d", len(m.Sent)+1), Status: "queued", Body: message}
	m.Sent = append(m.Sent, msg)
	return &msg, nil
}
