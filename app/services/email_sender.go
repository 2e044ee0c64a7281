package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/amirphl/reachbee/config"
)

// EmailMessage is one outbound message to a single recipient
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender delivers campaign emails
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (messageID string, err error)
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESEmailSender implements EmailSender over AWS SES
type SESEmailSender struct {
	client    sesAPI
	fromEmail string
	fromName  string
}

// NewSESEmailSender loads the default AWS credential chain for the configured region
func NewSESEmailSender(ctx context.Context, cfg *config.EmailConfig) (*SESEmailSender, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newSESEmailSender(ses.NewFromConfig(awsCfg), cfg.FromEmail, cfg.FromName), nil
}

func newSESEmailSender(client sesAPI, fromEmail, fromName string) *SESEmailSender {
	return &SESEmailSender{client: client, fromEmail: fromEmail, fromName: fromName}
}

// Send delivers one message and returns the SES message id
func (e *SESEmailSender) Send(ctx context.Context, msg EmailMessage) (messageID string, err error) {
	defer func() { observeUpstream("ses", err) }()

	from := e.fromEmail
	if e.fromName != "" {
		from = fmt.Sprintf("%s <%s>", e.fromName, e.fromEmail)
	}

	body := &types.Body{
		Html: &types.Content{
			Data:    aws.String(msg.HTMLBody),
			Charset: aws.String("UTF-8"),
		},
	}
	if msg.TextBody != "" {
		body.Text = &types.Content{
			Data:    aws.String(msg.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	out, err := e.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: body,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	return aws.ToString(out.MessageId), nil
}

// MockEmailSender implements EmailSender for testing and local runs
type MockEmailSender struct {
	mu      sync.Mutex
	Sent    []EmailMessage
	FailFor map[string]error
}

// NewMockEmailSender creates a new mock email sender
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{FailFor: make(map[string]error)}
}

// Send records the message unless the recipient is configured to fail
func (m *MockEmailSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.FailFor[msg.To]; ok {
		return "", err
	}
	m.Sent = append(m.Sent, msg)
	return fmt.Sprintf("mock-%d", len(m.Sent)), nil
}
