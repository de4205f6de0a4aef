package alerts

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
	"github.com/jaytaylor/html2text"
)

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers alert emails.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SESClient abstracts the SES client for testing.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// MailerConfig holds SES settings.
type MailerConfig struct {
	From             string
	Region           string
	Profile          string
	ConfigurationSet string
	DryRun           bool
}

// SESMailer sends email via AWS SES.
type SESMailer struct {
	cfg    MailerConfig
	client SESClient
	log    logger.Logger
}

// MailerOption configures the mailer.
type MailerOption func(*SESMailer)

// WithClient injects a custom SES client.
func WithClient(c SESClient) MailerOption {
	return func(m *SESMailer) {
		if c != nil {
			m.client = c
		}
	}
}

// NewSESMailer constructs the mailer.
func NewSESMailer(cfg MailerConfig, log logger.Logger, opts ...MailerOption) *SESMailer {
	if log == nil {
		log = &logger.Nop{}
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	mailer := &SESMailer{cfg: cfg, log: log}
	for _, opt := range opts {
		if opt != nil {
			opt(mailer)
		}
	}
	return mailer
}

func (m *SESMailer) ensureClient(ctx context.Context) error {
	if m.client != nil {
		return nil
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(m.cfg.Region),
	}
	if m.cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(m.cfg.Profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("alerts: load aws config: %w", err)
	}
	m.client = ses.NewFromConfig(cfg, func(o *ses.Options) {
		o.RetryMaxAttempts = 3
	})
	return nil
}

// Send delivers the email. When HTML content is present and no plaintext was
// provided, a text alternative is derived from the HTML.
func (m *SESMailer) Send(ctx context.Context, email Email) error {
	if m.cfg.DryRun {
		m.log.Info("[alerts:dry-run] send skipped",
			"to", email.To,
			"subject", email.Subject,
		)
		return nil
	}

	if strings.TrimSpace(email.To) == "" {
		return fmt.Errorf("alerts: destination required")
	}
	if strings.TrimSpace(m.cfg.From) == "" {
		return fmt.Errorf("alerts: from required")
	}
	text := email.Text
	if text == "" && email.HTML != "" {
		plain, err := html2text.FromString(email.HTML, html2text.Options{PrettyTables: true})
		if err != nil {
			return fmt.Errorf("alerts: html to text: %w", err)
		}
		text = plain
	}
	if text == "" && email.HTML == "" {
		return fmt.Errorf("alerts: content empty")
	}

	if err := m.ensureClient(ctx); err != nil {
		return err
	}

	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{strings.TrimSpace(email.To)},
		},
		Source: aws.String(m.cfg.From),
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(email.Subject)},
			Body: &types.Body{
				Text: content(text),
				Html: content(email.HTML),
			},
		},
	}
	if cs := strings.TrimSpace(m.cfg.ConfigurationSet); cs != "" {
		input.ConfigurationSetName = aws.String(cs)
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("alerts: send email: %w", err)
	}
	m.log.Info("alert email sent", "to", email.To, "subject", email.Subject)
	return nil
}

func content(body string) *types.Content {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	return &types.Content{Data: aws.String(body)}
}
