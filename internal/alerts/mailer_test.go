package alerts

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
)

type stubSESClient struct {
	inputs []*ses.SendEmailInput
}

func (c *stubSESClient) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	c.inputs = append(c.inputs, params)
	return &ses.SendEmailOutput{}, nil
}

func TestSESMailerDryRunSkipsDelivery(t *testing.T) {
	client := &stubSESClient{}
	mailer := NewSESMailer(MailerConfig{From: "alerts@example.com", DryRun: true}, nil, WithClient(client))

	if err := mailer.Send(context.Background(), Email{To: "owner@example.com", Subject: "hi", Text: "body"}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(client.inputs) != 0 {
		t.Fatal("dry run must not reach SES")
	}
}

func TestSESMailerValidation(t *testing.T) {
	client := &stubSESClient{}
	mailer := NewSESMailer(MailerConfig{From: "alerts@example.com"}, nil, WithClient(client))
	ctx := context.Background()

	if err := mailer.Send(ctx, Email{Subject: "hi", Text: "body"}); err == nil {
		t.Fatal("expected error for missing destination")
	}
	if err := mailer.Send(ctx, Email{To: "owner@example.com", Subject: "hi"}); err == nil {
		t.Fatal("expected error for empty content")
	}

	noFrom := NewSESMailer(MailerConfig{}, nil, WithClient(client))
	if err := noFrom.Send(ctx, Email{To: "owner@example.com", Subject: "hi", Text: "body"}); err == nil {
		t.Fatal("expected error for missing sender")
	}
}

func TestSESMailerDerivesTextFromHTML(t *testing.T) {
	client := &stubSESClient{}
	mailer := NewSESMailer(MailerConfig{From: "alerts@example.com"}, nil, WithClient(client))

	err := mailer.Send(context.Background(), Email{
		To:      "owner@example.com",
		Subject: "balance",
		HTML:    "<p>Projected balance: <strong>USD 1.00</strong></p>",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("expected one SES call, got %d", len(client.inputs))
	}
	body := client.inputs[0].Message.Body
	if body.Html == nil || body.Text == nil {
		t.Fatal("expected both HTML and derived text parts")
	}
	if *body.Text.Data == "" {
		t.Fatal("derived text part is empty")
	}
}
