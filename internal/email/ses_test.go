package email

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

func TestSESClientSend(t *testing.T) {
	api := &fakeSES{}
	client := newSESClient(api, SESConfig{Sender: " team@example.com ", ReplyTo: "captain@example.com"})

	msg := BuildApprovalEmail("Jett", true, "https://team.example.com/login")
	if err := client.Send(context.Background(), " jett@example.com ", msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(api.inputs) != 1 {
		t.Fatalf("expected one SES call, got %d", len(api.inputs))
	}

	in := api.inputs[0]
	if got := aws.ToString(in.FromEmailAddress); got != "team@example.com" {
		t.Fatalf("from = %q", got)
	}
	if len(in.Destination.ToAddresses) != 1 || in.Destination.ToAddresses[0] != "jett@example.com" {
		t.Fatalf("to = %v", in.Destination.ToAddresses)
	}
	if len(in.ReplyToAddresses) != 1 || in.ReplyToAddresses[0] != "captain@example.com" {
		t.Fatalf("reply-to = %v", in.ReplyToAddresses)
	}
	if got := aws.ToString(in.Content.Simple.Subject.Data); got != msg.Subject {
		t.Fatalf("subject = %q", got)
	}
	if len(in.EmailTags) != 1 || aws.ToString(in.EmailTags[0].Name) != "notice" || aws.ToString(in.EmailTags[0].Value) != NoticeRegistrationApproved {
		t.Fatalf("unexpected tags %+v", in.EmailTags)
	}
}

func TestSESClientSendNoReplyTo(t *testing.T) {
	api := &fakeSES{}
	client := newSESClient(api, SESConfig{Sender: "team@example.com"})
	if err := client.Send(context.Background(), "a@example.com", Email{Subject: "S", Body: "B"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if in := api.inputs[0]; in.ReplyToAddresses != nil || in.EmailTags != nil {
		t.Fatalf("expected no reply-to or tags, got %v %v", in.ReplyToAddresses, in.EmailTags)
	}
}

func TestSESClientSendValidation(t *testing.T) {
	api := &fakeSES{}
	client := newSESClient(api, SESConfig{Sender: "team@example.com"})

	if err := client.Send(context.Background(), "  ", Email{Subject: "S"}); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
	if err := client.Send(context.Background(), "a@example.com", Email{}); !errors.Is(err, ErrEmptySubject) {
		t.Fatalf("expected ErrEmptySubject, got %v", err)
	}
	if len(api.inputs) != 0 {
		t.Fatalf("invalid sends reached SES: %d", len(api.inputs))
	}
}

func TestSESClientSendFailure(t *testing.T) {
	sesErr := errors.New("MessageRejected: address not verified")
	client := newSESClient(&fakeSES{err: sesErr}, SESConfig{Sender: "team@example.com"})

	msg := Email{Kind: NoticeAvailabilityRequest, Subject: "Can you play vs TBD?"}
	err := client.Send(context.Background(), "sage@example.com", msg)

	var derr *DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DeliveryError, got %T %v", err, err)
	}
	if derr.Recipient != "sage@example.com" || derr.Kind != NoticeAvailabilityRequest {
		t.Fatalf("unexpected error fields %+v", derr)
	}
	if !errors.Is(err, sesErr) {
		t.Fatal("expected the SES error to unwrap")
	}
	if want := "deliver availability_request email to sage@example.com: MessageRejected: address not verified"; err.Error() != want {
		t.Fatalf("error = %q", err.Error())
	}
}

func TestNewSESClientRequiresSettings(t *testing.T) {
	cases := []SESConfig{
		{Region: "eu-central-1", Sender: "team@example.com"},
		{AccessKeyID: "id", SecretAccessKey: "secret", Sender: "team@example.com"},
		{AccessKeyID: "id", SecretAccessKey: "secret", Region: "eu-central-1", Sender: " "},
	}
	for _, cfg := range cases {
		if _, err := NewSESClient(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}
