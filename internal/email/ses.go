package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"
)

const noticeTag = "notice"

// SESConfig carries the team mailer settings. Credentials come from
// AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.
type SESConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Sender          string
	// ReplyTo routes player replies to a captain's inbox instead of the
	// no-reply sender.
	ReplyTo string
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESClient sends team notices through SESv2.
type SESClient struct {
	api     sesAPI
	sender  string
	replyTo string
}

// NewSESClient builds an SES client with static credentials.
func NewSESClient(cfg SESConfig) (*SESClient, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("team email needs AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY")
	}
	if cfg.Region == "" {
		return nil, errors.New("team email needs email.region")
	}
	if strings.TrimSpace(cfg.Sender) == "" {
		return nil, errors.New("team email needs email.sender")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config for team email: %w", err)
	}
	return newSESClient(sesv2.NewFromConfig(awsCfg), cfg), nil
}

func newSESClient(api sesAPI, cfg SESConfig) *SESClient {
	return &SESClient{
		api:     api,
		sender:  strings.TrimSpace(cfg.Sender),
		replyTo: strings.TrimSpace(cfg.ReplyTo),
	}
}

// Send delivers msg as plain text. Failures come back as *DeliveryError.
func (c *SESClient) Send(ctx context.Context, recipient string, msg Email) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return ErrNoRecipient
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return ErrEmptySubject
	}

	logger := log.Ctx(ctx).With().Str("component", "email").Str("notice", msg.Kind).Logger()
	out, err := c.api.SendEmail(ctx, c.input(recipient, msg))
	if err != nil {
		logger.Error().Err(err).Str("recipient", recipient).Msg("SES rejected team notice")
		return &DeliveryError{Recipient: recipient, Kind: msg.Kind, Err: err}
	}
	if out != nil {
		logger.Debug().Str("message_id", aws.ToString(out.MessageId)).Msg("Team notice sent")
	}
	return nil
}

func (c *SESClient) input(recipient string, msg Email) *sesv2.SendEmailInput {
	input := &sesv2.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{recipient}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
		FromEmailAddress: aws.String(c.sender),
	}
	if c.replyTo != "" {
		input.ReplyToAddresses = []string{c.replyTo}
	}
	if msg.Kind != "" {
		input.EmailTags = []types.MessageTag{{Name: aws.String(noticeTag), Value: aws.String(msg.Kind)}}
	}
	return input
}
