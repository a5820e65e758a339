package email

import (
	"context"
	"errors"
	"fmt"
)

// Notice kinds. SES receives them as the "notice" message tag.
const (
	NoticeAvailabilityRequest  = "availability_request"
	NoticeRegistrationApproved = "registration_approved"
	NoticeRegistrationRejected = "registration_rejected"
)

var (
	ErrNoRecipient  = errors.New("email recipient is required")
	ErrEmptySubject = errors.New("email subject is required")
)

// EmailSender delivers team notices to a single player.
type EmailSender interface {
	Send(ctx context.Context, recipient string, msg Email) error
}

// DeliveryError reports which notice could not reach which player.
type DeliveryError struct {
	Recipient string
	Kind      string
	Err       error
}

func (e *DeliveryError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "notice"
	}
	return fmt.Sprintf("deliver %s email to %s: %v", kind, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
