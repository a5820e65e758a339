package discord

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Sandbox modes. ModeReal is not a sandbox mode; it selects the REST client.
const (
	ModeReal            = "real"
	ModeSuccess         = "success"
	ModeFail            = "fail"
	ModeForbidden       = "forbidden"
	ModeUnauthorized    = "unauthorized"
	ModeNotFound        = "not_found"
	ModeBotTokenMissing = "bot_token_missing"

	SandboxMessageID = "test-mode-message-id"
)

// Sandbox is a DirectMessenger with a fixed outcome. It never touches the
// network and counts every call it receives.
type Sandbox struct {
	mode  string
	calls atomic.Int64
}

// NewSandbox returns a Sandbox; an empty mode behaves like ModeSuccess.
func NewSandbox(mode string) *Sandbox {
	if mode == "" {
		mode = ModeSuccess
	}
	return &Sandbox{mode: mode}
}

// Calls reports how many sends reached the sandbox.
func (s *Sandbox) Calls() int64 {
	return s.calls.Load()
}

func (s *Sandbox) SendDirectMessage(ctx context.Context, recipientID string, msg Message) (string, error) {
	s.calls.Add(1)

	switch s.mode {
	case ModeFail:
		return "", &Error{Code: CodeTestFailure, Message: "Forced failure in test mode"}
	case ModeBotTokenMissing:
		return "", &Error{Code: CodeBotTokenMissing, Message: "Discord bot token is not configured"}
	case ModeForbidden:
		return "", messageHTTPError(403, "Cannot send messages to this user")
	case ModeUnauthorized:
		return "", channelHTTPError(401, "401: Unauthorized")
	case ModeNotFound:
		return "", channelHTTPError(404, "Unknown User")
	case ModeSuccess:
		return SandboxMessageID, nil
	default:
		return "", fmt.Errorf("unknown discord sandbox mode %q", s.mode)
	}
}

// NewMessenger picks the sandbox for any test mode and the REST client
// otherwise.
func NewMessenger(testMode string, cfg ClientConfig) DirectMessenger {
	if testMode == "" || testMode == ModeReal {
		return NewClient(cfg)
	}
	return NewSandbox(testMode)
}
