package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const asyncSendTimeout = 10 * time.Second

// newEmailContext detaches parent's cancellation so request-scoped contexts
// don't abort sends that outlive the handler.
func newEmailContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}

// SendAsync delivers msg in the background. A nil sender or an empty
// recipient is a no-op. The returned channel is closed once the attempt is
// over.
func SendAsync(ctx context.Context, sender EmailSender, recipient string, msg Email, logger *zerolog.Logger) <-chan struct{} {
	done := make(chan struct{})
	recipient = strings.TrimSpace(recipient)
	if sender == nil || recipient == "" || msg.Subject == "" {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		sendCtx, cancel := newEmailContext(ctx, asyncSendTimeout)
		defer cancel()
		if err := sender.Send(sendCtx, recipient, msg); err != nil {
			if logger != nil {
				logger.Error().Err(err).Str("notice", msg.Kind).Msg("Failed to send email")
			}
			return
		}
		if logger != nil {
			logger.Info().Str("notice", msg.Kind).Msg("Email sent")
		}
	}()
	return done
}
