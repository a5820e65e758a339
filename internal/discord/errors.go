package discord

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	CodeBotTokenMissing   = "discord_bot_token_missing"
	CodeChannelMissingID  = "discord_dm_channel_missing_id"
	CodeRequestFailed     = "discord_dm_request_failed"
	CodeTestFailure       = "discord_dm_test_failure"
	CodeWebhookMissing    = "discord_webhook_missing"
	CodeWebhookFailed     = "discord_webhook_request_failed"
	channelHTTPCodePrefix = "discord_dm_channel_http_"
	messageHTTPCodePrefix = "discord_dm_message_http_"
	webhookHTTPCodePrefix = "discord_webhook_http_"
)

// Error is a failed Discord delivery with a stable machine-readable code.
type Error struct {
	Code       string
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func httpError(prefix string, status int, message string) *Error {
	return &Error{Code: fmt.Sprintf("%s%d", prefix, status), Message: message, StatusCode: status}
}

func channelHTTPError(status int, message string) *Error {
	return httpError(channelHTTPCodePrefix, status, message)
}

func messageHTTPError(status int, message string) *Error {
	return httpError(messageHTTPCodePrefix, status, message)
}

func requestFailed(code string, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// deliveryError maps a discordgo failure onto a step code. REST errors and
// rate limits become <prefix><status>; anything else (transport, decode,
// exhausted 502) becomes fallback.
func deliveryError(err error, prefix, fallback string) *Error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		derr := httpError(prefix, restErr.Response.StatusCode, restErrorText(restErr))
		derr.Err = err
		return derr
	}
	var limitErr *discordgo.RateLimitError
	if errors.As(err, &limitErr) {
		message := http.StatusText(http.StatusTooManyRequests)
		if limitErr.RateLimit != nil && limitErr.TooManyRequests != nil && limitErr.TooManyRequests.Message != "" {
			message = limitErr.TooManyRequests.Message
		}
		derr := httpError(prefix, http.StatusTooManyRequests, message)
		derr.Err = err
		return derr
	}
	return requestFailed(fallback, err)
}

func restErrorText(restErr *discordgo.RESTError) string {
	if restErr.Message != nil && restErr.Message.Message != "" {
		return restErr.Message.Message
	}
	text := strings.TrimSpace(string(restErr.ResponseBody))
	if len(text) > maxErrorBodyBytes {
		text = text[:maxErrorBodyBytes]
	}
	if text == "" {
		return http.StatusText(restErr.Response.StatusCode)
	}
	return text
}

// Severity separates failures an admin must fix from ones worth retrying.
type Severity string

const (
	SeverityBlocking  Severity = "blocked"
	SeverityTransient Severity = "failed"
)

// Classification is the admin-facing reading of a delivery error.
type Classification struct {
	Severity Severity
	Code     string
	Message  string
	// Detail is the raw error text, stored on the audit row.
	Detail string
}

// Classify maps a delivery error onto blocking or transient. Missing bot
// configuration and HTTP 401/403/404 from either step are blocking.
func Classify(err error) Classification {
	if err == nil {
		return Classification{}
	}

	var derr *Error
	if !errors.As(err, &derr) {
		return Classification{
			Severity: SeverityTransient,
			Code:     CodeRequestFailed,
			Message:  fmt.Sprintf("Failed to send nudge: %s.", strings.TrimSuffix(err.Error(), ".")),
			Detail:   err.Error(),
		}
	}

	detail := derr.Message
	if detail == "" {
		detail = derr.Code
	}
	c := Classification{Severity: SeverityBlocking, Code: derr.Code, Detail: detail}

	switch {
	case derr.Code == CodeBotTokenMissing:
		c.Message = "Cannot send nudge: DISCORD_BOT_TOKEN is not configured."
	case strings.HasSuffix(derr.Code, "_http_401"):
		c.Message = "Cannot send nudge: Discord bot authentication failed."
	case strings.HasSuffix(derr.Code, "_http_403"):
		c.Message = "Cannot send nudge: Discord rejected the DM for this user."
	case strings.HasSuffix(derr.Code, "_http_404"):
		c.Message = "Cannot send nudge: Discord user could not be found."
	default:
		c.Severity = SeverityTransient
		c.Message = fmt.Sprintf("Failed to send nudge: %s.", strings.TrimSuffix(detail, "."))
	}
	return c
}
