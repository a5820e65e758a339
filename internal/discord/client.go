// Package discord delivers direct messages and channel webhooks to Discord.
package discord

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout  = 10 * time.Second
	maxErrorBodyBytes   = 2048
	defaultRequestsRate = 5
	userAgent           = "DiscordBot (https://github.com/codr1/Teamgrid, 1.0) Teamgrid"
)

// DirectMessenger sends a message to a single Discord user.
type DirectMessenger interface {
	SendDirectMessage(ctx context.Context, recipientID string, msg Message) (string, error)
}

// ClientConfig configures the bot client.
type ClientConfig struct {
	BotToken string
	// RequestsPerSecond caps outbound calls across both DM steps.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client sends direct messages as the team bot over a REST-only discordgo
// session. No gateway connection is opened.
type Client struct {
	session  *discordgo.Session
	hasToken bool
	limiter  *rate.Limiter
}

// NewClient returns a Client. An empty bot token is allowed; sends then fail
// with CodeBotTokenMissing so callers can record the attempt.
func NewClient(cfg ClientConfig) *Client {
	token := strings.TrimSpace(cfg.BotToken)
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsRate
	}
	return &Client{
		session:  newSession("Bot "+token, cfg.HTTPClient),
		hasToken: token != "",
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// newSession builds a session for REST calls only. Retries are disabled:
// a 429 or 5xx is reported back so the nudge is recorded as failed.
func newSession(token string, httpClient *http.Client) *discordgo.Session {
	// discordgo.New only fills in the struct.
	session, _ := discordgo.New(token)
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	session.Client = httpClient
	session.UserAgent = userAgent
	session.MaxRestRetries = 0
	session.ShouldRetryOnRateLimit = false
	return session
}

// SendDirectMessage opens (or reuses) the DM channel with recipientID and
// posts msg into it. It returns the Discord message id.
func (c *Client) SendDirectMessage(ctx context.Context, recipientID string, msg Message) (string, error) {
	if !c.hasToken {
		return "", &Error{Code: CodeBotTokenMissing, Message: "Discord bot token is not configured"}
	}

	logger := log.Ctx(ctx).With().Str("component", "discord_dm").Str("recipient_id", recipientID).Logger()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", requestFailed(CodeRequestFailed, err)
	}
	channel, err := c.session.UserChannelCreate(recipientID, discordgo.WithContext(ctx))
	if err != nil {
		derr := deliveryError(err, channelHTTPCodePrefix, CodeRequestFailed)
		logger.Warn().Str("code", derr.Code).Int("status", derr.StatusCode).Msg("Discord DM channel request rejected")
		return "", derr
	}
	if channel == nil || channel.ID == "" {
		return "", &Error{Code: CodeChannelMissingID, Message: "Discord did not return a DM channel id"}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", requestFailed(CodeRequestFailed, err)
	}
	sent, err := c.session.ChannelMessageSendComplex(channel.ID, msg.send(), discordgo.WithContext(ctx))
	if err != nil {
		derr := deliveryError(err, messageHTTPCodePrefix, CodeRequestFailed)
		logger.Warn().
			Str("code", derr.Code).
			Int("status", derr.StatusCode).
			Str("channel_id", channel.ID).
			Msg("Discord DM message rejected")
		return "", derr
	}

	logger.Debug().Str("message_id", sent.ID).Msg("Discord DM sent")
	return sent.ID, nil
}
