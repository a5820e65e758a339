// Package app builds the long-lived services shared by the server and the
// teamctl command.
package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/actiontoken"
	"github.com/codr1/Teamgrid/internal/availability"
	"github.com/codr1/Teamgrid/internal/config"
	"github.com/codr1/Teamgrid/internal/db"
	"github.com/codr1/Teamgrid/internal/discord"
	"github.com/codr1/Teamgrid/internal/email"
	"github.com/codr1/Teamgrid/internal/matchsync"
	"github.com/codr1/Teamgrid/internal/nudge"
	"github.com/codr1/Teamgrid/internal/ratelimit"
	"github.com/codr1/Teamgrid/internal/reminders"
	"github.com/codr1/Teamgrid/internal/timeslot"
	"github.com/codr1/Teamgrid/internal/valorant"
)

const outboundTimeout = 15 * time.Second

type Services struct {
	Config       *config.Config
	DB           *db.DB
	Tokens       *actiontoken.Service
	Availability *availability.Store
	Nudges       *nudge.Service
	Sync         *matchsync.Service
	Valorant     *valorant.Client
	Reminders    *reminders.Service
	Limiter      *ratelimit.Limiter
	// Email is nil when SES is not configured.
	Email email.EmailSender
}

// New wires every service against an open database.
func New(cfg *config.Config, database *db.DB) (*Services, error) {
	tokens, err := actiontoken.New(cfg.App.SecretKey, actiontoken.WithTTL(cfg.ActionLinkTTL()))
	if err != nil {
		return nil, fmt.Errorf("action tokens: %w", err)
	}

	httpClient := &http.Client{Timeout: outboundTimeout}

	messenger := discord.NewMessenger(cfg.Discord.DMTestMode, discord.ClientConfig{
		BotToken:          cfg.Discord.BotToken,
		RequestsPerSecond: cfg.Discord.RequestsPerSecond,
		HTTPClient:        httpClient,
	})
	webhook := discord.NewWebhook(cfg.Discord.WebhookURL, httpClient)
	if !webhook.Configured() {
		log.Warn().Msg("DISCORD_WEBHOOK_URL missing or malformed; match reminders will not be posted")
	}

	var sender email.EmailSender
	if cfg.Email.Enabled() {
		ses, err := email.NewSESClient(email.SESConfig{
			AccessKeyID:     cfg.Email.AccessKeyID,
			SecretAccessKey: cfg.Email.SecretAccessKey,
			Region:          cfg.Email.Region,
			Sender:          cfg.Email.Sender,
			ReplyTo:         cfg.Email.ReplyTo,
		})
		if err != nil {
			return nil, fmt.Errorf("ses client: %w", err)
		}
		sender = ses
	} else {
		log.Info().Msg("Email not configured; approval notices and reminder emails are disabled")
	}

	valorantClient := valorant.NewClient(valorant.ClientConfig{
		APIBaseURL: cfg.Valorant.APIBaseURL,
		APIKey:     cfg.Valorant.APIKey,
		Region:     cfg.Valorant.Region,
		HTTPClient: httpClient,
	})

	return &Services{
		Config:       cfg,
		DB:           database,
		Tokens:       tokens,
		Availability: availability.NewStore(database, timeslot.NewConverter(nil)),
		Nudges: nudge.NewService(database, messenger, tokens, nudge.Config{
			BaseURL:  cfg.App.BaseURL,
			Cooldown: cfg.NudgeCooldown(),
		}),
		Sync:     matchsync.NewService(database, valorantClient),
		Valorant: valorantClient,
		Reminders: reminders.NewService(database, webhook, sender, tokens, reminders.Config{
			BaseURL: cfg.App.BaseURL,
		}),
		Limiter: ratelimit.New(ratelimit.DefaultConfig()),
		Email:   sender,
	}, nil
}

// ResyncPacer builds a pacer from the configured Henrik limits. Non-zero
// arguments override the config.
func (s *Services) ResyncPacer(rpm int, delay time.Duration, retries *int) *ratelimit.Pacer {
	if rpm == 0 {
		rpm = s.Config.Valorant.RequestsPerMinute
	}
	if retries == nil {
		configured := s.Config.Valorant.RateLimitRetries
		retries = &configured
	}
	return ratelimit.NewPacer(ratelimit.PacerConfig{
		RequestsPerMinute: rpm,
		Delay:             delay,
		Retries:           retries,
	})
}

// Close releases background resources. The database is owned by the caller.
func (s *Services) Close() {
	if s.Limiter != nil {
		s.Limiter.Close()
	}
}
