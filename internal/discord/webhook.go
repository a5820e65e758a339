package discord

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ReminderType identifies which broadcast a match reminder is.
type ReminderType string

const (
	Reminder24h    ReminderType = "24h"
	Reminder1h     ReminderType = "1h"
	ReminderManual ReminderType = "manual"
)

const (
	color24h    = 0x3498db
	color1h     = 0xe74c3c
	colorManual = 0x95a5a6
)

// MatchReminder is the content of a channel broadcast about one match.
type MatchReminder struct {
	Type        ReminderType
	Opponent    string
	MatchType   string
	Map         string
	ScheduledAt time.Time
	MentionIDs  []string
	MatchURL    string
}

// ReminderMessage renders a reminder embed with roster mentions.
func ReminderMessage(r MatchReminder) Message {
	title := "Upcoming match reminder"
	color := colorManual
	switch r.Type {
	case Reminder24h:
		title, color = "Match in 24 hours!", color24h
	case Reminder1h:
		title, color = "Match in 1 hour!", color1h
	}

	fields := []EmbedField{
		{Name: "Time", Value: fmt.Sprintf("<t:%d:F>", r.ScheduledAt.Unix()), Inline: true},
		{Name: "Type", Value: MatchTypeLabel(r.MatchType), Inline: true},
	}
	if r.Opponent != "" {
		fields = append([]EmbedField{{Name: "Opponent", Value: r.Opponent, Inline: true}}, fields...)
	}
	if r.Map != "" {
		fields = append(fields, EmbedField{Name: "Map", Value: r.Map, Inline: true})
	}

	matchType := r.MatchType
	if matchType == "" {
		matchType = "scrim"
	}

	mentions := make([]string, 0, len(r.MentionIDs))
	for _, id := range r.MentionIDs {
		mentions = append(mentions, "<@"+id+">")
	}

	msg := Message{
		Content: strings.Join(mentions, " "),
		Embeds: []Embed{{
			Title:       title,
			Description: fmt.Sprintf("Get ready for your upcoming %s match!", matchType),
			URL:         r.MatchURL,
			Color:       color,
			Fields:      fields,
			Timestamp:   r.ScheduledAt.UTC().Format(time.RFC3339),
		}},
	}
	msg.MentionUsers = r.MentionIDs
	return msg
}

// Broadcaster posts a message to a team channel.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg Message) error
}

// Webhook posts to a single channel webhook.
type Webhook struct {
	id      string
	token   string
	session *discordgo.Session
}

// NewWebhook parses a channel webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}. A malformed URL leaves the
// webhook unconfigured. A nil httpClient uses a 10s timeout client.
func NewWebhook(rawURL string, httpClient *http.Client) *Webhook {
	id, token := parseWebhookURL(rawURL)
	return &Webhook{id: id, token: token, session: newSession("", httpClient)}
}

func parseWebhookURL(rawURL string) (string, string) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return "", ""
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, segment := range segments {
		if segment == "webhooks" && i+2 < len(segments) {
			return segments[i+1], segments[i+2]
		}
	}
	return "", ""
}

// Configured reports whether a usable webhook URL is set.
func (w *Webhook) Configured() bool {
	return w != nil && w.id != "" && w.token != ""
}

func (w *Webhook) Broadcast(ctx context.Context, msg Message) error {
	if !w.Configured() {
		return &Error{Code: CodeWebhookMissing, Message: "DISCORD_WEBHOOK_URL is not configured"}
	}
	if _, err := w.session.WebhookExecute(w.id, w.token, false, msg.webhookParams(), discordgo.WithContext(ctx)); err != nil {
		return deliveryError(err, webhookHTTPCodePrefix, CodeWebhookFailed)
	}
	return nil
}
