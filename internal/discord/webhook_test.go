package discord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderMessage(t *testing.T) {
	scheduled := time.Date(2024, 5, 3, 19, 0, 0, 0, time.UTC)
	msg := ReminderMessage(MatchReminder{
		Type:        Reminder1h,
		Opponent:    "Night Owls",
		MatchType:   "official",
		Map:         "Ascent",
		ScheduledAt: scheduled,
		MentionIDs:  []string{"11", "22"},
	})

	assert.Equal(t, "<@11> <@22>", msg.Content)
	require.Len(t, msg.Embeds, 1)
	embed := msg.Embeds[0]
	assert.Equal(t, "Match in 1 hour!", embed.Title)
	assert.Equal(t, color1h, embed.Color)
	assert.Equal(t, "Get ready for your upcoming official match!", embed.Description)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "Opponent", embed.Fields[0].Name)
	assert.Equal(t, "<t:1714762800:F>", embed.Fields[1].Value)
	assert.Equal(t, "Official", embed.Fields[2].Value)
	assert.Equal(t, "Map", embed.Fields[3].Name)
	assert.Equal(t, []string{"11", "22"}, msg.MentionUsers)

	params := msg.webhookParams()
	require.NotNil(t, params.AllowedMentions)
	assert.Empty(t, params.AllowedMentions.Parse)
	assert.Equal(t, []string{"11", "22"}, params.AllowedMentions.Users)
	require.Len(t, params.Embeds, 1)
	assert.Equal(t, "Map", params.Embeds[0].Fields[3].Name)
	assert.Empty(t, params.Components)
}

const testWebhookURL = "https://discord.com/api/webhooks/4242/hook-secret"

func TestWebhookBroadcast(t *testing.T) {
	var received struct {
		Content string `json:"content"`
	}
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	hook := NewWebhook(testWebhookURL, redirectedClient(t, server.URL))
	require.True(t, hook.Configured())
	require.NoError(t, hook.Broadcast(context.Background(), Message{Content: "ping"}))
	assert.Equal(t, "ping", received.Content)
	assert.True(t, strings.HasSuffix(path, "/webhooks/4242/hook-secret"), path)
}

func TestWebhookURLParsing(t *testing.T) {
	assert.True(t, NewWebhook(testWebhookURL, nil).Configured())
	assert.True(t, NewWebhook("https://discordapp.com/api/webhooks/1/abc/", nil).Configured())
	assert.False(t, NewWebhook("", nil).Configured())
	assert.False(t, NewWebhook("https://discord.com/api/webhooks/1", nil).Configured())
	assert.False(t, NewWebhook("not a url", nil).Configured())
}

func TestWebhookErrors(t *testing.T) {
	err := NewWebhook("", nil).Broadcast(context.Background(), Message{})
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, CodeWebhookMissing, derr.Code)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unknown Webhook","code":10015}`, http.StatusNotFound)
	}))
	defer server.Close()

	err = NewWebhook(testWebhookURL, redirectedClient(t, server.URL)).Broadcast(context.Background(), Message{Content: "x"})
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "discord_webhook_http_404", derr.Code)
	assert.Equal(t, "Unknown Webhook", derr.Message)
}

func TestProfileNudgeMessage(t *testing.T) {
	msg := ProfileNudgeMessage("https://team.example.com/", ProfileNudge{
		PlayerName:          "Sage",
		MissingAvailability: true,
		MissingAgents:       true,
	})
	want := strings.Join([]string{
		"Hey Sage, quick admin reminder to complete your team data:",
		"",
		"- Set availability: https://team.example.com/availability",
		"- Update agent preferences: https://team.example.com/settings/profile",
		"",
		"Thanks.",
	}, "\n")
	assert.Equal(t, want, msg.Content)

	relative := ProfileNudgeMessage("", ProfileNudge{PlayerName: "Jett", MissingAgents: true})
	assert.Contains(t, relative.Content, "- Update agent preferences: /settings/profile")
	assert.NotContains(t, relative.Content, "Set availability")
}

func TestMatchNudgeMessage(t *testing.T) {
	absolute := MatchNudgeMessage(MatchNudge{
		PlayerName: "Sage",
		Opponent:   "Night Owls",
		MatchType:  "scrim",
		LocalTime:  "Friday, May 3, 2024 at 9:00 PM",
		Timezone:   "Europe/Berlin",
		Links: ResponseLinks{
			Yes:   "https://team.example.com/match-availability/respond/a",
			Maybe: "https://team.example.com/match-availability/respond/b",
			No:    "https://team.example.com/match-availability/respond/c",
		},
	})
	require.Len(t, absolute.Components, 1)
	require.Len(t, absolute.Components[0].Buttons, 3)
	assert.Equal(t, "Maybe", absolute.Components[0].Buttons[1].Label)

	send := absolute.send()
	require.Len(t, send.Components, 1)
	row, ok := send.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 3)
	button, ok := row.Components[1].(discordgo.Button)
	require.True(t, ok)
	assert.Equal(t, discordgo.LinkButton, button.Style)
	assert.Equal(t, "https://team.example.com/match-availability/respond/b", button.URL)
	assert.Equal(t, "Friday, May 3, 2024 at 9:00 PM (Europe/Berlin)", absolute.Embeds[0].Fields[2].Value)

	relative := MatchNudgeMessage(MatchNudge{
		PlayerName: "Jett",
		Links:      ResponseLinks{Yes: "/r/a", Maybe: "/r/b", No: "/r/c"},
	})
	assert.Empty(t, relative.Components)
	assert.Contains(t, relative.Content, "- No: /r/c")
	assert.Equal(t, "TBD", relative.Embeds[0].Fields[0].Value)
}
