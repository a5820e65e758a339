package discord

import (
	"fmt"
	"strings"
)

// AppLink joins an app path onto baseURL; with no base URL the bare path is
// returned.
func AppLink(baseURL, path string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return path
	}
	return baseURL + path
}

// ProfileNudge describes what a player still has to fill in.
type ProfileNudge struct {
	PlayerName          string
	MissingAvailability bool
	MissingAgents       bool
}

// ProfileNudgeMessage builds the plain-text reminder to complete team data.
func ProfileNudgeMessage(baseURL string, n ProfileNudge) Message {
	lines := []string{
		fmt.Sprintf("Hey %s, quick admin reminder to complete your team data:", n.PlayerName),
		"",
	}
	if n.MissingAvailability {
		lines = append(lines, "- Set availability: "+AppLink(baseURL, "/availability"))
	}
	if n.MissingAgents {
		lines = append(lines, "- Update agent preferences: "+AppLink(baseURL, "/settings/profile"))
	}
	lines = append(lines, "", "Thanks.")
	return Message{Content: strings.Join(lines, "\n")}
}

// ResponseLinks are the signed yes/maybe/no URLs for one player and match.
type ResponseLinks struct {
	Yes   string
	Maybe string
	No    string
}

func (l ResponseLinks) absolute() bool {
	for _, link := range []string{l.Yes, l.Maybe, l.No} {
		if !strings.HasPrefix(link, "https://") && !strings.HasPrefix(link, "http://") {
			return false
		}
	}
	return true
}

// MatchNudge is a per-player request to answer a match availability check.
type MatchNudge struct {
	PlayerName string
	Opponent   string
	MatchType  string
	Map        string
	LocalTime  string
	Timezone   string
	Links      ResponseLinks
}

const colorNudge = 0xf1c40f

// MatchNudgeMessage builds the DM asking a player to respond. Link buttons
// need absolute URLs, so relative links are written into the content instead.
func MatchNudgeMessage(n MatchNudge) Message {
	opponent := n.Opponent
	if opponent == "" {
		opponent = "TBD"
	}

	fields := []EmbedField{
		{Name: "Opponent", Value: opponent, Inline: true},
		{Name: "Type", Value: MatchTypeLabel(n.MatchType), Inline: true},
		{Name: "When", Value: fmt.Sprintf("%s (%s)", n.LocalTime, n.Timezone)},
	}
	if n.Map != "" {
		fields = append(fields, EmbedField{Name: "Map", Value: n.Map, Inline: true})
	}

	msg := Message{
		Content: fmt.Sprintf("Hey %s, can you make this match? Let the team know:", n.PlayerName),
		Embeds: []Embed{{
			Title:  "Match availability check",
			Color:  colorNudge,
			Fields: fields,
		}},
	}

	if n.Links.absolute() {
		msg.Components = []ActionRow{LinkRow(
			LinkButton("Yes", n.Links.Yes),
			LinkButton("Maybe", n.Links.Maybe),
			LinkButton("No", n.Links.No),
		)}
		return msg
	}

	msg.Content += strings.Join([]string{
		"",
		"- Yes: " + n.Links.Yes,
		"- Maybe: " + n.Links.Maybe,
		"- No: " + n.Links.No,
	}, "\n")
	return msg
}

// MatchTypeLabel renders the stored match type for display.
func MatchTypeLabel(matchType string) string {
	if matchType == "official" {
		return "Official"
	}
	return "Scrim"
}
