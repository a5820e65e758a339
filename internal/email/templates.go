package email

import (
	"fmt"
	"strings"
)

// Email is a rendered plain-text message.
type Email struct {
	Kind    string
	Subject string
	Body    string
}

// AvailabilityRequest describes a match a player has not answered yet.
type AvailabilityRequest struct {
	PlayerName string
	Opponent   string
	MatchType  string
	Map        string
	LocalTime  string
	Timezone   string
	YesURL     string
	MaybeURL   string
	NoURL      string
}

func orTBD(value string) string {
	if value = strings.TrimSpace(value); value == "" {
		return "TBD"
	}
	return value
}

func matchTypeLabel(matchType string) string {
	if matchType == "official" {
		return "Official"
	}
	return "Scrim"
}

// BuildAvailabilityRequestEmail renders the one-click yes/maybe/no request.
func BuildAvailabilityRequestEmail(r AvailabilityRequest) Email {
	opponent := orTBD(r.Opponent)
	lines := []string{
		fmt.Sprintf("Hi %s,", orName(r.PlayerName)),
		"",
		"You have not answered availability for an upcoming match yet.",
		"",
		fmt.Sprintf("Opponent: %s", opponent),
		fmt.Sprintf("Type: %s", matchTypeLabel(r.MatchType)),
		fmt.Sprintf("When: %s (%s)", orTBD(r.LocalTime), orTBD(r.Timezone)),
		fmt.Sprintf("Map: %s", orTBD(r.Map)),
		"",
		"Answer with one click:",
		"Yes: " + r.YesURL,
		"Maybe: " + r.MaybeURL,
		"No: " + r.NoURL,
	}
	return Email{
		Kind:    NoticeAvailabilityRequest,
		Subject: fmt.Sprintf("Can you play vs %s?", opponent),
		Body:    strings.Join(lines, "\n"),
	}
}

// BuildApprovalEmail tells a registrant the outcome of their sign-up.
func BuildApprovalEmail(playerName string, approved bool, loginURL string) Email {
	if !approved {
		return Email{
			Kind:    NoticeRegistrationRejected,
			Subject: "Your team registration was not approved",
			Body: strings.Join([]string{
				fmt.Sprintf("Hi %s,", orName(playerName)),
				"",
				"An admin reviewed your registration and did not approve it.",
				"Reach out to the team if you think this is a mistake.",
			}, "\n"),
		}
	}
	return Email{
		Kind:    NoticeRegistrationApproved,
		Subject: "Your team registration was approved",
		Body: strings.Join([]string{
			fmt.Sprintf("Hi %s,", orName(playerName)),
			"",
			"An admin approved your registration. You can sign in now:",
			loginURL,
			"",
			"Please set your weekly availability and agent preferences.",
		}, "\n"),
	}
}

func orName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return "there"
	}
	return name
}
