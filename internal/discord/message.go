package discord

import "github.com/bwmarrin/discordgo"

// Message is the subset of a Discord message this app sends. It converts to
// discordgo payloads at the edge so the builders and the sandbox stay free
// of library types.
type Message struct {
	Content    string
	Embeds     []Embed
	Components []ActionRow
	// MentionUsers, when set, limits pings to these user ids. Role and
	// @everyone mentions never ping.
	MentionUsers []string
}

type Embed struct {
	Title       string
	Description string
	URL         string
	Color       int
	Timestamp   string
	Fields      []EmbedField
	Footer      string
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// ActionRow holds up to five buttons.
type ActionRow struct {
	Buttons []Button
}

// Button is a link button; Discord opens URL in the user's browser.
type Button struct {
	Label string
	URL   string
}

func LinkButton(label, url string) Button {
	return Button{Label: label, URL: url}
}

// LinkRow wraps link buttons in an action row.
func LinkRow(buttons ...Button) ActionRow {
	return ActionRow{Buttons: buttons}
}

func (m Message) send() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:         m.Content,
		Embeds:          m.embeds(),
		Components:      m.components(),
		AllowedMentions: m.allowedMentions(),
	}
}

func (m Message) webhookParams() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content:         m.Content,
		Embeds:          m.embeds(),
		Components:      m.components(),
		AllowedMentions: m.allowedMentions(),
	}
}

func (m Message) embeds() []*discordgo.MessageEmbed {
	if len(m.Embeds) == 0 {
		return nil
	}
	embeds := make([]*discordgo.MessageEmbed, 0, len(m.Embeds))
	for _, e := range m.Embeds {
		embed := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
			Color:       e.Color,
			Timestamp:   e.Timestamp,
		}
		for _, f := range e.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		if e.Footer != "" {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
		}
		embeds = append(embeds, embed)
	}
	return embeds
}

func (m Message) components() []discordgo.MessageComponent {
	if len(m.Components) == 0 {
		return nil
	}
	rows := make([]discordgo.MessageComponent, 0, len(m.Components))
	for _, row := range m.Components {
		buttons := make([]discordgo.MessageComponent, 0, len(row.Buttons))
		for _, b := range row.Buttons {
			buttons = append(buttons, discordgo.Button{Label: b.Label, Style: discordgo.LinkButton, URL: b.URL})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

func (m Message) allowedMentions() *discordgo.MessageAllowedMentions {
	if len(m.MentionUsers) == 0 {
		return nil
	}
	return &discordgo.MessageAllowedMentions{
		Parse: []discordgo.AllowedMentionType{},
		Users: m.MentionUsers,
	}
}
