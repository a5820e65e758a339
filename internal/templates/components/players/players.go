package players

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/Teamgrid/internal/templates"
	"github.com/codr1/Teamgrid/internal/templates/components/availability"
)

type PlayerRow struct {
	ID               int64
	Name             string
	Email            string
	Role             string
	RiotID           string
	Agents           []string
	OnRoster         bool
	HasDiscord       bool
	AvailableSlots   int64
	MissingProfile   bool
	LastNudgeMessage string
}

type RosterData struct {
	IsAdmin bool
	Players []PlayerRow
}

type PendingUser struct {
	ID       int64
	Name     string
	Email    string
	Timezone string
	Created  string
}

type RegistrationsData struct {
	Pending []PendingUser
}

type DetailData struct {
	Player PlayerRow
	Grid   availability.GridData
}

func Roster(data RosterData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Raw(`<section class="players"><h1>Players</h1><table><thead><tr><th>Name</th><th>Riot ID</th><th>Agents</th><th>Slots</th>`)
		if data.IsAdmin {
			w.Raw(`<th>Roster</th><th>Profile nudge</th>`)
		}
		w.Raw(`</tr></thead><tbody>`)
		for _, p := range data.Players {
			w.Printf(`<tr><td><a href="/players/%d">%s</a></td><td>%s</td><td>%s</td><td>%d</td>`,
				p.ID, p.Name, p.RiotID, joinAgents(p.Agents), p.AvailableSlots)
			if data.IsAdmin {
				writeAdminCells(w, p)
			}
			w.Raw(`</tr>`)
		}
		w.Raw(`</tbody></table></section>`)
		return w.Err()
	})
}

func writeAdminCells(w *templates.Writer, p PlayerRow) {
	label := "Add"
	if p.OnRoster {
		label = "Remove"
	}
	w.Printf(`<td><form method="post" action="/players/%d/roster"><input type="hidden" name="on_roster" value="%t"><button type="submit">%s</button></form></td>`,
		p.ID, !p.OnRoster, label)
	w.Raw(`<td>`)
	if p.MissingProfile {
		w.Printf(`<form hx-post="/players/%d/nudge" hx-target="#profile-nudge-%d"><label class="inline"><input type="checkbox" name="force" value="on"> Force</label><button type="submit">Nudge</button></form>`, p.ID, p.ID)
	}
	w.Printf(`<span id="profile-nudge-%d">%s</span>`, p.ID, p.LastNudgeMessage)
	w.Printf(`<form method="post" action="/players/%d/clear-cooldown"><button type="submit" class="link">Clear cooldown</button></form>`, p.ID)
	if p.Role != "admin" {
		w.Printf(`<form method="post" action="/players/%d/delete" onsubmit="return confirm('Delete this player and all of their availability?')"><button type="submit" class="link danger">Delete</button></form>`, p.ID)
	}
	w.Raw(`</td>`)
}

func joinAgents(agents []string) string {
	return strings.Join(agents, ", ")
}

// Detail shows one player's profile and weekly grid in the viewer's zone.
func Detail(data DetailData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		p := data.Player
		w.Printf(`<section class="player"><h1>%s</h1>`, p.Name)
		w.Printf(`<p>Riot ID: %s</p><p>Agents: %s</p>`, orDash(p.RiotID), orDash(joinAgents(p.Agents)))
		if w.Err() != nil {
			return w.Err()
		}
		if err := availability.Grid(data.Grid).Render(ctx, out); err != nil {
			return err
		}
		w.Raw(`</section>`)
		return w.Err()
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func Registrations(data RegistrationsData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Raw(`<section class="registrations"><h1>Pending registrations</h1>`)
		if len(data.Pending) == 0 {
			w.Raw(`<p class="muted">No one is waiting for approval.</p></section>`)
			return w.Err()
		}
		w.Raw(`<table><thead><tr><th>Name</th><th>Email</th><th>Timezone</th><th>Registered</th><th></th></tr></thead><tbody>`)
		for _, u := range data.Pending {
			w.Printf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>`,
				u.Name, u.Email, u.Timezone, u.Created)
			w.Printf(`<form method="post" action="/admin/registrations/%d/approve"><button type="submit">Approve</button></form>`, u.ID)
			w.Printf(`<form method="post" action="/admin/registrations/%d/reject"><button type="submit" class="danger">Reject</button></form>`, u.ID)
			w.Raw(`</td></tr>`)
		}
		w.Raw(`</tbody></table></section>`)
		return w.Err()
	})
}

// NudgeResult is the fragment swapped in after a profile nudge.
func NudgeResult(status, message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Printf(`<span class="nudge nudge-%s">%s</span>`, status, message)
		return w.Err()
	})
}
