package matches

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/Teamgrid/internal/templates"
)

var responseStatuses = []string{"yes", "maybe", "no"}

func statusLabel(status string) string {
	switch status {
	case "yes":
		return "Yes"
	case "maybe":
		return "Maybe"
	case "no":
		return "No"
	}
	return "Pending"
}

func typeLabel(matchType string) string {
	if matchType == "official" {
		return "Official"
	}
	return "Scrim"
}

func List(data ListData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Printf(`<section class="matches"><h1>Matches</h1><p class="muted">Times shown in %s.</p>`, data.Timezone)
		if data.IsAdmin {
			writeCreateForm(w, data.Form, data.Error)
		}
		w.Raw(`<h2>Upcoming</h2>`)
		writeMatchTable(w, data.Upcoming, false)
		w.Raw(`<h2>Past</h2>`)
		writeMatchTable(w, data.Past, true)
		w.Raw(`</section>`)
		return w.Err()
	})
}

func writeCreateForm(w *templates.Writer, form CreateForm, errMsg string) {
	w.Raw(`<details class="create"><summary>Schedule a match</summary>`)
	writeFormError(w, errMsg)
	w.Raw(`<form method="post" action="/matches">`)
	writeMatchFields(w, form)
	w.Raw(`<button type="submit">Create</button></form></details>`)
}

func writeFormError(w *templates.Writer, errMsg string) {
	if errMsg != "" {
		w.Printf(`<div class="flash flash-error" role="alert">%s</div>`, errMsg)
	}
}

// writeMatchFields renders the inputs shared by the create and edit forms.
func writeMatchFields(w *templates.Writer, form CreateForm) {
	w.Printf(`<label>Opponent <input type="text" name="opponent_name" value="%s"></label>`, form.Opponent)
	w.Printf(`<label>When <input type="datetime-local" name="scheduled_at" value="%s" required hx-get="/matches/check-availability" hx-trigger="change" hx-target="#available-at" hx-include="this"></label>`,
		form.ScheduledAt)
	w.Raw(`<div id="available-at"></div>`)
	w.Printf(`<label>Map <input type="text" name="map" value="%s"></label>`, form.Map)
	w.Raw(`<label>Type <select name="match_type">`)
	for _, t := range []string{"scrim", "official"} {
		w.Printf(`<option value="%s"%s>%s</option>`, t, templates.Selected(form.MatchType == t), typeLabel(t))
	}
	w.Raw(`</select></label>`)
	w.Printf(`<label>Notes <textarea name="notes">%s</textarea></label>`, form.Notes)
}

// Edit renders the admin form for changing a scheduled match.
func Edit(data EditData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Printf(`<section class="match-edit"><h1>Edit match</h1><p class="muted">Times shown in %s.</p>`, data.Timezone)
		writeFormError(w, data.Error)
		w.Printf(`<form method="post" action="/matches/%d/edit">`, data.MatchID)
		writeMatchFields(w, data.Form)
		w.Printf(`<button type="submit">Save</button> <a href="/matches/%d">Cancel</a></form></section>`, data.MatchID)
		return w.Err()
	})
}

func writeMatchTable(w *templates.Writer, rows []MatchRow, past bool) {
	if len(rows) == 0 {
		w.Raw(`<p class="muted">No matches.</p>`)
		return
	}
	w.Raw(`<table><thead><tr><th>When</th><th>Opponent</th><th>Type</th><th>Map</th>`)
	if past {
		w.Raw(`<th>Result</th>`)
	} else {
		w.Raw(`<th>You</th>`)
	}
	w.Raw(`</tr></thead><tbody>`)
	for _, m := range rows {
		opponent := m.Opponent
		if opponent == "" {
			opponent = "TBD"
		}
		w.Printf(`<tr><td><a href="/matches/%d">%s</a></td><td>%s</td><td>%s</td><td>%s</td>`,
			m.ID, m.LocalTime, opponent, typeLabel(m.MatchType), m.Map)
		if past {
			w.Printf(`<td>%s</td>`, m.Result)
		} else {
			w.Printf(`<td>%s</td>`, statusLabel(m.MyStatus))
		}
		w.Raw(`</tr>`)
	}
	w.Raw(`</tbody></table>`)
}

func Detail(data DetailData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		opponent := data.Opponent
		if opponent == "" {
			opponent = "TBD"
		}
		w.Printf(`<section class="match"><h1>vs %s</h1>`, opponent)
		w.Printf(`<p>%s · %s (%s) · Map: %s</p>`, typeLabel(data.MatchType),
			data.LocalTime, data.Timezone, data.Map)
		if data.Notes != "" {
			w.Printf(`<p class="notes">%s</p>`, data.Notes)
		}
		if w.Err() != nil {
			return w.Err()
		}

		if data.Upcoming {
			w.Raw(`<h2>Your availability</h2>`)
			if err := ResponseButtons(ResponseData{MatchID: data.ID, Status: data.MyStatus}).Render(ctx, out); err != nil {
				return err
			}
		}

		writeResponses(w, data)
		if data.IsAdmin {
			writeAdminPanel(w, data)
		}
		writeSynced(w, data.Synced)
		w.Raw(`</section>`)
		return w.Err()
	})
}

// ResponseButtons renders the yes/maybe/no toggle for the current user.
func ResponseButtons(data ResponseData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Printf(`<div class="response" id="response-%d">`, data.MatchID)
		for _, status := range responseStatuses {
			class := "btn"
			if status == data.Status {
				class = "btn btn-active"
			}
			w.Printf(`<button type="button" class="%s" hx-put="/matches/%d/availability" hx-vals='{"status":"%s"}' hx-target="#response-%d" hx-swap="outerHTML">%s</button>`,
				class, data.MatchID, status, data.MatchID, statusLabel(status))
		}
		w.Raw(`</div>`)
		return w.Err()
	})
}

func writeResponses(w *templates.Writer, data DetailData) {
	w.Raw(`<h2>Roster</h2><table><thead><tr><th>Player</th><th>Status</th>`)
	if data.IsAdmin && data.Upcoming {
		w.Raw(`<th></th>`)
	}
	w.Raw(`</tr></thead><tbody>`)
	for _, p := range data.Responses {
		w.Printf(`<tr><td>%s</td><td class="status-%s">%s</td>`, p.Name, p.Status, statusLabel(p.Status))
		if data.IsAdmin && data.Upcoming {
			w.Raw(`<td>`)
			if p.Status == "pending" && p.HasDiscord {
				w.Printf(`<button type="button" hx-post="/matches/%d/nudges/%d" hx-target="#nudge-%d-%d">Nudge</button>`,
					data.ID, p.UserID, data.ID, p.UserID)
				w.Printf(`<span id="nudge-%d-%d"></span>`, data.ID, p.UserID)
			}
			w.Raw(`</td>`)
		}
		w.Raw(`</tr>`)
	}
	w.Raw(`</tbody></table>`)
}

func writeAdminPanel(w *templates.Writer, data DetailData) {
	w.Raw(`<h2>Admin</h2>`)
	w.Printf(`<p><a href="/matches/%d/edit">Edit match</a></p>`, data.ID)
	w.Printf(`<form method="post" action="/matches/%d/delete" onsubmit="return confirm('Delete this match and all responses?')"><button type="submit" class="danger">Delete match</button></form>`, data.ID)
	if data.Upcoming {
		w.Printf(`<form hx-post="/matches/%d/nudges" hx-target="#nudge-batch"><label class="inline"><input type="checkbox" name="force" value="on"> Ignore cooldown</label><button type="submit">Nudge everyone who has not answered</button></form><div id="nudge-batch"></div>`, data.ID)
	}

	w.Printf(`<form method="post" action="/matches/%d/result">`, data.ID)
	w.Raw(`<label>Result <select name="result"><option value="">Not played</option>`)
	for _, r := range []string{"win", "loss", "draw"} {
		w.Printf(`<option value="%s"%s>%s</option>`, r, templates.Selected(data.Result == r), strings.ToUpper(r[:1])+r[1:])
	}
	w.Raw(`</select></label>`)
	w.Printf(`<label>Us <input type="number" min="0" name="score_us" value="%s"></label>`, data.ScoreUs)
	w.Printf(`<label>Them <input type="number" min="0" name="score_them" value="%s"></label>`, data.ScoreThem)
	w.Raw(`<button type="submit">Save result</button></form>`)

	w.Printf(`<form method="post" action="/matches/%d/valorant">`, data.ID)
	w.Printf(`<label>Valorant match id <input type="text" name="valorant_match_id" value="%s"></label>`, data.ValorantMatchID)
	w.Raw(`<button type="submit">Link and sync stats</button></form>`)

	if len(data.RiotPlayers) > 0 {
		w.Printf(`<form hx-get="/matches/%d/valorant/recent" hx-target="#valorant-recent"><label>Find it in the history of <select name="player_id">`, data.ID)
		for _, p := range data.RiotPlayers {
			w.Printf(`<option value="%d">%s (%s)</option>`, p.UserID, p.Name, p.RiotID)
		}
		w.Raw(`</select></label><label class="inline"><input type="checkbox" name="show_all" value="on"> All game modes</label><button type="submit">Fetch recent matches</button></form><div id="valorant-recent"></div>`)
	}
}

// RecentMatches is the picker fragment listing a player's recent games.
func RecentMatches(data RecentData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		if data.Error != "" {
			w.Printf(`<p class="error">%s</p>`, data.Error)
			return w.Err()
		}
		if len(data.Rows) == 0 {
			w.Printf(`<p class="muted">No recent matches found for %s.</p>`, data.Player)
			return w.Err()
		}
		w.Raw(`<table><thead><tr><th>Started</th><th>Map</th><th>Type</th><th>Mode</th><th>Score</th><th>Result</th><th></th></tr></thead><tbody>`)
		for _, row := range data.Rows {
			w.Printf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>`,
				row.StartedAt, row.Map, row.Type, row.Mode,
				row.Score, row.Result)
			w.Printf(`<form method="post" action="/matches/%d/valorant"><input type="hidden" name="valorant_match_id" value="%s"><button type="submit">Use this match</button></form></td></tr>`,
				data.MatchID, row.MatchID)
		}
		w.Raw(`</tbody></table>`)
		return w.Err()
	})
}

func writeSynced(w *templates.Writer, rows []SyncedRow) {
	if len(rows) == 0 {
		return
	}
	w.Raw(`<h2>Match stats</h2><table><thead><tr><th>Player</th><th>Team</th><th>Agent</th><th>Score</th><th>K</th><th>D</th><th>A</th></tr></thead><tbody>`)
	for _, r := range rows {
		var class templates.HTML
		if r.Linked {
			class = ` class="ours"`
		}
		w.Printf(`<tr%s><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			class, r.RiotID, r.Team, r.Agent,
			r.Score, r.Kills, r.Deaths, r.Assists)
	}
	w.Raw(`</tbody></table>`)
}

// AvailableAt lists roster players free at the proposed match time.
func AvailableAt(data AvailableAtData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		if len(data.Players) == 0 {
			w.Printf(`<p class="muted">Nobody on the roster marked %s as available.</p>`, data.LocalTime)
			return w.Err()
		}
		w.Printf(`<p>%d available at %s:</p><ul>`, len(data.Players), data.LocalTime)
		for _, name := range data.Players {
			w.Printf(`<li>%s</li>`, name)
		}
		w.Raw(`</ul>`)
		return w.Err()
	})
}

func NudgeResult(data NudgeResultData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Printf(`<span class="nudge nudge-%s">%s</span>`, data.Status, data.Message)
		return w.Err()
	})
}

// Title is the page title for a match.
func Title(opponent string) string {
	if opponent == "" {
		return "Match"
	}
	return fmt.Sprintf("vs %s", opponent)
}
