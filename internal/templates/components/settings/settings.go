package settings

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/codr1/Teamgrid/internal/models"
	"github.com/codr1/Teamgrid/internal/templates"
)

type Data struct {
	Timezone      string
	Timezones     []string
	RiotID        string
	AgentPrefs    map[string]bool
	Error         string
	PasswordError string
}

func Form(data Data) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Raw(`<section class="settings"><h1>Settings</h1>`)
		if data.Error != "" {
			w.Printf(`<div class="flash flash-error" role="alert">%s</div>`, data.Error)
		}
		w.Raw(`<form method="post" action="/settings"><label>Timezone <select name="timezone">`)
		for _, tz := range data.Timezones {
			w.Printf(`<option value="%s"%s>%s</option>`, tz, templates.Selected(tz == data.Timezone), tz)
		}
		w.Raw(`</select></label>`)
		w.Printf(`<label>Riot ID <input type="text" name="riot_id" placeholder="Name#TAG" value="%s"></label>`, data.RiotID)
		byRole := models.AgentsByRole()
		for _, role := range models.AgentRoles {
			w.Printf(`<fieldset><legend>%s</legend>`, string(role))
			for _, agent := range byRole[role] {
				w.Printf(`<label class="inline"><input type="checkbox" name="agents" value="%s"%s> %s</label>`,
					agent.Key, templates.Checked(data.AgentPrefs[agent.Key]), agent.Name)
			}
			w.Raw(`</fieldset>`)
		}
		w.Raw(`<button type="submit">Save</button></form>`)
		writePasswordForm(w, data.PasswordError)
		w.Raw(`</section>`)
		return w.Err()
	})
}

func writePasswordForm(w *templates.Writer, errMsg string) {
	w.Raw(`<h2 id="password">Change password</h2>`)
	if errMsg != "" {
		w.Printf(`<div class="flash flash-error" role="alert">%s</div>`, errMsg)
	}
	w.Raw(`<form method="post" action="/settings/password">`)
	w.Raw(`<label>Current password <input type="password" name="current_password" autocomplete="current-password" required></label>`)
	w.Raw(`<label>New password <input type="password" name="new_password" autocomplete="new-password" minlength="8" maxlength="72" required></label>`)
	w.Raw(`<label>Repeat new password <input type="password" name="confirm_password" autocomplete="new-password" required></label>`)
	w.Raw(`<button type="submit">Change password</button></form>`)
}
