package auth

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/codr1/Teamgrid/internal/templates"
)

type LoginData struct {
	Email string
	Error string
}

type RegisterData struct {
	FullName  string
	Email     string
	Timezone  string
	Timezones []string
	Error     string
}

func LoginForm(data LoginData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Raw(`<section class="auth"><h1>Sign in</h1>`)
		writeError(w, data.Error)
		w.Raw(`<form method="post" action="/login">`)
		w.Printf(`<label>Email <input type="email" name="email" value="%s" required autofocus></label>`, data.Email)
		w.Raw(`<label>Password <input type="password" name="password" required></label>`)
		w.Raw(`<label class="inline"><input type="checkbox" name="remember_me" value="on"> Keep me signed in</label>`)
		w.Raw(`<button type="submit">Sign in</button></form>`)
		w.Raw(`<p>No account yet? <a href="/register">Register</a></p></section>`)
		return w.Err()
	})
}

func RegisterForm(data RegisterData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Raw(`<section class="auth"><h1>Join the team</h1>`)
		writeError(w, data.Error)
		w.Raw(`<form method="post" action="/register">`)
		w.Printf(`<label>Name <input type="text" name="full_name" value="%s" required></label>`, data.FullName)
		w.Printf(`<label>Email <input type="email" name="email" value="%s" required></label>`, data.Email)
		w.Raw(`<label>Password <input type="password" name="password" minlength="8" required></label>`)
		w.Raw(`<label>Timezone <select name="timezone">`)
		for _, tz := range data.Timezones {
			w.Printf(`<option value="%s"%s>%s</option>`, tz, templates.Selected(tz == data.Timezone), tz)
		}
		w.Raw(`</select></label><button type="submit">Register</button></form>`)
		w.Raw(`<p>Already registered? <a href="/login">Sign in</a></p></section>`)
		return w.Err()
	})
}

func PendingApproval(name string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Printf(`<section class="message"><h1>Thanks, %s</h1>`, name)
		w.Raw(`<p>Your registration is waiting for an admin to approve it. You will get an email once it has been reviewed.</p></section>`)
		return w.Err()
	})
}

func writeError(w *templates.Writer, message string) {
	if message != "" {
		w.Printf(`<div class="flash flash-error" role="alert">%s</div>`, message)
	}
}
