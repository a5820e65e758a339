package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/codr1/Teamgrid/internal/templates"
)

// NavUser is the signed-in user as the navigation bar shows them.
type NavUser struct {
	Name    string
	IsAdmin bool
}

// Flash is a one-shot notice shown above the page body.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

type PageData struct {
	Title string
	User  *NavUser
	Flash *Flash
}

// Base wraps body in the full HTML document.
func Base(page PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		title := "Teamgrid"
		if page.Title != "" {
			title = page.Title + " | Teamgrid"
		}
		w.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.Printf(`<title>%s</title>`, title)
		w.Raw(`<link rel="stylesheet" href="/static/css/main.css">`)
		w.Raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script></head><body>`)
		writeNav(w, page.User)
		w.Raw(`<main class="container">`)
		if page.Flash != nil && page.Flash.Message != "" {
			w.Printf(`<div class="flash flash-%s" role="status">%s</div>`,
				page.Flash.Kind, page.Flash.Message)
		}
		if w.Err() != nil {
			return w.Err()
		}
		if body != nil {
			if err := body.Render(ctx, out); err != nil {
				return err
			}
		}
		w.Raw(`</main></body></html>`)
		return w.Err()
	})
}

func writeNav(w *templates.Writer, user *NavUser) {
	w.Raw(`<nav class="nav"><a class="brand" href="/">Teamgrid</a>`)
	if user == nil {
		w.Raw(`<a href="/login">Sign in</a><a href="/register">Register</a></nav>`)
		return
	}
	w.Raw(`<a href="/matches">Matches</a><a href="/availability">Availability</a><a href="/players">Players</a>`)
	if user.IsAdmin {
		w.Raw(`<a href="/admin/registrations">Registrations</a>`)
	}
	w.Raw(`<a href="/settings">Settings</a>`)
	w.Printf(`<form method="post" action="/logout" class="nav-logout"><span>%s</span><button type="submit">Sign out</button></form>`,
		user.Name)
	w.Raw(`</nav>`)
}

// Message renders a heading and a paragraph. Used for simple result pages.
func Message(heading, body string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Printf(`<section class="message"><h1>%s</h1><p>%s</p></section>`,
			heading, body)
		return w.Err()
	})
}
