package apiutil

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/codr1/Teamgrid/internal/templates/layouts"
)

const flashCookieName = "teamgrid_flash"

// SetFlash stores a one-shot notice for the next page render.
func SetFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    kind + ":" + base64.RawURLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// PopFlash reads and clears the pending notice, if any.
func PopFlash(w http.ResponseWriter, r *http.Request) *layouts.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1})

	kind, encoded, ok := strings.Cut(cookie.Value, ":")
	if !ok {
		return nil
	}
	message, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(message) == 0 {
		return nil
	}
	if kind != "success" {
		kind = "error"
	}
	return &layouts.Flash{Kind: kind, Message: string(message)}
}

// RedirectWithFlash sets a notice and redirects with 303.
func RedirectWithFlash(w http.ResponseWriter, r *http.Request, url, kind, message string) {
	SetFlash(w, kind, message)
	http.Redirect(w, r, url, http.StatusSeeOther)
}
