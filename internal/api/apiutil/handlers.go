package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/api/authz"
	"github.com/codr1/Teamgrid/internal/templates/layouts"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// WriteHandlerError maps err to a response. HandlerErrors keep their status
// and message; anything else is a 500. Server errors are logged.
func WriteHandlerError(w http.ResponseWriter, r *http.Request, err error) {
	var herr HandlerError
	if !errors.As(err, &herr) {
		herr = HandlerError{Status: http.StatusInternalServerError, Message: "Internal Server Error", Err: err}
	}
	if herr.Status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(herr.Err).Str("path", r.URL.Path).Msg(herr.Message)
	}
	http.Error(w, herr.Message, herr.Status)
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// NavUser converts the context user for the layout.
func NavUser(user *authz.AuthUser) *layouts.NavUser {
	if user == nil {
		return nil
	}
	name := user.Name
	if name == "" {
		name = user.Email
	}
	return &layouts.NavUser{Name: name, IsAdmin: authz.IsAdmin(user)}
}

// RenderPage renders body inside the base layout with status, consuming any
// pending flash.
func RenderPage(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	page := layouts.PageData{
		Title: title,
		User:  NavUser(authz.UserFromContext(r.Context())),
		Flash: PopFlash(w, r),
	}
	Render(w, r, status, layouts.Base(page, body))
}

// Render writes a component, typically an htmx fragment.
func Render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Failed to render component")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
