// Package templates holds the shared markup writer used by the page
// components.
package templates

import (
	"fmt"
	"io"
	"reflect"

	"github.com/a-h/templ"
)

// HTML is trusted markup. Printf writes it as is.
type HTML string

// Writer keeps the first write error so components can emit markup without
// checking every call.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup.
func (w *Writer) Raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// Text writes escaped text.
func (w *Writer) Text(s string) {
	w.Raw(templ.EscapeString(s))
}

// Printf formats markup. Only the format is trusted: string-kinded and
// Stringer arguments are escaped for element text or a quoted attribute
// value unless they are HTML. Numbers and bools are written as formatted.
func (w *Writer) Printf(format string, args ...any) {
	safe := make([]any, len(args))
	for i, arg := range args {
		safe[i] = escapeArg(arg)
	}
	w.Raw(fmt.Sprintf(format, safe...))
}

func (w *Writer) Err() error {
	return w.err
}

func escapeArg(arg any) any {
	switch v := arg.(type) {
	case HTML:
		return string(v)
	case string:
		return templ.EscapeString(v)
	case error:
		return templ.EscapeString(v.Error())
	case fmt.Stringer:
		return templ.EscapeString(v.String())
	}
	if rv := reflect.ValueOf(arg); rv.IsValid() && rv.Kind() == reflect.String {
		return templ.EscapeString(rv.String())
	}
	return arg
}

// Selected returns the selected attribute when ok.
func Selected(ok bool) HTML {
	if ok {
		return " selected"
	}
	return ""
}

// Checked returns the checked attribute when ok.
func Checked(ok bool) HTML {
	if ok {
		return " checked"
	}
	return ""
}
