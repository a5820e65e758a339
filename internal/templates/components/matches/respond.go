package matches

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/codr1/Teamgrid/internal/templates"
)

// LinkResultData drives the page shown after a player follows an emailed or
// DMed yes/maybe/no link.
type LinkResultData struct {
	Success   bool
	Title     string
	Message   string
	Opponent  string
	Map       string
	LocalTime string
	Timezone  string
}

func LinkResult(data LinkResultData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		class := "link-result link-error"
		if data.Success {
			class = "link-result link-ok"
		}
		w.Printf(`<section class="%s"><h1>%s</h1><p>%s</p>`, class, data.Title, data.Message)
		if data.Success {
			w.Raw(`<dl>`)
			w.Printf(`<dt>Opponent</dt><dd>%s</dd>`, data.Opponent)
			w.Printf(`<dt>Map</dt><dd>%s</dd>`, data.Map)
			w.Printf(`<dt>When</dt><dd>%s (%s)</dd>`, data.LocalTime, data.Timezone)
			w.Raw(`</dl>`)
		}
		w.Raw(`</section>`)
		return w.Err()
	})
}
