package availability

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/codr1/Teamgrid/internal/templates"
	"github.com/codr1/Teamgrid/internal/timeslot"
)

type GridData struct {
	Timezone string
	Rows     []timeslot.GridRow
	ReadOnly bool
}

// Grid renders the weekly availability table in the viewer's timezone.
func Grid(data GridData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		w.Printf(`<section class="availability"><p class="muted">Times shown in %s.</p>`, data.Timezone)
		w.Raw(`<table class="grid"><thead><tr><th></th>`)
		for hour := 0; hour < 24; hour++ {
			w.Printf(`<th>%s</th>`, timeslot.FormatHour(hour))
		}
		w.Raw(`</tr></thead><tbody>`)
		for _, row := range data.Rows {
			w.Printf(`<tr><th>%s</th>`, row.Name)
			for _, cell := range row.Cells {
				w.Raw(`<td>`)
				writeCell(w, cell, data.ReadOnly)
				w.Raw(`</td>`)
			}
			w.Raw(`</tr>`)
		}
		w.Raw(`</tbody></table></section>`)
		return w.Err()
	})
}

// Cell renders one toggle button; it is also the fragment returned after a
// toggle.
func Cell(cell timeslot.GridCell) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := templates.NewWriter(out)
		writeCell(w, cell, false)
		return w.Err()
	})
}

func writeCell(w *templates.Writer, cell timeslot.GridCell, readOnly bool) {
	class, label := "slot", "-"
	if cell.Available {
		class, label = "slot slot-on", "✓"
	}
	if readOnly {
		w.Printf(`<span class="%s">%s</span>`, class, label)
		return
	}
	next := "true"
	if cell.Available {
		next = "false"
	}
	w.Printf(`<button type="button" class="%s" hx-put="/availability" hx-swap="outerHTML" hx-vals='{"day":"%d","hour":"%d","available":"%s"}' title="%s %s">%s</button>`,
		class, cell.LocalDay, cell.LocalHour, next,
		timeslot.DayName(cell.LocalDay), timeslot.FormatHour(cell.LocalHour), label)
}
