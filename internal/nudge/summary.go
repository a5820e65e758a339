package nudge

import "fmt"

// Tally counts the outcomes of a batch. Blocked attempts count as skipped.
type Tally struct {
	Sent    int
	Skipped int
	Failed  int
}

// Add counts one attempt.
func (t *Tally) Add(o Outcome) {
	switch o.Status {
	case StatusSent:
		t.Sent++
	case StatusFailed:
		t.Failed++
	default:
		t.Skipped++
	}
}

// Summarize derives the batch status and admin message from a tally.
func Summarize(t Tally) (string, string) {
	message := fmt.Sprintf("Sent %d. Skipped %d. Failed %d.", t.Sent, t.Skipped, t.Failed)
	switch {
	case t.Sent > 0 && t.Skipped == 0 && t.Failed == 0:
		return StatusSent, message
	case t.Sent > 0:
		return StatusPartial, message
	case t.Failed > 0:
		return StatusFailed, message
	default:
		return StatusBlocked, message
	}
}
