package matches

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/api/apiutil"
	"github.com/codr1/Teamgrid/internal/api/authz"
	"github.com/codr1/Teamgrid/internal/db"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	matchtempl "github.com/codr1/Teamgrid/internal/templates/components/matches"
	"github.com/codr1/Teamgrid/internal/timeslot"
)

// HandleEditMatchPage handles GET /matches/{id}/edit.
func HandleEditMatchPage(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	match, ok := loadMatch(w, r)
	if !ok {
		return
	}
	renderEdit(w, r, user, http.StatusOK, match.ID, formFromMatch(match, user.Timezone), "")
}

// HandleUpdateMatch handles POST /matches/{id}/edit. Moving a match clears
// its 24h and 1h reminder records so both go out again for the new time.
func HandleUpdateMatch(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	user := authz.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	match, ok := loadMatch(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form, scheduledAt, formErr := readMatchForm(r, user.Timezone)
	if formErr != "" {
		renderEdit(w, r, user, http.StatusBadRequest, match.ID, form, formErr)
		return
	}
	moved := !scheduledAt.Equal(match.ScheduledAt)

	err := txDB.RunInTx(r.Context(), func(tx *db.DB) error {
		if err := tx.Queries.UpdateMatchDetails(r.Context(), dbgen.UpdateMatchDetailsParams{
			ScheduledAt:  scheduledAt,
			OpponentName: apiutil.NullString(form.Opponent),
			Map:          apiutil.NullString(form.Map),
			MatchType:    form.MatchType,
			Notes:        apiutil.NullString(form.Notes),
			ID:           match.ID,
		}); err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		if !moved {
			return nil
		}
		if err := tx.Queries.DeleteMatchReminderNotifications(r.Context(), match.ID); err != nil {
			return fmt.Errorf("reset reminders: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("match_id", match.ID).Msg("Failed to update match")
		http.Error(w, "Failed to update match", http.StatusInternalServerError)
		return
	}

	logger.Info().
		Int64("match_id", match.ID).
		Int64("admin_user_id", user.ID).
		Bool("rescheduled", moved).
		Time("scheduled_at", scheduledAt).
		Msg("Match updated")
	apiutil.RedirectWithFlash(w, r, fmt.Sprintf("/matches/%d", match.ID), "success", "Match updated.")
}

// HandleDeleteMatch handles POST /matches/{id}/delete. Responses, nudges,
// reminder records and synced stats go with the match.
func HandleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	user := authz.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := queries.DeleteMatch(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", id).Msg("Failed to delete match")
		http.Error(w, "Failed to delete match", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}

	logger.Info().Int64("match_id", id).Int64("admin_user_id", user.ID).Msg("Match deleted")
	apiutil.RedirectWithFlash(w, r, "/matches", "success", "Match deleted.")
}

func renderEdit(w http.ResponseWriter, r *http.Request, user *authz.AuthUser, status int, matchID int64, form matchtempl.CreateForm, formErr string) {
	apiutil.RenderPage(w, r, status, "Edit match", matchtempl.Edit(matchtempl.EditData{
		MatchID:  matchID,
		Timezone: timeslot.LocationOrUTC(user.Timezone).String(),
		Form:     form,
		Error:    formErr,
	}))
}

func formFromMatch(m dbgen.Match, tz string) matchtempl.CreateForm {
	return matchtempl.CreateForm{
		Opponent:    m.OpponentName.String,
		Map:         m.Map.String,
		MatchType:   m.MatchType,
		ScheduledAt: m.ScheduledAt.In(timeslot.LocationOrUTC(tz)).Format(localTimeLayouts[0]),
		Notes:       m.Notes.String,
	}
}
