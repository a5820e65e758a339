// Package respond serves the signed yes/maybe/no links sent in nudges and
// reminder emails. The links work without a session.
package respond

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/actiontoken"
	"github.com/codr1/Teamgrid/internal/api/apiutil"
	availstore "github.com/codr1/Teamgrid/internal/availability"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/nudge"
	matchtempl "github.com/codr1/Teamgrid/internal/templates/components/matches"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

var (
	queries *dbgen.Queries
	store   *availstore.Store
	tokens  *actiontoken.Service
	clock   Clock = realClock{}
)

var statusLabels = map[actiontoken.Status]string{
	actiontoken.StatusYes:   "Yes",
	actiontoken.StatusMaybe: "Maybe",
	actiontoken.StatusNo:    "No",
}

func InitHandlers(q *dbgen.Queries, s *availstore.Store, t *actiontoken.Service) {
	queries = q
	store = s
	tokens = t
}

// HandleRespond handles GET /match-availability/respond/{token}. Following
// the same link again before it expires rewrites the same status.
func HandleRespond(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil || store == nil || tokens == nil {
		logger.Error().Msg("Respond handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	payload, err := tokens.Verify(r.PathValue("token"))
	if err != nil {
		if errors.Is(err, actiontoken.ErrExpired) {
			renderFailure(w, r, http.StatusGone, "Link Expired", "This response link has expired.")
			return
		}
		logger.Info().Err(err).Msg("Rejected action link")
		renderFailure(w, r, http.StatusBadRequest, "Invalid Link", "This response link is invalid.")
		return
	}

	linkLogger := logger.With().
		Int64("match_id", payload.MatchID).
		Int64("user_id", payload.UserID).
		Str("status", string(payload.Status)).
		Logger()
	logger = &linkLogger

	match, err := queries.GetMatchByID(r.Context(), payload.MatchID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Error().Err(err).Msg("Failed to load match for action link")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	missingMatch := err != nil

	user, err := queries.GetUserByID(r.Context(), payload.UserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Error().Err(err).Msg("Failed to load user for action link")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if missingMatch || err != nil {
		renderFailure(w, r, http.StatusNotFound, "Invalid Link", "This response link is no longer valid.")
		return
	}

	if !match.ScheduledAt.After(clock.Now()) {
		renderFailure(w, r, http.StatusGone, "Match Already Passed",
			"This match is in the past, so availability can no longer be updated.")
		return
	}

	if _, err := store.SetMatchResponse(r.Context(), match.ID, user.ID, string(payload.Status)); err != nil {
		logger.Error().Err(err).Msg("Failed to record action link response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	logger.Info().Msg("Availability recorded from action link")

	localTime, zone := nudge.FormatMatchTime(match.ScheduledAt, user.Timezone)
	opponent := "TBD"
	if match.OpponentName.Valid && match.OpponentName.String != "" {
		opponent = match.OpponentName.String
	}

	apiutil.RenderPage(w, r, http.StatusOK, "Availability Updated", matchtempl.LinkResult(matchtempl.LinkResultData{
		Success:   true,
		Title:     "Availability Updated",
		Message:   fmt.Sprintf("Your response has been recorded as %q.", statusLabels[payload.Status]),
		Opponent:  opponent,
		Map:       nudge.MatchMapName(match),
		LocalTime: localTime,
		Timezone:  zone,
	}))
}

func renderFailure(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	apiutil.RenderPage(w, r, status, title, matchtempl.LinkResult(matchtempl.LinkResultData{
		Title:   title,
		Message: message,
	}))
}
