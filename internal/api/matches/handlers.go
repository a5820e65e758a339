// internal/api/matches/handlers.go
package matches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/api/apiutil"
	"github.com/codr1/Teamgrid/internal/api/authz"
	availstore "github.com/codr1/Teamgrid/internal/availability"
	"github.com/codr1/Teamgrid/internal/db"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/matchsync"
	"github.com/codr1/Teamgrid/internal/nudge"
	matchtempl "github.com/codr1/Teamgrid/internal/templates/components/matches"
	"github.com/codr1/Teamgrid/internal/timeslot"
	"github.com/codr1/Teamgrid/internal/valorant"
)

const pastMatchLimit = 20

// Accepted layouts for an admin-entered local match time.
var localTimeLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04"}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RecentMatchSource looks up a player's Valorant match history.
type RecentMatchSource interface {
	RecentMatches(ctx context.Context, player valorant.RiotID, showAll bool) ([]valorant.RecentMatch, error)
}

var (
	txDB    *db.DB
	queries *dbgen.Queries
	store   *availstore.Store
	nudges  *nudge.Service
	syncer  *matchsync.Service
	history RecentMatchSource
	clock   Clock = realClock{}
)

func InitHandlers(database *db.DB, s *availstore.Store, n *nudge.Service, sy *matchsync.Service, h RecentMatchSource) {
	txDB = database
	queries = database.Queries
	store = s
	nudges = n
	syncer = sy
	history = h
}

// HandleMatchesList handles GET /matches.
func HandleMatchesList(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	renderList(w, r, user, http.StatusOK, matchtempl.CreateForm{MatchType: "scrim"}, "")
}

func renderList(w http.ResponseWriter, r *http.Request, user *authz.AuthUser, status int, form matchtempl.CreateForm, formErr string) {
	logger := log.Ctx(r.Context())
	ctx := r.Context()
	now := clock.Now().UTC()
	tz := timeslot.LocationOrUTC(user.Timezone).String()

	upcoming, err := queries.ListUpcomingMatches(ctx, now)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list upcoming matches")
		http.Error(w, "Failed to load matches", http.StatusInternalServerError)
		return
	}
	past, err := queries.ListPastMatches(ctx, dbgen.ListPastMatchesParams{Before: now, Limit: pastMatchLimit})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list past matches")
		http.Error(w, "Failed to load matches", http.StatusInternalServerError)
		return
	}

	data := matchtempl.ListData{
		Timezone: tz,
		IsAdmin:  authz.IsAdmin(user),
		Form:     form,
		Error:    formErr,
	}
	for _, m := range upcoming {
		row := matchRow(m, tz)
		row.MyStatus, err = responseStatus(r, m.ID, user.ID)
		if err != nil {
			logger.Error().Err(err).Int64("match_id", m.ID).Msg("Failed to load match response")
			http.Error(w, "Failed to load matches", http.StatusInternalServerError)
			return
		}
		data.Upcoming = append(data.Upcoming, row)
	}
	for _, m := range past {
		data.Past = append(data.Past, matchRow(m, tz))
	}

	apiutil.RenderPage(w, r, status, "Matches", matchtempl.List(data))
}

// HandleCreateMatch handles POST /matches. The time is entered in the admin's
// timezone and stored in UTC.
func HandleCreateMatch(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	user := authz.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form, scheduledAt, formErr := readMatchForm(r, user.Timezone)
	if formErr != "" {
		renderList(w, r, user, http.StatusBadRequest, form, formErr)
		return
	}

	match, err := queries.CreateMatch(r.Context(), dbgen.CreateMatchParams{
		ScheduledAt:  scheduledAt,
		OpponentName: apiutil.NullString(form.Opponent),
		Map:          apiutil.NullString(form.Map),
		MatchType:    form.MatchType,
		Notes:        apiutil.NullString(form.Notes),
		CreatedBy:    apiutil.NullInt64(user.ID, true),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create match")
		http.Error(w, "Failed to create match", http.StatusInternalServerError)
		return
	}

	logger.Info().
		Int64("match_id", match.ID).
		Time("scheduled_at", match.ScheduledAt).
		Int64("admin_user_id", user.ID).
		Msg("Match scheduled")
	apiutil.RedirectWithFlash(w, r, fmt.Sprintf("/matches/%d", match.ID), "success", "Match scheduled successfully")
}

// HandleMatchDetail handles GET /matches/{id}.
func HandleMatchDetail(w http.ResponseWriter, r *http.Request) {
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
	ctx := r.Context()
	tz := timeslot.LocationOrUTC(user.Timezone).String()
	localTime, _ := nudge.FormatMatchTime(match.ScheduledAt, tz)

	responses, err := store.MatchResponses(ctx, match.ID)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", match.ID).Msg("Failed to load match responses")
		http.Error(w, "Failed to load match", http.StatusInternalServerError)
		return
	}
	roster, err := queries.ListRosterPlayers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list roster")
		http.Error(w, "Failed to load match", http.StatusInternalServerError)
		return
	}

	data := matchtempl.DetailData{
		ID:              match.ID,
		Opponent:        match.OpponentName.String,
		MatchType:       match.MatchType,
		Map:             nudge.MatchMapName(match),
		LocalTime:       localTime,
		Timezone:        tz,
		Notes:           match.Notes.String,
		Upcoming:        match.ScheduledAt.After(clock.Now()),
		IsAdmin:         authz.IsAdmin(user),
		MyStatus:        availstore.ResponseFor(responses, user.ID),
		Result:          match.Result.String,
		ScoreUs:         nullIntString(match.ScoreUs),
		ScoreThem:       nullIntString(match.ScoreThem),
		ValorantMatchID: match.ValorantMatchID.String,
	}
	for _, player := range roster {
		if player.ApprovalStatus != authz.ApprovalApproved {
			continue
		}
		data.Responses = append(data.Responses, matchtempl.PlayerResponse{
			UserID:     player.ID,
			Name:       nudge.PlayerName(player),
			Status:     availstore.ResponseFor(responses, player.ID),
			HasDiscord: player.DiscordID.Valid && player.DiscordID.String != "",
		})
		if id, err := valorant.ParseRiotID(player.RiotID.String); err == nil {
			data.RiotPlayers = append(data.RiotPlayers, matchtempl.RiotPlayer{
				UserID: player.ID,
				Name:   nudge.PlayerName(player),
				RiotID: id.String(),
			})
		}
	}

	synced, err := syncedRows(r, match.ID)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", match.ID).Msg("Failed to load synced stats")
		http.Error(w, "Failed to load match", http.StatusInternalServerError)
		return
	}
	data.Synced = synced

	apiutil.RenderPage(w, r, http.StatusOK, matchtempl.Title(data.Opponent), matchtempl.Detail(data))
}

// HandleSetAvailability handles PUT /matches/{id}/availability for the
// signed-in player and returns the refreshed buttons.
func HandleSetAvailability(w http.ResponseWriter, r *http.Request) {
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
	if !match.ScheduledAt.After(clock.Now()) {
		http.Error(w, "This match is in the past.", http.StatusConflict)
		return
	}

	status := strings.TrimSpace(r.FormValue("status"))
	if _, err := store.SetMatchResponse(r.Context(), match.ID, user.ID, status); err != nil {
		if errors.Is(err, availstore.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error().Err(err).Int64("match_id", match.ID).Msg("Failed to save match response")
		http.Error(w, "Failed to save response", http.StatusInternalServerError)
		return
	}

	logger.Info().
		Int64("match_id", match.ID).
		Int64("user_id", user.ID).
		Str("status", status).
		Msg("Match response updated")
	apiutil.Render(w, r, http.StatusOK, matchtempl.ResponseButtons(matchtempl.ResponseData{MatchID: match.ID, Status: status}))
}

// readMatchForm validates the create and edit form. A non-empty message
// means the input was rejected.
func readMatchForm(r *http.Request, tz string) (matchtempl.CreateForm, time.Time, string) {
	form := matchtempl.CreateForm{
		Opponent:    strings.TrimSpace(r.FormValue("opponent_name")),
		Map:         strings.TrimSpace(r.FormValue("map")),
		MatchType:   strings.TrimSpace(r.FormValue("match_type")),
		ScheduledAt: strings.TrimSpace(r.FormValue("scheduled_at")),
		Notes:       strings.TrimSpace(r.FormValue("notes")),
	}
	if form.MatchType == "" {
		form.MatchType = "scrim"
	}

	scheduledAt, err := ParseLocalTime(form.ScheduledAt, tz)
	switch {
	case err != nil:
		return form, time.Time{}, "Enter the match time as date and time."
	case form.MatchType != "scrim" && form.MatchType != "official":
		return form, time.Time{}, "Match type must be scrim or official."
	case len(form.Opponent) > 255 || len(form.Map) > 255:
		return form, time.Time{}, "Opponent and map must be at most 255 characters."
	case len(form.Notes) > 1000:
		return form, time.Time{}, "Notes must be at most 1000 characters."
	}
	return form, scheduledAt, ""
}

// ParseLocalTime reads a local wall-clock time in tz and returns it in UTC.
func ParseLocalTime(raw, tz string) (time.Time, error) {
	loc := timeslot.LocationOrUTC(tz)
	raw = strings.TrimSpace(raw)
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid local time %q", raw)
}

func loadMatch(w http.ResponseWriter, r *http.Request) (dbgen.Match, bool) {
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return dbgen.Match{}, false
	}
	match, err := queries.GetMatchByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return dbgen.Match{}, false
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("match_id", id).Msg("Failed to load match")
		http.Error(w, "Failed to load match", http.StatusInternalServerError)
		return dbgen.Match{}, false
	}
	return match, true
}

func responseStatus(r *http.Request, matchID, userID int64) (string, error) {
	row, err := queries.GetMatchAvailability(r.Context(), dbgen.GetMatchAvailabilityParams{MatchID: matchID, UserID: userID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return availstore.StatusPending, nil
		}
		return "", err
	}
	return row.Status, nil
}

func matchRow(m dbgen.Match, tz string) matchtempl.MatchRow {
	localTime, _ := nudge.FormatMatchTime(m.ScheduledAt, tz)
	return matchtempl.MatchRow{
		ID:        m.ID,
		Opponent:  m.OpponentName.String,
		MatchType: m.MatchType,
		Map:       nudge.MatchMapName(m),
		LocalTime: localTime,
		Result:    resultLabel(m),
	}
}

func resultLabel(m dbgen.Match) string {
	if !m.Result.Valid || m.Result.String == "" {
		return "-"
	}
	label := strings.ToUpper(m.Result.String[:1]) + m.Result.String[1:]
	if m.ScoreUs.Valid && m.ScoreThem.Valid {
		label += fmt.Sprintf(" %d-%d", m.ScoreUs.Int64, m.ScoreThem.Int64)
	}
	return label
}

func nullIntString(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	return fmt.Sprintf("%d", v.Int64)
}

func syncedRows(r *http.Request, matchID int64) ([]matchtempl.SyncedRow, error) {
	players, err := queries.ListMatchSyncedPlayers(r.Context(), matchID)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, nil
	}
	known := make(map[string]struct{})
	if syncer != nil {
		if known, err = syncer.KnownRiotIDs(r.Context()); err != nil {
			return nil, err
		}
	}
	ourTeam := matchsync.DetermineOurTeam(players, known)

	rows := make([]matchtempl.SyncedRow, 0, len(players))
	for _, p := range matchsync.SortPlayers(players, ourTeam) {
		agent := p.AgentName.String
		if agent == "" {
			agent = p.AgentKey.String
		}
		rows = append(rows, matchtempl.SyncedRow{
			RiotID:  p.RiotName + "#" + p.RiotTag,
			Team:    p.Team.String,
			Agent:   agent,
			Score:   nullIntString(p.Score),
			Kills:   nullIntString(p.Kills),
			Deaths:  nullIntString(p.Deaths),
			Assists: nullIntString(p.Assists),
			Linked:  p.UserID.Valid,
		})
	}
	return rows, nil
}
