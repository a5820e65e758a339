package matches

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/api/apiutil"
	"github.com/codr1/Teamgrid/internal/api/authz"
	"github.com/codr1/Teamgrid/internal/api/htmx"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/matchsync"
	"github.com/codr1/Teamgrid/internal/nudge"
	matchtempl "github.com/codr1/Teamgrid/internal/templates/components/matches"
	"github.com/codr1/Teamgrid/internal/valorant"
)

// HandleCheckAvailability handles GET /matches/check-availability. It lists
// roster players whose weekly availability covers the proposed time.
func HandleCheckAvailability(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	user := authz.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	raw := r.URL.Query().Get("scheduled_at")
	if raw == "" {
		raw = r.URL.Query().Get("datetime")
	}
	if strings.TrimSpace(raw) == "" {
		w.WriteHeader(http.StatusOK)
		return
	}
	at, err := ParseLocalTime(raw, user.Timezone)
	if err != nil {
		http.Error(w, "Enter the match time as date and time.", http.StatusBadRequest)
		return
	}

	players, err := store.PlayersAvailableAt(r.Context(), at)
	if err != nil {
		logger.Error().Err(err).Time("at", at).Msg("Failed to check roster availability")
		http.Error(w, "Failed to check availability", http.StatusInternalServerError)
		return
	}

	localTime, _ := nudge.FormatMatchTime(at, user.Timezone)
	data := matchtempl.AvailableAtData{LocalTime: localTime}
	for _, p := range players {
		data.Players = append(data.Players, nudge.PlayerName(p))
	}
	apiutil.Render(w, r, http.StatusOK, matchtempl.AvailableAt(data))
}

// HandleUpdateResult handles POST /matches/{id}/result.
func HandleUpdateResult(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	match, ok := loadMatch(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	detailURL := fmt.Sprintf("/matches/%d", match.ID)

	result := strings.ToLower(strings.TrimSpace(r.FormValue("result")))
	switch result {
	case "", "win", "loss", "draw":
	default:
		apiutil.RedirectWithFlash(w, r, detailURL, "error", "Result must be win, loss or draw.")
		return
	}
	scoreUs, hasUs, err := apiutil.ParseOptionalNonNegativeInt(r.FormValue("score_us"), "score_us")
	if err != nil {
		apiutil.RedirectWithFlash(w, r, detailURL, "error", err.Error())
		return
	}
	scoreThem, hasThem, err := apiutil.ParseOptionalNonNegativeInt(r.FormValue("score_them"), "score_them")
	if err != nil {
		apiutil.RedirectWithFlash(w, r, detailURL, "error", err.Error())
		return
	}

	if err := queries.UpdateMatchResult(r.Context(), dbgen.UpdateMatchResultParams{
		Result:    apiutil.NullString(result),
		ScoreUs:   apiutil.NullInt64(scoreUs, hasUs),
		ScoreThem: apiutil.NullInt64(scoreThem, hasThem),
		ID:        match.ID,
	}); err != nil {
		logger.Error().Err(err).Int64("match_id", match.ID).Msg("Failed to update match result")
		http.Error(w, "Failed to update result", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("match_id", match.ID).Str("result", result).Msg("Match result updated")
	apiutil.RedirectWithFlash(w, r, detailURL, "success", "Result saved.")
}

// HandleLinkValorant handles POST /matches/{id}/valorant: it stores the
// Valorant match id and pulls the stats right away.
func HandleLinkValorant(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	match, ok := loadMatch(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	detailURL := fmt.Sprintf("/matches/%d", match.ID)

	valorantMatchID := strings.TrimSpace(r.FormValue("valorant_match_id"))
	if valorantMatchID == "" {
		apiutil.RedirectWithFlash(w, r, detailURL, "error", "Valorant match id is required.")
		return
	}
	if syncer == nil {
		logger.Error().Msg("Match sync not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	result, err := syncer.LinkAndSync(r.Context(), match, valorantMatchID)
	if err != nil {
		logger.Warn().Err(err).
			Int64("match_id", match.ID).
			Str("valorant_match_id", valorantMatchID).
			Msg("Valorant sync failed")
		apiutil.RedirectWithFlash(w, r, detailURL, "error", syncErrorMessage(err))
		return
	}

	apiutil.RedirectWithFlash(w, r, detailURL, "success",
		fmt.Sprintf("Stats synced for %d players.", result.SyncedPlayerRows))
}

func syncErrorMessage(err error) string {
	var apiErr *valorant.APIError
	switch {
	case errors.Is(err, valorant.ErrAPIKeyMissing):
		return "Valorant stats are not configured."
	case errors.Is(err, matchsync.ErrNoValorantMatch):
		return "Valorant match id is required."
	case errors.As(err, &apiErr) && apiErr.RateLimited():
		return "The stats API is rate limited. Try again in a minute."
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return "Valorant match not found."
	}
	return "Could not sync stats from the Valorant API."
}

// HandleRecentValorantMatches handles GET /matches/{id}/valorant/recent. It
// lists a roster player's recent games so one can be linked to the match.
func HandleRecentValorantMatches(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	match, ok := loadMatch(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	playerID, err := apiutil.ParsePositiveInt64Field(query.Get("player_id"), "player_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	player, err := queries.GetUserByID(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("user_id", playerID).Msg("Failed to load player")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := matchtempl.RecentData{MatchID: match.ID, Player: nudge.PlayerName(player)}
	riotID, err := valorant.ParseRiotID(player.RiotID.String)
	switch {
	case err != nil:
		data.Error = `Invalid Riot ID format. Expected "Name#TAG".`
	case history == nil:
		data.Error = "Valorant stats are not configured."
	default:
		found, err := history.RecentMatches(r.Context(), riotID, apiutil.ParseHTMLCheckbox(query.Get("show_all")))
		if err != nil {
			logger.Warn().Err(err).Str("riot_id", riotID.String()).Msg("Recent matches lookup failed")
			data.Error = historyErrorMessage(err, riotID)
			break
		}
		for _, m := range found {
			data.Rows = append(data.Rows, matchtempl.RecentRow{
				MatchID:   m.MatchID,
				Map:       m.Map,
				Mode:      m.Mode,
				StartedAt: m.StartedAt,
				Type:      string(m.Type),
				Score:     fmt.Sprintf("%d-%d", m.ScoreUs, m.ScoreThem),
				Result:    string(m.Result),
			})
		}
	}
	apiutil.Render(w, r, http.StatusOK, matchtempl.RecentMatches(data))
}

func historyErrorMessage(err error, id valorant.RiotID) string {
	var apiErr *valorant.APIError
	switch {
	case errors.Is(err, valorant.ErrAPIKeyMissing):
		return "Valorant stats are not configured."
	case errors.As(err, &apiErr) && apiErr.RateLimited():
		return "The stats API is rate limited. Try again in a minute."
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return fmt.Sprintf("No Valorant account found for %s.", id)
	}
	return "Could not load recent matches from the Valorant API."
}

// HandleNudgeMatch handles POST /matches/{id}/nudges: a DM to every roster
// player who has not answered.
func HandleNudgeMatch(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	admin := authz.UserFromContext(r.Context())
	if admin == nil {
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

	batch, err := nudges.SendMatchNudges(r.Context(), admin.ID, match, nudge.Options{
		Force: apiutil.ParseHTMLCheckbox(r.FormValue("force")),
	})
	if err != nil {
		logger.Error().Err(err).Int64("match_id", match.ID).Msg("Failed to send match nudges")
		http.Error(w, "Failed to send nudges", http.StatusInternalServerError)
		return
	}
	writeNudgeResult(w, r, match.ID, batch.Status, batch.Message)
}

// HandleNudgePlayer handles POST /matches/{id}/nudges/{userID}.
func HandleNudgePlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	admin := authz.UserFromContext(r.Context())
	if admin == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	match, ok := loadMatch(w, r)
	if !ok {
		return
	}
	userID, err := apiutil.PathID(r, "userID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	player, err := queries.GetUserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Player not found", http.StatusNotFound)
		return
	}

	outcome, err := nudges.SendMatchNudge(r.Context(), admin.ID, match, player, nudge.Options{
		Force: apiutil.ParseHTMLCheckbox(r.FormValue("force")),
	})
	if err != nil {
		logger.Error().Err(err).
			Int64("match_id", match.ID).
			Int64("target_user_id", userID).
			Msg("Failed to send match nudge")
		http.Error(w, "Failed to send nudge", http.StatusInternalServerError)
		return
	}
	writeNudgeResult(w, r, match.ID, outcome.Status, outcome.Message)
}

// writeNudgeResult swaps a status fragment for htmx and falls back to a flash
// and redirect for plain form posts.
func writeNudgeResult(w http.ResponseWriter, r *http.Request, matchID int64, status, message string) {
	if htmx.IsRequest(r) {
		apiutil.Render(w, r, http.StatusOK, matchtempl.NudgeResult(matchtempl.NudgeResultData{Status: status, Message: message}))
		return
	}
	kind := "success"
	if status == nudge.StatusBlocked || status == nudge.StatusFailed {
		kind = "error"
	}
	apiutil.RedirectWithFlash(w, r, fmt.Sprintf("/matches/%d", matchID), kind, message)
}
