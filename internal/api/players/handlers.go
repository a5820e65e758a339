// internal/api/players/handlers.go
package players

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/api/apiutil"
	"github.com/codr1/Teamgrid/internal/api/authz"
	"github.com/codr1/Teamgrid/internal/api/htmx"
	availstore "github.com/codr1/Teamgrid/internal/availability"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/email"
	"github.com/codr1/Teamgrid/internal/models"
	"github.com/codr1/Teamgrid/internal/nudge"
	availtempl "github.com/codr1/Teamgrid/internal/templates/components/availability"
	playertempl "github.com/codr1/Teamgrid/internal/templates/components/players"
)

var (
	queries     *dbgen.Queries
	store       *availstore.Store
	nudges      *nudge.Service
	emailSender email.EmailSender
	baseURL     string
)

// InitHandlers wires the player pages. sender may be nil when email is not
// configured; approval notices are then skipped.
func InitHandlers(q *dbgen.Queries, s *availstore.Store, n *nudge.Service, sender email.EmailSender, appBaseURL string) {
	queries = q
	store = s
	nudges = n
	emailSender = sender
	baseURL = appBaseURL
}

// HandlePlayersList handles GET /players.
func HandlePlayersList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	viewer := authz.UserFromContext(r.Context())
	if viewer == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	users, err := queries.ListUsers(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list users")
		http.Error(w, "Failed to load players", http.StatusInternalServerError)
		return
	}

	isAdmin := authz.IsAdmin(viewer)
	data := playertempl.RosterData{IsAdmin: isAdmin}
	for _, u := range users {
		if u.ApprovalStatus != authz.ApprovalApproved {
			continue
		}
		row, err := playerRow(r, u, isAdmin)
		if err != nil {
			logger.Error().Err(err).Int64("user_id", u.ID).Msg("Failed to load player row")
			http.Error(w, "Failed to load players", http.StatusInternalServerError)
			return
		}
		data.Players = append(data.Players, row)
	}

	apiutil.RenderPage(w, r, http.StatusOK, "Players", playertempl.Roster(data))
}

// HandlePlayerDetail handles GET /players/{id}. The weekly grid is shown in
// the viewer's timezone.
func HandlePlayerDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	viewer := authz.UserFromContext(r.Context())
	if viewer == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	player, ok := loadPlayer(w, r)
	if !ok {
		return
	}

	row, err := playerRow(r, player, false)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", player.ID).Msg("Failed to load player")
		http.Error(w, "Failed to load player", http.StatusInternalServerError)
		return
	}
	rows, zone, err := store.WeekGrid(r.Context(), player.ID, viewer.Timezone)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", player.ID).Msg("Failed to build availability grid")
		http.Error(w, "Failed to load player", http.StatusInternalServerError)
		return
	}

	apiutil.RenderPage(w, r, http.StatusOK, row.Name, playertempl.Detail(playertempl.DetailData{
		Player: row,
		Grid:   availtempl.GridData{Timezone: zone, Rows: rows, ReadOnly: true},
	}))
}

// HandleProfileNudge handles POST /players/{id}/nudge.
func HandleProfileNudge(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	admin := authz.UserFromContext(r.Context())
	if admin == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	player, ok := loadPlayer(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	outcome, err := nudges.SendProfileDataNudge(r.Context(), admin.ID, player, nudge.Options{
		Force: apiutil.ParseHTMLCheckbox(r.FormValue("force")),
	})
	if err != nil {
		logger.Error().Err(err).Int64("target_user_id", player.ID).Msg("Failed to send profile nudge")
		http.Error(w, "Failed to send nudge", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.Render(w, r, http.StatusOK, playertempl.NudgeResult(outcome.Status, outcome.Message))
		return
	}
	kind := "success"
	if !outcome.Sent() {
		kind = "error"
	}
	apiutil.RedirectWithFlash(w, r, "/players", kind, outcome.Message)
}

// HandleSetRoster handles POST /players/{id}/roster.
func HandleSetRoster(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	player, ok := loadPlayer(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	onRoster := apiutil.ParseHTMLCheckbox(r.FormValue("on_roster"))
	if err := queries.UpdateUserRoster(r.Context(), dbgen.UpdateUserRosterParams{IsOnRoster: onRoster, ID: player.ID}); err != nil {
		logger.Error().Err(err).Int64("user_id", player.ID).Msg("Failed to update roster")
		http.Error(w, "Failed to update roster", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", player.ID).Bool("on_roster", onRoster).Msg("Roster updated")
	message := fmt.Sprintf("%s removed from the roster.", nudge.PlayerName(player))
	if onRoster {
		message = fmt.Sprintf("%s added to the roster.", nudge.PlayerName(player))
	}
	apiutil.RedirectWithFlash(w, r, "/players", "success", message)
}

// HandleDeletePlayer handles POST /players/{id}/delete. Weekly slots, match
// responses and nudge history are removed with the account; synced match
// stats stay but lose the link. Admin accounts cannot be deleted here.
func HandleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	viewer := authz.UserFromContext(r.Context())
	if viewer == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	player, ok := loadPlayer(w, r)
	if !ok {
		return
	}
	if player.ID == viewer.ID || player.Role == authz.RoleAdmin {
		apiutil.RedirectWithFlash(w, r, "/players", "error", "Admin accounts cannot be deleted.")
		return
	}

	if _, err := queries.DeleteUser(r.Context(), player.ID); err != nil {
		logger.Error().Err(err).Int64("user_id", player.ID).Msg("Failed to delete player")
		http.Error(w, "Failed to delete player", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", player.ID).Int64("admin_user_id", viewer.ID).Msg("Player deleted")
	apiutil.RedirectWithFlash(w, r, "/players", "success", fmt.Sprintf("%s deleted.", nudge.PlayerName(player)))
}

// HandleClearCooldown handles POST /players/{id}/clear-cooldown.
func HandleClearCooldown(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	player, ok := loadPlayer(w, r)
	if !ok {
		return
	}

	cleared, err := nudges.ClearCooldowns(r.Context(), player.ID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", player.ID).Msg("Failed to clear nudge cooldowns")
		http.Error(w, "Failed to clear cooldown", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", player.ID).Int64("cleared", cleared).Msg("Nudge cooldowns cleared")
	apiutil.RedirectWithFlash(w, r, "/players", "success",
		fmt.Sprintf("Cleared %d nudge records for %s.", cleared, nudge.PlayerName(player)))
}

func loadPlayer(w http.ResponseWriter, r *http.Request) (dbgen.User, bool) {
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return dbgen.User{}, false
	}
	player, err := queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Player not found", http.StatusNotFound)
			return dbgen.User{}, false
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("user_id", id).Msg("Failed to load player")
		http.Error(w, "Failed to load player", http.StatusInternalServerError)
		return dbgen.User{}, false
	}
	return player, true
}

func playerRow(r *http.Request, u dbgen.User, withNudges bool) (playertempl.PlayerRow, error) {
	slots, err := store.CountAvailable(r.Context(), u.ID)
	if err != nil {
		return playertempl.PlayerRow{}, err
	}

	prefs := models.DecodeAgentPrefs(u.AgentPrefs)
	agents := make([]string, 0, len(prefs))
	for _, key := range prefs {
		if agent, ok := models.LookupAgent(key); ok {
			agents = append(agents, agent.Name)
		}
	}

	row := playertempl.PlayerRow{
		ID:             u.ID,
		Name:           nudge.PlayerName(u),
		Email:          u.Email,
		Role:           u.Role,
		RiotID:         u.RiotID.String,
		Agents:         agents,
		OnRoster:       u.IsOnRoster,
		HasDiscord:     u.DiscordID.Valid && u.DiscordID.String != "",
		AvailableSlots: slots,
		MissingProfile: slots == 0 || len(agents) == 0,
	}
	if withNudges {
		history, err := queries.ListPlayerNudgesByUser(r.Context(), u.ID)
		if err != nil {
			return playertempl.PlayerRow{}, err
		}
		if len(history) > 0 {
			row.LastNudgeMessage = describeNudge(history[0])
		}
	}
	return row, nil
}

func describeNudge(n dbgen.PlayerNudge) string {
	if n.Status == nudge.StatusSent && n.SentAt.Valid {
		return "Last nudged " + n.SentAt.Time.UTC().Format("Jan 2 15:04 UTC")
	}
	if n.ErrorMessage.Valid && n.ErrorMessage.String != "" {
		return n.ErrorMessage.String
	}
	return n.Status
}
