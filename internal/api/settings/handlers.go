package settings

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/api/apiutil"
	"github.com/codr1/Teamgrid/internal/api/auth"
	"github.com/codr1/Teamgrid/internal/api/authz"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/models"
	settingstempl "github.com/codr1/Teamgrid/internal/templates/components/settings"
	"github.com/codr1/Teamgrid/internal/timeslot"
	"github.com/codr1/Teamgrid/internal/valorant"
)

var queries *dbgen.Queries

func InitHandlers(q *dbgen.Queries) {
	queries = q
}

// HandleSettingsPage handles GET /settings.
func HandleSettingsPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	viewer := authz.UserFromContext(r.Context())
	if viewer == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := queries.GetUserByID(r.Context(), viewer.ID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", viewer.ID).Msg("Failed to load settings")
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}

	render(w, r, http.StatusOK, savedData(user))
}

// HandleChangePassword handles POST /settings/password.
func HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	viewer := authz.UserFromContext(r.Context())
	if viewer == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	user, err := queries.GetUserByID(r.Context(), viewer.ID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", viewer.ID).Msg("Failed to load user for password change")
		http.Error(w, "Failed to change password", http.StatusInternalServerError)
		return
	}

	hash, err := auth.CheckPasswordChange(user.PasswordHash,
		r.FormValue("current_password"), r.FormValue("new_password"), r.FormValue("confirm_password"))
	if err != nil {
		if passwordRejected(err) {
			data := savedData(user)
			data.PasswordError = apiutil.ErrorSentence(err)
			render(w, r, http.StatusBadRequest, data)
			return
		}
		logger.Error().Err(err).Int64("user_id", viewer.ID).Msg("Failed to hash new password")
		http.Error(w, "Failed to change password", http.StatusInternalServerError)
		return
	}

	if err := queries.UpdateUserPassword(r.Context(), dbgen.UpdateUserPasswordParams{PasswordHash: hash, ID: user.ID}); err != nil {
		logger.Error().Err(err).Int64("user_id", viewer.ID).Msg("Failed to save new password")
		http.Error(w, "Failed to change password", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", viewer.ID).Msg("Password changed")
	apiutil.RedirectWithFlash(w, r, "/settings", "success", "Password changed.")
}

func passwordRejected(err error) bool {
	for _, target := range []error{
		auth.ErrWrongPassword,
		auth.ErrPasswordMismatch,
		auth.ErrPasswordTooShort,
		auth.ErrPasswordTooLong,
		auth.ErrPasswordUnchanged,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func savedData(user dbgen.User) settingstempl.Data {
	return settingstempl.Data{
		Timezone:   user.Timezone,
		RiotID:     user.RiotID.String,
		AgentPrefs: prefSet(models.DecodeAgentPrefs(user.AgentPrefs)),
	}
}

// HandleUpdateSettings handles POST /settings.
func HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	viewer := authz.UserFromContext(r.Context())
	if viewer == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	data := settingstempl.Data{
		Timezone:   strings.TrimSpace(r.FormValue("timezone")),
		RiotID:     strings.TrimSpace(r.FormValue("riot_id")),
		AgentPrefs: prefSet(r.Form["agents"]),
	}

	if err := timeslot.ValidateTimezone(data.Timezone); err != nil {
		data.Error = "Choose a valid timezone."
		render(w, r, http.StatusBadRequest, data)
		return
	}
	agents, err := models.NormalizeAgentPrefs(r.Form["agents"])
	if err != nil {
		data.Error = err.Error()
		render(w, r, http.StatusBadRequest, data)
		return
	}
	if data.RiotID != "" {
		id, err := valorant.ParseRiotID(data.RiotID)
		if err != nil {
			data.Error = "Riot ID must look like Name#TAG."
			render(w, r, http.StatusBadRequest, data)
			return
		}
		data.RiotID = id.String()
	}

	if err := queries.UpdateUserSettings(r.Context(), dbgen.UpdateUserSettingsParams{
		Timezone:   data.Timezone,
		AgentPrefs: models.EncodeAgentPrefs(agents),
		RiotID:     apiutil.NullString(data.RiotID),
		ID:         viewer.ID,
	}); err != nil {
		logger.Error().Err(err).Int64("user_id", viewer.ID).Msg("Failed to save settings")
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", viewer.ID).Str("timezone", data.Timezone).Int("agents", len(agents)).Msg("Settings updated")
	apiutil.RedirectWithFlash(w, r, "/settings", "success", "Settings saved.")
}

func render(w http.ResponseWriter, r *http.Request, status int, data settingstempl.Data) {
	data.Timezones = timeslot.TimezoneChoices(data.Timezone)
	apiutil.RenderPage(w, r, status, "Settings", settingstempl.Form(data))
}

func prefSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, key := range keys {
		set[strings.ToLower(strings.TrimSpace(key))] = true
	}
	return set
}
