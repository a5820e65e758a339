package players

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/api/apiutil"
	"github.com/codr1/Teamgrid/internal/api/authz"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/discord"
	"github.com/codr1/Teamgrid/internal/email"
	"github.com/codr1/Teamgrid/internal/nudge"
	playertempl "github.com/codr1/Teamgrid/internal/templates/components/players"
)

// HandleRegistrations handles GET /admin/registrations.
func HandleRegistrations(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	pending, err := queries.ListPendingUsers(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list pending users")
		http.Error(w, "Failed to load registrations", http.StatusInternalServerError)
		return
	}

	data := playertempl.RegistrationsData{}
	for _, u := range pending {
		data.Pending = append(data.Pending, playertempl.PendingUser{
			ID:       u.ID,
			Name:     nudge.PlayerName(u),
			Email:    u.Email,
			Timezone: u.Timezone,
			Created:  u.CreatedAt.UTC().Format("Jan 2, 2006 15:04 UTC"),
		})
	}
	apiutil.RenderPage(w, r, http.StatusOK, "Registrations", playertempl.Registrations(data))
}

// HandleApproveRegistration handles POST /admin/registrations/{id}/approve.
func HandleApproveRegistration(w http.ResponseWriter, r *http.Request) {
	decideRegistration(w, r, authz.ApprovalApproved)
}

// HandleRejectRegistration handles POST /admin/registrations/{id}/reject.
func HandleRejectRegistration(w http.ResponseWriter, r *http.Request) {
	decideRegistration(w, r, authz.ApprovalRejected)
}

func decideRegistration(w http.ResponseWriter, r *http.Request, status string) {
	logger := log.Ctx(r.Context())
	user, ok := loadPlayer(w, r)
	if !ok {
		return
	}

	if err := queries.UpdateUserApprovalStatus(r.Context(), dbgen.UpdateUserApprovalStatusParams{
		ApprovalStatus: status,
		ID:             user.ID,
	}); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Str("status", status).Msg("Failed to update approval status")
		http.Error(w, "Failed to update registration", http.StatusInternalServerError)
		return
	}

	name := nudge.PlayerName(user)
	approved := status == authz.ApprovalApproved
	logger.Info().Int64("user_id", user.ID).Str("status", status).Msg("Registration decided")

	msg := email.BuildApprovalEmail(name, approved, discord.AppLink(baseURL, "/login"))
	email.SendAsync(r.Context(), emailSender, user.Email, msg, logger)

	apiutil.RedirectWithFlash(w, r, "/admin/registrations", "success", fmt.Sprintf("%s has been %s.", name, status))
}
