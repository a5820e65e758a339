// internal/api/availability/handlers.go
package availability

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/api/apiutil"
	"github.com/codr1/Teamgrid/internal/api/authz"
	availstore "github.com/codr1/Teamgrid/internal/availability"
	availtempl "github.com/codr1/Teamgrid/internal/templates/components/availability"
	"github.com/codr1/Teamgrid/internal/timeslot"
)

var store *availstore.Store

func InitHandlers(s *availstore.Store) {
	store = s
}

// HandleAvailabilityPage handles GET /availability.
func HandleAvailabilityPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	user := authz.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if store == nil {
		logger.Error().Msg("Availability store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows, zone, err := store.WeekGrid(r.Context(), user.ID, user.Timezone)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to build availability grid")
		http.Error(w, "Failed to load availability", http.StatusInternalServerError)
		return
	}

	apiutil.RenderPage(w, r, http.StatusOK, "My availability", availtempl.Grid(availtempl.GridData{
		Timezone: zone,
		Rows:     rows,
	}))
}

// HandleToggleSlot handles PUT /availability. The cell arrives in the user's
// local day and hour and is stored in UTC; the refreshed cell is returned.
func HandleToggleSlot(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	user := authz.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if store == nil {
		logger.Error().Msg("Availability store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	day, err := apiutil.ParseIntInRange(r.FormValue("day"), "day", 0, 6)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	hour, err := apiutil.ParseIntInRange(r.FormValue("hour"), "hour", 0, 23)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	available := apiutil.ParseHTMLCheckbox(r.FormValue("available"))
	tz := timeslot.LocationOrUTC(user.Timezone).String()

	slot, err := store.SetLocalSlot(r.Context(), user.ID, tz, day, hour, available)
	if err != nil {
		logger.Error().Err(err).
			Int64("user_id", user.ID).
			Int("local_day", day).
			Int("local_hour", hour).
			Msg("Failed to update availability slot")
		http.Error(w, "Failed to update availability", http.StatusInternalServerError)
		return
	}

	logger.Debug().
		Int64("user_id", user.ID).
		Int("utc_day", slot.Day).
		Int("utc_hour", slot.Hour).
		Bool("available", available).
		Msg("Availability slot updated")

	apiutil.Render(w, r, http.StatusOK, availtempl.Cell(timeslot.GridCell{
		LocalDay:  day,
		LocalHour: hour,
		UTC:       slot,
		Available: available,
	}))
}
