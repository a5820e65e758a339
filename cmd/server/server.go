// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/codr1/Teamgrid/internal/api"
	"github.com/codr1/Teamgrid/internal/api/auth"
	"github.com/codr1/Teamgrid/internal/api/authz"
	"github.com/codr1/Teamgrid/internal/api/availability"
	"github.com/codr1/Teamgrid/internal/api/matches"
	"github.com/codr1/Teamgrid/internal/api/players"
	"github.com/codr1/Teamgrid/internal/api/respond"
	"github.com/codr1/Teamgrid/internal/api/settings"
	"github.com/codr1/Teamgrid/internal/app"
	"github.com/codr1/Teamgrid/internal/config"
)

func newServer(cfg *config.Config, services *app.Services) *http.Server {
	router := http.NewServeMux()

	initHandlers(cfg, services)
	registerRoutes(router)

	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
		api.WithStatic,
		api.WithAuth,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func initHandlers(cfg *config.Config, s *app.Services) {
	q := s.DB.Queries
	auth.InitHandlers(q, cfg, s.Limiter)
	availability.InitHandlers(s.Availability)
	matches.InitHandlers(s.DB, s.Availability, s.Nudges, s.Sync, s.Valorant)
	players.InitHandlers(q, s.Availability, s.Nudges, s.Email, cfg.App.BaseURL)
	respond.InitHandlers(q, s.Availability, s.Tokens)
	settings.InitHandlers(q)
}

func approved(h http.HandlerFunc) http.Handler {
	return api.WithApproved(h)
}

func admin(h http.HandlerFunc) http.Handler {
	return api.WithApproved(api.WithAdmin(h))
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		user := authz.UserFromContext(r.Context())
		switch {
		case user == nil:
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case !authz.IsApproved(user):
			http.Redirect(w, r, "/pending-approval", http.StatusSeeOther)
		default:
			http.Redirect(w, r, "/matches", http.StatusSeeOther)
		}
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("GET /login", auth.HandleLoginPage)
	mux.HandleFunc("POST /login", auth.HandleLogin)
	mux.HandleFunc("POST /logout", auth.HandleLogout)
	mux.HandleFunc("GET /register", auth.HandleRegisterPage)
	mux.HandleFunc("POST /register", auth.HandleRegister)
	mux.HandleFunc("GET /pending-approval", auth.HandlePendingApproval)

	// Signed links from Discord and email work without a session.
	mux.HandleFunc("GET /match-availability/respond/{token}", respond.HandleRespond)

	mux.Handle("GET /availability", approved(availability.HandleAvailabilityPage))
	mux.Handle("PUT /availability", approved(availability.HandleToggleSlot))

	mux.Handle("GET /settings", approved(settings.HandleSettingsPage))
	mux.Handle("GET /settings/profile", approved(settings.HandleSettingsPage))
	mux.Handle("POST /settings", approved(settings.HandleUpdateSettings))
	mux.Handle("POST /settings/password", approved(settings.HandleChangePassword))

	mux.Handle("GET /matches", approved(matches.HandleMatchesList))
	mux.Handle("POST /matches", admin(matches.HandleCreateMatch))
	mux.Handle("GET /matches/check-availability", admin(matches.HandleCheckAvailability))
	mux.Handle("GET /matches/{id}", approved(matches.HandleMatchDetail))
	mux.Handle("GET /matches/{id}/edit", admin(matches.HandleEditMatchPage))
	mux.Handle("POST /matches/{id}/edit", admin(matches.HandleUpdateMatch))
	mux.Handle("POST /matches/{id}/delete", admin(matches.HandleDeleteMatch))
	mux.Handle("PUT /matches/{id}/availability", approved(matches.HandleSetAvailability))
	mux.Handle("POST /matches/{id}/result", admin(matches.HandleUpdateResult))
	mux.Handle("POST /matches/{id}/valorant", admin(matches.HandleLinkValorant))
	mux.Handle("GET /matches/{id}/valorant/recent", admin(matches.HandleRecentValorantMatches))
	mux.Handle("POST /matches/{id}/nudges", admin(matches.HandleNudgeMatch))
	mux.Handle("POST /matches/{id}/nudges/{userID}", admin(matches.HandleNudgePlayer))

	mux.Handle("GET /players", approved(players.HandlePlayersList))
	mux.Handle("GET /players/{id}", approved(players.HandlePlayerDetail))
	mux.Handle("POST /players/{id}/nudge", admin(players.HandleProfileNudge))
	mux.Handle("POST /players/{id}/roster", admin(players.HandleSetRoster))
	mux.Handle("POST /players/{id}/clear-cooldown", admin(players.HandleClearCooldown))
	mux.Handle("POST /players/{id}/delete", admin(players.HandleDeletePlayer))

	mux.Handle("GET /admin/registrations", admin(players.HandleRegistrations))
	mux.Handle("POST /admin/registrations/{id}/approve", admin(players.HandleApproveRegistration))
	mux.Handle("POST /admin/registrations/{id}/reject", admin(players.HandleRejectRegistration))

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "web/static"
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
}
