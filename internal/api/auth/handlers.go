package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/api/apiutil"
	"github.com/codr1/Teamgrid/internal/api/authz"
	"github.com/codr1/Teamgrid/internal/config"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/ratelimit"
	authtempl "github.com/codr1/Teamgrid/internal/templates/components/auth"
	"github.com/codr1/Teamgrid/internal/timeslot"
)

var (
	queries   *dbgen.Queries
	appConfig *config.Config
	limiter   *ratelimit.Limiter
)

func InitHandlers(q *dbgen.Queries, cfg *config.Config, l *ratelimit.Limiter) {
	queries = q
	appConfig = cfg
	limiter = l
}

func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if authz.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	apiutil.RenderPage(w, r, http.StatusOK, "Sign in", authtempl.LoginForm(authtempl.LoginData{}))
}

func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	ip := clientIP(r)

	renderLogin := func(status int, message string) {
		apiutil.RenderPage(w, r, status, "Sign in", authtempl.LoginForm(authtempl.LoginData{Email: email, Error: message}))
	}

	if email == "" || password == "" {
		renderLogin(http.StatusBadRequest, "Email and password are required.")
		return
	}

	if limiter != nil {
		if result := limiter.CheckLogin(email, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded(r.Context(), "login", email, ip, result.Reason)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(result.RetryAfter.Seconds()))))
			renderLogin(http.StatusTooManyRequests, retryMessage(result))
			return
		}
	}

	user, err := queries.GetUserByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Error().Err(err).Msg("Failed to load user for login")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err != nil || !VerifyPassword(user.PasswordHash, password) {
		if limiter != nil && limiter.RecordLoginFailure(email, ip) {
			logger.Warn().
				Str("email", ratelimit.SanitizeEmail(email)).
				Str("ip", ip).
				Msg("Account locked after repeated login failures")
		}
		renderLogin(http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if user.ApprovalStatus == authz.ApprovalRejected {
		renderLogin(http.StatusForbidden, "Your registration has been rejected.")
		return
	}

	if limiter != nil {
		limiter.ResetLogin(email)
	}

	ttl := authSessionTTL
	if apiutil.ParseHTMLCheckbox(r.FormValue("remember_me")) {
		ttl = rememberMeTTL
	}
	if err := SetAuthCookie(w, user.ID, ttl); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to set auth cookie")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("User signed in")

	if user.Role != authz.RoleAdmin && user.ApprovalStatus == authz.ApprovalPending {
		http.Redirect(w, r, "/pending-approval", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/matches", http.StatusSeeOther)
}

func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearAuthCookie(w)
	if user := authz.UserFromContext(r.Context()); user != nil {
		log.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("User signed out")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if authz.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	tz := defaultTimezone()
	apiutil.RenderPage(w, r, http.StatusOK, "Register", authtempl.RegisterForm(authtempl.RegisterData{
		Timezone:  tz,
		Timezones: timeslot.TimezoneChoices(tz),
	}))
}

func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	data := authtempl.RegisterData{
		FullName: strings.TrimSpace(r.FormValue("full_name")),
		Email:    strings.ToLower(strings.TrimSpace(r.FormValue("email"))),
		Timezone: strings.TrimSpace(r.FormValue("timezone")),
	}
	password := r.FormValue("password")
	ip := clientIP(r)

	renderRegister := func(status int, message string) {
		data.Error = message
		data.Timezones = timeslot.TimezoneChoices(data.Timezone)
		apiutil.RenderPage(w, r, status, "Register", authtempl.RegisterForm(data))
	}

	if limiter != nil {
		if result := limiter.CheckRegister(ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded(r.Context(), "register", data.Email, ip, result.Reason)
			renderRegister(http.StatusTooManyRequests, retryMessage(result))
			return
		}
	}

	if data.Timezone == "" {
		data.Timezone = defaultTimezone()
	}
	switch {
	case data.FullName == "":
		renderRegister(http.StatusBadRequest, "Name is required.")
		return
	case !strings.Contains(data.Email, "@"):
		renderRegister(http.StatusBadRequest, "A valid email is required.")
		return
	}
	if err := ValidatePassword(password); err != nil {
		renderRegister(http.StatusBadRequest, apiutil.ErrorSentence(err))
		return
	}
	if err := timeslot.ValidateTimezone(data.Timezone); err != nil {
		renderRegister(http.StatusBadRequest, "Choose a valid timezone.")
		return
	}

	if _, err := queries.GetUserByEmail(r.Context(), data.Email); err == nil {
		renderRegister(http.StatusConflict, "An account with that email already exists.")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logger.Error().Err(err).Msg("Failed to check existing user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	hash, err := HashPassword(password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user, err := queries.CreateUser(r.Context(), dbgen.CreateUserParams{
		FullName:       apiutil.NullString(data.FullName),
		Email:          data.Email,
		PasswordHash:   hash,
		Role:           authz.RolePlayer,
		Timezone:       data.Timezone,
		ApprovalStatus: authz.ApprovalPending,
		IsOnRoster:     false,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if limiter != nil {
		limiter.RecordRegister(ip)
	}
	logger.Info().Int64("user_id", user.ID).Msg("Registration awaiting approval")

	if err := SetAuthCookie(w, user.ID, authSessionTTL); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to set auth cookie")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/pending-approval", http.StatusSeeOther)
}

func HandlePendingApproval(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if authz.IsApproved(user) {
		http.Redirect(w, r, "/matches", http.StatusSeeOther)
		return
	}
	apiutil.RenderPage(w, r, http.StatusOK, "Awaiting approval", authtempl.PendingApproval(user.Name))
}

func clientIP(r *http.Request) string {
	trustProxy := appConfig != nil && appConfig.App.TrustProxy
	return ratelimit.GetClientIP(r, trustProxy)
}

func defaultTimezone() string {
	if appConfig != nil && appConfig.App.DefaultTimezone != "" {
		return appConfig.App.DefaultTimezone
	}
	return "UTC"
}

func retryMessage(result ratelimit.LimitResult) string {
	minutes := int(math.Ceil(result.RetryAfter.Minutes()))
	if minutes <= 1 {
		return "Too many attempts. Try again in a minute."
	}
	return fmt.Sprintf("Too many attempts. Try again in %d minutes.", minutes)
}
