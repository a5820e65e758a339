package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/codr1/Teamgrid/internal/api/authz"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
)

const (
	authCookieName = "teamgrid_session"
	authSessionTTL = 8 * time.Hour
	rememberMeTTL  = 30 * 24 * time.Hour
)

var (
	errAuthConfigMissing = errors.New("auth configuration missing")
	errInvalidCookie     = errors.New("invalid auth cookie")
	errSessionExpired    = errors.New("auth session expired")
)

type authSession struct {
	UserID    int64 `json:"user_id"`
	ExpiresAt int64 `json:"exp"`
}

func isSecureCookie() bool {
	return appConfig == nil || appConfig.App.Environment != "development"
}

// SetAuthCookie issues a signed session cookie for userID valid for ttl.
func SetAuthCookie(w http.ResponseWriter, userID int64, ttl time.Duration) error {
	if w == nil || userID <= 0 {
		return errors.New("auth session requires response and user")
	}
	if ttl <= 0 {
		ttl = authSessionTTL
	}

	expiresAt := time.Now().Add(ttl)
	payload, err := json.Marshal(authSession{UserID: userID, ExpiresAt: expiresAt.Unix()})
	if err != nil {
		return err
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	signature, err := signPayload(encodedPayload)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    encodedPayload + "." + signature,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   int(ttl.Seconds()),
	})
	return nil
}

func ClearAuthCookie(w http.ResponseWriter) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// UserFromRequest resolves the signed-in user. The row is reloaded on every
// request so role and approval changes apply immediately. A missing cookie
// yields (nil, nil); a stale or tampered one is cleared.
func UserFromRequest(w http.ResponseWriter, r *http.Request) (*authz.AuthUser, error) {
	session, err := parseAuthCookie(r)
	if err != nil {
		if errors.Is(err, errInvalidCookie) || errors.Is(err, errSessionExpired) {
			ClearAuthCookie(w)
			return nil, nil
		}
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if queries == nil {
		return nil, errors.New("auth queries not initialized")
	}

	user, err := queries.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ClearAuthCookie(w)
			return nil, nil
		}
		return nil, err
	}
	return authUserFromRow(user), nil
}

func authUserFromRow(user dbgen.User) *authz.AuthUser {
	name := user.FullName.String
	if name == "" {
		name = user.Email
	}
	return &authz.AuthUser{
		ID:             user.ID,
		Name:           name,
		Email:          user.Email,
		Role:           user.Role,
		ApprovalStatus: user.ApprovalStatus,
		Timezone:       user.Timezone,
	}
}

func parseAuthCookie(r *http.Request) (*authSession, error) {
	if r == nil {
		return nil, nil
	}

	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	encodedPayload, signature, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return nil, errInvalidCookie
	}

	expectedSignature, err := signPayload(encodedPayload)
	if err != nil {
		return nil, err
	}
	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return nil, errInvalidCookie
	}

	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, errInvalidCookie
	}

	var session authSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, errInvalidCookie
	}
	if session.UserID <= 0 {
		return nil, errInvalidCookie
	}
	if session.ExpiresAt <= time.Now().Unix() {
		return nil, errSessionExpired
	}

	return &session, nil
}

func signPayload(payload string) (string, error) {
	if appConfig == nil || appConfig.App.SecretKey == "" {
		return "", errAuthConfigMissing
	}

	mac := hmac.New(sha256.New, []byte(appConfig.App.SecretKey))
	_, _ = mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
