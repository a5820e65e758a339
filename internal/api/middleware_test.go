package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codr1/Teamgrid/internal/api/authz"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(user *authz.AuthUser) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	if user != nil {
		req = req.WithContext(authz.ContextWithUser(req.Context(), user))
	}
	return req
}

func TestWithApproved(t *testing.T) {
	tests := []struct {
		name     string
		user     *authz.AuthUser
		status   int
		location string
	}{
		{name: "anonymous", status: http.StatusSeeOther, location: "/login"},
		{
			name:     "pending",
			user:     &authz.AuthUser{ID: 1, Role: authz.RolePlayer, ApprovalStatus: authz.ApprovalPending},
			status:   http.StatusSeeOther,
			location: "/pending-approval",
		},
		{
			name:     "rejected",
			user:     &authz.AuthUser{ID: 2, Role: authz.RolePlayer, ApprovalStatus: authz.ApprovalRejected},
			status:   http.StatusSeeOther,
			location: "/login",
		},
		{
			name:   "approved",
			user:   &authz.AuthUser{ID: 3, Role: authz.RolePlayer, ApprovalStatus: authz.ApprovalApproved},
			status: http.StatusOK,
		},
		{
			name:   "pending admin",
			user:   &authz.AuthUser{ID: 4, Role: authz.RoleAdmin, ApprovalStatus: authz.ApprovalPending},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WithApproved(okHandler()).ServeHTTP(rec, requestAs(tt.user))

			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Fatalf("expected location %q, got %q", tt.location, got)
			}
		})
	}
}

func TestWithApprovedSignsOutRejectedUser(t *testing.T) {
	rec := httptest.NewRecorder()
	WithApproved(okHandler()).ServeHTTP(rec, requestAs(&authz.AuthUser{ID: 2, ApprovalStatus: authz.ApprovalRejected}))

	var cleared, flashed bool
	for _, cookie := range rec.Result().Cookies() {
		switch cookie.Name {
		case "teamgrid_session":
			cleared = cookie.MaxAge < 0
		case "teamgrid_flash":
			flashed = cookie.Value != ""
		}
	}
	if !cleared || !flashed {
		t.Fatalf("expected session cleared and flash set, cleared=%v flashed=%v", cleared, flashed)
	}
}

func TestWithAdmin(t *testing.T) {
	rec := httptest.NewRecorder()
	WithAdmin(okHandler()).ServeHTTP(rec, requestAs(&authz.AuthUser{ID: 1, Role: authz.RolePlayer}))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for player, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	WithAdmin(okHandler()).ServeHTTP(rec, requestAs(&authz.AuthUser{ID: 2, Role: authz.RoleAdmin}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestWithRequestIDFeedsLogging(t *testing.T) {
	var seen string
	handler := ChainMiddleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestID(r.Context())
		}),
		WithLogging,
		WithRequestID,
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected request id %q to match header %q", seen, rec.Header().Get("X-Request-ID"))
	}
}

func TestWithRecovery(t *testing.T) {
	handler := WithRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
