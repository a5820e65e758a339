package htmx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRedirect(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	rec := httptest.NewRecorder()
	Redirect(rec, req, "/login")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	req = httptest.NewRequest(http.MethodPut, "/availability", nil)
	req.Header.Set("HX-Request", "TRUE")
	rec = httptest.NewRecorder()
	Redirect(rec, req, "/login")
	if rec.Code != http.StatusNoContent || rec.Header().Get("HX-Redirect") != "/login" {
		t.Fatalf("expected HX-Redirect to /login, got %d %q", rec.Code, rec.Header().Get("HX-Redirect"))
	}
}
