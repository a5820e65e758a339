package apiutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseHTMLCheckbox(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"on", true},
		{"1", true},
		{" ON ", true},
		{"", false},
		{"false", false},
		{"off", false},
		{"0", false},
		{"yes", false},
	}
	for _, tt := range tests {
		if got := ParseHTMLCheckbox(tt.raw); got != tt.want {
			t.Errorf("ParseHTMLCheckbox(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseIntInRange(t *testing.T) {
	if v, err := ParseIntInRange("23", "hour", 0, 23); err != nil || v != 23 {
		t.Fatalf("expected 23, got %d (%v)", v, err)
	}
	for _, raw := range []string{"24", "-1", "x", ""} {
		if _, err := ParseIntInRange(raw, "hour", 0, 23); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestParseOptionalNonNegativeInt(t *testing.T) {
	if _, ok, err := ParseOptionalNonNegativeInt(" ", "score"); ok || err != nil {
		t.Fatalf("blank should be absent, got ok=%v err=%v", ok, err)
	}
	if v, ok, err := ParseOptionalNonNegativeInt("13", "score"); !ok || err != nil || v != 13 {
		t.Fatalf("expected 13, got %d ok=%v err=%v", v, ok, err)
	}
	if _, _, err := ParseOptionalNonNegativeInt("-2", "score"); err == nil {
		t.Fatal("expected error for negative value")
	}
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetFlash(rec, "success", "Alpha has been approved.")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	popRec := httptest.NewRecorder()
	flash := PopFlash(popRec, req)
	if flash == nil || flash.Kind != "success" || flash.Message != "Alpha has been approved." {
		t.Fatalf("unexpected flash %+v", flash)
	}
	cleared := popRec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Fatalf("expected flash cookie to be cleared, got %+v", cleared)
	}

	if PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)) != nil {
		t.Fatal("expected no flash without cookie")
	}
}

func TestErrorSentence(t *testing.T) {
	if got := ErrorSentence(errors.New("new passwords do not match")); got != "New passwords do not match." {
		t.Fatalf("got %q", got)
	}
	if got := ErrorSentence(errors.New("")); got != "" {
		t.Fatalf("got %q for empty error", got)
	}
}
