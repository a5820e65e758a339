package availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/codr1/Teamgrid/internal/api/authz"
	availstore "github.com/codr1/Teamgrid/internal/availability"
	"github.com/codr1/Teamgrid/internal/db"
	"github.com/codr1/Teamgrid/internal/testutil"
	"github.com/codr1/Teamgrid/internal/timeslot"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func setupAvailabilityTest(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)
	prev := store
	t.Cleanup(func() { store = prev })

	clock := fixedClock{now: time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)}
	store = availstore.NewStore(database, timeslot.NewConverter(clock))
	return database
}

func withUser(req *http.Request, id int64, tz string) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{
		ID:             id,
		Role:           authz.RolePlayer,
		ApprovalStatus: authz.ApprovalApproved,
		Timezone:       tz,
	}))
}

func TestHandleToggleSlotConvertsToUTC(t *testing.T) {
	database := setupAvailabilityTest(t)
	player := testutil.CreateUser(t, database, testutil.UserSeed{FullName: "Phoenix", Timezone: "Asia/Tokyo"})

	form := url.Values{"day": {"1"}, "hour": {"9"}, "available": {"true"}}
	req := httptest.NewRequest(http.MethodPut, "/availability", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withUser(req, player.ID, player.Timezone)
	rec := httptest.NewRecorder()

	HandleToggleSlot(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "slot-on") || !strings.Contains(body, `"available":"false"`) {
		t.Fatalf("expected an enabled cell that toggles off next, got %s", body)
	}

	// Monday 09:00 in Tokyo is Monday 00:00 UTC.
	slots, err := store.UserSlots(context.Background(), player.ID)
	if err != nil {
		t.Fatalf("load slots: %v", err)
	}
	if !slots[timeslot.Slot{Day: 1, Hour: 0}] || len(slots) != 1 {
		t.Fatalf("expected only Monday 00:00 UTC, got %v", slots)
	}
}

func TestHandleToggleSlotRejectsOutOfRangeHour(t *testing.T) {
	setupAvailabilityTest(t)

	form := url.Values{"day": {"1"}, "hour": {"24"}, "available": {"true"}}
	req := httptest.NewRequest(http.MethodPut, "/availability", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withUser(req, 1, "UTC")
	rec := httptest.NewRecorder()

	HandleToggleSlot(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleAvailabilityPageRendersUserZone(t *testing.T) {
	database := setupAvailabilityTest(t)
	player := testutil.CreateUser(t, database, testutil.UserSeed{FullName: "Chamber", Timezone: "Europe/Paris"})

	req := withUser(httptest.NewRequest(http.MethodGet, "/availability", nil), player.ID, player.Timezone)
	rec := httptest.NewRecorder()
	HandleAvailabilityPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Times shown in Europe/Paris.") {
		t.Fatalf("expected page in Europe/Paris, got %s", rec.Body.String())
	}
}
