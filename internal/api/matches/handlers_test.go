package matches

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/codr1/Teamgrid/internal/actiontoken"
	"github.com/codr1/Teamgrid/internal/api/authz"
	availstore "github.com/codr1/Teamgrid/internal/availability"
	"github.com/codr1/Teamgrid/internal/db"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/discord"
	"github.com/codr1/Teamgrid/internal/matchsync"
	"github.com/codr1/Teamgrid/internal/nudge"
	"github.com/codr1/Teamgrid/internal/testutil"
	"github.com/codr1/Teamgrid/internal/timeslot"
	"github.com/codr1/Teamgrid/internal/valorant"
)

var baseTime = time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type matchesTest struct {
	db      *db.DB
	sandbox *discord.Sandbox
	admin   dbgen.User
}

func setupMatchesTest(t *testing.T) matchesTest {
	t.Helper()

	database := testutil.NewTestDB(t)
	prevDB, prevQueries, prevStore, prevNudges, prevSyncer, prevHistory, prevClock := txDB, queries, store, nudges, syncer, history, clock
	t.Cleanup(func() {
		txDB, queries, store, nudges, syncer, history, clock = prevDB, prevQueries, prevStore, prevNudges, prevSyncer, prevHistory, prevClock
	})

	fixed := fixedClock{now: baseTime}
	tokens, err := actiontoken.New("matches-secret", actiontoken.WithClock(fixed))
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	sandbox := discord.NewSandbox(discord.ModeSuccess)
	nudgeService := nudge.NewService(database, sandbox, tokens, nudge.Config{
		BaseURL:  "https://team.example.com",
		Cooldown: 24 * time.Hour,
		Clock:    fixed,
	})

	InitHandlers(
		database,
		availstore.NewStore(database, timeslot.NewConverter(fixed)),
		nudgeService,
		matchsync.NewService(database, nil),
		nil,
	)
	clock = fixed

	admin := testutil.CreateUser(t, database, testutil.UserSeed{
		FullName:  "Coach",
		Role:      authz.RoleAdmin,
		Timezone:  "America/New_York",
		OffRoster: true,
	})
	return matchesTest{db: database, sandbox: sandbox, admin: admin}
}

func asUser(req *http.Request, user dbgen.User) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{
		ID:             user.ID,
		Name:           user.FullName.String,
		Role:           user.Role,
		ApprovalStatus: user.ApprovalStatus,
		Timezone:       user.Timezone,
	}))
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestParseLocalTime(t *testing.T) {
	got, err := ParseLocalTime("2024-03-05 19:30", "America/New_York")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2024, time.March, 6, 0, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := ParseLocalTime("tomorrow evening", "UTC"); err == nil {
		t.Fatal("expected error for free text")
	}
}

func TestHandleCreateMatchStoresUTC(t *testing.T) {
	env := setupMatchesTest(t)

	req := asUser(formRequest(http.MethodPost, "/matches", url.Values{
		"opponent_name": {"Sentinels"},
		"scheduled_at":  {"2024-03-05T19:30"},
		"map":           {"Ascent"},
		"match_type":    {"official"},
	}), env.admin)
	rec := httptest.NewRecorder()
	HandleCreateMatch(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}

	upcoming, err := env.db.Queries.ListUpcomingMatches(context.Background(), baseTime)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(upcoming) != 1 {
		t.Fatalf("expected one match, got %d", len(upcoming))
	}
	match := upcoming[0]
	if !match.ScheduledAt.Equal(time.Date(2024, time.March, 6, 0, 30, 0, 0, time.UTC)) {
		t.Fatalf("expected UTC 00:30 next day, got %v", match.ScheduledAt)
	}
	if match.MatchType != "official" || match.OpponentName.String != "Sentinels" {
		t.Fatalf("unexpected match %+v", match)
	}
	if loc := rec.Header().Get("Location"); loc != fmt.Sprintf("/matches/%d", match.ID) {
		t.Fatalf("unexpected redirect %q", loc)
	}
}

func TestHandleCreateMatchRejectsBadInput(t *testing.T) {
	env := setupMatchesTest(t)

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{
			name:    "missing time",
			form:    url.Values{"opponent_name": {"100 Thieves"}},
			message: "Enter the match time as date and time.",
		},
		{
			name:    "unknown type",
			form:    url.Values{"scheduled_at": {"2024-03-05T19:30"}, "match_type": {"ranked"}},
			message: "Match type must be scrim or official.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleCreateMatch(rec, asUser(formRequest(http.MethodPost, "/matches", tt.form), env.admin))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.message) {
				t.Fatalf("expected %q in body", tt.message)
			}
		})
	}
}

func TestHandleSetAvailability(t *testing.T) {
	env := setupMatchesTest(t)
	player := testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Viper"})
	upcoming := testutil.CreateMatch(t, env.db, "G2", baseTime.Add(48*time.Hour))
	past := testutil.CreateMatch(t, env.db, "LOUD", baseTime.Add(-48*time.Hour))

	put := func(matchID int64, status string) *httptest.ResponseRecorder {
		req := asUser(formRequest(http.MethodPut, fmt.Sprintf("/matches/%d/availability", matchID), url.Values{"status": {status}}), player)
		req.SetPathValue("id", fmt.Sprint(matchID))
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		HandleSetAvailability(rec, req)
		return rec
	}

	rec := put(upcoming.ID, "yes")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `class="btn btn-active"`) {
		t.Fatalf("expected an active button, got %s", rec.Body.String())
	}

	if rec := put(upcoming.ID, "sometimes"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", rec.Code)
	}
	if rec := put(past.ID, "no"); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for past match, got %d", rec.Code)
	}

	row, err := env.db.Queries.GetMatchAvailability(context.Background(), dbgen.GetMatchAvailabilityParams{MatchID: upcoming.ID, UserID: player.ID})
	if err != nil {
		t.Fatalf("load response: %v", err)
	}
	if row.Status != "yes" {
		t.Fatalf("expected yes, got %q", row.Status)
	}
}

func TestHandleCheckAvailability(t *testing.T) {
	env := setupMatchesTest(t)
	free := testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Deadlock"})
	testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Gekko"})

	// Tuesday 19:00 in New York is Wednesday 00:00 UTC.
	if _, err := store.SetLocalSlot(context.Background(), free.ID, "UTC", 3, 0, true); err != nil {
		t.Fatalf("set slot: %v", err)
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/matches/check-availability?scheduled_at=2024-03-05T19:00", nil), env.admin)
	rec := httptest.NewRecorder()
	HandleCheckAvailability(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "1 available at Tuesday, Mar 5, 2024 at 7:00 PM") {
		t.Fatalf("unexpected availability fragment %s", body)
	}
	if !strings.Contains(body, "Deadlock") || strings.Contains(body, "Gekko") {
		t.Fatalf("expected only Deadlock listed, got %s", body)
	}
}

func TestHandleNudgeMatchBatch(t *testing.T) {
	env := setupMatchesTest(t)
	testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Fade", DiscordID: "201"})
	testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Harbor", DiscordID: "202"})
	testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Iso"})
	match := testutil.CreateMatch(t, env.db, "DRX", baseTime.Add(24*time.Hour))

	req := asUser(formRequest(http.MethodPost, fmt.Sprintf("/matches/%d/nudges", match.ID), url.Values{"force": {"on"}}), env.admin)
	req.SetPathValue("id", fmt.Sprint(match.ID))
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	HandleNudgeMatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Sent 2. Skipped 1. Failed 0.") {
		t.Fatalf("unexpected summary %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "nudge-partial") {
		t.Fatalf("expected partial status, got %s", rec.Body.String())
	}
	if calls := env.sandbox.Calls(); calls != 2 {
		t.Fatalf("expected 2 DMs, got %d", calls)
	}

	rows, err := env.db.Queries.ListMatchAvailabilityNudges(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("list nudges: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected one audit row per player, got %d", len(rows))
	}
}

func TestHandleNudgePlayerWithoutDiscordRedirects(t *testing.T) {
	env := setupMatchesTest(t)
	player := testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Kay/O"})
	match := testutil.CreateMatch(t, env.db, "PRX", baseTime.Add(24*time.Hour))

	req := asUser(formRequest(http.MethodPost, "/", url.Values{}), env.admin)
	req.SetPathValue("id", fmt.Sprint(match.ID))
	req.SetPathValue("userID", fmt.Sprint(player.ID))
	rec := httptest.NewRecorder()
	HandleNudgePlayer(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if env.sandbox.Calls() != 0 {
		t.Fatalf("expected no DM, got %d", env.sandbox.Calls())
	}
}

func TestHandleUpdateResult(t *testing.T) {
	env := setupMatchesTest(t)
	match := testutil.CreateMatch(t, env.db, "EDG", baseTime.Add(-24*time.Hour))

	req := asUser(formRequest(http.MethodPost, "/", url.Values{
		"result":     {"win"},
		"score_us":   {"13"},
		"score_them": {"7"},
	}), env.admin)
	req.SetPathValue("id", fmt.Sprint(match.ID))
	rec := httptest.NewRecorder()
	HandleUpdateResult(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	updated, err := env.db.Queries.GetMatchByID(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	if resultLabel(updated) != "Win 13-7" {
		t.Fatalf("unexpected result label %q", resultLabel(updated))
	}
}

func TestHandleMatchDetailListsRosterResponses(t *testing.T) {
	env := setupMatchesTest(t)
	player := testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Clove"})
	testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Waiting", ApprovalStatus: authz.ApprovalPending})
	match := testutil.CreateMatch(t, env.db, "T1", baseTime.Add(24*time.Hour))
	if _, err := store.SetMatchResponse(context.Background(), match.ID, player.ID, "maybe"); err != nil {
		t.Fatalf("set response: %v", err)
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/", nil), player)
	req.SetPathValue("id", fmt.Sprint(match.ID))
	rec := httptest.NewRecorder()
	HandleMatchDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<td>Clove</td><td class="status-maybe">Maybe</td>`) {
		t.Fatalf("expected Clove's maybe in roster, got %s", body)
	}
	if strings.Contains(body, "Waiting") {
		t.Fatal("pending users should not be listed on the roster")
	}
	if strings.Contains(body, "<h2>Admin</h2>") {
		t.Fatal("players should not see the admin panel")
	}
}

type stubHistory struct {
	matches []valorant.RecentMatch
	err     error
	player  valorant.RiotID
	showAll bool
}

func (s *stubHistory) RecentMatches(_ context.Context, player valorant.RiotID, showAll bool) ([]valorant.RecentMatch, error) {
	s.player = player
	s.showAll = showAll
	return s.matches, s.err
}

func recentRequest(matchID, playerID int64, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/matches/%d/valorant/recent?player_id=%d%s", matchID, playerID, query), nil)
	req.SetPathValue("id", fmt.Sprint(matchID))
	return req
}

func TestHandleMatchDetailOffersRecentMatchPicker(t *testing.T) {
	env := setupMatchesTest(t)
	player := testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Iso", RiotID: "Iso#EU1"})
	testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "NoRiot"})
	match := testutil.CreateMatch(t, env.db, "FUT", baseTime.Add(-24*time.Hour))

	req := asUser(httptest.NewRequest(http.MethodGet, "/", nil), env.admin)
	req.SetPathValue("id", fmt.Sprint(match.ID))
	rec := httptest.NewRecorder()
	HandleMatchDetail(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, fmt.Sprintf(`<option value="%d">Iso (Iso#EU1)</option>`, player.ID)) {
		t.Fatalf("expected Iso in the picker, got %s", body)
	}
	if strings.Contains(body, "NoRiot (") {
		t.Fatal("players without a Riot ID should not be offered")
	}
}

func TestHandleRecentValorantMatches(t *testing.T) {
	env := setupMatchesTest(t)
	stub := &stubHistory{matches: []valorant.RecentMatch{{
		MatchID:   "abc-123",
		Map:       "Lotus",
		Mode:      "Premier",
		StartedAt: "Monday, March 4, 2024 9:00 PM",
		Type:      valorant.MatchTypePremier,
		ScoreUs:   13,
		ScoreThem: 9,
		Result:    valorant.ResultWin,
	}}}
	history = stub
	player := testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Iso", RiotID: "Iso#EU1"})
	match := testutil.CreateMatch(t, env.db, "FUT", baseTime.Add(-24*time.Hour))

	rec := httptest.NewRecorder()
	HandleRecentValorantMatches(rec, asUser(recentRequest(match.ID, player.ID, "&show_all=on"), env.admin))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.player != (valorant.RiotID{Name: "Iso", Tag: "EU1"}) || !stub.showAll {
		t.Fatalf("unexpected lookup %+v showAll=%v", stub.player, stub.showAll)
	}
	body := rec.Body.String()
	for _, want := range []string{"<td>Lotus</td>", "<td>13-9</td>", `name="valorant_match_id" value="abc-123"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in %s", want, body)
		}
	}
}

func TestHandleRecentValorantMatchesErrors(t *testing.T) {
	env := setupMatchesTest(t)
	match := testutil.CreateMatch(t, env.db, "FUT", baseTime.Add(-24*time.Hour))
	noRiot := testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Plain"})
	riot := testutil.CreateUser(t, env.db, testutil.UserSeed{FullName: "Neon", RiotID: "Neon#AP"})

	rec := httptest.NewRecorder()
	HandleRecentValorantMatches(rec, asUser(recentRequest(match.ID, noRiot.ID, ""), env.admin))
	if !strings.Contains(rec.Body.String(), "Invalid Riot ID format.") {
		t.Fatalf("expected riot id error, got %s", rec.Body.String())
	}

	history = &stubHistory{err: &valorant.APIError{StatusCode: http.StatusNotFound}}
	rec = httptest.NewRecorder()
	HandleRecentValorantMatches(rec, asUser(recentRequest(match.ID, riot.ID, ""), env.admin))
	if !strings.Contains(rec.Body.String(), "No Valorant account found for Neon#AP.") {
		t.Fatalf("expected not found message, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	HandleRecentValorantMatches(rec, asUser(recentRequest(match.ID, 9999, ""), env.admin))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown player, got %d", rec.Code)
	}
}
