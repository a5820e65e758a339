package nudge

import (
	"context"
	"strings"
	"testing"
	"time"

	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/discord"
	"github.com/codr1/Teamgrid/internal/testutil"
)

func matchNudges(t *testing.T, svc *Service, matchID int64) []dbgen.MatchAvailabilityNudge {
	t.Helper()
	rows, err := svc.db.Queries.ListMatchAvailabilityNudges(context.Background(), matchID)
	if err != nil {
		t.Fatalf("list match nudges: %v", err)
	}
	return rows
}

func TestSendMatchNudgesPartialBatch(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	svc, sandbox, _ := newTestService(t, database, discord.ModeSuccess)

	admin := testutil.CreateUser(t, database, testutil.UserSeed{FullName: "Coach", Role: "admin", OffRoster: true})
	for i, name := range []string{"Alpha", "Bravo", "Charlie"} {
		testutil.CreateUser(t, database, testutil.UserSeed{FullName: name, DiscordID: string(rune('1' + i))})
	}
	testutil.CreateUser(t, database, testutil.UserSeed{FullName: "Delta"})
	responder := testutil.CreateUser(t, database, testutil.UserSeed{FullName: "Echo", DiscordID: "9"})

	match := testutil.CreateMatch(t, database, "Night Owls", baseTime.Add(48*time.Hour))
	if _, err := database.Queries.UpsertMatchAvailability(ctx, dbgen.UpsertMatchAvailabilityParams{
		MatchID: match.ID,
		UserID:  responder.ID,
		Status:  "yes",
	}); err != nil {
		t.Fatalf("seed response: %v", err)
	}

	outcome, err := svc.SendMatchNudges(ctx, admin.ID, match, Options{})
	if err != nil {
		t.Fatalf("send match nudges: %v", err)
	}
	if outcome.Status != StatusPartial || outcome.Message != "Sent 3. Skipped 1. Failed 0." {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if outcome.Attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", outcome.Attempts)
	}
	if sandbox.Calls() != 3 {
		t.Fatalf("expected 3 dispatches, got %d", sandbox.Calls())
	}

	rows := matchNudges(t, svc, match.ID)
	if len(rows) != 4 {
		t.Fatalf("expected 4 audit rows, got %d", len(rows))
	}
	var blockedRows int
	for _, row := range rows {
		if row.UserID == responder.ID {
			t.Fatalf("responder should not be nudged")
		}
		if row.Status == StatusBlocked {
			blockedRows++
			if row.ErrorCode.String != CodeMissingDiscordID {
				t.Fatalf("unexpected blocked code %q", row.ErrorCode.String)
			}
		}
	}
	if blockedRows != 1 {
		t.Fatalf("expected 1 blocked row, got %d", blockedRows)
	}

	again, err := svc.SendMatchNudges(ctx, admin.ID, match, Options{})
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if again.Status != StatusBlocked || again.Message != "Sent 0. Skipped 4. Failed 0." {
		t.Fatalf("expected cooldown blocks, got %+v", again)
	}
	if sandbox.Calls() != 3 {
		t.Fatalf("cooldown batch should not dispatch, got %d calls", sandbox.Calls())
	}
}

func TestSendMatchNudgesPastAndEmpty(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	svc, sandbox, _ := newTestService(t, database, discord.ModeSuccess)

	past := testutil.CreateMatch(t, database, "Yesterday", baseTime.Add(-time.Hour))
	outcome, err := svc.SendMatchNudges(ctx, 0, past, Options{Force: true})
	if err != nil {
		t.Fatalf("past match: %v", err)
	}
	if outcome.Status != StatusBlocked || outcome.Message != "Cannot send nudges for a past match." {
		t.Fatalf("unexpected past outcome: %+v", outcome)
	}

	upcoming := testutil.CreateMatch(t, database, "Tomorrow", baseTime.Add(24*time.Hour))
	outcome, err = svc.SendMatchNudges(ctx, 0, upcoming, Options{})
	if err != nil {
		t.Fatalf("empty roster: %v", err)
	}
	if outcome.Status != StatusBlocked || outcome.Message != "No eligible non-responders to nudge." {
		t.Fatalf("unexpected empty outcome: %+v", outcome)
	}

	if len(matchNudges(t, svc, past.ID))+len(matchNudges(t, svc, upcoming.ID)) != 0 {
		t.Fatalf("expected no audit rows")
	}
	if sandbox.Calls() != 0 {
		t.Fatalf("expected no dispatches")
	}
}

func TestSendMatchNudgeSingle(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	svc, _, clock := newTestService(t, database, discord.ModeForbidden)

	player := testutil.CreateUser(t, database, testutil.UserSeed{FullName: "Killjoy Main", DiscordID: "42", Timezone: "Europe/Berlin"})
	match := testutil.CreateMatch(t, database, "Rivals", baseTime.Add(6*time.Hour))

	outcome, err := svc.SendMatchNudge(ctx, 0, match, player, Options{})
	if err != nil {
		t.Fatalf("send match nudge: %v", err)
	}
	if outcome.Status != StatusBlocked || !strings.HasSuffix(outcome.Code, "_http_403") {
		t.Fatalf("expected 403 block, got %+v", outcome)
	}

	if _, err := database.Queries.UpsertMatchAvailability(ctx, dbgen.UpsertMatchAvailabilityParams{
		MatchID: match.ID,
		UserID:  player.ID,
		Status:  "maybe",
	}); err != nil {
		t.Fatalf("seed response: %v", err)
	}
	outcome, err = svc.SendMatchNudge(ctx, 0, match, player, Options{Force: true})
	if err != nil {
		t.Fatalf("send after response: %v", err)
	}
	if outcome.Code != CodeAlreadyResponded {
		t.Fatalf("expected already responded, got %+v", outcome)
	}

	clock.Advance(7 * time.Hour)
	outcome, err = svc.SendMatchNudge(ctx, 0, match, player, Options{Force: true})
	if err != nil {
		t.Fatalf("send after start: %v", err)
	}
	if outcome.Code != CodeMatchInPast {
		t.Fatalf("expected past match block, got %+v", outcome)
	}

	if rows := matchNudges(t, svc, match.ID); len(rows) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(rows))
	}
}

func TestMatchNudgeMessageUsesPlayerTimezone(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc, _, _ := newTestService(t, database, discord.ModeSuccess)

	player := testutil.CreateUser(t, database, testutil.UserSeed{FullName: "Cypher Main", DiscordID: "12", Timezone: "America/New_York"})
	match := testutil.CreateMatch(t, database, "Rivals", time.Date(2024, time.March, 20, 23, 0, 0, 0, time.UTC))

	msg, err := svc.matchNudgeMessage(match, player)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	if len(msg.Embeds) != 1 || len(msg.Components) != 1 {
		t.Fatalf("expected embed with button row, got %+v", msg)
	}
	var when string
	for _, field := range msg.Embeds[0].Fields {
		if field.Name == "When" {
			when = field.Value
		}
	}
	if when != "Wednesday, Mar 20, 2024 at 7:00 PM (America/New_York)" {
		t.Fatalf("unexpected local time %q", when)
	}
	for _, button := range msg.Components[0].Buttons {
		if !strings.HasPrefix(button.URL, "https://team.example.com/match-availability/respond/") {
			t.Fatalf("unexpected button url %q", button.URL)
		}
	}
}

func TestFormatMatchTimeFallsBackToUTC(t *testing.T) {
	got, zone := FormatMatchTime(time.Date(2024, time.January, 5, 9, 30, 0, 0, time.UTC), "Not/AZone")
	if got != "Friday, Jan 5, 2024 at 9:30 AM" || zone != "UTC" {
		t.Fatalf("unexpected fallback: %q %q", got, zone)
	}
}

func TestMatchNudgeCooldownWindow(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	svc, sandbox, clock := newTestService(t, database, discord.ModeSuccess)

	admin := testutil.CreateUser(t, database, testutil.UserSeed{FullName: "Coach", Role: "admin", OffRoster: true})
	player := testutil.CreateUser(t, database, testutil.UserSeed{FullName: "Fade", DiscordID: "77"})
	match := testutil.CreateMatch(t, database, "Night Owls", baseTime.Add(72*time.Hour))

	first, err := svc.SendMatchNudge(ctx, admin.ID, match, player, Options{})
	if err != nil || first.Status != StatusSent {
		t.Fatalf("first nudge: %+v %v", first, err)
	}

	clock.Advance(23 * time.Hour)
	second, err := svc.SendMatchNudge(ctx, admin.ID, match, player, Options{})
	if err != nil {
		t.Fatalf("second nudge: %v", err)
	}
	if second.Status != StatusBlocked || second.Code != CodeCooldownActive {
		t.Fatalf("expected cooldown block at T+23h, got %+v", second)
	}

	clock.Advance(2 * time.Hour)
	third, err := svc.SendMatchNudge(ctx, admin.ID, match, player, Options{})
	if err != nil || third.Status != StatusSent {
		t.Fatalf("expected send at T+25h, got %+v %v", third, err)
	}

	if sandbox.Calls() != 2 {
		t.Fatalf("expected 2 dispatches, got %d", sandbox.Calls())
	}
	if rows := matchNudges(t, svc, match.ID); len(rows) != 3 {
		t.Fatalf("expected 3 audit rows, got %d", len(rows))
	}
}
