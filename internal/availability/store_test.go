package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/Teamgrid/internal/testutil"
	"github.com/codr1/Teamgrid/internal/timeslot"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	database := testutil.NewTestDB(t)
	clock := fixedClock{now: time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)}
	return NewStore(database, timeslot.NewConverter(clock)), context.Background()
}

func TestSetLocalSlotStoresUTC(t *testing.T) {
	store, ctx := newTestStore(t)
	player := testutil.CreateUser(t, store.db, testutil.UserSeed{FullName: "Alpha", Timezone: "America/New_York"})

	// Monday 20:00 EST is Tuesday 01:00 UTC.
	slot, err := store.SetLocalSlot(ctx, player.ID, player.Timezone, 1, 20, true)
	require.NoError(t, err)
	assert.Equal(t, timeslot.Slot{Day: 2, Hour: 1}, slot)

	slots, err := store.UserSlots(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, map[timeslot.Slot]bool{{Day: 2, Hour: 1}: true}, slots)

	count, err := store.CountAvailable(ctx, player.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = store.SetLocalSlot(ctx, player.ID, player.Timezone, 1, 20, false)
	require.NoError(t, err)
	slots, err = store.UserSlots(ctx, player.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSetLocalSlotRejectsBadTimezone(t *testing.T) {
	store, ctx := newTestStore(t)
	player := testutil.CreateUser(t, store.db, testutil.UserSeed{FullName: "Alpha"})

	_, err := store.SetLocalSlot(ctx, player.ID, "Mars/Olympus", 1, 20, true)
	assert.Error(t, err)
}

func TestPlayersAvailableAt(t *testing.T) {
	store, ctx := newTestStore(t)
	alpha := testutil.CreateUser(t, store.db, testutil.UserSeed{FullName: "Alpha"})
	bench := testutil.CreateUser(t, store.db, testutil.UserSeed{FullName: "Bench", OffRoster: true})
	waiting := testutil.CreateUser(t, store.db, testutil.UserSeed{FullName: "Waiting", ApprovalStatus: "pending"})
	rejected := testutil.CreateUser(t, store.db, testutil.UserSeed{FullName: "Rejected", ApprovalStatus: "rejected"})
	testutil.CreateUser(t, store.db, testutil.UserSeed{FullName: "Charlie"})

	for _, id := range []int64{alpha.ID, bench.ID, waiting.ID, rejected.ID} {
		_, err := store.SetLocalSlot(ctx, id, "UTC", 3, 19, true)
		require.NoError(t, err)
	}

	players, err := store.PlayersAvailableAt(ctx, time.Date(2024, time.March, 20, 19, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, alpha.ID, players[0].ID)
}

func TestMatchResponses(t *testing.T) {
	store, ctx := newTestStore(t)
	alpha := testutil.CreateUser(t, store.db, testutil.UserSeed{FullName: "Alpha"})
	bravo := testutil.CreateUser(t, store.db, testutil.UserSeed{FullName: "Bravo"})
	match := testutil.CreateMatch(t, store.db, "Night Owls", time.Now().Add(48*time.Hour))

	_, err := store.SetMatchResponse(ctx, match.ID, alpha.ID, StatusMaybe)
	require.NoError(t, err)
	_, err = store.SetMatchResponse(ctx, match.ID, alpha.ID, StatusYes)
	require.NoError(t, err)

	_, err = store.SetMatchResponse(ctx, match.ID, bravo.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	responses, err := store.MatchResponses(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusYes, ResponseFor(responses, alpha.ID))
	assert.Equal(t, StatusPending, ResponseFor(responses, bravo.ID))
}

func TestWeekGridFallsBackToUTC(t *testing.T) {
	store, ctx := newTestStore(t)
	player := testutil.CreateUser(t, store.db, testutil.UserSeed{FullName: "Bravo"})

	_, err := store.SetLocalSlot(ctx, player.ID, "UTC", 3, 18, true)
	require.NoError(t, err)

	rows, zone, err := store.WeekGrid(ctx, player.ID, "Not/AZone")
	require.NoError(t, err)
	assert.Equal(t, "UTC", zone)
	require.Len(t, rows, 7)

	// Rows run Monday first, so Wednesday is index 2.
	wednesday := rows[2]
	assert.Equal(t, 3, wednesday.Day)
	require.Len(t, wednesday.Cells, 24)
	assert.True(t, wednesday.Cells[18].Available)
	assert.False(t, wednesday.Cells[17].Available)
}
