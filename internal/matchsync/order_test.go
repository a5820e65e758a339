package matchsync

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
)

func synced(name, team string, score, kills int64) dbgen.MatchSyncedPlayer {
	p := dbgen.MatchSyncedPlayer{RiotName: name, RiotTag: "T", Team: sql.NullString{String: team, Valid: team != ""}}
	if score >= 0 {
		p.Score = sql.NullInt64{Int64: score, Valid: true}
	}
	if kills >= 0 {
		p.Kills = sql.NullInt64{Int64: kills, Valid: true}
	}
	return p
}

func names(players []dbgen.MatchSyncedPlayer) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.RiotName
	}
	return out
}

func TestDetermineOurTeam(t *testing.T) {
	players := []dbgen.MatchSyncedPlayer{
		synced("a", "Red", 1, 1),
		synced("b", "Blue", 1, 1),
		synced("c", "Blue", 1, 1),
		synced("d", "Red", 1, 1),
	}

	tests := []struct {
		name  string
		known []string
		want  string
	}{
		{name: "majority blue", known: []string{"a#t", "b#t", "c#t"}, want: "Blue"},
		{name: "tie goes to first known", known: []string{"a#t", "c#t"}, want: "Red"},
		{name: "nobody known", known: nil, want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			known := make(map[string]struct{})
			for _, k := range tc.known {
				known[k] = struct{}{}
			}
			assert.Equal(t, tc.want, DetermineOurTeam(players, known))
		})
	}
}

func TestSortPlayers(t *testing.T) {
	players := []dbgen.MatchSyncedPlayer{
		synced("zed", "Red", 300, 10),
		synced("amy", "Blue", 100, 5),
		synced("bob", "Blue", 100, 9),
		synced("cat", "Blue", -1, 20),
		synced("dan", "", 900, 30),
		synced("Abe", "Blue", 100, 9),
	}

	sorted := SortPlayers(players, "Blue")
	assert.Equal(t, []string{"Abe", "bob", "amy", "cat", "zed", "dan"}, names(sorted))
	assert.Equal(t, "zed", players[0].RiotName, "input left untouched")

	sorted = SortPlayers(players, "")
	assert.Equal(t, []string{"zed", "Abe", "bob", "amy", "cat", "dan"}, names(sorted))
}
