package matchsync

import (
	"database/sql"
	"sort"
	"strings"

	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/valorant"
)

// DetermineOurTeam picks the side holding most known players. A tie goes to
// the side of the first known player; no known players yields "".
func DetermineOurTeam(players []dbgen.MatchSyncedPlayer, known map[string]struct{}) string {
	var red, blue int
	first := ""
	for _, player := range players {
		if _, ok := known[riotKey(player)]; !ok {
			continue
		}
		team := player.Team.String
		if team != valorant.TeamRed && team != valorant.TeamBlue {
			continue
		}
		if first == "" {
			first = team
		}
		if team == valorant.TeamRed {
			red++
		} else {
			blue++
		}
	}
	switch {
	case red == 0 && blue == 0:
		return ""
	case red > blue:
		return valorant.TeamRed
	case blue > red:
		return valorant.TeamBlue
	}
	return first
}

// SortPlayers orders players for display: our team first, then score,
// kills and name. Missing stats sort last. The input is not modified.
func SortPlayers(players []dbgen.MatchSyncedPlayer, ourTeam string) []dbgen.MatchSyncedPlayer {
	sorted := make([]dbgen.MatchSyncedPlayer, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if ra, rb := teamRank(a.Team.String, ourTeam), teamRank(b.Team.String, ourTeam); ra != rb {
			return ra < rb
		}
		if sa, sb := statOrMinus(a.Score), statOrMinus(b.Score); sa != sb {
			return sa > sb
		}
		if ka, kb := statOrMinus(a.Kills), statOrMinus(b.Kills); ka != kb {
			return ka > kb
		}
		return strings.ToLower(a.RiotName) < strings.ToLower(b.RiotName)
	})
	return sorted
}

func teamRank(team, ourTeam string) int {
	first, second := valorant.TeamRed, valorant.TeamBlue
	if ourTeam == valorant.TeamBlue {
		first, second = second, first
	}
	switch team {
	case first:
		return 0
	case second:
		return 1
	}
	return 2
}

func statOrMinus(v sql.NullInt64) int64 {
	if !v.Valid {
		return -1
	}
	return v.Int64
}

func riotKey(player dbgen.MatchSyncedPlayer) string {
	return valorant.RiotID{Name: player.RiotName, Tag: player.RiotTag}.Key()
}
