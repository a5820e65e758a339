package valorant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRiotID(t *testing.T) {
	id, err := ParseRiotID(" Vortex # EUW ")
	require.NoError(t, err)
	assert.Equal(t, RiotID{Name: "Vortex", Tag: "EUW"}, id)
	assert.Equal(t, "vortex#euw", id.Key())

	for _, raw := range []string{"", "noTag", "a#b#c", "#tag", "name#"} {
		_, err := ParseRiotID(raw)
		assert.ErrorIs(t, err, ErrInvalidRiotID, raw)
	}
}

func TestNormalizeAgentKey(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{raw: "Jett", want: "jett", wantOK: true},
		{raw: "KAY/O", want: "kay-o", wantOK: true},
		{raw: "kayo", want: "kay-o", wantOK: true},
		{raw: "  Brimstone ", want: "brimstone", wantOK: true},
		{raw: "Gandalf", wantOK: false},
		{raw: "", wantOK: false},
	}
	for _, tc := range tests {
		got, ok := NormalizeAgentKey(tc.raw)
		assert.Equal(t, tc.wantOK, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestCandidateExtractorsFirstMatchWins(t *testing.T) {
	r := record{
		"character":  42.0,
		"agent_name": "Sova",
		"kills":      12.5,
		"stats":      map[string]any{"kills": 7.0},
	}

	agent, ok := firstString(r, agentFields)
	require.True(t, ok)
	assert.Equal(t, "Sova", agent, "non-string candidates are skipped")

	kills, ok := firstInt(r, killsFields)
	require.True(t, ok)
	assert.Equal(t, int64(7), kills, "fractional values are not counts")

	_, ok = firstInt(record{}, deathsFields)
	assert.False(t, ok)
}

func TestClassifyMatch(t *testing.T) {
	tests := []struct {
		name string
		meta MatchMetadata
		want MatchType
	}{
		{name: "premier ids", meta: MatchMetadata{Mode: "Competitive", PremierInfo: &PremierInfo{MatchupID: "m"}}, want: MatchTypePremier},
		{name: "premier queue", meta: MatchMetadata{Queue: "PREMIER"}, want: MatchTypePremier},
		{name: "custom mode id", meta: MatchMetadata{ModeID: "custom"}, want: MatchTypeCustom},
		{name: "empty premier info", meta: MatchMetadata{Mode: "Deathmatch", PremierInfo: &PremierInfo{}}, want: MatchTypeOther},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyMatch(tc.meta))
		})
	}
}

func TestDetermineResult(t *testing.T) {
	assert.Equal(t, ResultWin, DetermineResult(13, 7))
	assert.Equal(t, ResultLoss, DetermineResult(7, 13))
	assert.Equal(t, ResultDraw, DetermineResult(12, 12))
}
