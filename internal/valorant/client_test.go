package valorant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/Teamgrid/internal/ratelimit"
)

const matchListJSON = `{
  "status": 200,
  "data": [
    {
      "metadata": {"matchid": "premier-1", "map": "Ascent", "game_start_patched": "Monday, March 4, 2024 8:00 PM", "mode": "Premier", "region": "eu", "premier_info": {"tournament_id": "t-1", "matchup_id": null}},
      "teams": {"red": {"rounds_won": 13, "rounds_lost": 9}, "blue": {"rounds_won": 9, "rounds_lost": 13}},
      "players": {"all_players": [
        {"puuid": "a", "name": "Vortex", "tag": "EUW", "team": "Blue"},
        {"puuid": "b", "name": "Other", "tag": "111", "team": "Red"}
      ]}
    },
    {
      "metadata": {"matchid": "custom-1", "map": "Lotus", "game_start_patched": "Sunday", "mode": "Custom Game", "region": "eu"},
      "teams": {"red": {"rounds_won": 10, "rounds_lost": 13}, "blue": {"rounds_won": 13, "rounds_lost": 10}},
      "players": {"all_players": [{"puuid": "a", "name": "vortex", "tag": "euw", "team": "Red"}]}
    },
    {
      "metadata": {"matchid": "comp-1", "map": "Bind", "game_start_patched": "Saturday", "mode": "Competitive", "queue": "competitive", "region": "eu"},
      "teams": {"red": {"rounds_won": 13, "rounds_lost": 13}, "blue": {"rounds_won": 13, "rounds_lost": 13}},
      "players": {"all_players": [{"puuid": "a", "name": "Vortex", "tag": "EUW", "team": "Red"}]}
    },
    {
      "metadata": {"matchid": "custom-2", "map": "Haven", "game_start_patched": "Friday", "mode": "Custom Game", "region": "eu"},
      "teams": {"red": {"rounds_won": null, "rounds_lost": null}, "blue": {"rounds_won": 2, "rounds_lost": 0}},
      "players": {"all_players": [{"puuid": "a", "name": "Vortex", "tag": "EUW", "team": "Red"}]}
    }
  ]
}`

const snapshotJSON = `{
  "status": 200,
  "data": {
    "metadata": {"map": "Ascent"},
    "players": {"all_players": [
      {"name": "Vortex", "tag": "EUW", "team": "Blue", "character": "Jett", "stats": {"score": 6120, "kills": 24, "deaths": 15, "assists": 4}},
      {"name": "Helper", "tag": "0001", "team": "blue", "agent": {"name": "KAY/O"}, "kills": 11, "stats": {"kills": 99, "deaths": 12}},
      {"name": "Mystery", "tag": "X", "team": "Red", "character": "Gandalf"},
      {"name": "", "tag": "NOPE", "team": "Red", "character": "Sage"},
      {"name": "Ghost", "team": "Red", "character": "Omen"}
    ]}
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{APIBaseURL: server.URL, APIKey: "henrik-key", Region: "eu", HTTPClient: server.Client()})
}

func TestRecentMatches(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/matches/eu/Vortex/EUW", r.URL.Path)
		assert.Equal(t, "henrik-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(matchListJSON))
	})

	matches, err := client.RecentMatches(context.Background(), RiotID{Name: "Vortex", Tag: "EUW"}, false)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, RecentMatch{
		MatchID:   "premier-1",
		Map:       "Ascent",
		Mode:      "Premier",
		StartedAt: "Monday, March 4, 2024 8:00 PM",
		Type:      MatchTypePremier,
		ScoreUs:   9,
		ScoreThem: 13,
		Result:    ResultLoss,
	}, matches[0])
	assert.Equal(t, MatchTypeCustom, matches[1].Type)
	assert.Equal(t, ResultLoss, matches[1].Result)

	all, err := client.RecentMatches(context.Background(), RiotID{Name: "Vortex", Tag: "EUW"}, true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, MatchTypeOther, all[2].Type)
	assert.Equal(t, ResultDraw, all[2].Result)
}

func TestRecentMatchesMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"data":[{"metadata":{"map":"Ascent"}}]}`))
	})
	_, err := client.RecentMatches(context.Background(), RiotID{Name: "a", Tag: "b"}, true)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestMatchSnapshot(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/match/abc-123", r.URL.Path)
		_, _ = w.Write([]byte(snapshotJSON))
	})

	snapshot, err := client.MatchSnapshot(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "Ascent", snapshot.Map)
	require.Len(t, snapshot.Players, 3)

	vortex := snapshot.Players[0]
	assert.Equal(t, "vortex#euw", vortex.RiotID.Key())
	assert.Equal(t, TeamBlue, vortex.Team)
	assert.Equal(t, "jett", vortex.AgentKey)
	assert.Equal(t, Stat{Value: 6120, Valid: true}, vortex.Score)
	assert.Equal(t, Stat{Value: 24, Valid: true}, vortex.Kills)
	assert.Equal(t, Stat{Value: 4, Valid: true}, vortex.Assists)

	helper := snapshot.Players[1]
	assert.Equal(t, TeamBlue, helper.Team)
	assert.Equal(t, "kay-o", helper.AgentKey)
	assert.Equal(t, "KAY/O", helper.AgentName)
	assert.Equal(t, int64(11), helper.Kills.Value, "top-level kills win over stats")
	assert.Equal(t, Stat{Value: 12, Valid: true}, helper.Deaths)
	assert.False(t, helper.Score.Valid)

	mystery := snapshot.Players[2]
	assert.Empty(t, mystery.AgentKey)
	assert.False(t, mystery.Kills.Valid)
}

func TestClientErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		client := NewClient(ClientConfig{})
		_, err := client.MatchSnapshot(context.Background(), "x")
		assert.ErrorIs(t, err, ErrAPIKeyMissing)
	})

	t.Run("rate limited with header", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "12")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"errors":[{"message":"Rate limit reached"}]}`))
		})
		_, err := client.MatchSnapshot(context.Background(), "x")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		assert.True(t, ratelimit.IsRateLimited(err))
		wait, ok := ratelimit.RetryAfter(err)
		require.True(t, ok)
		assert.Equal(t, 12*time.Second, wait)
	})

	t.Run("rate limited with body hint", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`rate limited, retry after 800 ms`))
		})
		_, err := client.MatchSnapshot(context.Background(), "x")
		wait, ok := ratelimit.RetryAfter(err)
		require.True(t, ok)
		assert.Equal(t, 800*time.Millisecond, wait)
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.MatchSnapshot(context.Background(), "x")
		require.Error(t, err)
		assert.False(t, ratelimit.IsRateLimited(err))
		assert.Equal(t, "Henrik API error: 502 - Bad Gateway", err.Error())
	})

	t.Run("invalid json", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		})
		_, err := client.MatchSnapshot(context.Background(), "x")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}
