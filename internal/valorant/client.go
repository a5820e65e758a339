// Package valorant reads match history and per-match statistics from the
// Henrik community Valorant API.
package valorant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/ratelimit"
)

const (
	DefaultAPIBaseURL = "https://api.henrikdev.xyz/valorant"
	DefaultRegion     = "eu"

	maxResponseBytes = 8 << 20
)

// ClientConfig configures a Client.
type ClientConfig struct {
	APIBaseURL string
	APIKey     string
	Region     string
	HTTPClient *http.Client
}

// Client calls the Henrik API.
type Client struct {
	baseURL    string
	apiKey     string
	region     string
	httpClient *http.Client
}

// NewClient builds a Client. The API key is checked per call so a missing
// key only fails the features that need it.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = DefaultRegion
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		region:     region,
		httpClient: httpClient,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// MatchMetadata is the subset of match metadata used for classification.
type MatchMetadata struct {
	MatchID          string       `json:"matchid"`
	Map              string       `json:"map"`
	GameStartPatched string       `json:"game_start_patched"`
	Mode             string       `json:"mode"`
	ModeID           string       `json:"mode_id"`
	Queue            string       `json:"queue"`
	Region           string       `json:"region"`
	PremierInfo      *PremierInfo `json:"premier_info"`
}

type PremierInfo struct {
	TournamentID string `json:"tournament_id"`
	MatchupID    string `json:"matchup_id"`
}

type rawTeam struct {
	RoundsWon  *int64 `json:"rounds_won"`
	RoundsLost *int64 `json:"rounds_lost"`
}

type rawListPlayer struct {
	PUUID string `json:"puuid"`
	Name  string `json:"name"`
	Tag   string `json:"tag"`
	Team  string `json:"team"`
}

type rawMatch struct {
	Metadata MatchMetadata `json:"metadata"`
	Teams    struct {
		Red  rawTeam `json:"red"`
		Blue rawTeam `json:"blue"`
	} `json:"teams"`
	Players struct {
		AllPlayers []rawListPlayer `json:"all_players"`
	} `json:"players"`
}

func (m rawMatch) valid() bool {
	if m.Metadata.MatchID == "" || m.Metadata.Map == "" {
		return false
	}
	for _, player := range m.Players.AllPlayers {
		if player.Name == "" || player.Tag == "" {
			return false
		}
	}
	return true
}

// RecentMatch is one entry of a player's match history, scored from their
// team's side.
type RecentMatch struct {
	MatchID   string
	Map       string
	Mode      string
	StartedAt string
	Type      MatchType
	ScoreUs   int64
	ScoreThem int64
	Result    Result
}

// RecentMatches lists the recent matches of player. Only Premier and Custom
// games are returned unless showAll is set. Matches the player's side or
// score cannot be resolved for are skipped.
func (c *Client) RecentMatches(ctx context.Context, player RiotID, showAll bool) ([]RecentMatch, error) {
	endpoint := fmt.Sprintf("%s/v3/matches/%s/%s/%s",
		c.baseURL,
		url.PathEscape(c.region),
		url.PathEscape(player.Name),
		url.PathEscape(player.Tag),
	)

	var payload struct {
		Status int        `json:"status"`
		Data   []rawMatch `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	matches := make([]RecentMatch, 0, len(payload.Data))
	for _, match := range payload.Data {
		if !match.valid() {
			return nil, fmt.Errorf("%w: match entry missing required fields", ErrMalformedResponse)
		}
		matchType := ClassifyMatch(match.Metadata)
		if !showAll && matchType == MatchTypeOther {
			continue
		}
		side, ok := teamOf(match, player)
		if !ok {
			continue
		}
		us, them, ok := scores(match, side)
		if !ok {
			continue
		}
		matches = append(matches, RecentMatch{
			MatchID:   match.Metadata.MatchID,
			Map:       match.Metadata.Map,
			Mode:      match.Metadata.Mode,
			StartedAt: match.Metadata.GameStartPatched,
			Type:      matchType,
			ScoreUs:   us,
			ScoreThem: them,
			Result:    DetermineResult(us, them),
		})
	}
	return matches, nil
}

// Snapshot is the per-player state of one finished match.
type Snapshot struct {
	MatchID string
	Map     string
	Players []SnapshotPlayer
}

// MatchSnapshot loads the full player list of a match.
func (c *Client) MatchSnapshot(ctx context.Context, matchID string) (Snapshot, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return Snapshot{}, fmt.Errorf("valorant match id is required")
	}
	endpoint := fmt.Sprintf("%s/v2/match/%s", c.baseURL, url.PathEscape(matchID))

	var payload struct {
		Data struct {
			Metadata struct {
				Map string `json:"map"`
			} `json:"metadata"`
			Players struct {
				AllPlayers []record `json:"all_players"`
			} `json:"players"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{MatchID: matchID, Map: strings.TrimSpace(payload.Data.Metadata.Map)}
	for _, raw := range payload.Data.Players.AllPlayers {
		if player, ok := parsePlayer(raw); ok {
			snapshot.Players = append(snapshot.Players, player)
		}
	}
	return snapshot, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if !c.Configured() {
		return ErrAPIKeyMissing
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build henrik request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("henrik request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read henrik response: %w", err)
	}
	log.Ctx(ctx).Debug().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(started)).
		Msg("Henrik API response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		if wait, ok := ratelimit.ParseRetryAfterHeader(resp.Header.Get("Retry-After")); ok {
			apiErr.retryAfter = wait
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
