package valorant

import (
	"math"
	"regexp"
	"strings"

	"github.com/codr1/Teamgrid/internal/models"
)

// Player records from the match endpoint name the same value differently
// across API versions. Each extractor list is tried in order and the first
// present value wins.

type record = map[string]any

type stringExtractor func(record) (string, bool)

type intExtractor func(record) (int64, bool)

func stringField(path ...string) stringExtractor {
	return func(r record) (string, bool) {
		value, ok := lookup(r, path)
		if !ok {
			return "", false
		}
		s, ok := value.(string)
		s = strings.TrimSpace(s)
		return s, ok && s != ""
	}
}

func intField(path ...string) intExtractor {
	return func(r record) (int64, bool) {
		value, ok := lookup(r, path)
		if !ok {
			return 0, false
		}
		n, ok := value.(float64)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
}

func lookup(r record, path []string) (any, bool) {
	var current any = r
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

func firstString(r record, extractors []stringExtractor) (string, bool) {
	for _, extract := range extractors {
		if value, ok := extract(r); ok {
			return value, true
		}
	}
	return "", false
}

func firstInt(r record, extractors []intExtractor) (int64, bool) {
	for _, extract := range extractors {
		if value, ok := extract(r); ok {
			return value, true
		}
	}
	return 0, false
}

var (
	nameFields = []stringExtractor{stringField("name"), stringField("game_name")}
	tagFields  = []stringExtractor{stringField("tag"), stringField("tag_line")}
	teamFields = []stringExtractor{stringField("team"), stringField("team_id")}

	agentFields = []stringExtractor{
		stringField("character"),
		stringField("character_name"),
		stringField("agent"),
		stringField("agent_name"),
		stringField("agent", "name"),
		stringField("character_id"),
	}

	scoreFields   = []intExtractor{intField("score"), intField("stats", "score")}
	killsFields   = []intExtractor{intField("kills"), intField("stats", "kills")}
	deathsFields  = []intExtractor{intField("deaths"), intField("stats", "deaths")}
	assistsFields = []intExtractor{intField("assists"), intField("stats", "assists")}
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeAgentKey turns an API agent name into a catalog key. It returns
// false when the result is not a known agent.
func NormalizeAgentKey(raw string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", false
	}
	if cleaned == "kay/o" || cleaned == "kayo" {
		cleaned = "kay-o"
	}
	key := strings.Trim(nonAlnum.ReplaceAllString(cleaned, "-"), "-")
	if _, ok := models.LookupAgent(key); !ok {
		return "", false
	}
	return key, true
}

// Stat is an optional integer statistic.
type Stat struct {
	Value int64
	Valid bool
}

func stat(r record, extractors []intExtractor) Stat {
	value, ok := firstInt(r, extractors)
	return Stat{Value: value, Valid: ok}
}

// SnapshotPlayer is one participant of a finished match.
type SnapshotPlayer struct {
	RiotID    RiotID
	Team      string
	AgentKey  string
	AgentName string
	Score     Stat
	Kills     Stat
	Deaths    Stat
	Assists   Stat
}

// parsePlayer normalizes one raw player record. Records without a name and
// tag are dropped.
func parsePlayer(r record) (SnapshotPlayer, bool) {
	name, ok := firstString(r, nameFields)
	if !ok {
		return SnapshotPlayer{}, false
	}
	tag, ok := firstString(r, tagFields)
	if !ok {
		return SnapshotPlayer{}, false
	}

	player := SnapshotPlayer{
		RiotID:  RiotID{Name: name, Tag: tag},
		Score:   stat(r, scoreFields),
		Kills:   stat(r, killsFields),
		Deaths:  stat(r, deathsFields),
		Assists: stat(r, assistsFields),
	}
	if team, ok := firstString(r, teamFields); ok {
		player.Team = normalizeTeam(team)
	}
	if rawAgent, ok := firstString(r, agentFields); ok {
		if key, ok := NormalizeAgentKey(rawAgent); ok {
			agent, _ := models.LookupAgent(key)
			player.AgentKey, player.AgentName = key, agent.Name
		}
	}
	return player, true
}

func normalizeTeam(team string) string {
	switch strings.ToLower(team) {
	case "red":
		return TeamRed
	case "blue":
		return TeamBlue
	}
	return team
}
