// Package matchsync copies per-player statistics of finished Valorant matches
// into the match tables and links them to roster players by Riot ID.
package matchsync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/db"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/ratelimit"
	"github.com/codr1/Teamgrid/internal/valorant"
)

var ErrNoValorantMatch = errors.New("match has no stored Valorant match id")

// SnapshotSource loads the player list of a finished match.
type SnapshotSource interface {
	MatchSnapshot(ctx context.Context, matchID string) (valorant.Snapshot, error)
}

type Service struct {
	db        *db.DB
	snapshots SnapshotSource
}

func NewService(database *db.DB, snapshots SnapshotSource) *Service {
	return &Service{db: database, snapshots: snapshots}
}

// Result counts the rows written by one sync.
type Result struct {
	RosterAgentRows  int
	SyncedPlayerRows int
}

// SyncMatch replaces the stored stats of match with a fresh snapshot. An
// empty valorantMatchID uses the id stored on the match.
func (s *Service) SyncMatch(ctx context.Context, match dbgen.Match, valorantMatchID string) (Result, error) {
	target := strings.TrimSpace(valorantMatchID)
	if target == "" {
		target = strings.TrimSpace(match.ValorantMatchID.String)
	}
	if target == "" {
		return Result{}, fmt.Errorf("match #%d: %w", match.ID, ErrNoValorantMatch)
	}

	snapshot, err := s.snapshots.MatchSnapshot(ctx, target)
	if err != nil {
		return Result{}, err
	}
	riotIDs, err := s.rosterRiotIDs(ctx)
	if err != nil {
		return Result{}, err
	}

	var result Result
	err = s.db.RunInTx(ctx, func(tx *db.DB) error {
		if err := tx.Queries.DeleteMatchPlayerAgents(ctx, match.ID); err != nil {
			return fmt.Errorf("clear match player agents: %w", err)
		}
		if err := tx.Queries.DeleteMatchSyncedPlayers(ctx, match.ID); err != nil {
			return fmt.Errorf("clear synced players: %w", err)
		}

		for _, player := range snapshot.Players {
			userID, linked := riotIDs[player.RiotID.Key()]
			if err := tx.Queries.CreateMatchSyncedPlayer(ctx, dbgen.CreateMatchSyncedPlayerParams{
				MatchID:   match.ID,
				UserID:    sql.NullInt64{Int64: userID, Valid: linked},
				RiotName:  player.RiotID.Name,
				RiotTag:   player.RiotID.Tag,
				Team:      nullString(player.Team),
				AgentKey:  nullString(player.AgentKey),
				AgentName: nullString(player.AgentName),
				Score:     nullStat(player.Score),
				Kills:     nullStat(player.Kills),
				Deaths:    nullStat(player.Deaths),
				Assists:   nullStat(player.Assists),
			}); err != nil {
				return fmt.Errorf("store synced player %s: %w", player.RiotID, err)
			}
			result.SyncedPlayerRows++

			if !linked || player.AgentKey == "" {
				continue
			}
			if err := tx.Queries.CreateMatchPlayerAgent(ctx, dbgen.CreateMatchPlayerAgentParams{
				MatchID:  match.ID,
				UserID:   userID,
				AgentKey: player.AgentKey,
				Kills:    nullStat(player.Kills),
				Deaths:   nullStat(player.Deaths),
				Assists:  nullStat(player.Assists),
			}); err != nil {
				return fmt.Errorf("store roster agent for user %d: %w", userID, err)
			}
			result.RosterAgentRows++
		}

		if snapshot.Map != "" {
			if err := tx.Queries.UpdateMatchValorantMap(ctx, dbgen.UpdateMatchValorantMapParams{
				ValorantMap: nullString(snapshot.Map),
				ID:          match.ID,
			}); err != nil {
				return fmt.Errorf("store valorant map: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Ctx(ctx).Info().
		Int64("match_id", match.ID).
		Str("valorant_match_id", target).
		Int("synced_players", result.SyncedPlayerRows).
		Int("roster_agents", result.RosterAgentRows).
		Msg("Match stats synced")
	return result, nil
}

// LinkAndSync stores valorantMatchID on match and syncs it.
func (s *Service) LinkAndSync(ctx context.Context, match dbgen.Match, valorantMatchID string) (Result, error) {
	valorantMatchID = strings.TrimSpace(valorantMatchID)
	if valorantMatchID == "" {
		return Result{}, fmt.Errorf("valorant match id is required")
	}
	if err := s.db.Queries.UpdateMatchValorantLink(ctx, dbgen.UpdateMatchValorantLinkParams{
		ValorantMatchID: nullString(valorantMatchID),
		ID:              match.ID,
	}); err != nil {
		return Result{}, fmt.Errorf("store valorant match id: %w", err)
	}
	match.ValorantMatchID = nullString(valorantMatchID)
	return s.SyncMatch(ctx, match, valorantMatchID)
}

// rosterRiotIDs maps lowercased Riot IDs to user ids. Users with a malformed
// Riot ID are ignored.
func (s *Service) rosterRiotIDs(ctx context.Context) (map[string]int64, error) {
	users, err := s.db.Queries.ListUsersWithRiotID(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users with riot id: %w", err)
	}
	ids := make(map[string]int64, len(users))
	for _, user := range users {
		id, err := valorant.ParseRiotID(user.RiotID.String)
		if err != nil {
			continue
		}
		ids[id.Key()] = user.ID
	}
	return ids, nil
}

// KnownRiotIDs returns the set of lowercased Riot IDs registered by users.
func (s *Service) KnownRiotIDs(ctx context.Context) (map[string]struct{}, error) {
	ids, err := s.rosterRiotIDs(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(ids))
	for key := range ids {
		known[key] = struct{}{}
	}
	return known, nil
}

// ResyncOptions selects the matches of a backfill.
type ResyncOptions struct {
	// MatchID restricts the run to one match.
	MatchID int64
	// Limit caps the number of matches; zero means all.
	Limit int
	Pacer *ratelimit.Pacer
}

// ItemResult is the outcome for one match of a backfill.
type ItemResult struct {
	MatchID int64
	Result  Result
	Err     error
}

// ResyncSummary aggregates a backfill run.
type ResyncSummary struct {
	Updated          int
	Failed           int
	SyncedPlayerRows int
	Items            []ItemResult
}

// Resync re-syncs stored matches one at a time through the pacer. A failing
// match is recorded and the run moves on.
func (s *Service) Resync(ctx context.Context, opts ResyncOptions) (ResyncSummary, error) {
	matches, err := s.resyncTargets(ctx, opts)
	if err != nil {
		return ResyncSummary{}, err
	}
	pacer := opts.Pacer
	if pacer == nil {
		pacer = ratelimit.NewPacer(ratelimit.PacerConfig{})
	}

	logger := log.Ctx(ctx).With().Str("component", "valorant_resync").Logger()
	logger.Info().
		Int("matches", len(matches)).
		Dur("min_interval", pacer.Interval()).
		Int("max_attempts", pacer.MaxAttempts()).
		Msg("Starting Valorant re-sync")

	var summary ResyncSummary
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		item := ItemResult{MatchID: match.ID}
		item.Err = pacer.Do(ctx, func(ctx context.Context) error {
			result, err := s.SyncMatch(ctx, match, "")
			item.Result = result
			return err
		})
		if item.Err != nil {
			summary.Failed++
			logger.Error().Err(item.Err).Int64("match_id", match.ID).Msg("Match re-sync failed")
		} else {
			summary.Updated++
			summary.SyncedPlayerRows += item.Result.SyncedPlayerRows
		}
		summary.Items = append(summary.Items, item)
	}

	logger.Info().
		Int("updated", summary.Updated).
		Int("failed", summary.Failed).
		Int("synced_player_rows", summary.SyncedPlayerRows).
		Msg("Valorant re-sync finished")
	return summary, nil
}

func (s *Service) resyncTargets(ctx context.Context, opts ResyncOptions) ([]dbgen.Match, error) {
	if opts.MatchID > 0 {
		match, err := s.db.Queries.GetMatchByID(ctx, opts.MatchID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load match %d: %w", opts.MatchID, err)
		}
		if strings.TrimSpace(match.ValorantMatchID.String) == "" {
			return nil, nil
		}
		return []dbgen.Match{match}, nil
	}

	limit := int64(-1)
	if opts.Limit > 0 {
		limit = int64(opts.Limit)
	}
	matches, err := s.db.Queries.ListMatchesWithValorantID(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches with valorant id: %w", err)
	}
	return matches, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullStat(s valorant.Stat) sql.NullInt64 {
	return sql.NullInt64{Int64: s.Value, Valid: s.Valid}
}
