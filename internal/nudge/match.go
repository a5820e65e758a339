package nudge

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/actiontoken"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/discord"
	"github.com/codr1/Teamgrid/internal/timeslot"
)

const matchTimeLayout = "Monday, Jan 2, 2006 at 3:04 PM"

// BatchOutcome summarizes a nudge run over every non-responder of a match.
type BatchOutcome struct {
	Status  string
	Message string
	Tally
	Attempts int
}

// FormatMatchTime renders scheduledAt in the player's zone. Unknown zones
// fall back to UTC, and the zone actually used is returned.
func FormatMatchTime(scheduledAt time.Time, tz string) (string, string) {
	loc := timeslot.LocationOrUTC(tz)
	return scheduledAt.In(loc).Format(matchTimeLayout), loc.String()
}

// MatchMapName prefers the map reported by match sync over the planned one.
func MatchMapName(match dbgen.Match) string {
	switch {
	case match.ValorantMap.Valid && match.ValorantMap.String != "":
		return match.ValorantMap.String
	case match.Map.Valid && match.Map.String != "":
		return match.Map.String
	}
	return "TBD"
}

// SendMatchNudge asks a single player to answer availability for match.
func (s *Service) SendMatchNudge(ctx context.Context, adminID int64, match dbgen.Match, player dbgen.User, opts Options) (Outcome, error) {
	now := s.clock.Now().UTC()
	if !match.ScheduledAt.After(now) {
		return blocked(CodeMatchInPast, "Cannot send nudges for a past match."), nil
	}
	responded, err := s.hasResponded(ctx, match.ID, player.ID)
	if err != nil {
		return Outcome{}, err
	}
	return s.nudgeMatchPlayer(ctx, adminID, match, player, responded, opts, now)
}

// SendMatchNudges nudges every roster player who has not answered match.
// Each considered player produces exactly one audit row.
func (s *Service) SendMatchNudges(ctx context.Context, adminID int64, match dbgen.Match, opts Options) (BatchOutcome, error) {
	logger := log.Ctx(ctx).With().
		Str("component", "match_nudges").
		Int64("match_id", match.ID).
		Int64("admin_user_id", adminID).
		Bool("forced", opts.Force).
		Logger()
	ctx = logger.WithContext(ctx)

	now := s.clock.Now().UTC()
	if !match.ScheduledAt.After(now) {
		return BatchOutcome{Status: StatusBlocked, Message: "Cannot send nudges for a past match."}, nil
	}

	candidates, err := s.nonResponders(ctx, match.ID)
	if err != nil {
		return BatchOutcome{}, err
	}
	if len(candidates) == 0 {
		return BatchOutcome{Status: StatusBlocked, Message: "No eligible non-responders to nudge."}, nil
	}

	var tally Tally
	for _, player := range candidates {
		outcome, err := s.nudgeMatchPlayer(ctx, adminID, match, player, false, opts, now)
		if err != nil {
			return BatchOutcome{}, err
		}
		tally.Add(outcome)
	}

	status, message := Summarize(tally)
	logger.Info().
		Int("sent", tally.Sent).
		Int("skipped", tally.Skipped).
		Int("failed", tally.Failed).
		Str("status", status).
		Msg("Match nudges processed")
	return BatchOutcome{Status: status, Message: message, Tally: tally, Attempts: len(candidates)}, nil
}

func (s *Service) nonResponders(ctx context.Context, matchID int64) ([]dbgen.User, error) {
	roster, err := s.db.Queries.ListRosterPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	responses, err := s.db.Queries.ListMatchAvailabilities(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match availabilities: %w", err)
	}
	answered := make(map[int64]struct{}, len(responses))
	for _, response := range responses {
		answered[response.UserID] = struct{}{}
	}

	candidates := make([]dbgen.User, 0, len(roster))
	for _, player := range roster {
		if _, ok := answered[player.ID]; ok {
			continue
		}
		candidates = append(candidates, player)
	}
	return candidates, nil
}

func (s *Service) hasResponded(ctx context.Context, matchID, userID int64) (bool, error) {
	_, err := s.db.Queries.GetMatchAvailability(ctx, dbgen.GetMatchAvailabilityParams{MatchID: matchID, UserID: userID})
	if err == nil {
		return true, nil
	}
	if isNoRows(err) {
		return false, nil
	}
	return false, fmt.Errorf("load match availability: %w", err)
}

func (s *Service) nudgeMatchPlayer(ctx context.Context, adminID int64, match dbgen.Match, player dbgen.User, responded bool, opts Options, now time.Time) (Outcome, error) {
	logger := log.Ctx(ctx).With().Int64("target_user_id", player.ID).Logger()
	row := dbgen.CreateMatchAvailabilityNudgeParams{
		MatchID:     match.ID,
		UserID:      player.ID,
		AdminUserID: nullAdmin(adminID),
		Forced:      opts.Force,
		CreatedAt:   now,
	}

	checks := append(rosterChecks(player), check{
		failed:  responded,
		code:    CodeAlreadyResponded,
		message: "No nudge needed: player has already responded.",
	})
	if c, stop := firstFailed(checks...); stop {
		logger.Debug().Str("code", c.code).Msg("Match nudge blocked")
		row.Status, row.ErrorCode, row.ErrorMessage = StatusBlocked, nullString(c.code), nullString(c.message)
		return s.recordMatch(ctx, row, blocked(c.code, c.message))
	}

	if !opts.Force {
		until, active, err := s.matchCooldown(ctx, match.ID, player.ID, now)
		if err != nil {
			return Outcome{}, err
		}
		if active {
			logger.Debug().Time("cooldown_until", until).Msg("Match nudge on cooldown")
			row.Status = StatusBlocked
			row.ErrorCode = nullString(CodeCooldownActive)
			row.ErrorMessage = nullString("Cooldown active for this match/player nudge")
			outcome := blocked(CodeCooldownActive, cooldownMessage(until, now))
			outcome.CooldownUntil = until
			return s.recordMatch(ctx, row, outcome)
		}
	}

	msg, err := s.matchNudgeMessage(match, player)
	if err != nil {
		return Outcome{}, err
	}
	if _, err := s.messenger.SendDirectMessage(ctx, player.DiscordID.String, msg); err != nil {
		c := discord.Classify(err)
		logDeliveryFailure(&logger, err, c)
		row.Status, row.ErrorCode, row.ErrorMessage = string(c.Severity), nullString(c.Code), nullString(c.Detail)
		return s.recordMatch(ctx, row, Outcome{Status: string(c.Severity), Code: c.Code, Message: c.Message, Forced: opts.Force})
	}

	row.Status, row.SentAt = StatusSent, nullTime(now)
	return s.recordMatch(ctx, row, Outcome{Status: StatusSent, Message: "Nudge sent just now.", Forced: opts.Force})
}

func (s *Service) matchCooldown(ctx context.Context, matchID, userID int64, now time.Time) (time.Time, bool, error) {
	last, err := s.db.Queries.GetLatestSentMatchAvailabilityNudge(ctx, dbgen.GetLatestSentMatchAvailabilityNudgeParams{
		MatchID: matchID,
		UserID:  userID,
	})
	if isNoRows(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("load latest match nudge: %w", err)
	}
	until := lastSentAt(last.SentAt, last.CreatedAt).Add(s.cooldown)
	return until, until.After(now), nil
}

func (s *Service) matchNudgeMessage(match dbgen.Match, player dbgen.User) (discord.Message, error) {
	if s.tokens == nil {
		return discord.Message{}, fmt.Errorf("match nudges require an action token service")
	}
	links, err := s.tokens.BuildLinks(s.baseURL, match.ID, player.ID)
	if err != nil {
		return discord.Message{}, fmt.Errorf("build response links: %w", err)
	}
	localTime, zone := FormatMatchTime(match.ScheduledAt, player.Timezone)
	return discord.MatchNudgeMessage(discord.MatchNudge{
		PlayerName: PlayerName(player),
		Opponent:   match.OpponentName.String,
		MatchType:  match.MatchType,
		Map:        MatchMapName(match),
		LocalTime:  localTime,
		Timezone:   zone,
		Links: discord.ResponseLinks{
			Yes:   links[actiontoken.StatusYes],
			Maybe: links[actiontoken.StatusMaybe],
			No:    links[actiontoken.StatusNo],
		},
	}), nil
}

func (s *Service) recordMatch(ctx context.Context, row dbgen.CreateMatchAvailabilityNudgeParams, outcome Outcome) (Outcome, error) {
	if _, err := s.db.Queries.CreateMatchAvailabilityNudge(ctx, row); err != nil {
		return Outcome{}, fmt.Errorf("record match nudge: %w", err)
	}
	return outcome, nil
}

func logDeliveryFailure(logger *zerolog.Logger, err error, c discord.Classification) {
	event := logger.Warn()
	if c.Severity == discord.SeverityTransient {
		event = logger.Error()
	}
	event.Err(err).Str("code", c.Code).Msg("Nudge delivery failed")
}
