package nudge

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/discord"
	"github.com/codr1/Teamgrid/internal/models"
)

// ProfileOutcome extends Outcome with the data gaps found on the player.
type ProfileOutcome struct {
	Outcome
	MissingAvailability bool
	MissingAgents       bool
}

type profileAttempt struct {
	adminID    int64
	target     dbgen.User
	missing    missingData
	forced     bool
	status     string
	code       string
	detail     string
	sentAt     time.Time
	recordedAt time.Time
}

type missingData struct {
	availability bool
	agents       bool
}

func (s *Service) missingProfileData(ctx context.Context, target dbgen.User) (missingData, error) {
	slots, err := s.db.Queries.CountAvailableSlotsByUser(ctx, target.ID)
	if err != nil {
		return missingData{}, fmt.Errorf("count availability: %w", err)
	}
	return missingData{
		availability: slots == 0,
		agents:       len(models.DecodeAgentPrefs(target.AgentPrefs)) == 0,
	}, nil
}

// SendProfileDataNudge asks target by DM to fill in weekly availability and
// agent preferences. Every call writes one player_nudges row.
func (s *Service) SendProfileDataNudge(ctx context.Context, adminID int64, target dbgen.User, opts Options) (ProfileOutcome, error) {
	logger := log.Ctx(ctx).With().
		Str("component", "profile_nudge").
		Int64("target_user_id", target.ID).
		Int64("admin_user_id", adminID).
		Bool("forced", opts.Force).
		Logger()

	missing, err := s.missingProfileData(ctx, target)
	if err != nil {
		return ProfileOutcome{}, err
	}
	now := s.clock.Now().UTC()
	attempt := profileAttempt{adminID: adminID, target: target, missing: missing, forced: opts.Force, recordedAt: now}

	checks := append(rosterChecks(target), check{
		failed:  !missing.availability && !missing.agents,
		code:    CodeNoMissingData,
		message: "No nudge needed: player has already filled availability and agent preferences.",
	})
	if c, stop := firstFailed(checks...); stop {
		logger.Info().Str("code", c.code).Msg("Profile nudge blocked")
		attempt.status, attempt.code, attempt.detail = StatusBlocked, c.code, c.message
		return s.finishProfile(ctx, attempt, blocked(c.code, c.message))
	}

	if !opts.Force {
		last, err := s.db.Queries.GetLatestSentPlayerNudge(ctx, dbgen.GetLatestSentPlayerNudgeParams{
			UserID: target.ID,
			Reason: ReasonProfileDataMissing,
		})
		if err == nil {
			until := lastSentAt(last.SentAt, last.CreatedAt).Add(s.cooldown)
			if until.After(now) {
				logger.Info().Time("cooldown_until", until).Msg("Profile nudge on cooldown")
				attempt.status, attempt.code = StatusBlocked, CodeCooldownActive
				attempt.detail = "Cooldown active until " + until.UTC().Format(time.RFC3339)
				outcome := blocked(CodeCooldownActive, cooldownMessage(until, now))
				outcome.CooldownUntil = until
				return s.finishProfile(ctx, attempt, outcome)
			}
		} else if !isNoRows(err) {
			return ProfileOutcome{}, fmt.Errorf("load latest profile nudge: %w", err)
		}
	}

	msg := discord.ProfileNudgeMessage(s.baseURL, discord.ProfileNudge{
		PlayerName:          PlayerName(target),
		MissingAvailability: missing.availability,
		MissingAgents:       missing.agents,
	})
	if _, err := s.messenger.SendDirectMessage(ctx, target.DiscordID.String, msg); err != nil {
		c := discord.Classify(err)
		logDeliveryFailure(&logger, err, c)
		attempt.status, attempt.code, attempt.detail = string(c.Severity), c.Code, c.Detail
		return s.finishProfile(ctx, attempt, Outcome{Status: string(c.Severity), Code: c.Code, Message: c.Message, Forced: opts.Force})
	}

	logger.Info().Msg("Profile nudge sent")
	attempt.status, attempt.sentAt = StatusSent, now
	return s.finishProfile(ctx, attempt, Outcome{Status: StatusSent, Message: "Nudge sent just now.", Forced: opts.Force})
}

func (s *Service) finishProfile(ctx context.Context, a profileAttempt, outcome Outcome) (ProfileOutcome, error) {
	params := dbgen.CreatePlayerNudgeParams{
		UserID:              a.target.ID,
		AdminUserID:         nullAdmin(a.adminID),
		Reason:              ReasonProfileDataMissing,
		Status:              a.status,
		Forced:              a.forced,
		MissingAvailability: a.missing.availability,
		MissingAgents:       a.missing.agents,
		ErrorCode:           nullString(a.code),
		ErrorMessage:        nullString(a.detail),
		CreatedAt:           a.recordedAt,
	}
	if !a.sentAt.IsZero() {
		params.SentAt = nullTime(a.sentAt)
	}
	if _, err := s.db.Queries.CreatePlayerNudge(ctx, params); err != nil {
		return ProfileOutcome{}, fmt.Errorf("record profile nudge: %w", err)
	}
	return ProfileOutcome{
		Outcome:             outcome,
		MissingAvailability: a.missing.availability,
		MissingAgents:       a.missing.agents,
	}, nil
}
