// Package reminders broadcasts upcoming-match reminders to the team channel
// and emails one-click response links to players who have not answered.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/actiontoken"
	"github.com/codr1/Teamgrid/internal/db"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/discord"
	"github.com/codr1/Teamgrid/internal/email"
	"github.com/codr1/Teamgrid/internal/nudge"
)

var (
	ErrMatchInPast   = errors.New("match is in the past")
	ErrAlreadySent   = errors.New("reminder already sent")
	ErrNoBroadcaster = errors.New("reminder webhook is not configured")
)

// Reminder windows, relative to now.
var (
	window24hStart     = 23 * time.Hour
	window24hEnd       = 25 * time.Hour
	window1hStart      = 30 * time.Minute
	window1hEnd        = 90 * time.Minute
	catchupWindowStart = time.Hour
	catchupWindowEnd   = 24 * time.Hour
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Config struct {
	BaseURL string
	Clock   Clock
}

// Service sends reminders. Emails are skipped when the sender or the token
// service is nil.
type Service struct {
	db      *db.DB
	webhook discord.Broadcaster
	emails  email.EmailSender
	tokens  *actiontoken.Service
	baseURL string
	clock   Clock
}

func NewService(database *db.DB, webhook discord.Broadcaster, emails email.EmailSender, tokens *actiontoken.Service, cfg Config) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	return &Service{
		db:      database,
		webhook: webhook,
		emails:  emails,
		tokens:  tokens,
		baseURL: cfg.BaseURL,
		clock:   clock,
	}
}

// Summary counts reminders from one run.
type Summary struct {
	Sent    int
	Skipped int
	Failed  int
}

func (s Summary) String() string {
	return fmt.Sprintf("Sent: %d, Skipped: %d, Failed: %d", s.Sent, s.Skipped, s.Failed)
}

func (s *Summary) merge(other Summary) {
	s.Sent += other.Sent
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}

// SendDue sends the 24h and 1h reminders whose windows contain a match.
func (s *Service) SendDue(ctx context.Context) (Summary, error) {
	now := s.clock.Now().UTC()

	var summary Summary
	for _, w := range []struct {
		kind       discord.ReminderType
		start, end time.Duration
	}{
		{discord.Reminder24h, window24hStart, window24hEnd},
		{discord.Reminder1h, window1hStart, window1hEnd},
	} {
		matches, err := s.db.Queries.ListMatchesScheduledBetween(ctx, dbgen.ListMatchesScheduledBetweenParams{
			StartTime: now.Add(w.start),
			EndTime:   now.Add(w.end),
		})
		if err != nil {
			return summary, fmt.Errorf("list %s matches: %w", w.kind, err)
		}
		summary.merge(s.sendAll(ctx, matches, w.kind))
	}
	return summary, nil
}

// SendCatchup sends a manual reminder for each match between one and 24
// hours away that has not had one yet.
func (s *Service) SendCatchup(ctx context.Context) (Summary, error) {
	now := s.clock.Now().UTC()
	start := now.Add(catchupWindowStart)

	matches, err := s.db.Queries.ListMatchesScheduledBetween(ctx, dbgen.ListMatchesScheduledBetweenParams{
		StartTime: start,
		EndTime:   now.Add(catchupWindowEnd),
	})
	if err != nil {
		return Summary{}, fmt.Errorf("list catchup matches: %w", err)
	}

	due := matches[:0]
	for _, m := range matches {
		if m.ScheduledAt.After(start) {
			due = append(due, m)
		}
	}
	return s.sendAll(ctx, due, discord.ReminderManual), nil
}

// SendForMatch sends a manual reminder for one match regardless of timing.
func (s *Service) SendForMatch(ctx context.Context, matchID int64) error {
	match, err := s.db.Queries.GetMatchByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load match %d: %w", matchID, err)
	}
	if !match.ScheduledAt.After(s.clock.Now()) {
		return ErrMatchInPast
	}

	sent, err := s.alreadySent(ctx, match.ID, discord.ReminderManual)
	if err != nil {
		return err
	}
	if sent {
		return ErrAlreadySent
	}
	return s.send(ctx, match, discord.ReminderManual)
}

// SendTest broadcasts a reminder for a made-up match without touching the
// database.
func (s *Service) SendTest(ctx context.Context) error {
	if s.webhook == nil {
		return ErrNoBroadcaster
	}
	msg := discord.ReminderMessage(discord.MatchReminder{
		Type:        discord.Reminder24h,
		Opponent:    "Test Opponent",
		MatchType:   "scrim",
		Map:         "Ascent",
		ScheduledAt: s.clock.Now().Add(24 * time.Hour),
	})
	return s.webhook.Broadcast(ctx, msg)
}

func (s *Service) sendAll(ctx context.Context, matches []dbgen.Match, kind discord.ReminderType) Summary {
	var summary Summary
	for _, match := range matches {
		logger := log.Ctx(ctx).With().
			Int64("match_id", match.ID).
			Str("reminder_type", string(kind)).
			Logger()

		sent, err := s.alreadySent(ctx, match.ID, kind)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to check reminder history")
			summary.Failed++
			continue
		}
		if sent {
			logger.Debug().Msg("Reminder already sent")
			summary.Skipped++
			continue
		}

		if err := s.send(logger.WithContext(ctx), match, kind); err != nil {
			logger.Error().Err(err).Msg("Failed to send match reminder")
			summary.Failed++
			continue
		}
		logger.Info().Msg("Match reminder sent")
		summary.Sent++
	}
	return summary
}

func (s *Service) alreadySent(ctx context.Context, matchID int64, kind discord.ReminderType) (bool, error) {
	count, err := s.db.Queries.CountMatchNotifications(ctx, dbgen.CountMatchNotificationsParams{
		MatchID:          matchID,
		NotificationType: string(kind),
	})
	if err != nil {
		return false, fmt.Errorf("count notifications: %w", err)
	}
	return count > 0, nil
}

// send broadcasts the reminder, records it, then emails non-responders for
// 24h reminders. Email failures never fail the reminder.
func (s *Service) send(ctx context.Context, match dbgen.Match, kind discord.ReminderType) error {
	if s.webhook == nil {
		return ErrNoBroadcaster
	}

	roster, err := s.db.Queries.ListRosterPlayers(ctx)
	if err != nil {
		return fmt.Errorf("list roster: %w", err)
	}

	var mentions []string
	for _, player := range roster {
		if player.DiscordID.Valid && player.DiscordID.String != "" {
			mentions = append(mentions, player.DiscordID.String)
		}
	}

	msg := discord.ReminderMessage(discord.MatchReminder{
		Type:        kind,
		Opponent:    match.OpponentName.String,
		MatchType:   match.MatchType,
		Map:         mapName(match),
		ScheduledAt: match.ScheduledAt,
		MentionIDs:  mentions,
		MatchURL:    discord.AppLink(s.baseURL, fmt.Sprintf("/matches/%d", match.ID)),
	})
	if err := s.webhook.Broadcast(ctx, msg); err != nil {
		return err
	}

	if err := s.db.Queries.CreateMatchNotification(ctx, dbgen.CreateMatchNotificationParams{
		MatchID:          match.ID,
		NotificationType: string(kind),
		SentAt:           s.clock.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}

	if kind == discord.Reminder24h {
		s.emailNonResponders(ctx, match, roster, log.Ctx(ctx))
	}
	return nil
}

func (s *Service) emailNonResponders(ctx context.Context, match dbgen.Match, roster []dbgen.User, logger *zerolog.Logger) {
	if s.emails == nil || s.tokens == nil {
		return
	}

	responses, err := s.db.Queries.ListMatchAvailabilities(ctx, match.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load responses for reminder emails")
		return
	}
	responded := make(map[int64]bool, len(responses))
	for _, r := range responses {
		responded[r.UserID] = true
	}

	for _, player := range roster {
		if responded[player.ID] || player.ApprovalStatus != "approved" {
			continue
		}
		links, err := s.tokens.BuildLinks(s.baseURL, match.ID, player.ID)
		if err != nil {
			logger.Error().Err(err).Int64("user_id", player.ID).Msg("Failed to build response links")
			continue
		}
		localTime, tz := nudge.FormatMatchTime(match.ScheduledAt, player.Timezone)
		msg := email.BuildAvailabilityRequestEmail(email.AvailabilityRequest{
			PlayerName: nudge.PlayerName(player),
			Opponent:   match.OpponentName.String,
			MatchType:  match.MatchType,
			Map:        mapName(match),
			LocalTime:  localTime,
			Timezone:   tz,
			YesURL:     links[actiontoken.StatusYes],
			MaybeURL:   links[actiontoken.StatusMaybe],
			NoURL:      links[actiontoken.StatusNo],
		})
		if err := s.emails.Send(ctx, player.Email, msg); err != nil {
			logger.Warn().Err(err).Int64("user_id", player.ID).Msg("Failed to email availability request")
		}
	}
}

func mapName(match dbgen.Match) string {
	if name := nudge.MatchMapName(match); name != "TBD" {
		return name
	}
	return ""
}
