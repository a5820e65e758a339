// Package nudge sends admin-triggered Discord reminders to players and keeps
// an audit row for every attempt, whatever its outcome.
//
// Eligibility is evaluated fresh on each call from the audit tables: a pair
// (player, target) is on cooldown while its most recent sent row is younger
// than the cooldown window, unless the caller forces the send.
package nudge

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codr1/Teamgrid/internal/actiontoken"
	"github.com/codr1/Teamgrid/internal/db"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/discord"
)

const (
	DefaultCooldown = 24 * time.Hour

	ReasonProfileDataMissing = "profile_data_missing"
)

// Attempt and batch statuses.
const (
	StatusSent    = "sent"
	StatusBlocked = "blocked"
	StatusFailed  = "failed"
	StatusPartial = "partial"
)

// Codes recorded for attempts stopped before dispatch.
const (
	CodeTargetNotOnRoster    = "target_not_on_roster"
	CodeTargetNotApproved    = "target_not_approved"
	CodeMissingDiscordID     = "missing_discord_id"
	CodeNoMissingData        = "no_missing_data"
	CodeAlreadyResponded     = "already_responded"
	CodeCooldownActive       = "cooldown_active"
	CodeMatchInPast          = "match_in_past"
	CodeNoEligibleRecipients = "no_eligible_recipients"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config tunes a Service.
type Config struct {
	// BaseURL prefixes links placed in messages.
	BaseURL  string
	Cooldown time.Duration
	Clock    Clock
}

// Service orchestrates nudges against the store and a Discord messenger.
type Service struct {
	db        *db.DB
	messenger discord.DirectMessenger
	tokens    *actiontoken.Service
	baseURL   string
	cooldown  time.Duration
	clock     Clock
}

// NewService wires a Service. tokens may be nil when only profile nudges are
// used.
func NewService(database *db.DB, messenger discord.DirectMessenger, tokens *actiontoken.Service, cfg Config) *Service {
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	return &Service{
		db:        database,
		messenger: messenger,
		tokens:    tokens,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		cooldown:  cooldown,
		clock:     clock,
	}
}

// Options modify a single nudge request.
type Options struct {
	// Force skips the cooldown check. The attempt is still recorded.
	Force bool
}

// Outcome is the result of one nudge attempt.
type Outcome struct {
	Status        string
	Code          string
	Message       string
	Forced        bool
	CooldownUntil time.Time
}

// Sent reports whether the message was delivered.
func (o Outcome) Sent() bool {
	return o.Status == StatusSent
}

func blocked(code, message string) Outcome {
	return Outcome{Status: StatusBlocked, Code: code, Message: message}
}

// check is one pre-dispatch gate: when failed, the attempt is recorded as
// blocked with code and message.
type check struct {
	failed  bool
	code    string
	message string
}

func firstFailed(checks ...check) (check, bool) {
	for _, c := range checks {
		if c.failed {
			return c, true
		}
	}
	return check{}, false
}

// lastSentAt picks the cooldown basis of a sent row: sent_at, or created_at
// when sent_at was never written.
func lastSentAt(sentAt sql.NullTime, createdAt time.Time) time.Time {
	if sentAt.Valid {
		return sentAt.Time
	}
	return createdAt
}

func cooldownMessage(until, now time.Time) string {
	return fmt.Sprintf("On cooldown (%s left).", formatRemaining(until.Sub(now)))
}

// formatRemaining renders a positive duration as "Xh Ym", rounding up to the
// next minute.
func formatRemaining(d time.Duration) string {
	minutes := int((d + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	hours, minutes := minutes/60, minutes%60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// PlayerName returns the display name of a user, falling back to the local
// part of their email.
func PlayerName(user dbgen.User) string {
	if name := strings.TrimSpace(user.FullName.String); user.FullName.Valid && name != "" {
		return name
	}
	local, _, _ := strings.Cut(user.Email, "@")
	return local
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullAdmin(adminID int64) sql.NullInt64 {
	return sql.NullInt64{Int64: adminID, Valid: adminID > 0}
}

func rosterChecks(user dbgen.User) []check {
	return []check{
		{failed: !user.IsOnRoster, code: CodeTargetNotOnRoster, message: "Cannot nudge: player is not on roster."},
		{failed: user.ApprovalStatus != "approved", code: CodeTargetNotApproved, message: "Cannot nudge: player is not approved."},
		{failed: strings.TrimSpace(user.DiscordID.String) == "", code: CodeMissingDiscordID, message: "Cannot nudge: player has no linked Discord account."},
	}
}
