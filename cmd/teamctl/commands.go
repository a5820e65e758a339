package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/codr1/Teamgrid/internal/api/auth"
	"github.com/codr1/Teamgrid/internal/api/authz"
	"github.com/codr1/Teamgrid/internal/app"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/matchsync"
	"github.com/codr1/Teamgrid/internal/reminders"
	"github.com/codr1/Teamgrid/internal/timeslot"
)

const minAdminPasswordLength = 8

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func runCreateAdmin(ctx context.Context, s *app.Services, args []string, out io.Writer) error {
	fs := newFlagSet("create-admin", out)
	email := fs.String("email", "", "Admin email (required)")
	password := fs.String("password", "", "Admin password (required)")
	name := fs.String("name", "", "Display name")
	tz := fs.String("timezone", s.Config.App.DefaultTimezone, "IANA timezone")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	addr := strings.ToLower(strings.TrimSpace(*email))
	if addr == "" || *password == "" {
		fs.Usage()
		return errUsage
	}
	if len(*password) < minAdminPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minAdminPasswordLength)
	}
	if err := timeslot.ValidateTimezone(*tz); err != nil {
		return err
	}

	if _, err := s.DB.Queries.GetUserByEmail(ctx, addr); err == nil {
		return fmt.Errorf("user %s already exists", addr)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("look up user: %w", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return err
	}
	user, err := s.DB.Queries.CreateUser(ctx, dbgen.CreateUserParams{
		FullName:       sql.NullString{String: strings.TrimSpace(*name), Valid: strings.TrimSpace(*name) != ""},
		Email:          addr,
		PasswordHash:   hash,
		Role:           authz.RoleAdmin,
		Timezone:       *tz,
		ApprovalStatus: authz.ApprovalApproved,
		IsOnRoster:     false,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Fprintf(out, "Created admin %s (id %d)\n", user.Email, user.ID)
	return nil
}

func runLinkDiscord(ctx context.Context, s *app.Services, args []string, out io.Writer) error {
	fs := newFlagSet("link-discord", out)
	username := fs.String("username", "", "Discord username to store alongside the id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(out, "usage: teamctl link-discord [-username name] <email> <discord-id>")
		return errUsage
	}
	email := strings.ToLower(strings.TrimSpace(fs.Arg(0)))
	discordID := strings.TrimSpace(fs.Arg(1))

	user, err := lookupUser(ctx, s, email)
	if err != nil {
		return err
	}

	existing, err := s.DB.Queries.GetUserByDiscordID(ctx, sql.NullString{String: discordID, Valid: true})
	switch {
	case err == nil && existing.ID != user.ID:
		return fmt.Errorf("discord id %s is already linked to %s", discordID, existing.Email)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("look up discord id: %w", err)
	}

	if err := s.DB.Queries.UpdateUserDiscord(ctx, dbgen.UpdateUserDiscordParams{
		DiscordID:       sql.NullString{String: discordID, Valid: true},
		DiscordUsername: sql.NullString{String: strings.TrimSpace(*username), Valid: strings.TrimSpace(*username) != ""},
		ID:              user.ID,
	}); err != nil {
		return fmt.Errorf("link discord: %w", err)
	}

	fmt.Fprintf(out, "Discord ID %s linked to %s\n", discordID, user.Email)
	return nil
}

func runClearNudgeCooldown(ctx context.Context, s *app.Services, args []string, out io.Writer) error {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: teamctl clear-nudge-cooldown <email>")
		return errUsage
	}
	user, err := lookupUser(ctx, s, strings.ToLower(strings.TrimSpace(args[0])))
	if err != nil {
		return err
	}

	cleared, err := s.Nudges.ClearCooldowns(ctx, user.ID)
	if err != nil {
		return err
	}
	if cleared == 0 {
		fmt.Fprintf(out, "No active nudge cooldowns found for %s\n", user.Email)
		return nil
	}
	fmt.Fprintf(out, "Cleared %d sent nudge(s) for %s\n", cleared, user.Email)
	return nil
}

func runSendNotifications(ctx context.Context, s *app.Services, args []string, out io.Writer) error {
	fs := newFlagSet("send-notifications", out)
	test := fs.Bool("test", false, "Post a test reminder to verify the webhook")
	catchup := fs.Bool("catchup", false, "Remind for every match 1-24h away that has no manual reminder yet")
	matchID := fs.Int64("match-id", 0, "Remind for one match regardless of timing")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	switch {
	case *test:
		if err := s.Reminders.SendTest(ctx); err != nil {
			return fmt.Errorf("test reminder: %w", err)
		}
		fmt.Fprintln(out, "Test notification sent")
		return nil

	case *matchID > 0:
		err := s.Reminders.SendForMatch(ctx, *matchID)
		switch {
		case errors.Is(err, reminders.ErrAlreadySent):
			fmt.Fprintf(out, "Match #%d was already notified manually\n", *matchID)
			return nil
		case errors.Is(err, reminders.ErrMatchInPast):
			return fmt.Errorf("match #%d is in the past", *matchID)
		case err != nil:
			return err
		}
		fmt.Fprintf(out, "Sent notification for match #%d\n", *matchID)
		return nil

	case *catchup:
		summary, err := s.Reminders.SendCatchup(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Catchup complete. %s\n", summary)
		return nil
	}

	summary, err := s.Reminders.SendDue(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Done. %s\n", summary)
	return nil
}

func runResyncValorant(ctx context.Context, s *app.Services, args []string, out io.Writer) error {
	fs := newFlagSet("resync-valorant", out)
	matchID := fs.Int64("match-id", 0, "Only re-sync one match by internal id")
	limit := fs.Int("limit", 0, "Process at most N matches")
	rpm := fs.Int("rpm", 0, "Max Henrik API requests per minute (default from config, max 30)")
	delayMs := fs.Int("delay-ms", 0, "Fixed delay in ms between requests (overrides -rpm)")
	retries := fs.Int("rate-limit-retries", -1, "Retries on HTTP 429 (default from config)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var retryOverride *int
	if *retries >= 0 {
		retryOverride = retries
	}
	pacer := s.ResyncPacer(*rpm, time.Duration(*delayMs)*time.Millisecond, retryOverride)

	summary, err := s.Sync.Resync(ctx, matchsync.ResyncOptions{
		MatchID: *matchID,
		Limit:   *limit,
		Pacer:   pacer,
	})
	if err != nil {
		return err
	}
	if len(summary.Items) == 0 {
		fmt.Fprintln(out, "No matches found with stored Valorant match ids.")
		return nil
	}

	for _, item := range summary.Items {
		if item.Err != nil {
			fmt.Fprintf(out, "Match #%d: failed: %v\n", item.MatchID, item.Err)
			continue
		}
		fmt.Fprintf(out, "Match #%d: synced %d players (%d roster links)\n",
			item.MatchID, item.Result.SyncedPlayerRows, item.Result.RosterAgentRows)
	}
	fmt.Fprintf(out, "Re-sync complete. Updated: %d, Failed: %d, Synced player rows: %d\n",
		summary.Updated, summary.Failed, summary.SyncedPlayerRows)
	return nil
}

func lookupUser(ctx context.Context, s *app.Services, email string) (dbgen.User, error) {
	user, err := s.DB.Queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return dbgen.User{}, fmt.Errorf("user not found with email: %s", email)
	}
	if err != nil {
		return dbgen.User{}, fmt.Errorf("look up user: %w", err)
	}
	return user, nil
}
