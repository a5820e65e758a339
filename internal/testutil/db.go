package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/codr1/Teamgrid/internal/db"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// UserSeed describes a user row for tests. Zero values fall back to an
// approved roster player in UTC with no Discord link.
type UserSeed struct {
	FullName       string
	Email          string
	Password       string
	Role           string
	Timezone       string
	ApprovalStatus string
	OffRoster      bool
	DiscordID      string
	AgentPrefs     string
	RiotID         string
}

// CreateUser inserts a user and applies the optional Discord and agent fields.
func CreateUser(t *testing.T, database *db.DB, seed UserSeed) dbgen.User {
	t.Helper()
	ctx := context.Background()

	if seed.Email == "" {
		seed.Email = seed.FullName + "@example.com"
	}
	if seed.Password == "" {
		seed.Password = "password123"
	}
	if seed.Role == "" {
		seed.Role = "player"
	}
	if seed.Timezone == "" {
		seed.Timezone = "UTC"
	}
	if seed.ApprovalStatus == "" {
		seed.ApprovalStatus = "approved"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user, err := database.Queries.CreateUser(ctx, dbgen.CreateUserParams{
		FullName:       sql.NullString{String: seed.FullName, Valid: seed.FullName != ""},
		Email:          seed.Email,
		PasswordHash:   string(hash),
		Role:           seed.Role,
		Timezone:       seed.Timezone,
		ApprovalStatus: seed.ApprovalStatus,
		IsOnRoster:     !seed.OffRoster,
	})
	if err != nil {
		t.Fatalf("create user %q: %v", seed.Email, err)
	}

	if seed.DiscordID != "" {
		if err := database.Queries.UpdateUserDiscord(ctx, dbgen.UpdateUserDiscordParams{
			DiscordID: sql.NullString{String: seed.DiscordID, Valid: true},
			ID:        user.ID,
		}); err != nil {
			t.Fatalf("link discord for %q: %v", seed.Email, err)
		}
	}
	if seed.AgentPrefs != "" || seed.RiotID != "" {
		if seed.AgentPrefs == "" {
			seed.AgentPrefs = user.AgentPrefs
		}
		if err := database.Queries.UpdateUserSettings(ctx, dbgen.UpdateUserSettingsParams{
			Timezone:   seed.Timezone,
			AgentPrefs: seed.AgentPrefs,
			RiotID:     sql.NullString{String: seed.RiotID, Valid: seed.RiotID != ""},
			ID:         user.ID,
		}); err != nil {
			t.Fatalf("set agent prefs for %q: %v", seed.Email, err)
		}
	}

	user, err = database.Queries.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user %q: %v", seed.Email, err)
	}
	return user
}

// CreateMatch inserts a scrim against opponent at scheduledAt.
func CreateMatch(t *testing.T, database *db.DB, opponent string, scheduledAt time.Time) dbgen.Match {
	t.Helper()

	match, err := database.Queries.CreateMatch(context.Background(), dbgen.CreateMatchParams{
		ScheduledAt:  scheduledAt.UTC(),
		OpponentName: sql.NullString{String: opponent, Valid: opponent != ""},
		MatchType:    "scrim",
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return match
}
