// Package availability stores weekly availability slots (always in UTC) and
// per-match responses.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/Teamgrid/internal/db"
	dbgen "github.com/codr1/Teamgrid/internal/db/generated"
	"github.com/codr1/Teamgrid/internal/timeslot"
)

// Match response statuses. Pending is the absence of a row.
const (
	StatusYes     = "yes"
	StatusMaybe   = "maybe"
	StatusNo      = "no"
	StatusPending = "pending"
)

var ErrInvalidStatus = errors.New("status must be yes, maybe or no")

// ValidStatus reports whether status can be stored as a match response.
func ValidStatus(status string) bool {
	switch status {
	case StatusYes, StatusMaybe, StatusNo:
		return true
	}
	return false
}

type Store struct {
	db        *db.DB
	converter *timeslot.Converter
}

// NewStore returns a Store. A nil converter uses the wall clock.
func NewStore(database *db.DB, converter *timeslot.Converter) *Store {
	if converter == nil {
		converter = timeslot.NewConverter(nil)
	}
	return &Store{db: database, converter: converter}
}

// Converter exposes the slot converter so pages render the same week the
// store writes.
func (s *Store) Converter() *timeslot.Converter {
	return s.converter
}

// UserSlots returns the UTC slots userID has marked available.
func (s *Store) UserSlots(ctx context.Context, userID int64) (map[timeslot.Slot]bool, error) {
	rows, err := s.db.Queries.ListWeeklyAvailabilityByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list weekly availability: %w", err)
	}
	slots := make(map[timeslot.Slot]bool, len(rows))
	for _, row := range rows {
		if row.IsAvailable {
			slots[timeslot.Slot{Day: int(row.DayOfWeek), Hour: int(row.Hour)}] = true
		}
	}
	return slots, nil
}

// SetLocalSlot converts a local grid cell to UTC and stores it. It returns the
// UTC slot written.
func (s *Store) SetLocalSlot(ctx context.Context, userID int64, tz string, localDay, localHour int, available bool) (timeslot.Slot, error) {
	slot, err := s.converter.ToUTC(localDay, localHour, tz)
	if err != nil {
		return timeslot.Slot{}, err
	}
	if _, err := s.db.Queries.UpsertWeeklyAvailability(ctx, dbgen.UpsertWeeklyAvailabilityParams{
		UserID:      userID,
		DayOfWeek:   int64(slot.Day),
		Hour:        int64(slot.Hour),
		IsAvailable: available,
	}); err != nil {
		return timeslot.Slot{}, fmt.Errorf("upsert weekly availability: %w", err)
	}
	return slot, nil
}

// CountAvailable returns how many weekly slots userID has marked available.
func (s *Store) CountAvailable(ctx context.Context, userID int64) (int64, error) {
	return s.db.Queries.CountAvailableSlotsByUser(ctx, userID)
}

// PlayersAvailableAt lists roster players whose weekly availability covers
// the UTC hour containing at.
func (s *Store) PlayersAvailableAt(ctx context.Context, at time.Time) ([]dbgen.User, error) {
	at = at.UTC()
	players, err := s.db.Queries.ListRosterPlayersAvailableAt(ctx, dbgen.ListRosterPlayersAvailableAtParams{
		DayOfWeek: int64(at.Weekday()),
		Hour:      int64(at.Hour()),
	})
	if err != nil {
		return nil, fmt.Errorf("list players available at slot: %w", err)
	}
	return players, nil
}

// SetMatchResponse records a yes/maybe/no answer for a match.
func (s *Store) SetMatchResponse(ctx context.Context, matchID, userID int64, status string) (dbgen.MatchAvailability, error) {
	if !ValidStatus(status) {
		return dbgen.MatchAvailability{}, ErrInvalidStatus
	}
	row, err := s.db.Queries.UpsertMatchAvailability(ctx, dbgen.UpsertMatchAvailabilityParams{
		MatchID: matchID,
		UserID:  userID,
		Status:  status,
	})
	if err != nil {
		return dbgen.MatchAvailability{}, fmt.Errorf("upsert match availability: %w", err)
	}
	return row, nil
}

// MatchResponses maps user id to response status for matchID.
func (s *Store) MatchResponses(ctx context.Context, matchID int64) (map[int64]string, error) {
	rows, err := s.db.Queries.ListMatchAvailabilities(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match availabilities: %w", err)
	}
	responses := make(map[int64]string, len(rows))
	for _, row := range rows {
		responses[row.UserID] = row.Status
	}
	return responses, nil
}

// ResponseFor returns userID's status for matchID, or StatusPending.
func ResponseFor(responses map[int64]string, userID int64) string {
	if status, ok := responses[userID]; ok {
		return status
	}
	return StatusPending
}

// WeekGrid lays out userID's week in tz. Unknown zones fall back to UTC; the
// zone actually used is returned.
func (s *Store) WeekGrid(ctx context.Context, userID int64, tz string) ([]timeslot.GridRow, string, error) {
	zone := timeslot.LocationOrUTC(tz).String()
	slots, err := s.UserSlots(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	rows, err := s.converter.WeekGrid(zone, slots)
	if err != nil {
		return nil, "", err
	}
	return rows, zone, nil
}
