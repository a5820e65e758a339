// Package timeslot converts weekly (day-of-week, hour) slots between a user's
// timezone and UTC.
//
// Days use 0=Sunday..6=Saturday at the boundary, matching time.Weekday.
// Conversions are anchored on the current ISO week as seen in the source zone,
// so the offset applied is the one in force this week. Slots that fall into a
// DST gap or overlap resolve to whatever time.Date normalises them to.
package timeslot

import (
	"fmt"
	"time"
)

// Slot is a weekly (day, hour) pair.
type Slot struct {
	Day  int
	Hour int
}

// HourMapping pairs a local hour with the UTC slot it lands on.
type HourMapping struct {
	LocalHour int
	UTC       Slot
}

// Clock supplies the reference instant used to pick the anchor week.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Converter performs slot conversions relative to its clock.
type Converter struct {
	clock Clock
}

// NewConverter returns a Converter. A nil clock uses the wall clock.
func NewConverter(clock Clock) *Converter {
	if clock == nil {
		clock = realClock{}
	}
	return &Converter{clock: clock}
}

var defaultConverter = NewConverter(nil)

// ToUTC converts a local slot in tz to its UTC slot.
func ToUTC(localDay, localHour int, tz string) (Slot, error) {
	return defaultConverter.ToUTC(localDay, localHour, tz)
}

// ToLocal converts a UTC slot to the corresponding slot in tz.
func ToLocal(utcDay, utcHour int, tz string) (Slot, error) {
	return defaultConverter.ToLocal(utcDay, utcHour, tz)
}

// LocalHoursMapping returns the UTC slot for every hour of localDay in tz.
func LocalHoursMapping(localDay int, tz string) ([]HourMapping, error) {
	return defaultConverter.LocalHoursMapping(localDay, tz)
}

// ToUTC converts a weekday/hour in tz to its UTC slot, anchored in the
// converter's reference week. DST gaps resolve the way time.Date does.
func (c *Converter) ToUTC(localDay, localHour int, tz string) (Slot, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Slot{}, err
	}
	if err := validateSlot(localDay, localHour); err != nil {
		return Slot{}, err
	}
	return fromInstant(c.anchor(localDay, localHour, loc).UTC()), nil
}

// ToLocal converts a UTC slot to the weekday/hour it falls on in tz.
func (c *Converter) ToLocal(utcDay, utcHour int, tz string) (Slot, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Slot{}, err
	}
	if err := validateSlot(utcDay, utcHour); err != nil {
		return Slot{}, err
	}
	return fromInstant(c.anchor(utcDay, utcHour, time.UTC).In(loc)), nil
}

// LocalHoursMapping returns 24 entries, one per local hour of localDay in
// tz, each with the UTC slot it maps to.
func (c *Converter) LocalHoursMapping(localDay int, tz string) ([]HourMapping, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	if err := validateSlot(localDay, 0); err != nil {
		return nil, err
	}

	mapping := make([]HourMapping, 0, 24)
	for hour := 0; hour < 24; hour++ {
		mapping = append(mapping, HourMapping{
			LocalHour: hour,
			UTC:       fromInstant(c.anchor(localDay, hour, loc).UTC()),
		})
	}
	return mapping, nil
}

// anchor builds the wall-clock instant for day/hour inside the current ISO
// week of loc.
func (c *Converter) anchor(day, hour int, loc *time.Location) time.Time {
	now := c.clock.Now().In(loc)
	mondayOffset := (int(now.Weekday()) + 6) % 7
	isoDay := isoWeekday(day)
	return time.Date(now.Year(), now.Month(), now.Day()-mondayOffset+isoDay-1, hour, 0, 0, 0, loc)
}

// isoWeekday maps 0=Sunday..6=Saturday onto ISO 1=Monday..7=Sunday.
func isoWeekday(day int) int {
	if day == 0 {
		return 7
	}
	return day
}

func fromInstant(t time.Time) Slot {
	return Slot{Day: int(t.Weekday()), Hour: t.Hour()}
}

func validateSlot(day, hour int) error {
	if day < 0 || day > 6 {
		return fmt.Errorf("day of week must be between 0 and 6, got %d", day)
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour must be between 0 and 23, got %d", hour)
	}
	return nil
}

// ValidateTimezone reports whether tz is a loadable IANA zone.
func ValidateTimezone(tz string) error {
	if tz == "" {
		return fmt.Errorf("timezone is required")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("unknown timezone %q", tz)
	}
	return nil
}

// LocationOrUTC loads tz, falling back to UTC when it is empty or invalid.
func LocationOrUTC(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName returns the English name for day (0=Sunday).
func DayName(day int) string {
	if day < 0 || day > 6 {
		return ""
	}
	return dayNames[day]
}

// FormatHour renders a 0..23 hour on a 12-hour clock, e.g. "12 AM", "3 PM".
func FormatHour(hour int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d %s", display, period)
}
