package timeslot

import "time"

// DisplayDays lists the week Monday-first, as days are laid out on the grid.
var DisplayDays = []int{1, 2, 3, 4, 5, 6, 0}

// GridCell is one local hour on a weekly availability grid.
type GridCell struct {
	LocalDay  int
	LocalHour int
	UTC       Slot
	Available bool
}

// GridRow is one local day on the grid.
type GridRow struct {
	Day   int
	Name  string
	Cells []GridCell
}

// WeekGrid lays out the week in tz, marking cells whose UTC slot is in available.
func (c *Converter) WeekGrid(tz string, available map[Slot]bool) ([]GridRow, error) {
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, err
	}

	rows := make([]GridRow, 0, len(DisplayDays))
	for _, day := range DisplayDays {
		mapping, err := c.LocalHoursMapping(day, tz)
		if err != nil {
			return nil, err
		}
		row := GridRow{Day: day, Name: DayName(day), Cells: make([]GridCell, 0, len(mapping))}
		for _, m := range mapping {
			row.Cells = append(row.Cells, GridCell{
				LocalDay:  day,
				LocalHour: m.LocalHour,
				UTC:       m.UTC,
				Available: available[m.UTC],
			})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WeekGrid lays out the week in tz using the wall clock.
func WeekGrid(tz string, available map[Slot]bool) ([]GridRow, error) {
	return defaultConverter.WeekGrid(tz, available)
}
