package calendar

import (
	"errors"
	"time"

	"villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
)

// GridCells is the fixed cell count of a projected month: six full weeks,
// so the grid height is stable regardless of how many weeks the month
// actually spans.
const GridCells = 42

var ErrInvalidMonth = errors.New("calendar: month must be between January and December")

// Cell is one slot of the month grid. Padding cells outside the displayed
// month carry the neighboring month's date with InMonth false.
type Cell struct {
	Date    dateonly.Date
	InMonth bool
	Today   bool
	Past    bool
	Blocked *schedule.Resolution
}

// Projector turns a month into a renderable 42-cell grid. FirstDay selects
// the weekday of the leftmost column; only Sunday and Monday are used in
// practice but any weekday works.
type Projector struct {
	FirstDay time.Weekday
}

// Project builds the grid for (year, month) under the given villa context.
// It is pure: the same arguments, snapshot and injected today always yield
// the same cells. Today is passed in rather than read from the clock so
// callers control determinism.
func (p Projector) Project(year int, month time.Month, villaID, locationID string, today dateonly.Date, resolver schedule.Resolver) ([]Cell, error) {
	if month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}

	first := dateonly.Date{Year: year, Month: month, Day: 1}
	// Number of leading padding cells: how far the 1st sits from the
	// configured first column, in 0..6.
	lead := (int(first.Weekday()) - int(p.FirstDay) + 7) % 7

	cells := make([]Cell, 0, GridCells)
	cursor := first.AddDays(-lead)
	for len(cells) < GridCells {
		cell := Cell{
			Date:    cursor,
			InMonth: cursor.Year == year && cursor.Month == month,
			Today:   cursor.Equal(today),
			Past:    cursor.Before(today),
		}
		if cell.InMonth {
			if res, ok := resolver.Resolve(cursor, villaID, locationID); ok {
				cell.Blocked = &res
			}
		}
		cells = append(cells, cell)
		cursor = cursor.AddDays(1)
	}
	return cells, nil
}
