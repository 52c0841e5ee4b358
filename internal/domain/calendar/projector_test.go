package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
)

func emptyResolver() schedule.Resolver {
	return schedule.NewResolver(schedule.NewSnapshot(nil))
}

func countInMonth(cells []Cell) int {
	n := 0
	for _, c := range cells {
		if c.InMonth {
			n++
		}
	}
	return n
}

func TestProjectGridShape(t *testing.T) {
	p := Projector{FirstDay: time.Sunday}
	today := dateonly.MustParse("2024-02-10")

	// February 2024 starts on a Thursday, so a Sunday-first grid pads with
	// four January days and closes out with early March.
	cells, err := p.Project(2024, time.February, "", "", today, emptyResolver())
	require.NoError(t, err)
	require.Len(t, cells, GridCells)

	assert.Equal(t, dateonly.MustParse("2024-01-28"), cells[0].Date)
	assert.False(t, cells[0].InMonth)
	assert.Equal(t, dateonly.MustParse("2024-02-01"), cells[4].Date)
	assert.True(t, cells[4].InMonth)
	assert.Equal(t, dateonly.MustParse("2024-03-09"), cells[41].Date)
	assert.False(t, cells[41].InMonth)

	assert.Equal(t, 29, countInMonth(cells)) // leap February
}

func TestProjectMondayFirst(t *testing.T) {
	p := Projector{FirstDay: time.Monday}
	today := dateonly.MustParse("2024-02-10")

	cells, err := p.Project(2024, time.February, "", "", today, emptyResolver())
	require.NoError(t, err)
	require.Len(t, cells, GridCells)

	assert.Equal(t, dateonly.MustParse("2024-01-29"), cells[0].Date)
	assert.Equal(t, time.Monday, cells[0].Date.Weekday())
	assert.Equal(t, 29, countInMonth(cells))
}

func TestProjectNoLeadingPadding(t *testing.T) {
	// June 2025 starts on a Sunday: a Sunday-first grid has no lead cells.
	p := Projector{FirstDay: time.Sunday}
	cells, err := p.Project(2025, time.June, "", "", dateonly.MustParse("2025-06-15"), emptyResolver())
	require.NoError(t, err)

	assert.Equal(t, dateonly.MustParse("2025-06-01"), cells[0].Date)
	assert.True(t, cells[0].InMonth)
	assert.Equal(t, 30, countInMonth(cells))
}

func TestProjectTodayAndPastFlags(t *testing.T) {
	p := Projector{FirstDay: time.Sunday}
	today := dateonly.MustParse("2025-06-15")

	cells, err := p.Project(2025, time.June, "", "", today, emptyResolver())
	require.NoError(t, err)

	var todayCount int
	for _, c := range cells {
		if c.Today {
			todayCount++
			assert.Equal(t, today, c.Date)
			assert.False(t, c.Past)
		}
		assert.Equal(t, c.Date.Before(today), c.Past)
	}
	assert.Equal(t, 1, todayCount)
}

func TestProjectTodayOutsideMonth(t *testing.T) {
	p := Projector{FirstDay: time.Sunday}
	today := dateonly.MustParse("2025-08-01")

	cells, err := p.Project(2025, time.June, "", "", today, emptyResolver())
	require.NoError(t, err)

	for _, c := range cells {
		assert.False(t, c.Today)
		assert.True(t, c.Past)
	}
}

func TestProjectResolvesInMonthCellsOnly(t *testing.T) {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	// The blocked range covers padding cells of the June grid too; only the
	// in-month cells carry a resolution.
	snap := schedule.NewSnapshot([]schedule.BlockedDateRecord{{
		ID:    "r1",
		Scope: schedule.ScopeGlobal,
		Range: dateonly.Range{
			Start: dateonly.MustParse("2025-06-28"),
			End:   dateonly.MustParse("2025-07-04"),
		},
		Reason:    "maintenance",
		IsBlocked: true,
		CreatedAt: created,
	}})
	resolver := schedule.NewResolver(snap)

	p := Projector{FirstDay: time.Sunday}
	cells, err := p.Project(2025, time.June, "villa-1", "loc-1", dateonly.MustParse("2025-06-15"), resolver)
	require.NoError(t, err)

	for _, c := range cells {
		switch {
		case !c.InMonth:
			assert.Nil(t, c.Blocked, "padding cell %s", c.Date)
		case c.Date.Before(dateonly.MustParse("2025-06-28")):
			assert.Nil(t, c.Blocked, "open cell %s", c.Date)
		default:
			require.NotNil(t, c.Blocked, "blocked cell %s", c.Date)
			assert.True(t, c.Blocked.Blocked)
			assert.Equal(t, schedule.RecordID("r1"), c.Blocked.Display.ID)
		}
	}
}

func TestProjectDeterministic(t *testing.T) {
	p := Projector{FirstDay: time.Sunday}
	today := dateonly.MustParse("2025-06-15")

	first, err := p.Project(2025, time.June, "villa-1", "loc-1", today, emptyResolver())
	require.NoError(t, err)
	second, err := p.Project(2025, time.June, "villa-1", "loc-1", today, emptyResolver())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProjectInvalidMonth(t *testing.T) {
	p := Projector{FirstDay: time.Sunday}
	_, err := p.Project(2025, time.Month(0), "", "", dateonly.MustParse("2025-06-15"), emptyResolver())
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = p.Project(2025, time.Month(13), "", "", dateonly.MustParse("2025-06-15"), emptyResolver())
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
