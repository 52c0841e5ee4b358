package dto

import (
	"villadesk/internal/domain/calendar"
)

// CalendarCell is one of the 42 grid slots for a projected month. Cells
// outside the displayed month keep their neighboring-month date with
// currentMonth false, so clients can render either padding style.
type CalendarCell struct {
	Date         string       `json:"date"`
	CurrentMonth bool         `json:"currentMonth"`
	Today        bool         `json:"today"`
	Past         bool         `json:"past"`
	Blocked      *BlockedInfo `json:"blocked,omitempty"`
}

// BlockedInfo is the display annotation chosen for a cell plus the
// booking verdict for the date.
type BlockedInfo struct {
	RecordID  string `json:"recordId"`
	Scope     int    `json:"scope"`
	Reason    string `json:"reason"`
	Color     string `json:"color,omitempty"`
	IsBlocked bool   `json:"isBlocked"`
}

type CalendarMonth struct {
	VillaID    string         `json:"villaId,omitempty"`
	LocationID string         `json:"locationId,omitempty"`
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	Cells      []CalendarCell `json:"cells"`
}

func MapCalendarMonth(villaID, locationID string, year, month int, cells []calendar.Cell) CalendarMonth {
	out := CalendarMonth{
		VillaID:    villaID,
		LocationID: locationID,
		Year:       year,
		Month:      month,
		Cells:      make([]CalendarCell, 0, len(cells)),
	}
	for _, cell := range cells {
		mapped := CalendarCell{
			Date:         cell.Date.String(),
			CurrentMonth: cell.InMonth,
			Today:        cell.Today,
			Past:         cell.Past,
		}
		if cell.Blocked != nil {
			mapped.Blocked = &BlockedInfo{
				RecordID:  string(cell.Blocked.Display.ID),
				Scope:     int(cell.Blocked.Display.Scope),
				Reason:    cell.Blocked.Display.Reason,
				Color:     cell.Blocked.Display.Color,
				IsBlocked: cell.Blocked.Blocked,
			}
		}
		out.Cells = append(out.Cells, mapped)
	}
	return out
}
