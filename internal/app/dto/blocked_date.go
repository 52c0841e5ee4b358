package dto

import (
	"time"

	"villadesk/internal/domain/schedule"
)

// BlockedDate is the wire shape of a blocked-date record. Scope uses the
// backend integer convention: 1 global, 2 location, 3 villa. Dates travel
// as YYYY-MM-DD strings, inclusive on both ends.
type BlockedDate struct {
	ID         string    `json:"id"`
	Scope      int       `json:"scope"`
	LocationID string    `json:"locationId,omitempty"`
	VillaID    string    `json:"villaId,omitempty"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Reason     string    `json:"reason"`
	Color      string    `json:"color,omitempty"`
	IsBlocked  bool      `json:"isBlocked"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RejectedBlockedDate flags a record dropped while building the snapshot.
type RejectedBlockedDate struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type BlockedDateList struct {
	Records  []BlockedDate         `json:"records"`
	Rejected []RejectedBlockedDate `json:"rejected,omitempty"`
}

func MapBlockedDate(rec schedule.BlockedDateRecord) BlockedDate {
	return BlockedDate{
		ID:         string(rec.ID),
		Scope:      int(rec.Scope),
		LocationID: rec.LocationID,
		VillaID:    rec.VillaID,
		StartDate:  rec.Range.Start.String(),
		EndDate:    rec.Range.End.String(),
		Reason:     rec.Reason,
		Color:      rec.Color,
		IsBlocked:  rec.IsBlocked,
		CreatedAt:  rec.CreatedAt,
	}
}

func MapBlockedDateList(snapshot *schedule.Snapshot) BlockedDateList {
	list := BlockedDateList{Records: make([]BlockedDate, 0, snapshot.Len())}
	for _, rec := range snapshot.Records() {
		list.Records = append(list.Records, MapBlockedDate(rec))
	}
	for _, rej := range snapshot.Rejected() {
		list.Rejected = append(list.Rejected, RejectedBlockedDate{
			ID:     string(rej.Record.ID),
			Reason: rej.Reason,
		})
	}
	return list
}
