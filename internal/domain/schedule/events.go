package schedule

import (
	"time"

	"villadesk/internal/domain/shared/dateonly"
)

type DatesBlocked struct {
	RecordID  string
	Scope     string
	VillaID   string
	Location  string
	Range     dateonly.Range
	Reason    string
	IsBlocked bool
	At        time.Time
}

func (e DatesBlocked) EventName() string     { return "schedule.blocked" }
func (e DatesBlocked) AggregateID() string   { return e.RecordID }
func (e DatesBlocked) OccurredAt() time.Time { return e.At }

type BlockUpdated struct {
	RecordID string
	Range    dateonly.Range
	Reason   string
	At       time.Time
}

func (e BlockUpdated) EventName() string     { return "schedule.updated" }
func (e BlockUpdated) AggregateID() string   { return e.RecordID }
func (e BlockUpdated) OccurredAt() time.Time { return e.At }

type BlockReleased struct {
	RecordID string
	Range    dateonly.Range
	At       time.Time
}

func (e BlockReleased) EventName() string     { return "schedule.released" }
func (e BlockReleased) AggregateID() string   { return e.RecordID }
func (e BlockReleased) OccurredAt() time.Time { return e.At }

func DatesBlockedEvent(rec BlockedDateRecord, at time.Time) DatesBlocked {
	return DatesBlocked{
		RecordID:  string(rec.ID),
		Scope:     rec.Scope.String(),
		VillaID:   rec.VillaID,
		Location:  rec.LocationID,
		Range:     rec.Range,
		Reason:    rec.Reason,
		IsBlocked: rec.IsBlocked,
		At:        at,
	}
}

func BlockUpdatedEvent(rec BlockedDateRecord, at time.Time) BlockUpdated {
	return BlockUpdated{RecordID: string(rec.ID), Range: rec.Range, Reason: rec.Reason, At: at}
}

func BlockReleasedEvent(rec BlockedDateRecord, at time.Time) BlockReleased {
	return BlockReleased{RecordID: string(rec.ID), Range: rec.Range, At: at}
}
