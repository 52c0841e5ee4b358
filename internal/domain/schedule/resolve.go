package schedule

import (
	"villadesk/internal/domain/shared/dateonly"
)

// Resolution is the outcome of resolving one date for one villa. Display
// carries the single highest-specificity matching record (villa beats
// location beats global); Blocked is true when ANY applicable record marks
// the date as blocked, independent of which record was chosen for display.
type Resolution struct {
	Display BlockedDateRecord
	Blocked bool
}

// Resolver answers blocked-date questions against one snapshot. It holds
// no state of its own, so it is safe to share between callers.
type Resolver struct {
	snapshot *Snapshot
}

func NewResolver(snapshot *Snapshot) Resolver {
	return Resolver{snapshot: snapshot}
}

// Resolve picks the record to surface for (date, villa) and computes
// whether the date is blocked for booking. The second return is false when
// no record applies and the date is open.
//
// Empty villaID/locationID are allowed: global records still apply, which
// covers previewing a calendar before a villa is selected.
func (r Resolver) Resolve(d dateonly.Date, villaID, locationID string) (Resolution, bool) {
	overlapping := r.snapshot.RecordsOverlapping(d)
	if len(overlapping) == 0 {
		return Resolution{}, false
	}

	var (
		display BlockedDateRecord
		found   bool
		blocked bool
	)
	for _, rec := range overlapping {
		if !rec.AppliesTo(villaID, locationID) {
			continue
		}
		if rec.IsBlocked {
			blocked = true
		}
		if !found || moreSpecific(rec, display) {
			display = rec
			found = true
		}
	}
	if !found {
		return Resolution{}, false
	}
	return Resolution{Display: display, Blocked: blocked}, true
}

// moreSpecific orders candidate display records: narrower scope first, then
// the most recently created, then the lexically larger id so the choice is
// deterministic even for equal timestamps.
func moreSpecific(a, b BlockedDateRecord) bool {
	if sa, sb := a.Scope.specificity(), b.Scope.specificity(); sa != sb {
		return sa > sb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
