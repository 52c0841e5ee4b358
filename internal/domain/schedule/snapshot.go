package schedule

import (
	"villadesk/internal/domain/shared/dateonly"
)

// RejectedRecord surfaces a record that was dropped while building a
// snapshot, so operators can see bad data instead of losing it silently.
type RejectedRecord struct {
	Record BlockedDateRecord
	Reason string
}

// Snapshot is an immutable, whole-value copy of the blocked-date records as
// of one fetch. Consumers replace the entire snapshot after a successful
// mutation; nothing mutates it in place, so concurrent readers need no
// locking beyond swapping the reference.
type Snapshot struct {
	records  []BlockedDateRecord
	rejected []RejectedRecord
}

// NewSnapshot copies the valid records and collects the malformed ones.
// A nil or empty input yields a snapshot where nothing is blocked.
func NewSnapshot(records []BlockedDateRecord) *Snapshot {
	s := &Snapshot{}
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			s.rejected = append(s.rejected, RejectedRecord{Record: rec, Reason: err.Error()})
			continue
		}
		if !rec.Scope.Known() {
			s.rejected = append(s.rejected, RejectedRecord{Record: rec, Reason: "unknown scope " + rec.Scope.String()})
			continue
		}
		s.records = append(s.records, rec)
	}
	return s
}

// RecordsOverlapping returns every record whose inclusive range contains
// the date. Never returns an error; an empty snapshot means nothing is
// blocked.
func (s *Snapshot) RecordsOverlapping(d dateonly.Date) []BlockedDateRecord {
	if s == nil {
		return nil
	}
	var out []BlockedDateRecord
	for _, rec := range s.records {
		if rec.Range.Contains(d) {
			out = append(out, rec)
		}
	}
	return out
}

// Records returns the accepted records of the snapshot.
func (s *Snapshot) Records() []BlockedDateRecord {
	if s == nil {
		return nil
	}
	out := make([]BlockedDateRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Rejected returns the diagnostics for records dropped during construction.
func (s *Snapshot) Rejected() []RejectedRecord {
	if s == nil {
		return nil
	}
	out := make([]RejectedRecord, len(s.rejected))
	copy(out, s.rejected)
	return out
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}
