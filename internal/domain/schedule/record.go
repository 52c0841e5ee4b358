package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"villadesk/internal/domain/shared/dateonly"
)

var (
	ErrRecordNotFound   = errors.New("schedule: blocked date record not found")
	ErrReasonRequired   = errors.New("schedule: reason is required")
	ErrVillaRequired    = errors.New("schedule: villa scope requires a villa id")
	ErrLocationRequired = errors.New("schedule: location id is required for this scope")
)

type RecordID string

// Scope is the breadth at which a blocked-date record applies. The integer
// values match the backend wire convention: 1 global, 2 location, 3 villa.
type Scope int

const (
	ScopeGlobal   Scope = 1
	ScopeLocation Scope = 2
	ScopeVilla    Scope = 3
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "GLOBAL"
	case ScopeLocation:
		return "LOCATION"
	case ScopeVilla:
		return "VILLA"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// Known reports whether the scope is one of the three defined values.
// Records with unknown scopes never apply to any villa.
func (s Scope) Known() bool {
	return s == ScopeGlobal || s == ScopeLocation || s == ScopeVilla
}

// specificity orders known scopes from broadest to narrowest. Higher wins
// when choosing a display record.
func (s Scope) specificity() int {
	switch s {
	case ScopeVilla:
		return 3
	case ScopeLocation:
		return 2
	case ScopeGlobal:
		return 1
	default:
		return 0
	}
}

// BlockedDateRecord marks an inclusive date range as blocked or annotated
// for some set of villas. When IsBlocked is false the record is a purely
// informational highlight and must not prevent booking.
type BlockedDateRecord struct {
	ID         RecordID
	Scope      Scope
	LocationID string
	VillaID    string
	Range      dateonly.Range
	Reason     string
	Color      string
	IsBlocked  bool
	CreatedAt  time.Time
}

func (r BlockedDateRecord) Validate() error {
	if strings.TrimSpace(string(r.ID)) == "" {
		return fmt.Errorf("schedule: record id is required")
	}
	if err := r.Range.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Reason) == "" {
		return ErrReasonRequired
	}
	switch r.Scope {
	case ScopeGlobal:
	case ScopeLocation:
		if strings.TrimSpace(r.LocationID) == "" {
			return ErrLocationRequired
		}
	case ScopeVilla:
		if strings.TrimSpace(r.VillaID) == "" {
			return ErrVillaRequired
		}
		if strings.TrimSpace(r.LocationID) == "" {
			return ErrLocationRequired
		}
	default:
		// Unknown scopes are kept out of validation errors on purpose: they
		// are stored but never match, so the snapshot flags them instead.
	}
	return nil
}

// AppliesTo reports whether the record covers the given villa. A VILLA
// record for another villa never applies, even when locations match. A
// GLOBAL record applies regardless of the arguments, including empty ones.
func (r BlockedDateRecord) AppliesTo(villaID, locationID string) bool {
	switch r.Scope {
	case ScopeGlobal:
		return true
	case ScopeLocation:
		return locationID != "" && r.LocationID == locationID
	case ScopeVilla:
		return villaID != "" && r.VillaID == villaID
	default:
		return false
	}
}

// Repository is the system-of-record port for blocked-date records.
type Repository interface {
	ByID(ctx context.Context, id RecordID) (BlockedDateRecord, error)
	Save(ctx context.Context, record BlockedDateRecord) error
	Delete(ctx context.Context, id RecordID) error
	// All returns every stored record; callers build a Snapshot from it.
	All(ctx context.Context) ([]BlockedDateRecord, error)
}
