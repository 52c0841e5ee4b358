package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villadesk/internal/domain/shared/dateonly"
)

func record(id string, scope Scope, villaID, locationID, start, end string, blocked bool, createdAt time.Time) BlockedDateRecord {
	return BlockedDateRecord{
		ID:         RecordID(id),
		Scope:      scope,
		VillaID:    villaID,
		LocationID: locationID,
		Range: dateonly.Range{
			Start: dateonly.MustParse(start),
			End:   dateonly.MustParse(end),
		},
		Reason:    "reason " + id,
		Color:     "#cccccc",
		IsBlocked: blocked,
		CreatedAt: createdAt,
	}
}

func TestSnapshotRejectsMalformedRecords(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	bad := record("bad", ScopeGlobal, "", "", "2025-07-03", "2025-07-01", true, created)
	noReason := record("no-reason", ScopeGlobal, "", "", "2025-07-01", "2025-07-02", true, created)
	noReason.Reason = ""
	unknown := record("odd", Scope(42), "", "", "2025-07-01", "2025-07-02", true, created)
	good := record("good", ScopeGlobal, "", "", "2025-07-01", "2025-07-02", true, created)

	snap := NewSnapshot([]BlockedDateRecord{bad, noReason, unknown, good})

	assert.Equal(t, 1, snap.Len())
	require.Len(t, snap.Rejected(), 3)
	assert.Equal(t, RecordID("bad"), snap.Rejected()[0].Record.ID)
	assert.Contains(t, snap.Rejected()[2].Reason, "unknown scope")

	// The good record still resolves even though its neighbors were dropped.
	res, ok := NewResolver(snap).Resolve(dateonly.MustParse("2025-07-01"), "villa-1", "loc-1")
	require.True(t, ok)
	assert.True(t, res.Blocked)
	assert.Equal(t, RecordID("good"), res.Display.ID)
}

func TestSnapshotNilAndEmpty(t *testing.T) {
	var nilSnap *Snapshot
	assert.Empty(t, nilSnap.RecordsOverlapping(dateonly.MustParse("2025-07-01")))
	assert.Zero(t, nilSnap.Len())

	empty := NewSnapshot(nil)
	_, ok := NewResolver(empty).Resolve(dateonly.MustParse("2025-07-01"), "villa-1", "loc-1")
	assert.False(t, ok)
}

func TestResolveOpenDate(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := NewSnapshot([]BlockedDateRecord{
		record("g", ScopeGlobal, "", "", "2025-07-01", "2025-07-03", true, created),
	})

	_, ok := NewResolver(snap).Resolve(dateonly.MustParse("2025-07-04"), "villa-1", "loc-1")
	assert.False(t, ok)
}

func TestResolveSpecificityOrdersDisplay(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := NewSnapshot([]BlockedDateRecord{
		record("global", ScopeGlobal, "", "", "2025-07-01", "2025-07-10", true, created),
		record("location", ScopeLocation, "", "loc-1", "2025-07-01", "2025-07-10", true, created),
		record("villa", ScopeVilla, "villa-1", "loc-1", "2025-07-01", "2025-07-10", true, created),
	})
	resolver := NewResolver(snap)
	day := dateonly.MustParse("2025-07-05")

	res, ok := resolver.Resolve(day, "villa-1", "loc-1")
	require.True(t, ok)
	assert.Equal(t, RecordID("villa"), res.Display.ID)
	assert.True(t, res.Blocked)

	// Another villa of the same location falls back to the location record.
	res, ok = resolver.Resolve(day, "villa-2", "loc-1")
	require.True(t, ok)
	assert.Equal(t, RecordID("location"), res.Display.ID)

	// No context at all still sees the global record.
	res, ok = resolver.Resolve(day, "", "")
	require.True(t, ok)
	assert.Equal(t, RecordID("global"), res.Display.ID)
}

func TestResolveBlockedIndependentOfDisplay(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	// The villa-level record is an informational highlight; the broader
	// global record actually blocks the date. Display shows the narrow
	// record, Blocked still reports true.
	snap := NewSnapshot([]BlockedDateRecord{
		record("global-block", ScopeGlobal, "", "", "2025-07-01", "2025-07-10", true, created),
		record("villa-note", ScopeVilla, "villa-1", "loc-1", "2025-07-01", "2025-07-10", false, created),
	})

	res, ok := NewResolver(snap).Resolve(dateonly.MustParse("2025-07-05"), "villa-1", "loc-1")
	require.True(t, ok)
	assert.Equal(t, RecordID("villa-note"), res.Display.ID)
	assert.False(t, res.Display.IsBlocked)
	assert.True(t, res.Blocked)
}

func TestResolveAnnotationsOnlyDoNotBlock(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := NewSnapshot([]BlockedDateRecord{
		record("note", ScopeVilla, "villa-1", "loc-1", "2025-07-01", "2025-07-10", false, created),
	})

	res, ok := NewResolver(snap).Resolve(dateonly.MustParse("2025-07-05"), "villa-1", "loc-1")
	require.True(t, ok)
	assert.False(t, res.Blocked)
	assert.Equal(t, RecordID("note"), res.Display.ID)
}

func TestResolveTieBreakIsDeterministic(t *testing.T) {
	older := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("newer record wins at equal specificity", func(t *testing.T) {
		snap := NewSnapshot([]BlockedDateRecord{
			record("a", ScopeVilla, "villa-1", "loc-1", "2025-07-01", "2025-07-10", true, older),
			record("b", ScopeVilla, "villa-1", "loc-1", "2025-07-01", "2025-07-10", true, newer),
		})
		res, ok := NewResolver(snap).Resolve(dateonly.MustParse("2025-07-05"), "villa-1", "loc-1")
		require.True(t, ok)
		assert.Equal(t, RecordID("b"), res.Display.ID)
	})

	t.Run("equal timestamps fall back to id, input order irrelevant", func(t *testing.T) {
		a := record("a", ScopeVilla, "villa-1", "loc-1", "2025-07-01", "2025-07-10", true, older)
		b := record("b", ScopeVilla, "villa-1", "loc-1", "2025-07-01", "2025-07-10", true, older)

		for _, input := range [][]BlockedDateRecord{{a, b}, {b, a}} {
			res, ok := NewResolver(NewSnapshot(input)).Resolve(dateonly.MustParse("2025-07-05"), "villa-1", "loc-1")
			require.True(t, ok)
			assert.Equal(t, RecordID("b"), res.Display.ID)
		}
	})
}

func TestResolveVillaRecordNeverLeaksToOtherVillas(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := NewSnapshot([]BlockedDateRecord{
		record("villa", ScopeVilla, "villa-1", "loc-1", "2025-07-01", "2025-07-10", true, created),
	})

	_, ok := NewResolver(snap).Resolve(dateonly.MustParse("2025-07-05"), "villa-2", "loc-1")
	assert.False(t, ok)
}

func TestResolveSingleDayRange(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := NewSnapshot([]BlockedDateRecord{
		record("one-day", ScopeGlobal, "", "", "2025-07-05", "2025-07-05", true, created),
	})
	resolver := NewResolver(snap)

	_, ok := resolver.Resolve(dateonly.MustParse("2025-07-04"), "", "")
	assert.False(t, ok)

	res, ok := resolver.Resolve(dateonly.MustParse("2025-07-05"), "", "")
	require.True(t, ok)
	assert.True(t, res.Blocked)

	_, ok = resolver.Resolve(dateonly.MustParse("2025-07-06"), "", "")
	assert.False(t, ok)
}
