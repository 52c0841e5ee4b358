package schedule

import (
	"context"

	"villadesk/internal/app/dto"
	"villadesk/internal/app/queries"
	"villadesk/internal/app/uow"
	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
)

const listBlockedDatesKey = "schedule.list"

// ListBlockedDatesQuery returns the stored records, optionally narrowed to
// those applicable to one villa or location and overlapping a window.
// Rejected records ride along as diagnostics instead of vanishing.
type ListBlockedDatesQuery struct {
	VillaID    string
	LocationID string
	From       dateonly.Date
	To         dateonly.Date
}

func (q ListBlockedDatesQuery) Key() string { return listBlockedDatesKey }

type ListBlockedDatesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListBlockedDatesHandler) Handle(ctx context.Context, q ListBlockedDatesQuery) (dto.BlockedDateList, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.BlockedDateList{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.BlockedDateList{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	records, err := unit.Schedule().All(ctx)
	if err != nil {
		return dto.BlockedDateList{}, err
	}
	snapshot := domainschedule.NewSnapshot(records)

	list := dto.MapBlockedDateList(snapshot)
	if q.VillaID == "" && q.LocationID == "" && q.From.IsZero() && q.To.IsZero() {
		return list, nil
	}

	// A half-open window is valid: from-only keeps records ending on or
	// after it, to-only keeps records starting on or before it.
	if !q.From.IsZero() && !q.To.IsZero() {
		if _, err := dateonly.NewRange(q.From, q.To); err != nil {
			return dto.BlockedDateList{}, err
		}
	}

	filtered := list.Records[:0]
	for _, rec := range snapshot.Records() {
		if (q.VillaID != "" || q.LocationID != "") && !rec.AppliesTo(q.VillaID, q.LocationID) {
			continue
		}
		if !q.From.IsZero() && rec.Range.End.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && rec.Range.Start.After(q.To) {
			continue
		}
		filtered = append(filtered, dto.MapBlockedDate(rec))
	}
	list.Records = filtered
	return list, nil
}

var _ queries.Handler[ListBlockedDatesQuery, dto.BlockedDateList] = (*ListBlockedDatesHandler)(nil)
