package schedule

import (
	"context"
	"time"

	"villadesk/internal/app/dto"
	"villadesk/internal/app/queries"
	"villadesk/internal/app/uow"
	"villadesk/internal/domain/calendar"
	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
	domainvillas "villadesk/internal/domain/villas"
)

const getCalendarKey = "schedule.calendar"

// GetCalendarQuery projects one month for one villa. Today is injected by
// the transport layer so the projection stays deterministic under test.
type GetCalendarQuery struct {
	VillaID string
	Year    int
	Month   time.Month
	Today   dateonly.Date
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
	Projector  calendar.Projector
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.CalendarMonth, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.CalendarMonth{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.CalendarMonth{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	// An empty villa id previews a calendar before a villa is chosen:
	// only global records apply then.
	locationID := ""
	if q.VillaID != "" {
		villa, err := unit.Villas().ByID(ctx, domainvillas.VillaID(q.VillaID))
		if err != nil {
			return dto.CalendarMonth{}, err
		}
		locationID = string(villa.LocationID)
	}

	records, err := unit.Schedule().All(ctx)
	if err != nil {
		return dto.CalendarMonth{}, err
	}
	snapshot := domainschedule.NewSnapshot(records)
	resolver := domainschedule.NewResolver(snapshot)

	today := q.Today
	if today.IsZero() {
		today = dateonly.FromTime(time.Now())
	}
	cells, err := h.Projector.Project(q.Year, q.Month, q.VillaID, locationID, today, resolver)
	if err != nil {
		return dto.CalendarMonth{}, err
	}
	return dto.MapCalendarMonth(q.VillaID, locationID, q.Year, int(q.Month), cells), nil
}

var _ queries.Handler[GetCalendarQuery, dto.CalendarMonth] = (*GetCalendarHandler)(nil)
