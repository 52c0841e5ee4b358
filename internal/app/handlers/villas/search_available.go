package villas

import (
	"context"

	"villadesk/internal/app/dto"
	"villadesk/internal/app/queries"
	"villadesk/internal/app/uow"
	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
	domainvillas "villadesk/internal/domain/villas"
)

const searchAvailableKey = "villas.search"

// SearchAvailableQuery finds villas in a location with no blocking record
// on any day of the inclusive [From, To] stay.
type SearchAvailableQuery struct {
	LocationID string
	From       dateonly.Date
	To         dateonly.Date
	Guests     int
}

func (q SearchAvailableQuery) Key() string { return searchAvailableKey }

type SearchAvailableHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SearchAvailableHandler) Handle(ctx context.Context, q SearchAvailableQuery) (dto.VillaList, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.VillaList{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.VillaList{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	stay, err := dateonly.NewRange(q.From, q.To)
	if err != nil {
		return dto.VillaList{}, err
	}

	candidates, err := unit.Villas().ByLocation(ctx, domainvillas.LocationID(q.LocationID))
	if err != nil {
		return dto.VillaList{}, err
	}
	records, err := unit.Schedule().All(ctx)
	if err != nil {
		return dto.VillaList{}, err
	}
	resolver := domainschedule.NewResolver(domainschedule.NewSnapshot(records))

	matches := domainvillas.SearchAvailable(candidates, domainvillas.SearchParams{
		LocationID: domainvillas.LocationID(q.LocationID),
		Stay:       stay,
		Guests:     q.Guests,
	}, resolver)
	return dto.MapVillaList(matches), nil
}

var _ queries.Handler[SearchAvailableQuery, dto.VillaList] = (*SearchAvailableHandler)(nil)
