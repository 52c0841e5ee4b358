package memory

import (
	"context"
	"errors"

	"villadesk/internal/app/uow"
	domainschedule "villadesk/internal/domain/schedule"
	domainvillas "villadesk/internal/domain/villas"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	VillasRepo    domainvillas.VillaRepository
	LocationsRepo domainvillas.LocationRepository
	ScheduleRepo  domainschedule.Repository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided but
// the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.VillasRepo == nil || f.LocationsRepo == nil || f.ScheduleRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		villas:    f.VillasRepo,
		locations: f.LocationsRepo,
		schedule:  f.ScheduleRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	villas    domainvillas.VillaRepository
	locations domainvillas.LocationRepository
	schedule  domainschedule.Repository
}

func (u *Unit) Villas() domainvillas.VillaRepository {
	return u.villas
}

func (u *Unit) Locations() domainvillas.LocationRepository {
	return u.locations
}

func (u *Unit) Schedule() domainschedule.Repository {
	return u.schedule
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
