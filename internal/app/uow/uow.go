package uow

import (
	"context"

	domainschedule "villadesk/internal/domain/schedule"
	domainvillas "villadesk/internal/domain/villas"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Villas() domainvillas.VillaRepository
	Locations() domainvillas.LocationRepository
	Schedule() domainschedule.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
