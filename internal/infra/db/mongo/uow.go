package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"villadesk/internal/app/uow"
	domainschedule "villadesk/internal/domain/schedule"
	domainvillas "villadesk/internal/domain/villas"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	VillasRepo    domainvillas.VillaRepository
	LocationsRepo domainvillas.LocationRepository
	ScheduleRepo  domainschedule.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:        f.DB,
		session:   session,
		villas:    f.VillasRepo,
		locations: f.LocationsRepo,
		schedule:  f.ScheduleRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
