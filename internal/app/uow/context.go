package uow

import (
	"context"
	"errors"
)

// ErrUnitOfWorkMissing is returned by handlers that require an ambient
// transaction when none was put in scope.
var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type unitKey struct{}

// ContextWithUnitOfWork puts the unit in scope for downstream handlers.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, unitKey{}, unit)
}

// FromContext returns the ambient unit of work, if any.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(unitKey{}).(UnitOfWork)
	return unit, ok
}
