package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villadesk/internal/app/commands"
	appoutbox "villadesk/internal/app/outbox"
	"villadesk/internal/app/uow"
	domainschedule "villadesk/internal/domain/schedule"
	domainvillas "villadesk/internal/domain/villas"
)

type pingCommand struct {
	IDKey string
}

func (pingCommand) Key() string { return "test.ping" }

func (c pingCommand) IdempotencyKey() string { return c.IDKey }

func (pingCommand) ResultPrototype() any { return &pingResult{} }

type pingResult struct {
	Value int `json:"value"`
}

type countingBus struct {
	calls int
	err   error
}

func (b *countingBus) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return &pingResult{Value: b.calls}, nil
}

type mapStore struct {
	records map[string]IdempotencyRecord
}

func newMapStore() *mapStore {
	return &mapStore{records: map[string]IdempotencyRecord{}}
}

func (s *mapStore) Get(ctx context.Context, key string) (IdempotencyRecord, bool, error) {
	rec, ok := s.records[key]
	return rec, ok, nil
}

func (s *mapStore) Save(ctx context.Context, rec IdempotencyRecord) error {
	s.records[rec.Key] = rec
	return nil
}

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	inner := &countingBus{}
	bus := ChainCommands(inner, Idempotency(newMapStore(), nil))

	first, err := bus.Dispatch(context.Background(), pingCommand{IDKey: "k1"})
	require.NoError(t, err)
	second, err := bus.Dispatch(context.Background(), pingCommand{IDKey: "k1"})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestIdempotencyDistinctKeysExecuteSeparately(t *testing.T) {
	inner := &countingBus{}
	bus := ChainCommands(inner, Idempotency(newMapStore(), nil))

	_, err := bus.Dispatch(context.Background(), pingCommand{IDKey: "k1"})
	require.NoError(t, err)
	_, err = bus.Dispatch(context.Background(), pingCommand{IDKey: "k2"})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestIdempotencyEmptyKeyBypasses(t *testing.T) {
	inner := &countingBus{}
	bus := ChainCommands(inner, Idempotency(newMapStore(), nil))

	_, err := bus.Dispatch(context.Background(), pingCommand{})
	require.NoError(t, err)
	_, err = bus.Dispatch(context.Background(), pingCommand{})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestIdempotencyReplaysFailures(t *testing.T) {
	inner := &countingBus{err: errors.New("boom")}
	bus := ChainCommands(inner, Idempotency(newMapStore(), nil))

	_, err := bus.Dispatch(context.Background(), pingCommand{IDKey: "k1"})
	require.EqualError(t, err, "boom")
	_, err = bus.Dispatch(context.Background(), pingCommand{IDKey: "k1"})
	require.EqualError(t, err, "boom")

	assert.Equal(t, 1, inner.calls)
}

type trackingUnit struct {
	committed  bool
	rolledBack bool
}

func (u *trackingUnit) Villas() domainvillas.VillaRepository       { return nil }
func (u *trackingUnit) Locations() domainvillas.LocationRepository { return nil }
func (u *trackingUnit) Schedule() domainschedule.Repository        { return nil }

func (u *trackingUnit) Commit(context.Context) error {
	u.committed = true
	return nil
}

func (u *trackingUnit) Rollback(context.Context) error {
	u.rolledBack = true
	return nil
}

type trackingFactory struct {
	unit *trackingUnit
}

func (f *trackingFactory) Begin(context.Context, uow.TxOptions) (uow.UnitOfWork, error) {
	f.unit = &trackingUnit{}
	return f.unit, nil
}

type contextCheckBus struct {
	sawUnit bool
	err     error
}

func (b *contextCheckBus) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	_, b.sawUnit = uow.FromContext(ctx)
	return nil, b.err
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	factory := &trackingFactory{}
	inner := &contextCheckBus{}
	bus := ChainCommands(inner, Transaction(factory, nil))

	_, err := bus.Dispatch(context.Background(), pingCommand{})
	require.NoError(t, err)

	assert.True(t, inner.sawUnit)
	assert.True(t, factory.unit.committed)
	assert.False(t, factory.unit.rolledBack)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	factory := &trackingFactory{}
	inner := &contextCheckBus{err: errors.New("handler failed")}
	bus := ChainCommands(inner, Transaction(factory, nil))

	_, err := bus.Dispatch(context.Background(), pingCommand{})
	require.Error(t, err)

	assert.False(t, factory.unit.committed)
	assert.True(t, factory.unit.rolledBack)
}

type flushCountingOutbox struct {
	flushes int
}

func (o *flushCountingOutbox) Add(context.Context, appoutbox.EventRecord) error { return nil }

func (o *flushCountingOutbox) Flush(context.Context) error {
	o.flushes++
	return nil
}

func TestOutboxFlushRunsAfterSuccess(t *testing.T) {
	box := &flushCountingOutbox{}
	inner := &countingBus{}
	bus := ChainCommands(inner, OutboxFlush(box))

	_, err := bus.Dispatch(context.Background(), pingCommand{})
	require.NoError(t, err)
	assert.Equal(t, 1, box.flushes)
}

func TestOutboxFlushSkippedOnFailure(t *testing.T) {
	box := &flushCountingOutbox{}
	inner := &countingBus{err: errors.New("boom")}
	bus := ChainCommands(inner, OutboxFlush(box))

	_, err := bus.Dispatch(context.Background(), pingCommand{})
	require.Error(t, err)
	assert.Zero(t, box.flushes)
}
