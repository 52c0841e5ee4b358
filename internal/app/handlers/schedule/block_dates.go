package schedule

import (
	"context"
	"errors"
	"time"

	"villadesk/internal/app/commands"
	"villadesk/internal/app/middleware"
	"villadesk/internal/app/outbox"
	"villadesk/internal/app/uow"
	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
	"villadesk/internal/domain/shared/events"
	domainvillas "villadesk/internal/domain/villas"
)

const blockDatesKey = "schedule.block"

var ErrUnitOfWorkRequired = errors.New("schedule: unit of work required")

type BlockDatesCommand struct {
	CommandID       string
	Scope           int
	LocationID      string
	VillaID         string
	StartDate       dateonly.Date
	EndDate         dateonly.Date
	Reason          string
	Color           string
	IsBlocked       bool
	IdempotencyKeyV string
}

func (c BlockDatesCommand) Key() string { return blockDatesKey }

func (c BlockDatesCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c BlockDatesCommand) ResultPrototype() any { return &BlockDatesResult{} }

type BlockDatesResult struct {
	RecordID string `json:"record_id"`
}

type BlockDatesHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *BlockDatesHandler) Handle(ctx context.Context, cmd BlockDatesCommand) (*BlockDatesResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	rng, err := dateonly.NewRange(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	record := domainschedule.BlockedDateRecord{
		ID:         domainschedule.RecordID(cmd.CommandID),
		Scope:      domainschedule.Scope(cmd.Scope),
		LocationID: cmd.LocationID,
		VillaID:    cmd.VillaID,
		Range:      rng,
		Reason:     cmd.Reason,
		Color:      cmd.Color,
		IsBlocked:  cmd.IsBlocked,
		CreatedAt:  now,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	// The referenced villa or location has to exist; for villa scope the
	// owning location on the record is corrected from the registry.
	switch record.Scope {
	case domainschedule.ScopeVilla:
		villa, err := unit.Villas().ByID(ctx, domainvillas.VillaID(record.VillaID))
		if err != nil {
			return nil, err
		}
		record.LocationID = string(villa.LocationID)
	case domainschedule.ScopeLocation:
		if _, err := unit.Locations().ByID(ctx, domainvillas.LocationID(record.LocationID)); err != nil {
			return nil, err
		}
	}

	if err := unit.Schedule().Save(ctx, record); err != nil {
		return nil, err
	}

	evs := []events.DomainEvent{domainschedule.DatesBlockedEvent(record, now)}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), evs); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &BlockDatesResult{RecordID: string(record.ID)}, nil
}

func (h *BlockDatesHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[BlockDatesCommand, *BlockDatesResult] = (*BlockDatesHandler)(nil)
var _ middleware.IdempotentCommand = (*BlockDatesCommand)(nil)
