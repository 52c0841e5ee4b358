package schedule

import (
	"context"
	"time"

	"villadesk/internal/app/commands"
	"villadesk/internal/app/outbox"
	"villadesk/internal/app/uow"
	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
	"villadesk/internal/domain/shared/events"
)

const updateBlockKey = "schedule.update"

// UpdateBlockedDateCommand rewrites the mutable fields of one record. The
// scope and its villa/location references are fixed at creation; admins
// release and re-block to move a record between scopes.
type UpdateBlockedDateCommand struct {
	RecordID  string
	StartDate dateonly.Date
	EndDate   dateonly.Date
	Reason    string
	Color     string
	IsBlocked bool
}

func (c UpdateBlockedDateCommand) Key() string { return updateBlockKey }

type UpdateBlockedDateResult struct {
	RecordID string `json:"record_id"`
}

type UpdateBlockedDateHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *UpdateBlockedDateHandler) Handle(ctx context.Context, cmd UpdateBlockedDateCommand) (*UpdateBlockedDateResult, error) {
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

	record, err := unit.Schedule().ByID(ctx, domainschedule.RecordID(cmd.RecordID))
	if err != nil {
		return nil, err
	}

	rng, err := dateonly.NewRange(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}
	record.Range = rng
	record.Reason = cmd.Reason
	record.Color = cmd.Color
	record.IsBlocked = cmd.IsBlocked
	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := unit.Schedule().Save(ctx, record); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	evs := []events.DomainEvent{domainschedule.BlockUpdatedEvent(record, now)}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), evs); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &UpdateBlockedDateResult{RecordID: string(record.ID)}, nil
}

func (h *UpdateBlockedDateHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[UpdateBlockedDateCommand, *UpdateBlockedDateResult] = (*UpdateBlockedDateHandler)(nil)
