package schedule

import (
	"context"
	"time"

	"villadesk/internal/app/commands"
	"villadesk/internal/app/outbox"
	"villadesk/internal/app/uow"
	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/events"
)

const releaseBlockKey = "schedule.release"

type ReleaseBlockedDateCommand struct {
	RecordID string
}

func (c ReleaseBlockedDateCommand) Key() string { return releaseBlockKey }

type ReleaseBlockedDateResult struct {
	RecordID string `json:"record_id"`
}

type ReleaseBlockedDateHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ReleaseBlockedDateHandler) Handle(ctx context.Context, cmd ReleaseBlockedDateCommand) (*ReleaseBlockedDateResult, error) {
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
	if err := unit.Schedule().Delete(ctx, record.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	evs := []events.DomainEvent{domainschedule.BlockReleasedEvent(record, now)}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), evs); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &ReleaseBlockedDateResult{RecordID: string(record.ID)}, nil
}

func (h *ReleaseBlockedDateHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[ReleaseBlockedDateCommand, *ReleaseBlockedDateResult] = (*ReleaseBlockedDateHandler)(nil)
