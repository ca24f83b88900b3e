package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// Dispatcher is the single consumer of the bus. It drains events strictly in
// publish order, turning ticket diffs into audit records and forwarding every
// event to the real-time sink. One event's failure never stops the loop;
// notification delivery is at-most-once.
type Dispatcher struct {
	bus     *Bus
	audits  repository.AuditStore
	sink    notify.Sink
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewDispatcher creates the dispatcher.
func NewDispatcher(bus *Bus, audits repository.AuditStore, sink notify.Sink, logger *zap.Logger, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		bus:     bus,
		audits:  audits,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
	}
}

// Run consumes the bus until ctx is cancelled and the queue is drained.
func (d *Dispatcher) Run(ctx context.Context) {
	// Side effects of already-queued events must outlive cancellation.
	detached := context.WithoutCancel(ctx)

	for {
		ev, ok := d.bus.Next(ctx)
		if !ok {
			d.logger.Info("event dispatcher stopped")
			return
		}
		if err := d.handle(detached, ev); err != nil {
			d.metrics.RecordEventDispatched(true)
			d.logger.Warn("event handling failed",
				zap.String("event_id", ev.ID),
				zap.String("event_type", string(ev.Type)),
				zap.Error(apperrors.NewEventHandlingFailure(string(ev.Type), err)))
			continue
		}
		d.metrics.RecordEventDispatched(false)
	}
}

func (d *Dispatcher) handle(ctx context.Context, ev Event) error {
	switch ev.Type {
	case EventTicketUpdated:
		payload, ok := ev.Payload.(TicketUpdatedPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", ev.Payload, ev.Type)
		}
		return d.handleTicketUpdated(ctx, ev, payload)
	case EventTicketCommentAdded, EventTicketCommentUpdated:
		payload, ok := ev.Payload.(TicketCommentPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", ev.Payload, ev.Type)
		}
		return d.sink.NotifyRoom(ctx, payload.TicketID, string(ev.Type), payload)
	case EventUserRegistered, EventUserApproved:
		return d.sink.NotifyGlobal(ctx, string(ev.Type), ev.Payload)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
}

func (d *Dispatcher) handleTicketUpdated(ctx context.Context, ev Event, payload TicketUpdatedPayload) error {
	for field, change := range payload.Changes {
		record := domain.AuditRecord{
			TicketID:   payload.TicketID,
			FieldName:  field,
			OldValue:   change.Old,
			NewValue:   change.New,
			ModifiedBy: payload.ModifiedBy,
			ChangedAt:  ev.OccurredAt,
		}
		if err := d.audits.Append(ctx, &record); err != nil {
			// An incomplete audit trail is worse than a missed
			// notification; surface it on its own counter.
			d.metrics.RecordAuditFailure()
			d.logger.Error("audit append failed",
				zap.Int64("ticket_id", payload.TicketID),
				zap.String("field", field),
				zap.Error(err))
		}
	}
	return d.sink.NotifyRoom(ctx, payload.TicketID, string(ev.Type), payload)
}
