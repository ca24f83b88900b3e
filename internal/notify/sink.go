// Package notify is the boundary to the real-time fan-out collaborator. The
// dispatcher emits abstract room and global notifications here; delivery to
// connected clients is the collaborator's job.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sink receives notifications produced by the event dispatcher. Delivery is
// at-most-once: implementations must not retry.
type Sink interface {
	NotifyRoom(ctx context.Context, ticketID int64, event string, payload any) error
	NotifyGlobal(ctx context.Context, event string, payload any) error
}

// Envelope is the wire shape published to downstream transports.
type Envelope struct {
	DeliveryID string    `json:"delivery_id"`
	Event      string    `json:"event"`
	TicketID   *int64    `json:"ticket_id,omitempty"`
	Payload    any       `json:"payload"`
	SentAt     time.Time `json:"sent_at"`
}

func newEnvelope(event string, ticketID *int64, payload any) Envelope {
	return Envelope{
		DeliveryID: uuid.NewString(),
		Event:      event,
		TicketID:   ticketID,
		Payload:    payload,
		SentAt:     time.Now().UTC(),
	}
}

// Fanout forwards each notification to every configured sink. A failing sink
// does not stop delivery to the others.
type Fanout []Sink

// NotifyRoom delivers to the ticket room on every sink.
func (f Fanout) NotifyRoom(ctx context.Context, ticketID int64, event string, payload any) error {
	var errs []error
	for _, sink := range f {
		if err := sink.NotifyRoom(ctx, ticketID, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifyGlobal delivers to the global channel on every sink.
func (f Fanout) NotifyGlobal(ctx context.Context, event string, payload any) error {
	var errs []error
	for _, sink := range f {
		if err := sink.NotifyGlobal(ctx, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
