package domain

import "time"

// UnassignedValue is the audit-trail placeholder for a ticket without an
// assignee.
const UnassignedValue = "Unassigned"

// SystemActorID marks changes made by the scheduler rather than a person.
const SystemActorID int64 = 0

// AuditRecord is an immutable audit trail entry for a single field change.
// Records are created only by the event dispatcher from a ticket-updated
// event's diff map and are append-only.
type AuditRecord struct {
	ID         int64
	TicketID   int64
	FieldName  string
	OldValue   string
	NewValue   string
	ModifiedBy int64
	ChangedAt  time.Time
}
