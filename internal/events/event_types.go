package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Type enumerates supported event identifiers.
type Type string

const (
	EventTicketUpdated        Type = "ticket_updated"
	EventTicketCommentAdded   Type = "ticket_comment_added"
	EventTicketCommentUpdated Type = "ticket_comment_updated"
	EventUserRegistered       Type = "user_registered"
	EventUserApproved         Type = "user_approved"
)

// FieldChange is a single entry of a ticket-updated diff map.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Event represents a domain event emitted by services. Events are immutable
// once constructed; Seq is a process-monotonic identifier that preserves
// publish order across producers.
type Event struct {
	ID         string    `json:"id"`
	Seq        int64     `json:"seq"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// TicketUpdatedPayload carries the full change set of one ticket mutation.
type TicketUpdatedPayload struct {
	TicketID   int64                  `json:"ticket_id"`
	ModifiedBy int64                  `json:"modified_by"`
	Changes    map[string]FieldChange `json:"changes"`
}

// TicketCommentPayload carries a comment added to or edited on a ticket.
type TicketCommentPayload struct {
	TicketID  int64  `json:"ticket_id"`
	CommentID int64  `json:"comment_id"`
	AuthorID  int64  `json:"author_id"`
	Body      string `json:"body"`
}

// UserPayload carries user lifecycle changes.
type UserPayload struct {
	UserID int64             `json:"user_id"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Status domain.UserStatus `json:"status"`
}

// NewTicketUpdated constructs a ticket-updated event.
func NewTicketUpdated(ticketID, modifiedBy int64, changes map[string]FieldChange) Event {
	return newEvent(EventTicketUpdated, TicketUpdatedPayload{
		TicketID:   ticketID,
		ModifiedBy: modifiedBy,
		Changes:    changes,
	})
}

// NewTicketCommentAdded constructs a comment-added event.
func NewTicketCommentAdded(ticketID, commentID, authorID int64, body string) Event {
	return newEvent(EventTicketCommentAdded, TicketCommentPayload{
		TicketID:  ticketID,
		CommentID: commentID,
		AuthorID:  authorID,
		Body:      body,
	})
}

// NewTicketCommentUpdated constructs a comment-updated event.
func NewTicketCommentUpdated(ticketID, commentID, authorID int64, body string) Event {
	return newEvent(EventTicketCommentUpdated, TicketCommentPayload{
		TicketID:  ticketID,
		CommentID: commentID,
		AuthorID:  authorID,
		Body:      body,
	})
}

// NewUserRegistered constructs a user-registered event.
func NewUserRegistered(user domain.User) Event {
	return newEvent(EventUserRegistered, UserPayload{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Status: user.Status,
	})
}

// NewUserApproved constructs a user-approved event.
func NewUserApproved(user domain.User) Event {
	return newEvent(EventUserApproved, UserPayload{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Status: user.Status,
	})
}

func newEvent(eventType Type, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Seq:        domain.NextID(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
