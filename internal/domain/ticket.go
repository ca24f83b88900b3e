package domain

import "time"

// Ticket status identifiers match the seeded statuses lookup table.
const (
	StatusCreated    int64 = 1
	StatusAssigned   int64 = 2
	StatusInProgress int64 = 3
	StatusResolved   int64 = 4
	StatusClosed     int64 = 5
	StatusCancelled  int64 = 6
)

// Ticket priority identifiers match the seeded priorities lookup table.
const (
	PriorityLow    int64 = 1
	PriorityMedium int64 = 2
	PriorityHigh   int64 = 3
	PriorityUrgent int64 = 4
)

// Ticket is the aggregate for support requests. All references are id-based;
// callers that need the full category or agent resolve them through a store.
type Ticket struct {
	ID           int64
	OwnerID      int64
	Description  string
	CategoryID   *int64
	PriorityID   int64
	StatusID     int64
	AssignedToID *int64
	DueDate      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsTerminalStatus reports whether a ticket in this status no longer counts
// toward an agent's workload.
func IsTerminalStatus(statusID int64) bool {
	switch statusID {
	case StatusResolved, StatusClosed, StatusCancelled:
		return true
	}
	return false
}
