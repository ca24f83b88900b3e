package domain

import "time"

// UserStatus represents lifecycle states for an end-user account.
type UserStatus string

const (
	UserStatusPending  UserStatus = "PENDING"
	UserStatusApproved UserStatus = "APPROVED"
	UserStatusDisabled UserStatus = "DISABLED"
)

// User is the domain model for people who submit tickets. The core never
// persists users; the type carries user lifecycle event payloads.
type User struct {
	ID        int64
	Name      string
	Email     string
	Status    UserStatus
	CreatedAt time.Time
}
