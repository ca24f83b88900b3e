package domain

import "time"

// AgentProfile models a support agent eligible for auto-assignment.
// CurrentWorkload counts tickets assigned to the agent whose status is
// non-terminal; it is mutated only through the workload ledger.
type AgentProfile struct {
	ID              int64
	UserID          int64
	CurrentWorkload int64
	Skills          []int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasSkill reports whether the agent may handle tickets of the category.
func (a AgentProfile) HasSkill(categoryID int64) bool {
	for _, id := range a.Skills {
		if id == categoryID {
			return true
		}
	}
	return false
}
