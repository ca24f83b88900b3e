// Package ledger tracks each agent's active-ticket count and skill set and
// answers least-loaded eligible agent queries for the scheduler.
package ledger

import (
	"sync"
	"sync/atomic"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type agentState struct {
	id       int64
	skills   map[int64]struct{}
	workload atomic.Int64
}

// Ledger holds the in-memory workload counters. Increment and Decrement are
// single atomic counter mutations, safe under concurrent callers; the ledger
// does not verify that a decrement pairs with a prior increment for the same
// ticket, that discipline belongs to the caller.
type Ledger struct {
	mu     sync.RWMutex
	agents map[int64]*agentState
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{agents: make(map[int64]*agentState)}
}

// Load replaces the ledger wholesale from an agent snapshot.
func (l *Ledger) Load(agents []domain.AgentProfile) {
	next := make(map[int64]*agentState, len(agents))
	for _, agent := range agents {
		state := &agentState{
			id:     agent.ID,
			skills: make(map[int64]struct{}, len(agent.Skills)),
		}
		for _, categoryID := range agent.Skills {
			state.skills[categoryID] = struct{}{}
		}
		state.workload.Store(agent.CurrentWorkload)
		next[agent.ID] = state
	}

	l.mu.Lock()
	l.agents = next
	l.mu.Unlock()
}

// LeastLoadedEligible returns the agent with the given skill and the smallest
// workload. Equal workloads resolve to the lowest agent id so the result is
// deterministic. The second return is false when no agent carries the skill.
func (l *Ledger) LeastLoadedEligible(categoryID int64) (int64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var best *agentState
	var bestLoad int64
	for _, state := range l.agents {
		if _, ok := state.skills[categoryID]; !ok {
			continue
		}
		load := state.workload.Load()
		if best == nil || load < bestLoad || (load == bestLoad && state.id < best.id) {
			best = state
			bestLoad = load
		}
	}
	if best == nil {
		return 0, false
	}
	return best.id, true
}

// Increment bumps an agent's active-ticket count.
func (l *Ledger) Increment(agentID int64) {
	if state := l.lookup(agentID); state != nil {
		state.workload.Add(1)
	}
}

// Decrement lowers an agent's active-ticket count, flooring at zero.
func (l *Ledger) Decrement(agentID int64) {
	state := l.lookup(agentID)
	if state == nil {
		return
	}
	for {
		current := state.workload.Load()
		if current == 0 {
			return
		}
		if state.workload.CompareAndSwap(current, current-1) {
			return
		}
	}
}

// Workload reports an agent's current counter; false when unknown.
func (l *Ledger) Workload(agentID int64) (int64, bool) {
	state := l.lookup(agentID)
	if state == nil {
		return 0, false
	}
	return state.workload.Load(), true
}

func (l *Ledger) lookup(agentID int64) *agentState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.agents[agentID]
}
