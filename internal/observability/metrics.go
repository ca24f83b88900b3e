package observability

import "sync"

// Metrics provides basic in-memory counters for the pipeline.
type Metrics struct {
	mu sync.Mutex

	ticksCompleted   int64
	ticksFailed      int64
	ticketsAssigned  int64
	eventsPublished  int64
	eventsDispatched int64
	eventFailures    int64
	auditFailures    int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordTick increments tick counters.
func (m *Metrics) RecordTick(assigned int, failed bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if failed {
		m.ticksFailed++
		return
	}
	m.ticksCompleted++
	m.ticketsAssigned += int64(assigned)
}

// RecordEventPublished increments the publish counter.
func (m *Metrics) RecordEventPublished() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

// RecordEventDispatched increments dispatch counters.
func (m *Metrics) RecordEventDispatched(failed bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsDispatched++
	if failed {
		m.eventFailures++
	}
}

// RecordAuditFailure tracks audit records lost to append failures. These are
// surfaced separately because they affect the audit trail's completeness.
func (m *Metrics) RecordAuditFailure() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditFailures++
}

// Snapshot returns a copy of the current counter values.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int64{
		"ticks_completed":   m.ticksCompleted,
		"ticks_failed":      m.ticksFailed,
		"tickets_assigned":  m.ticketsAssigned,
		"events_published":  m.eventsPublished,
		"events_dispatched": m.eventsDispatched,
		"event_failures":    m.eventFailures,
		"audit_failures":    m.auditFailures,
	}
}
