package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/classify"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/ledger"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/scheduler"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

type memTicketStore struct {
	mu      sync.Mutex
	tickets []domain.Ticket

	// When set, CommitAssignments signals commitStarted and then blocks
	// until commitRelease is closed, pinning a tick in flight.
	commitStarted chan struct{}
	commitRelease chan struct{}
}

func (m *memTicketStore) FetchUnassignedCreated(context.Context) ([]domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Ticket
	for _, t := range m.tickets {
		if t.AssignedToID == nil && t.StatusID == domain.StatusCreated {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *memTicketStore) CommitAssignments(_ context.Context, mutations []repository.AssignmentMutation) error {
	if m.commitStarted != nil {
		m.commitStarted <- struct{}{}
		<-m.commitRelease
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mutation := range mutations {
		for i := range m.tickets {
			if m.tickets[i].ID == mutation.TicketID {
				agentID := mutation.AssignedToID
				m.tickets[i].CategoryID = mutation.CategoryID
				m.tickets[i].AssignedToID = &agentID
				m.tickets[i].StatusID = mutation.StatusID
			}
		}
	}
	return nil
}

func (m *memTicketStore) snapshot() []domain.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Ticket(nil), m.tickets...)
}

type memAuditStore struct {
	mu      sync.Mutex
	records []domain.AuditRecord
}

func (m *memAuditStore) Append(_ context.Context, record *domain.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = int64(len(m.records) + 1)
	m.records = append(m.records, *record)
	return nil
}

func (m *memAuditStore) ListByTicket(_ context.Context, ticketID int64) ([]domain.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.AuditRecord
	for _, r := range m.records {
		if r.TicketID == ticketID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *memAuditStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type memSink struct {
	mu    sync.Mutex
	rooms []int64
}

func (m *memSink) NotifyRoom(_ context.Context, ticketID int64, _ string, _ any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms = append(m.rooms, ticketID)
	return nil
}

func (m *memSink) NotifyGlobal(context.Context, string, any) error { return nil }

func (m *memSink) roomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

type memAgentStore struct {
	agents []domain.AgentProfile
}

func (m *memAgentStore) FetchAgentsWithSkills(context.Context) ([]domain.AgentProfile, error) {
	return append([]domain.AgentProfile(nil), m.agents...), nil
}

type pipelineFixture struct {
	pipeline *worker.Pipeline
	bus      *events.Bus
	ledger   *ledger.Ledger
	audits   *memAuditStore
	sink     *memSink
}

func startPipeline(store *memTicketStore, agents ...domain.AgentProfile) *pipelineFixture {
	idx := classify.NewIndex()
	idx.Build([]domain.CategoryKeywordEntry{{CategoryID: 10, Keywords: []string{"wifi", "vpn"}}})

	audits := &memAuditStore{}
	sink := &memSink{}
	workloads := ledger.NewLedger()
	bus := events.NewBus()
	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	dispatcher := events.NewDispatcher(bus, audits, sink, logger, metrics)
	sched := scheduler.NewScheduler(scheduler.Dependencies{
		Tickets: store,
		Agents:  &memAgentStore{agents: agents},
		Index:   idx,
		Ledger:  workloads,
		Bus:     bus,
		Logger:  logger,
		Metrics: metrics,
	}, time.Minute)

	return &pipelineFixture{
		pipeline: worker.StartPipeline(context.Background(), dispatcher, sched, logger),
		bus:      bus,
		ledger:   workloads,
		audits:   audits,
		sink:     sink,
	}
}

// The full path: scheduler assigns, bus carries the event, dispatcher writes
// the audit record and notifies the ticket room, shutdown drains cleanly.
func TestPipelineEndToEnd(t *testing.T) {
	store := &memTicketStore{tickets: []domain.Ticket{
		{ID: 1, Description: "wifi disconnecting", StatusID: domain.StatusCreated},
	}}
	f := startPipeline(store, domain.AgentProfile{ID: 3, Skills: []int64{10}})

	deadline := time.Now().Add(2 * time.Second)
	for f.sink.roomCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	f.pipeline.Stop()

	tickets := store.snapshot()
	require.NotNil(t, tickets[0].AssignedToID)
	assert.Equal(t, int64(3), *tickets[0].AssignedToID)
	assert.Equal(t, domain.StatusAssigned, tickets[0].StatusID)

	workload, _ := f.ledger.Workload(3)
	assert.Equal(t, int64(1), workload)

	require.Equal(t, 1, f.audits.count())
	records, err := f.audits.ListByTicket(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "AssignedTo", records[0].FieldName)
	assert.Equal(t, domain.UnassignedValue, records[0].OldValue)
	assert.Equal(t, "3", records[0].NewValue)

	require.GreaterOrEqual(t, f.sink.roomCount(), 1)
	assert.Equal(t, int64(1), f.sink.rooms[0])
	assert.Equal(t, 0, f.bus.Depth(), "shutdown drained the bus")
}

// A shutdown that races an in-flight tick must wait for the tick's commit and
// then deliver the event it published: the assignment may not land in the
// store with its audit record and room notification missing.
func TestStopDeliversEventsFromInFlightTick(t *testing.T) {
	store := &memTicketStore{
		tickets:       []domain.Ticket{{ID: 1, Description: "wifi disconnecting", StatusID: domain.StatusCreated}},
		commitStarted: make(chan struct{}),
		commitRelease: make(chan struct{}),
	}
	f := startPipeline(store, domain.AgentProfile{ID: 3, Skills: []int64{10}})

	select {
	case <-store.commitStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("tick never reached commit")
	}

	stopped := make(chan struct{})
	go func() {
		f.pipeline.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("stop returned while the tick was still committing")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.commitRelease)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return after the tick finished")
	}

	tickets := store.snapshot()
	require.NotNil(t, tickets[0].AssignedToID)
	assert.Equal(t, 0, f.bus.Depth(), "the commit's event was consumed before stop returned")
	assert.Equal(t, 1, f.audits.count())
	assert.Equal(t, 1, f.sink.roomCount())
}
