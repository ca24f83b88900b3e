// Package scheduler runs the periodic auto-assignment loop: detect a
// category for each unassigned ticket, pick the least-loaded eligible agent,
// commit the batch, and publish the resulting change events.
package scheduler

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/classify"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/ledger"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// Scheduler owns the assignment loop. Ticks never overlap: the fixed interval
// is waited out after a tick completes, however long the tick took.
type Scheduler struct {
	tickets  repository.TicketStore
	agents   repository.AgentStore
	index    *classify.Index
	ledger   *ledger.Ledger
	bus      *events.Bus
	interval time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// Dependencies bundles the scheduler's collaborators.
type Dependencies struct {
	Tickets repository.TicketStore
	Agents  repository.AgentStore
	Index   *classify.Index
	Ledger  *ledger.Ledger
	Bus     *events.Bus
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// NewScheduler creates the scheduler.
func NewScheduler(deps Dependencies, tickInterval time.Duration) *Scheduler {
	return &Scheduler{
		tickets:  deps.Tickets,
		agents:   deps.Agents,
		index:    deps.Index,
		ledger:   deps.Ledger,
		bus:      deps.Bus,
		interval: tickInterval,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
}

// Run executes ticks until ctx is cancelled. Cancellation lets the in-flight
// tick finish; store operations inside a tick are never interrupted mid-batch.
func (s *Scheduler) Run(ctx context.Context) {
	detached := context.WithoutCancel(ctx)

	for {
		s.Tick(detached)

		select {
		case <-time.After(s.interval):
		case <-ctx.Done():
			s.logger.Info("assignment scheduler stopped")
			return
		}
	}
}

// Tick executes one assignment pass. A per-ticket failure is logged and
// skipped; only a failed fetch or batch commit aborts the pass, and either is
// retried on the next schedule.
func (s *Scheduler) Tick(ctx context.Context) {
	// Re-sync the ledger from the store so agents added, removed, or
	// reskilled since the last pass are seen. Committed workloads are
	// persisted transactionally, so the fetched counts are authoritative.
	// On a fetch failure the previous snapshot keeps the pass usable.
	if agents, err := s.agents.FetchAgentsWithSkills(ctx); err != nil {
		s.logger.Warn("agent refresh failed, using previous snapshot", zap.Error(err))
	} else {
		s.ledger.Load(agents)
	}

	tickets, err := s.tickets.FetchUnassignedCreated(ctx)
	if err != nil {
		s.metrics.RecordTick(0, true)
		s.logger.Error("fetch unassigned tickets failed", zap.Error(err))
		return
	}

	var mutations []repository.AssignmentMutation
	var pending []events.Event

	for i := range tickets {
		ev, mutation, err := s.assignOne(&tickets[i])
		if err != nil {
			if apperrors.HasCode(err, apperrors.CodeNoEligibleAgent) {
				s.logger.Debug("ticket left unassigned",
					zap.Int64("ticket_id", tickets[i].ID),
					zap.Error(err))
			} else {
				s.logger.Warn("ticket assignment failed",
					zap.Int64("ticket_id", tickets[i].ID),
					zap.Error(err))
			}
			continue
		}
		mutations = append(mutations, mutation)
		pending = append(pending, ev)
	}

	if len(mutations) == 0 {
		s.metrics.RecordTick(0, false)
		return
	}

	if err := s.tickets.CommitAssignments(ctx, mutations); err != nil {
		// The tick's ledger increments no longer match any persisted
		// assignment; undo them before the retry.
		for _, m := range mutations {
			s.ledger.Decrement(m.AssignedToID)
		}
		s.metrics.RecordTick(0, true)
		s.logger.Error("tick commit failed", zap.Error(apperrors.NewPersistenceConflict(err)))
		return
	}

	for _, ev := range pending {
		s.bus.Publish(ev)
		s.metrics.RecordEventPublished()
	}

	s.metrics.RecordTick(len(mutations), false)
	s.logger.Info("assignment tick completed",
		zap.Int("fetched", len(tickets)),
		zap.Int("assigned", len(mutations)))
}

// assignOne decides one ticket's assignment in memory. The ledger increment
// happens here so later tickets in the same tick see the updated workload.
func (s *Scheduler) assignOne(t *domain.Ticket) (events.Event, repository.AssignmentMutation, error) {
	if t.CategoryID == nil {
		if categoryID, ok := s.index.Detect(t.Description); ok {
			t.CategoryID = &categoryID
		}
	}

	var categoryID int64
	if t.CategoryID != nil {
		categoryID = *t.CategoryID
	}

	agentID, ok := s.ledger.LeastLoadedEligible(categoryID)
	if !ok {
		return events.Event{}, repository.AssignmentMutation{}, apperrors.NewNoEligibleAgent(categoryID)
	}
	s.ledger.Increment(agentID)

	t.AssignedToID = &agentID
	t.StatusID = domain.StatusAssigned

	mutation := repository.AssignmentMutation{
		TicketID:     t.ID,
		CategoryID:   t.CategoryID,
		AssignedToID: agentID,
		StatusID:     domain.StatusAssigned,
	}
	changes := map[string]events.FieldChange{
		"AssignedTo": {
			Old: domain.UnassignedValue,
			New: strconv.FormatInt(agentID, 10),
		},
	}
	return events.NewTicketUpdated(t.ID, domain.SystemActorID, changes), mutation, nil
}
