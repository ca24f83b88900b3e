// Package worker ties the two long-running loops of the service together
// under one shutdown signal.
package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/scheduler"
)

// Pipeline supervises the event dispatcher and the assignment scheduler.
type Pipeline struct {
	stopScheduler  context.CancelFunc
	stopDispatcher context.CancelFunc
	schedulerDone  chan struct{}
	dispatcherDone chan struct{}
}

// StartPipeline launches both loops.
func StartPipeline(ctx context.Context, dispatcher *events.Dispatcher, sched *scheduler.Scheduler, logger *zap.Logger) *Pipeline {
	schedCtx, stopScheduler := context.WithCancel(ctx)
	dispatchCtx, stopDispatcher := context.WithCancel(ctx)
	p := &Pipeline{
		stopScheduler:  stopScheduler,
		stopDispatcher: stopDispatcher,
		schedulerDone:  make(chan struct{}),
		dispatcherDone: make(chan struct{}),
	}

	go func() {
		defer close(p.dispatcherDone)
		dispatcher.Run(dispatchCtx)
	}()
	go func() {
		defer close(p.schedulerDone)
		sched.Run(schedCtx)
	}()

	logger.Info("pipeline started")
	return p
}

// Stop shuts the loops down in order: the scheduler first, letting its
// in-flight tick finish, then the dispatcher, which drains everything the
// final tick published. No event or partial assignment is dropped.
func (p *Pipeline) Stop() {
	p.stopScheduler()
	<-p.schedulerDone
	p.stopDispatcher()
	<-p.dispatcherDone
}
