// Package command runs background work for UI components and reports the
// outcome back to the UI loop as jobs.
package command

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/job"
	"github.com/atomicstack/siyuan-tui/internal/logging/events"
)

// Work runs off the UI loop. The returned callback, if any, is applied to
// the compositor as a job.
type Work func(ctx context.Context) (compositor.Callback, error)

// Request describes one piece of background work. OnError turns a failure
// into a callback; when nil, failures are only traced.
type Request struct {
	ID      string
	Label   string
	Work    Work
	OnError func(err error) compositor.Callback
}

// Bus spawns requests on goroutines and forwards their callbacks to a queue.
type Bus struct {
	ctx   context.Context
	queue *job.Queue
	wg    sync.WaitGroup
}

// New returns a bus whose work is bounded by ctx and whose results go to
// queue.
func New(ctx context.Context, queue *job.Queue) *Bus {
	return &Bus{ctx: ctx, queue: queue}
}

// Context is the context passed to spawned work.
func (b *Bus) Context() context.Context {
	return b.ctx
}

// Spawn starts req and returns its id. A request without work is skipped.
func (b *Bus) Spawn(req Request) string {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Work == nil {
		events.Command.Skip(req.ID, req.Label)
		return req.ID
	}
	events.Command.Queue(req.ID, req.Label)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		cb, err := req.Work(b.ctx)
		events.Command.Result(req.ID, req.Label, err)
		if err != nil {
			if req.OnError == nil {
				return
			}
			cb = req.OnError(err)
		}
		if cb == nil {
			return
		}
		b.queue.Dispatch(b.ctx, job.New(req.Label, cb))
	}()
	return req.ID
}

// Wait blocks until every spawned request has finished and dispatched its
// job.
func (b *Bus) Wait() {
	b.wg.Wait()
}
