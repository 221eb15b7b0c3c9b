// Package dispatcher turns backend notifications into jobs for the UI loop.
package dispatcher

import (
	"context"
	"fmt"

	"github.com/atomicstack/siyuan-tui/internal/backend"
	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/job"
	"github.com/atomicstack/siyuan-tui/internal/ui/editor"
)

type Result struct {
	Reload bool
	Failed bool
}

type Dispatcher struct {
	queue *job.Queue
}

func New(queue *job.Queue) *Dispatcher {
	return &Dispatcher{queue: queue}
}

// Handle maps evt to the job applying it. ok is false for events that need
// no UI work.
func (d *Dispatcher) Handle(evt backend.Event) (job.Job, Result, bool) {
	var res Result
	switch evt.Kind {
	case backend.KindIndexChanged:
		res.Reload = true
		return job.New("watch.reload", func(c *compositor.Compositor, cx *compositor.Context) {
			if ed, ok := compositor.Find[*editor.Editor](c); ok {
				ed.ReloadCurrent(cx)
			}
		}), res, true
	case backend.KindWatchError:
		if evt.Err == nil {
			return job.Job{}, res, false
		}
		res.Failed = true
		err := evt.Err
		return job.New("watch.error", func(c *compositor.Compositor, _ *compositor.Context) {
			if ed, ok := compositor.Find[*editor.Editor](c); ok {
				ed.SetError(fmt.Sprintf("watch failed: %v", err))
			}
		}), res, true
	}
	return job.Job{}, res, false
}

// Forward dispatches a job for every event until events closes or ctx ends.
func (d *Dispatcher) Forward(ctx context.Context, events <-chan backend.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if j, _, ok := d.Handle(evt); ok {
				d.queue.Dispatch(ctx, j)
			}
		}
	}
}
