// Package job carries closures from background goroutines to the UI loop.
// A job runs on the loop with exclusive access to the compositor, exactly
// like a callback returned from event handling.
package job

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/logging/events"
)

// Capacity is the default size of the process-wide queue.
const Capacity = 1024

// Job is a labelled one-shot callback.
type Job struct {
	Label    string
	Callback compositor.Callback
}

// New builds a job.
func New(label string, fn compositor.Callback) Job {
	return Job{Label: label, Callback: fn}
}

// Run applies the job to the compositor.
func (j Job) Run(c *compositor.Compositor, cx *compositor.Context) {
	events.Job.Run(j.Label)
	c.Run(j.Callback, cx)
}

// Msg delivers a job to the Bubble Tea update loop.
type Msg struct {
	Job Job
}

// Queue is a bounded FIFO of jobs. Sends block while it is full; once closed
// every send is silently dropped.
type Queue struct {
	ch        chan Job
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue returns an open queue holding up to capacity pending jobs.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{ch: make(chan Job, capacity), done: make(chan struct{})}
}

// Dispatch enqueues j. It blocks while the queue is full and gives up
// without error when ctx ends or the queue is closed.
func (q *Queue) Dispatch(ctx context.Context, j Job) {
	if j.Callback == nil {
		return
	}
	select {
	case <-q.done:
		events.Job.Drop(j.Label, "closed")
		return
	default:
	}
	select {
	case q.ch <- j:
		events.Job.Dispatch(j.Label)
	case <-q.done:
		events.Job.Drop(j.Label, "closed")
	case <-ctx.Done():
		events.Job.Drop(j.Label, "cancelled")
	}
}

// Close stops accepting jobs. Jobs already queued are abandoned.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

// Wait returns a command that blocks for the next job. The update loop keeps
// exactly one Wait outstanding, re-issuing it after each Msg, which keeps
// jobs in submission order. The command yields nil once the queue closes.
func (q *Queue) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case j := <-q.ch:
			return Msg{Job: j}
		case <-q.done:
			return nil
		}
	}
}

// TryNext returns the next queued job without blocking.
func (q *Queue) TryNext() (Job, bool) {
	select {
	case j := <-q.ch:
		return j, true
	default:
		return Job{}, false
	}
}

// Len reports how many jobs are waiting.
func (q *Queue) Len() int {
	return len(q.ch)
}

var (
	initOnce     sync.Once
	defaultQueue *Queue
)

// Init creates the process-wide queue on first use. Later calls return the
// same queue regardless of capacity.
func Init(capacity int) *Queue {
	initOnce.Do(func() {
		defaultQueue = NewQueue(capacity)
	})
	return defaultQueue
}

// Default returns the process-wide queue, creating it with Capacity if
// needed.
func Default() *Queue {
	return Init(Capacity)
}

// Dispatch enqueues j on the process-wide queue.
func Dispatch(ctx context.Context, j Job) {
	Default().Dispatch(ctx, j)
}
