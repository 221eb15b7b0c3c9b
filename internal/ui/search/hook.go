package search

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/debounce"
	"github.com/atomicstack/siyuan-tui/internal/logging/events"
	"github.com/atomicstack/siyuan-tui/internal/siyuan"
	"github.com/atomicstack/siyuan-tui/internal/ui/command"
)

// sequence numbers every query issued by any search box, so a result from
// a closed box can never match the counter of a newer one.
var sequence atomic.Uint64

func nextSeq() uint64 {
	return sequence.Add(1)
}

// queryHook debounces the box's input and issues the trailing query. It runs
// on its own goroutine and shares only the latest sequence number with the
// box.
type queryHook struct {
	state    debounce.Trailing[string]
	latest   *atomic.Uint64
	searcher siyuan.Searcher
	bus      *command.Bus
	now      func() time.Time
}

func (h *queryHook) HandleEvent(query string, pending time.Time) (time.Time, bool) {
	if strings.TrimSpace(query) == "" {
		h.state.Reset()
		return time.Time{}, false
	}
	next, ok := h.state.Observe(query, h.now(), pending)
	if ok && !next.Equal(pending) {
		events.Search.Debounce(query, next.Sub(h.now()).Milliseconds())
	}
	return next, ok
}

func (h *queryHook) FinishDebounce() {
	query, ok := h.state.Take()
	if !ok {
		return
	}
	seq := nextSeq()
	h.latest.Store(seq)
	h.issue(seq, query)
}

func (h *queryHook) issue(seq uint64, query string) {
	if h.bus == nil || h.searcher == nil {
		return
	}
	id := uuid.NewString()
	searcher := h.searcher
	h.bus.Spawn(command.Request{
		ID:    id,
		Label: "search.query",
		Work: func(ctx context.Context) (compositor.Callback, error) {
			events.Search.Issue(id, seq, query)
			results, err := searcher.Search(siyuan.WithRequestID(ctx, id), query)
			if err != nil {
				return nil, err
			}
			events.Search.Result(id, seq, len(results))
			return applyResults(seq, query, results), nil
		},
		OnError: func(err error) compositor.Callback {
			events.Search.Failure(id, err)
			return applyFailure(seq, query, err)
		},
	})
}

// applyResults is the job that merges a finished query into the open box.
func applyResults(seq uint64, query string, results []siyuan.Result) compositor.Callback {
	return func(c *compositor.Compositor, _ *compositor.Context) {
		if box, ok := compositor.Find[*Box](c); ok {
			box.apply(seq, query, results, nil)
		}
	}
}

func applyFailure(seq uint64, query string, err error) compositor.Callback {
	return func(c *compositor.Compositor, _ *compositor.Context) {
		if box, ok := compositor.Find[*Box](c); ok {
			box.apply(seq, query, nil, err)
		}
	}
}
