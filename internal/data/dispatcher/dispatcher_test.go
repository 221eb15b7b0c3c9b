package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atomicstack/siyuan-tui/internal/backend"
	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/job"
	"github.com/atomicstack/siyuan-tui/internal/ui/editor"
)

func TestHandleMapsEvents(t *testing.T) {
	d := New(job.NewQueue(4))

	_, res, ok := d.Handle(backend.Event{Kind: backend.KindIndexChanged})
	require.True(t, ok)
	require.True(t, res.Reload)

	_, _, ok = d.Handle(backend.Event{Kind: backend.KindWatchError})
	require.False(t, ok, "watch error without an error is ignored")

	j, res, ok := d.Handle(backend.Event{Kind: backend.KindWatchError, Err: errors.New("too many files")})
	require.True(t, ok)
	require.True(t, res.Failed)

	ed := editor.New(editor.Options{})
	c := compositor.New(compositor.Rect{Width: 20, Height: 5}, ed)
	j.Run(c, compositor.NewContext())
	msg, isErr := ed.Status()
	require.True(t, isErr)
	require.Equal(t, "watch failed: too many files", msg)
}

func TestForwardDispatchesInOrder(t *testing.T) {
	q := job.NewQueue(4)
	d := New(q)
	events := make(chan backend.Event, 2)
	events <- backend.Event{Kind: backend.KindIndexChanged}
	events <- backend.Event{Kind: backend.KindWatchError, Err: errors.New("x")}
	close(events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Forward(context.Background(), events)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward did not return after events closed")
	}

	first, ok := q.TryNext()
	require.True(t, ok)
	require.Equal(t, "watch.reload", first.Label)
	second, ok := q.TryNext()
	require.True(t, ok)
	require.Equal(t, "watch.error", second.Label)
}
