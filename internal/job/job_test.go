package job

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
)

type baseLayer struct{ log []string }

func (b *baseLayer) Render(*compositor.Surface, compositor.Rect, *compositor.Context) {}
func (b *baseLayer) HandleEvent(tea.Msg, *compositor.Context) compositor.EventResult {
	return compositor.Ignored(nil)
}

func appendJob(label string) Job {
	return New(label, func(c *compositor.Compositor, _ *compositor.Context) {
		base, _ := compositor.Find[*baseLayer](c)
		base.log = append(base.log, label)
	})
}

func TestJobsRunInSubmissionOrder(t *testing.T) {
	q := NewQueue(8)
	var wg sync.WaitGroup
	first := make(chan struct{})
	wg.Add(2)
	go func() {
		defer wg.Done()
		q.Dispatch(context.Background(), appendJob("J1"))
		close(first)
	}()
	go func() {
		defer wg.Done()
		<-first
		q.Dispatch(context.Background(), appendJob("J2"))
	}()
	wg.Wait()

	base := &baseLayer{}
	c := compositor.New(compositor.Rect{}, base)
	cx := compositor.NewContext()
	for i := 0; i < 2; i++ {
		msg, ok := q.Wait()().(Msg)
		if !ok {
			t.Fatal("expected a job message")
		}
		msg.Job.Run(c, cx)
	}
	if len(base.log) != 2 || base.log[0] != "J1" || base.log[1] != "J2" {
		t.Fatalf("unexpected order %v", base.log)
	}
}

func TestDispatchAfterCloseIsNoop(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	q.Close()

	done := make(chan struct{})
	go func() {
		q.Dispatch(context.Background(), appendJob("late"))
		q.Dispatch(context.Background(), appendJob("later"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on a closed queue")
	}
	if q.Wait()() != nil {
		t.Fatal("expected wait on a closed queue to yield nil")
	}
}

func TestDispatchBlocksWhenFullUntilContextEnds(t *testing.T) {
	q := NewQueue(1)
	q.Dispatch(context.Background(), appendJob("fill"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	start := time.Now()
	q.Dispatch(ctx, appendJob("overflow"))
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("expected dispatch to apply backpressure")
	}
	if q.Len() != 1 {
		t.Fatalf("expected only the first job queued, got %d", q.Len())
	}
}

func TestNilCallbackIsIgnored(t *testing.T) {
	q := NewQueue(1)
	q.Dispatch(context.Background(), Job{Label: "empty"})
	if _, ok := q.TryNext(); ok {
		t.Fatal("expected nil callback job to be dropped")
	}
}

func TestInitReturnsSingleQueue(t *testing.T) {
	if Init(4) != Default() {
		t.Fatal("expected Init and Default to share one queue")
	}
}
