package backend

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/siyuan-tui/internal/debounce"
)

// Kind represents the type of notification emitted by the watcher.
type Kind int

const (
	// KindIndexChanged fires once a burst of writes to the index settles.
	KindIndexChanged Kind = iota
	// KindWatchError carries an error reported by the file watcher.
	KindWatchError
)

// Event conveys a settled change or an error from the watcher.
type Event struct {
	Kind Kind
	Path string
	Err  error
}

// Watcher observes the local SiYuan index and publishes one event per burst
// of writes.
type Watcher struct {
	path  string
	delay time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	fs     *fsnotify.Watcher
	events chan Event
	hook   *settleHook
	wg     sync.WaitGroup
	done   chan struct{}

	// mu guards sends on events against the close once both goroutines exit.
	mu     sync.Mutex
	closed bool
}

// NewWatcher watches the directory holding path and reports changes to path
// (or its SQLite journal files) after delay of quiet.
func NewWatcher(path string, delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:   filepath.Clean(path),
		delay:  delay,
		ctx:    ctx,
		cancel: cancel,
		fs:     fsw,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	w.hook = &settleHook{watcher: w, trailing: debounce.Trailing[uint64]{Delay: delay}}
	pending := make(chan uint64, 16)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		debounce.Run[uint64](ctx, w.hook, pending)
	}()
	go w.forward(pending)

	go func() {
		w.wg.Wait()
		w.mu.Lock()
		w.closed = true
		close(w.events)
		w.mu.Unlock()
		close(w.done)
	}()
	return w, nil
}

// Events returns a channel of watcher events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher and releases the underlying file watch.
func (w *Watcher) Stop() {
	w.cancel()
	w.fs.Close()
}

// Wait blocks until the forwarding and settling goroutines have exited and
// the events channel is closed.
func (w *Watcher) Wait() {
	<-w.done
}

func (w *Watcher) forward(pending chan uint64) {
	defer w.wg.Done()
	var seq uint64
	for {
		select {
		case <-w.ctx.Done():
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(evt) {
				continue
			}
			seq++
			debounce.Send(pending, seq)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.emit(Event{Kind: KindWatchError, Path: w.path, Err: err})
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(evt.Name)
	return name == w.path || name == w.path+"-wal" || name == w.path+"-journal"
}

// emit drops evt once the watcher is stopping. A settle deadline can still
// fire after Stop.
func (w *Watcher) emit(evt Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.ctx.Err() != nil {
		return
	}
	select {
	case <-w.ctx.Done():
	case w.events <- evt:
	}
}

// settleHook turns a burst of file notifications into a single event. Each
// notification carries a fresh sequence number so every write pushes the
// deadline back.
type settleHook struct {
	watcher  *Watcher
	mu       sync.Mutex
	trailing debounce.Trailing[uint64]
}

func (h *settleHook) HandleEvent(seq uint64, pending time.Time) (time.Time, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.trailing.Observe(seq, time.Now(), pending)
}

func (h *settleHook) FinishDebounce() {
	h.mu.Lock()
	_, ok := h.trailing.Take()
	h.mu.Unlock()
	if ok {
		h.watcher.emit(Event{Kind: KindIndexChanged, Path: h.watcher.path})
	}
}
