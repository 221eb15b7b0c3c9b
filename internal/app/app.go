package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/siyuan-tui/internal/backend"
	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/data/dispatcher"
	"github.com/atomicstack/siyuan-tui/internal/job"
	"github.com/atomicstack/siyuan-tui/internal/layout"
	"github.com/atomicstack/siyuan-tui/internal/siyuan"
	"github.com/atomicstack/siyuan-tui/internal/theme"
	"github.com/atomicstack/siyuan-tui/internal/ui"
	"github.com/atomicstack/siyuan-tui/internal/ui/command"
	"github.com/atomicstack/siyuan-tui/internal/ui/editor"
	"github.com/atomicstack/siyuan-tui/internal/ui/search"
)

// watchDelay is how long the database must stay quiet before the open
// document is reloaded.
const watchDelay = 750 * time.Millisecond

// Config describes user-provided application options.
type Config struct {
	BaseURL           string
	Token             string
	DBPath            string
	Debounce          time.Duration
	SearchLimit       int
	RequestsPerSecond float64
	Width             int
	Height            int
	MarkdownStyle     string
}

// Run bootstraps and executes the Bubble Tea program. A panic escaping the
// program is returned as an error once Bubble Tea has restored the terminal.
func Run(cfg Config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	store, watcher, err := openBackend(cfg)
	if err != nil {
		return err
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue := job.Init(job.Capacity)
	bus := command.New(ctx, queue)

	if watcher != nil {
		defer watcher.Stop()
		go dispatcher.New(queue).Forward(ctx, watcher.Events())
	}

	model := Build(cfg, queue, bus, store)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Build assembles the compositor with the editor as its base layer. The
// search layer is built on demand by the editor's search command.
func Build(cfg Config, queue *job.Queue, bus *command.Bus, store siyuan.Backend) *ui.Model {
	ed := editor.New(editor.Options{
		Layout: layout.NewMarkdown(cfg.MarkdownStyle),
		Bus:    bus,
		Loader: store,
		NewSearch: func() compositor.Component {
			return search.New(search.Options{
				Searcher: store,
				Loader:   store,
				Bus:      bus,
				Delay:    cfg.Debounce,
			})
		},
	})
	return ui.NewModel(ui.Options{
		Base:   ed,
		Queue:  queue,
		Theme:  theme.Default(),
		Width:  cfg.Width,
		Height: cfg.Height,
	})
}

// openBackend picks the local database when a path is configured and the
// kernel API otherwise. Only the local database is watched.
func openBackend(cfg Config) (siyuan.Backend, *backend.Watcher, error) {
	if cfg.DBPath == "" {
		burst := int(cfg.RequestsPerSecond)
		throttle := backend.NewThrottle(cfg.RequestsPerSecond, burst)
		client := siyuan.NewClient(cfg.BaseURL, cfg.Token,
			siyuan.WithLimit(cfg.SearchLimit),
			siyuan.WithThrottle(throttle),
		)
		return client, nil, nil
	}
	store, err := siyuan.OpenStore(cfg.DBPath, cfg.SearchLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	watcher, err := backend.NewWatcher(store.Path(), watchDelay)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("watch database: %w", err)
	}
	return store, watcher, nil
}
