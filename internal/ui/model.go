package ui

import (
	"reflect"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/job"
	"github.com/atomicstack/siyuan-tui/internal/logging/events"
	"github.com/atomicstack/siyuan-tui/internal/theme"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	// Base is the bottom layer of the compositor.
	Base  compositor.Component
	Queue *job.Queue
	Theme *theme.Styles
	// Width and Height pin the screen size; zero follows the terminal.
	Width  int
	Height int
}

// Model implements the Bubble Tea model. It owns the compositor and is the
// only code that mutates it.
type Model struct {
	comp        *compositor.Compositor
	cx          *compositor.Context
	queue       *job.Queue
	keys        keyMap
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	focused     bool
	quitting    bool

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the event loop model around base.
func NewModel(opts Options) *Model {
	queue := opts.Queue
	if queue == nil {
		queue = job.NewQueue(job.Capacity)
	}
	cx := compositor.NewContext()
	if opts.Theme != nil {
		cx.Theme = opts.Theme
	}
	m := &Model{
		cx:      cx,
		queue:   queue,
		keys:    defaultKeyMap(),
		width:   defaultWidth,
		height:  defaultHeight,
		focused: true,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.comp = compositor.New(compositor.Rect{Width: m.width, Height: m.height}, opts.Base)
	m.registerHandlers()
	return m
}

// Compositor exposes the layer stack, mainly for tests.
func (m *Model) Compositor() *compositor.Compositor { return m.comp }

// Context exposes the shared compositor context.
func (m *Model) Context() *compositor.Context { return m.cx }

// Queue returns the job queue the model waits on.
func (m *Model) Queue() *job.Queue { return m.queue }

// Focused reports whether the terminal has focus.
func (m *Model) Focused() bool { return m.focused }

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return m.queue.Wait()
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	var cmd tea.Cmd
	if handler := m.handlerFor(msg); handler != nil {
		cmd = handler(msg)
	}
	return m, m.finishUpdate(cmd)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.FocusMsg{}):      m.handleFocusMsg,
		reflect.TypeOf(tea.BlurMsg{}):       m.handleBlurMsg,
		reflect.TypeOf(job.Msg{}):           m.handleJobMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg := msg.(tea.KeyMsg)
	if key.Matches(keyMsg, m.keys.Quit) {
		m.cx.Quit = true
		return nil
	}
	m.comp.HandleEvent(keyMsg, m.cx)
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	if !m.fixedWidth && size.Width > 0 {
		m.width = size.Width
	}
	if !m.fixedHeight && size.Height > 0 {
		m.height = size.Height
	}
	events.App.Resize(m.width, m.height)
	m.comp.HandleEvent(tea.WindowSizeMsg{Width: m.width, Height: m.height}, m.cx)
	return nil
}

func (m *Model) handleFocusMsg(msg tea.Msg) tea.Cmd {
	m.focused = true
	m.comp.HandleEvent(msg, m.cx)
	return nil
}

func (m *Model) handleBlurMsg(msg tea.Msg) tea.Cmd {
	m.focused = false
	m.comp.HandleEvent(msg, m.cx)
	return nil
}

// handleJobMsg runs one job and waits for the next, so jobs apply strictly
// in the order they were queued.
func (m *Model) handleJobMsg(msg tea.Msg) tea.Cmd {
	msg.(job.Msg).Job.Run(m.comp, m.cx)
	return m.queue.Wait()
}

func (m *Model) finishUpdate(cmd tea.Cmd) tea.Cmd {
	if !m.cx.Quit {
		return cmd
	}
	m.quitting = true
	m.queue.Close()
	events.App.Quit("requested")
	return tea.Quit
}
