package ui

import (
	"reflect"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/siyuan-tui/internal/job"
)

// Harness drives the UI model programmatically for integration tests. Jobs
// are run synchronously from the queue instead of through Bubble Tea.
type Harness struct {
	model *Model
	quit  bool
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned
// commands that do not block on the job queue.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if isQuit(cmd) {
		h.quit = true
	}
}

// Drain runs every job currently queued, in order. It returns the number of
// jobs run.
func (h *Harness) Drain() int {
	if h.model == nil {
		return 0
	}
	n := 0
	for {
		j, ok := h.model.queue.TryNext()
		if !ok {
			return n
		}
		h.Send(job.Msg{Job: j})
		n++
	}
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}

// isQuit reports whether cmd is tea.Quit. Wait commands block on the job
// queue, so only the quit command is ever invoked here.
func isQuit(cmd tea.Cmd) bool {
	return reflect.ValueOf(cmd).Pointer() == reflect.ValueOf(tea.Quit).Pointer()
}
