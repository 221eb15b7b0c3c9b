// Package ui contains the Bubble Tea program that drives the viewer. Model is
// the single-threaded event loop: it owns the compositor and is the only code
// that renders or changes the layer stack.
//
// Message flow:
//   - Key presses go to the compositor, which offers them to the layers from
//     the top down. A layer that wants to change the stack returns a callback
//     that the compositor runs once dispatch is over.
//   - Background work (searches, document loads, clipboard writes, index
//     reloads) never touches the compositor. It finishes by queueing a job;
//     Model waits on the queue with a tea.Cmd, runs each job with exclusive
//     access to the compositor and then waits again, so jobs apply in the
//     order they were queued.
//   - Window size messages resize the compositor before any layer sees them.
//
// Layers:
//   - internal/ui/editor is the base layer: bufferline, document view, status
//     line and the modal keymap.
//   - internal/ui/search is the search modal pushed on top of it.
//
// Any layer may set Context.Quit; Model closes the job queue and returns
// tea.Quit after the current message.
package ui
