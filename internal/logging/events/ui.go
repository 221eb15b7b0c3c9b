package events

import "github.com/atomicstack/siyuan-tui/internal/logging"

type KeymapTracer struct{}

type CommandTracer struct{}

var (
	Keymap  = KeymapTracer{}
	Command = CommandTracer{}
)

func (KeymapTracer) Resolve(mode, key, outcome string) {
	logging.Trace("keymap.resolve", map[string]interface{}{"mode": mode, "key": key, "outcome": outcome})
}

func (KeymapTracer) Sticky(label string) {
	logging.Trace("keymap.sticky", map[string]interface{}{"label": label})
}

func (KeymapTracer) Execute(mode, command string) {
	logging.Trace("keymap.execute", map[string]interface{}{"mode": mode, "command": command})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label string, err error) {
	payload := map[string]interface{}{"id": id, "label": label}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.result", payload)
}
