package events

import "github.com/atomicstack/siyuan-tui/internal/logging"

type JobTracer struct{}

var Job = JobTracer{}

func (JobTracer) Dispatch(label string) {
	logging.Trace("job.dispatch", map[string]interface{}{"label": label})
}

func (JobTracer) Drop(label, reason string) {
	logging.Trace("job.drop", map[string]interface{}{"label": label, "reason": reason})
}

func (JobTracer) Run(label string) {
	logging.Trace("job.run", map[string]interface{}{"label": label})
}
