package events

import (
	"fmt"

	"github.com/atomicstack/siyuan-tui/internal/logging"
)

type CompositorTracer struct{}

var Compositor = CompositorTracer{}

func (CompositorTracer) Push(layer string, depth int) {
	logging.Trace("compositor.push", map[string]interface{}{"layer": layer, "depth": depth})
}

func (CompositorTracer) Pop(layer string, depth int) {
	logging.Trace("compositor.pop", map[string]interface{}{"layer": layer, "depth": depth})
}

func (CompositorTracer) PopRefused(layer string) {
	logging.Trace("compositor.pop.refused", map[string]interface{}{"layer": layer})
}

func (CompositorTracer) FindMiss(want string) {
	logging.Trace("compositor.find.miss", map[string]interface{}{"type": want})
}

// Panic records a recovered layer panic in both the error and trace logs.
func (CompositorTracer) Panic(layer, phase string, recovered interface{}) {
	logging.ErrorIn("compositor", fmt.Errorf("layer %s panicked during %s: %v", layer, phase, recovered))
	logging.Trace("compositor.panic", map[string]interface{}{
		"layer": layer,
		"phase": phase,
		"value": fmt.Sprint(recovered),
	})
}
