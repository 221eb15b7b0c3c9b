package events

import (
	"fmt"

	"github.com/atomicstack/siyuan-tui/internal/logging"
)

type SearchTracer struct{}

type DocumentTracer struct{}

var (
	Search   = SearchTracer{}
	Document = DocumentTracer{}
)

func (SearchTracer) Debounce(query string, delayMS int64) {
	logging.Trace("search.debounce", map[string]interface{}{"query": query, "delay_ms": delayMS})
}

func (SearchTracer) Issue(requestID string, seq uint64, query string) {
	logging.Trace("search.issue", map[string]interface{}{"request": requestID, "seq": seq, "query": query})
}

func (SearchTracer) Result(requestID string, seq uint64, count int) {
	logging.Trace("search.result", map[string]interface{}{"request": requestID, "seq": seq, "count": count})
}

func (SearchTracer) Stale(seq, latest uint64) {
	logging.Trace("search.stale", map[string]interface{}{"seq": seq, "latest": latest})
}

func (SearchTracer) Failure(requestID string, err error) {
	if err == nil {
		return
	}
	logging.ErrorIn("search", fmt.Errorf("request %s: %w", requestID, err))
	logging.Trace("search.failure", map[string]interface{}{"request": requestID, "error": err.Error()})
}

func (SearchTracer) Yank(id string) {
	logging.Trace("search.yank", map[string]interface{}{"id": id})
}

func (DocumentTracer) Open(id, title string) {
	logging.Trace("document.open", map[string]interface{}{"id": id, "title": title})
}

func (DocumentTracer) Load(requestID, id string) {
	logging.Trace("document.load", map[string]interface{}{"request": requestID, "id": id})
}

func (DocumentTracer) Reload(id, reason string) {
	logging.Trace("document.reload", map[string]interface{}{"id": id, "reason": reason})
}

func (DocumentTracer) Error(id string, err error) {
	if err == nil {
		return
	}
	logging.ErrorIn("document", fmt.Errorf("%s: %w", id, err))
	logging.Trace("document.error", map[string]interface{}{"id": id, "error": err.Error()})
}
