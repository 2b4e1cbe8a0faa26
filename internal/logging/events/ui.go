package events

import "github.com/atomicstack/tabnav/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type FormTracer struct{}

type formReason string

const (
	ReasonEscape formReason = "escape"
)

var (
	UI     = UITracer{}
	Filter = FilterTracer{}
	Form   = FormTracer{}
)

func (UITracer) RegionEnter(tabID string, index int, kind, label string) {
	logging.Trace("ui.region.enter", map[string]interface{}{
		"tab":   tabID,
		"index": index,
		"kind":  kind,
		"label": label,
	})
}

func (UITracer) RegionCursor(tabID string, cursor int) {
	logging.Trace("ui.region.cursor", map[string]interface{}{"tab": tabID, "cursor": cursor})
}

func (UITracer) ViewportWrite(tabID, locator string, bytes int, generation uint64) {
	logging.Trace("ui.viewport.write", map[string]interface{}{
		"tab":        tabID,
		"locator":    locator,
		"bytes":      bytes,
		"generation": generation,
	})
}

func (UITracer) ViewportVisibility(visible bool) {
	logging.Trace("ui.viewport.visibility", map[string]interface{}{"visible": visible})
}

func (FilterTracer) Cleared(tabID string) {
	logging.Trace("filter.clear", map[string]interface{}{"tab": tabID})
}

func (FilterTracer) WordBackspace(tabID, filter string) {
	logging.Trace("filter.word-backspace", map[string]interface{}{"tab": tabID, "filter": filter})
}

func (FilterTracer) Cursor(tabID string, pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"tab": tabID, "cursor": pos})
}

func (FilterTracer) Append(tabID, filter string) {
	logging.Trace("filter.append", map[string]interface{}{"tab": tabID, "filter": filter})
}

func (FilterTracer) Backspace(tabID, filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"tab": tabID, "filter": filter})
}

func (FormTracer) Open(action string, fields int) {
	logging.Trace("form.open", map[string]interface{}{"action": action, "fields": fields})
}

func (FormTracer) Submit(action, method string) {
	logging.Trace("form.submit", map[string]interface{}{"action": action, "method": method})
}

func (FormTracer) Cancel(action string, reason formReason) {
	logging.Trace("form.cancel", map[string]interface{}{"action": action, "reason": string(reason)})
}
