package events

import "github.com/atomicstack/tabnav/internal/logging"

type FetchTracer struct{}

var Fetch = FetchTracer{}

func (FetchTracer) Request(method, locator string) {
	logging.Trace("fetch.request", map[string]interface{}{"method": method, "locator": locator})
}

func (FetchTracer) Response(method, locator string, status, bytes int, durationMS int64) {
	logging.Trace("fetch.response", map[string]interface{}{
		"method":   method,
		"locator":  locator,
		"status":   status,
		"bytes":    bytes,
		"duration": durationMS,
	})
}

func (FetchTracer) Shared(locator string) {
	logging.Trace("fetch.shared", map[string]interface{}{"locator": locator})
}

func (FetchTracer) Error(method, locator string, err error) {
	if err == nil {
		return
	}
	logging.Trace("fetch.error", map[string]interface{}{"method": method, "locator": locator, "error": err.Error()})
}
