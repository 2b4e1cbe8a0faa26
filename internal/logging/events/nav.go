package events

import "github.com/atomicstack/tabnav/internal/logging"

type NavTracer struct{}

type ScreenTracer struct{}

type TabBarTracer struct{}

var (
	Nav    = NavTracer{}
	Screen = ScreenTracer{}
	TabBar = TabBarTracer{}
)

func (NavTracer) Intent(tabID, kind, target string, depth int) {
	logging.Trace("nav.intent", map[string]interface{}{
		"tab":    tabID,
		"kind":   kind,
		"target": target,
		"depth":  depth,
	})
}

// BackAtRoot is emitted when back is requested on a single-screen stack.
func (NavTracer) BackAtRoot(tabID, locator string) {
	logging.Diagnostic("back ignored on tab %q: %s is the root screen", tabID, locator)
}

func (NavTracer) Busy(tabID, locator string) {
	logging.Trace("nav.busy", map[string]interface{}{"tab": tabID, "locator": locator})
}

func (NavTracer) Rollback(tabID, locator string, depth int) {
	logging.Trace("nav.rollback", map[string]interface{}{"tab": tabID, "locator": locator, "depth": depth})
}

func (NavTracer) EmptyStack(tabID string) {
	logging.Diagnostic("tab %q has an empty backstack", tabID)
}

func (ScreenTracer) Fetch(screenID, locator string, generation uint64) {
	logging.Trace("screen.fetch", map[string]interface{}{
		"screen":     screenID,
		"locator":    locator,
		"generation": generation,
	})
}

func (ScreenTracer) Submit(screenID, locator, method string, generation uint64) {
	logging.Trace("screen.submit", map[string]interface{}{
		"screen":     screenID,
		"locator":    locator,
		"method":     method,
		"generation": generation,
	})
}

func (ScreenTracer) CacheHit(screenID, locator string) {
	logging.Trace("screen.cache-hit", map[string]interface{}{"screen": screenID, "locator": locator})
}

func (ScreenTracer) StaleDrop(screenID, locator string, got, want uint64) {
	logging.Trace("screen.stale-drop", map[string]interface{}{
		"screen":  screenID,
		"locator": locator,
		"got":     got,
		"want":    want,
	})
}

func (ScreenTracer) Bind(screenID string, regions int, backVisible bool) {
	logging.Trace("screen.bind", map[string]interface{}{
		"screen":      screenID,
		"regions":     regions,
		"backVisible": backVisible,
	})
}

func (ScreenTracer) Unbind(screenID string) {
	logging.Trace("screen.unbind", map[string]interface{}{"screen": screenID})
}

func (ScreenTracer) Discard(screenID, locator string) {
	logging.Trace("screen.discard", map[string]interface{}{"screen": screenID, "locator": locator})
}

func (TabBarTracer) Select(from, to string) {
	logging.Trace("tabbar.select", map[string]interface{}{"from": from, "to": to})
}

func (TabBarTracer) Teardown(tabID string) {
	logging.Trace("tabbar.teardown", map[string]interface{}{"tab": tabID})
}

func (TabBarTracer) Unknown(tabID string) {
	logging.Diagnostic("unknown tab %q", tabID)
}

func (TabBarTracer) Dropped(tabID, locator string) {
	logging.Trace("tabbar.dropped", map[string]interface{}{"tab": tabID, "locator": locator})
}
