package ui

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/atomicstack/tabnav/internal/fetch"
	"github.com/atomicstack/tabnav/internal/logging"
	"github.com/atomicstack/tabnav/internal/nav"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tabnav-ui")
	if err == nil {
		logging.Configure(filepath.Join(dir, "tabnav.log"))
	}
	code := m.Run()
	if dir != "" {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}

type submitCall struct {
	action string
	method string
	fields url.Values
}

type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	submits []submitCall
	fetches int
}

func (f *fakeFetcher) Fetch(_ context.Context, locator string) (*fetch.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.respond("GET", locator)
}

func (f *fakeFetcher) Submit(_ context.Context, action, method string, fields url.Values) (*fetch.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, submitCall{action: action, method: method, fields: fields})
	return f.respond(method, action)
}

func (f *fakeFetcher) respond(method, locator string) (*fetch.Response, error) {
	body, ok := f.pages[locator]
	if !ok {
		return nil, &fetch.TransportError{Method: method, Locator: locator, Status: 404, Reason: "Not Found"}
	}
	return &fetch.Response{Locator: locator, Method: method, Status: 200, ContentType: "text/html", Body: []byte(body)}, nil
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]string{
		"https://app.test/home": `<title>Home</title><p>Welcome home</p>
<a class="nav-go" href="page2">Page two</a>
<a class="nav-go" href="missing">Broken</a>
<a class="nav-go" href="form">Form</a>`,
		"https://app.test/page2": `<title>Page 2</title><p>Second page body</p><button class="nav-back">Back</button>`,
		"https://app.test/form": `<title>Form</title>
<form class="nav-submit" action="done" method="post">
<input name="name" value="">
<input type="hidden" name="token" value="t1">
<button>Save</button>
</form>`,
		"https://app.test/done":  `<title>Done</title><p>Saved</p>`,
		"https://beta.test/":     `<title>Beta</title><p>Beta landing</p>`,
	}}
}

func newTestHarness(t *testing.T, f *fakeFetcher) *Harness {
	t.Helper()
	tabs := []*nav.Tab{
		nav.NewTab("alpha", "https://app.test/home", f, nav.WithTitle("Alpha")),
		nav.NewTab("beta", "https://beta.test/", f, nav.WithTitle("Beta")),
	}
	m, err := New(tabs, "", Options{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewHarness(m)
	h.Start()
	return h
}

func TestViewShowsLoadingBeforeInit(t *testing.T) {
	f := newFakeFetcher()
	m, err := New([]*nav.Tab{nav.NewTab("alpha", "https://app.test/home", f)}, "", Options{Width: 60, Height: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view := m.View(); !strings.Contains(view, "Loading…") {
		t.Fatalf("expected loading placeholder, got:\n%s", view)
	}
}

func TestInitRendersInitialTab(t *testing.T) {
	h := newTestHarness(t, newFakeFetcher())
	view := h.View()
	for _, want := range []string{"1 Alpha", "2 Beta", "Welcome home", "Page two", "Broken", "https://app.test/home"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view, got:\n%s", want, view)
		}
	}
	if strings.Contains(view, "←") {
		t.Fatalf("expected no back marker at root, got:\n%s", view)
	}
}

func TestEnterAndEscapeNavigate(t *testing.T) {
	f := newFakeFetcher()
	h := newTestHarness(t, f)

	h.Key("enter")
	view := h.View()
	if !strings.Contains(view, "← Home → Page 2") {
		t.Fatalf("expected breadcrumb for page 2, got:\n%s", view)
	}
	if !strings.Contains(view, "Second page body") {
		t.Fatalf("expected page 2 body, got:\n%s", view)
	}

	fetches := f.fetches
	h.Key("esc")
	view = h.View()
	if !strings.Contains(view, "Welcome home") || strings.Contains(view, "Page 2") {
		t.Fatalf("expected to be back home, got:\n%s", view)
	}
	if f.fetches != fetches {
		t.Fatalf("expected home served from cache, got %d new fetches", f.fetches-fetches)
	}

	h.Key("esc")
	if tab := h.Model().TabBar().Selected(); tab.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", tab.Depth())
	}
	if view := h.View(); !strings.Contains(view, "Already at the first screen") {
		t.Fatalf("expected root info message, got:\n%s", view)
	}
}

func TestTabKeysSwitchTabs(t *testing.T) {
	h := newTestHarness(t, newFakeFetcher())
	h.Key("enter")

	h.Key("tab")
	if got := h.Model().TabBar().SelectedID(); got != "beta" {
		t.Fatalf("expected beta selected, got %q", got)
	}
	if view := h.View(); !strings.Contains(view, "Beta landing") {
		t.Fatalf("expected beta content, got:\n%s", view)
	}

	h.Key("alt+1")
	if got := h.Model().TabBar().SelectedID(); got != "alpha" {
		t.Fatalf("expected alpha selected, got %q", got)
	}
	if view := h.View(); !strings.Contains(view, "Second page body") {
		t.Fatalf("expected alpha to keep its page 2, got:\n%s", view)
	}

	h.Key("shift+tab")
	if got := h.Model().TabBar().SelectedID(); got != "beta" {
		t.Fatalf("expected shift+tab to wrap to beta, got %q", got)
	}
}

func TestFilterSelectsRegionAndErrorsSurface(t *testing.T) {
	h := newTestHarness(t, newFakeFetcher())
	h.Key("brok")
	items := h.Model().list.Items
	if len(items) != 1 || items[0].Label != "Broken" {
		t.Fatalf("expected filter to leave only Broken, got %+v", items)
	}
	if view := h.View(); !strings.Contains(view, "brok") {
		t.Fatalf("expected filter text in prompt, got:\n%s", view)
	}

	h.Key("enter")
	view := h.View()
	if !strings.Contains(view, "Error: https://app.test/missing: 404 Not Found") {
		t.Fatalf("expected 404 in status line, got:\n%s", view)
	}

	h.Key("esc")
	view = h.View()
	if strings.Contains(view, "Error:") || !strings.Contains(view, "Welcome home") {
		t.Fatalf("expected recovery to home, got:\n%s", view)
	}
}

func TestSubmitFormSendsEditedFields(t *testing.T) {
	f := newFakeFetcher()
	h := newTestHarness(t, f)
	h.Key("end")
	h.Key("enter")
	if view := h.View(); !strings.Contains(view, "Save") {
		t.Fatalf("expected form page, got:\n%s", view)
	}

	h.Key("enter")
	if h.Model().mode != ModeForm {
		t.Fatalf("expected form mode")
	}
	if view := h.View(); !strings.Contains(view, "Save (POST done)") {
		t.Fatalf("expected form title, got:\n%s", view)
	}
	h.Key("ada")
	h.Key("enter")

	if len(f.submits) != 1 {
		t.Fatalf("expected one submission, got %d", len(f.submits))
	}
	call := f.submits[0]
	if call.action != "https://app.test/done" || call.method != "POST" {
		t.Fatalf("expected POST to done, got %+v", call)
	}
	if call.fields.Get("name") != "ada" || call.fields.Get("token") != "t1" {
		t.Fatalf("expected name=ada token=t1, got %v", call.fields)
	}
	view := h.View()
	if !strings.Contains(view, "Home → Form → Done") || !strings.Contains(view, "Saved") {
		t.Fatalf("expected done screen, got:\n%s", view)
	}
}

func TestFormEscapeCancels(t *testing.T) {
	f := newFakeFetcher()
	h := newTestHarness(t, f)
	h.Key("end")
	h.Key("enter")
	h.Key("enter")
	h.Key("esc")
	if h.Model().mode != ModeRegions {
		t.Fatalf("expected form closed")
	}
	if len(f.submits) != 0 {
		t.Fatalf("expected no submission, got %d", len(f.submits))
	}
	if tab := h.Model().TabBar().Selected(); tab.Depth() != 2 {
		t.Fatalf("expected to stay on the form screen, got depth %d", tab.Depth())
	}
}

func TestCtrlCQuits(t *testing.T) {
	h := newTestHarness(t, newFakeFetcher())
	h.Key("ctrl+c")
	if !h.Quit() {
		t.Fatalf("expected quit")
	}
}

func TestAltDigit(t *testing.T) {
	cases := map[string]int{"alt+1": 1, "alt+9": 9}
	for key, want := range cases {
		if got, ok := altDigit(key); !ok || got != want {
			t.Fatalf("expected %s to parse as %d, got %d (%v)", key, want, got, ok)
		}
	}
	for _, key := range []string{"alt+0", "alt+x", "1", "alt+12"} {
		if _, ok := altDigit(key); ok {
			t.Fatalf("expected %s rejected", key)
		}
	}
}

func newBackControlHarness(t *testing.T) *Harness {
	t.Helper()
	f := &fakeFetcher{pages: map[string]string{
		"https://app.test/root":  `<title>Root</title><a class="nav-go" href="inner">Inner</a><button class="nav-back">Go Back Ctl</button>`,
		"https://app.test/inner": `<title>Inner</title><button class="nav-back">Go Back Ctl</button>`,
	}}
	m, err := New([]*nav.Tab{nav.NewTab("alpha", "https://app.test/root", f, nav.WithTitle("Alpha"))}, "", Options{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewHarness(m)
	h.Start()
	return h
}

func TestBackControlsMarkedAtRoot(t *testing.T) {
	h := newBackControlHarness(t)
	view := h.View()
	if !strings.Contains(view, "Go Back Ctl") || !strings.Contains(view, "back (at root)") {
		t.Fatalf("expected back control marked at root, got:\n%s", view)
	}
	if items := h.Model().list.Items; len(items) != 2 {
		t.Fatalf("expected back control to stay in the list, got %+v", items)
	}

	h.Key("down")
	h.Key("enter")
	tab := h.Model().TabBar().Selected()
	if tab.Depth() != 1 {
		t.Fatalf("expected to stay at root, got depth %d", tab.Depth())
	}
	if cur := tab.Current(); !cur.Bound() || cur.BackVisible() {
		t.Fatalf("expected root rebound without back visibility, bound=%v backVisible=%v", cur.Bound(), cur.BackVisible())
	}
	if view := h.View(); !strings.Contains(view, "back (at root)") {
		t.Fatalf("expected back control still marked, got:\n%s", view)
	}
}

func TestBackControlsActiveBelowRoot(t *testing.T) {
	h := newBackControlHarness(t)
	h.Key("enter")
	view := h.View()
	if !strings.Contains(view, "Root → Inner") || !strings.Contains(view, "Go Back Ctl") {
		t.Fatalf("expected inner screen with back control, got:\n%s", view)
	}
	if strings.Contains(view, "(at root)") {
		t.Fatalf("expected back control unmarked below root, got:\n%s", view)
	}
	if !h.Model().TabBar().Selected().Current().BackVisible() {
		t.Fatalf("expected inner screen bound with back visibility")
	}

	h.Key("enter")
	if view := h.View(); !strings.Contains(view, "back (at root)") {
		t.Fatalf("expected root marking after going back, got:\n%s", view)
	}
}

func TestFailedSubmitLeavesStaleScreen(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://app.test/root": `<title>Root</title><form class="nav-submit" action="nowhere" method="post"><input type="hidden" name="k" value="v"><button>Send</button></form>`,
	}}
	m, err := New([]*nav.Tab{nav.NewTab("alpha", "https://app.test/root", f)}, "", Options{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewHarness(m)
	h.Start()

	h.Key("enter")
	if len(f.submits) != 1 {
		t.Fatalf("expected one submission, got %d", len(f.submits))
	}
	view := h.View()
	if !strings.Contains(view, "Error: https://app.test/nowhere: 404 Not Found") {
		t.Fatalf("expected submit error, got:\n%s", view)
	}
	if tab := h.Model().TabBar().Selected(); tab.Depth() != 1 || !tab.Current().Stale() {
		t.Fatalf("expected rollback to a stale root, got depth %d", tab.Depth())
	}

	h.Key("x")
	if view := h.View(); !strings.Contains(view, "depth 1 · stale") {
		t.Fatalf("expected stale marker in status line, got:\n%s", view)
	}
}
