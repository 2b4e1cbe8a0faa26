package nav

import (
	"errors"
	"reflect"
	"testing"
)

func newTestBar(t *testing.T, f Fetcher, vp *recordingViewport, obs *recordingObserver) *TabBar {
	t.Helper()
	tabs := []*Tab{
		NewTab("a", homeURL, f, WithTitle("Alpha")),
		NewTab("b", page3URL, f, WithTitle("Beta")),
	}
	bar, err := NewTabBar(tabs, "a", vp, WithObserver(obs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return bar
}

func TestNewTabBarValidates(t *testing.T) {
	f := newFakeFetcher(testPages())
	vp := &recordingViewport{}
	if _, err := NewTabBar(nil, "", vp); !errors.Is(err, ErrNoTabs) {
		t.Fatalf("expected ErrNoTabs, got %v", err)
	}
	dup := []*Tab{NewTab("a", homeURL, f), NewTab("a", page2URL, f)}
	if _, err := NewTabBar(dup, "", vp); !errors.Is(err, ErrDuplicateTab) {
		t.Fatalf("expected ErrDuplicateTab, got %v", err)
	}
	if _, err := NewTabBar([]*Tab{NewTab("", homeURL, f)}, "", vp); err == nil {
		t.Fatalf("expected error for empty tab id")
	}
	if _, err := NewTabBar([]*Tab{NewTab("a", homeURL, f)}, "zzz", vp); !errors.Is(err, ErrUnknownTab) {
		t.Fatalf("expected ErrUnknownTab, got %v", err)
	}
	if _, err := NewTabBar([]*Tab{NewTab("a", homeURL, f)}, "", nil); err == nil {
		t.Fatalf("expected error for nil viewport")
	}
}

func TestTabBarInitSelectsInitialTab(t *testing.T) {
	f := newFakeFetcher(testPages())
	vp := &recordingViewport{}
	obs := &recordingObserver{}
	bar := newTestBar(t, f, vp, obs)
	if bar.Selected() != nil {
		t.Fatalf("expected no selection before Init")
	}
	drive(bar, bar.Init())

	if bar.SelectedID() != "a" || !bar.IsSelected("a") || bar.IsSelected("b") {
		t.Fatalf("expected tab a selected, got %q", bar.SelectedID())
	}
	want := []string{"hide", "write:a:" + homeURL, "show"}
	if !reflect.DeepEqual(vp.calls, want) {
		t.Fatalf("expected viewport calls %v, got %v", want, vp.calls)
	}
	if !reflect.DeepEqual(obs.updates, []string{"a:" + homeURL}) {
		t.Fatalf("expected one view update, got %v", obs.updates)
	}
}

func TestTabBarSwitchTearsDownBeforeWrite(t *testing.T) {
	f := newFakeFetcher(testPages())
	vp := &recordingViewport{}
	obs := &recordingObserver{}
	bar := newTestBar(t, f, vp, obs)
	drive(bar, bar.Init())
	a, _ := bar.Tab("a")
	if !a.Current().Bound() {
		t.Fatalf("expected tab a bound after init")
	}

	vp.onWrite = func(tabID string, s *Screen) {
		if tabID == "b" && a.Current().Bound() {
			t.Fatalf("expected tab a released before tab b content was written")
		}
	}
	vp.calls = nil
	drive(bar, bar.Click("b"))

	want := []string{"hide", "write:b:" + page3URL, "show"}
	if !reflect.DeepEqual(vp.calls, want) {
		t.Fatalf("expected viewport calls %v, got %v", want, vp.calls)
	}
	if bar.SelectedID() != "b" {
		t.Fatalf("expected tab b selected, got %q", bar.SelectedID())
	}

	// tab a is untouched and comes back from cache
	drive(bar, bar.Click("a"))
	if f.fetchCount(homeURL) != 1 {
		t.Fatalf("expected tab a served from cache, got %d fetches", f.fetchCount(homeURL))
	}
	if !a.Current().Bound() {
		t.Fatalf("expected tab a rebound after reselection")
	}
}

func TestTabBarUnknownTabReportsError(t *testing.T) {
	f := newFakeFetcher(testPages())
	vp := &recordingViewport{}
	obs := &recordingObserver{}
	bar := newTestBar(t, f, vp, obs)
	drive(bar, bar.Init())
	vp.calls = nil

	if cmd := bar.Click("nope"); cmd != nil {
		t.Fatalf("expected no command for an unknown tab")
	}
	if len(obs.errs) != 1 || !errors.Is(obs.errs[0], ErrUnknownTab) {
		t.Fatalf("expected ErrUnknownTab reported, got %v", obs.errs)
	}
	if bar.SelectedID() != "a" || len(vp.calls) != 0 {
		t.Fatalf("expected selection and viewport untouched, got %q %v", bar.SelectedID(), vp.calls)
	}
}

func TestTabBarDropsCompletionForDeselectedTab(t *testing.T) {
	f := newFakeFetcher(testPages())
	vp := &recordingViewport{}
	obs := &recordingObserver{}
	bar := newTestBar(t, f, vp, obs)
	drive(bar, bar.Init())

	pending := bar.Trigger(regionIndex(t, bar.Selected(), "Page two"), nil)
	drive(bar, bar.Click("b"))
	vp.calls = nil
	drive(bar, pending)

	if len(vp.calls) != 0 {
		t.Fatalf("expected late completion ignored, got %v", vp.calls)
	}
	a, _ := bar.Tab("a")
	if a.Current().Cached() {
		t.Fatalf("expected late result not cached")
	}
}

func TestTabBarFailureWritesPlaceholderForNewTab(t *testing.T) {
	f := newFakeFetcher(testPages())
	vp := &recordingViewport{}
	obs := &recordingObserver{}
	tabs := []*Tab{
		NewTab("a", homeURL, f),
		NewTab("b", "https://app.test/missing", f),
	}
	bar, err := NewTabBar(tabs, "", vp, WithObserver(obs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	drive(bar, bar.Init())
	vp.calls = nil
	drive(bar, bar.Click("b"))

	want := []string{"hide", "write:b:https://app.test/missing", "show"}
	if !reflect.DeepEqual(vp.calls, want) {
		t.Fatalf("expected viewport calls %v, got %v", want, vp.calls)
	}
	if len(obs.errs) != 1 || obs.errLocs[0] != "https://app.test/missing" {
		t.Fatalf("expected failure reported with locator, got %v %v", obs.errs, obs.errLocs)
	}
}

func TestTabBarNavigateAndCycle(t *testing.T) {
	f := newFakeFetcher(testPages())
	vp := &recordingViewport{}
	obs := &recordingObserver{}
	bar := newTestBar(t, f, vp, obs)
	drive(bar, bar.Init())

	drive(bar, bar.Navigate(Go("page2")))
	if got := bar.Selected().Current().Locator(); got != page2URL {
		t.Fatalf("expected page2 current, got %s", got)
	}
	drive(bar, bar.Navigate(Back()))
	if bar.Selected().Depth() != 1 {
		t.Fatalf("expected depth 1 after back, got %d", bar.Selected().Depth())
	}

	drive(bar, bar.Next())
	if bar.SelectedID() != "b" {
		t.Fatalf("expected next to select b, got %q", bar.SelectedID())
	}
	drive(bar, bar.Next())
	if bar.SelectedID() != "a" {
		t.Fatalf("expected next to wrap to a, got %q", bar.SelectedID())
	}
	drive(bar, bar.Prev())
	if bar.SelectedID() != "b" {
		t.Fatalf("expected prev to wrap to b, got %q", bar.SelectedID())
	}
	drive(bar, bar.ClickIndex(0))
	if bar.SelectedID() != "a" {
		t.Fatalf("expected index 0 to select a, got %q", bar.SelectedID())
	}
	if cmd := bar.ClickIndex(9); cmd != nil {
		t.Fatalf("expected out of range index ignored")
	}
}
