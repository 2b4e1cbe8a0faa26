package nav

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/tabnav/internal/logging/events"
	"github.com/atomicstack/tabnav/internal/markup"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	ErrUnknownTab   = errors.New("unknown tab")
	ErrDuplicateTab = errors.New("duplicate tab")
	ErrNoTabs       = errors.New("no tabs")
)

// Viewport is the shared display region the tab bar writes into.
type Viewport interface {
	Hide(transition time.Duration)
	Show(transition time.Duration)
	Write(tabID string, screen *Screen)
}

// Observer is notified after view changes and on failures.
type Observer interface {
	OnViewUpdated(tabID, locator string)
	OnError(tabID, locator string, err error)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are ignored.
type ObserverFuncs struct {
	ViewUpdated func(tabID, locator string)
	Error       func(tabID, locator string, err error)
}

func (o ObserverFuncs) OnViewUpdated(tabID, locator string) {
	if o.ViewUpdated != nil {
		o.ViewUpdated(tabID, locator)
	}
}

func (o ObserverFuncs) OnError(tabID, locator string, err error) {
	if o.Error != nil {
		o.Error(tabID, locator, err)
	}
}

// TabBar coordinates tab selection over a single viewport.
type TabBar struct {
	tabs       []*Tab
	index      map[string]*Tab
	initial    string
	selected   string
	viewport   Viewport
	observer   Observer
	transition time.Duration
}

// BarOption customises a TabBar.
type BarOption func(*TabBar)

func WithObserver(o Observer) BarOption {
	return func(b *TabBar) {
		if o != nil {
			b.observer = o
		}
	}
}

// WithTransition sets the advisory show/hide duration.
func WithTransition(d time.Duration) BarOption {
	return func(b *TabBar) { b.transition = d }
}

// NewTabBar validates tabs and prepares a bar whose Init selects initial.
// An empty initial selects the first tab.
func NewTabBar(tabs []*Tab, initial string, vp Viewport, opts ...BarOption) (*TabBar, error) {
	if len(tabs) == 0 {
		return nil, ErrNoTabs
	}
	if vp == nil {
		return nil, errors.New("tab bar requires a viewport")
	}
	b := &TabBar{
		index:    make(map[string]*Tab, len(tabs)),
		viewport: vp,
		observer: ObserverFuncs{},
	}
	for _, tab := range tabs {
		if tab == nil || strings.TrimSpace(tab.ID()) == "" {
			return nil, errors.New("tab id must not be empty")
		}
		if _, exists := b.index[tab.ID()]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTab, tab.ID())
		}
		b.index[tab.ID()] = tab
		b.tabs = append(b.tabs, tab)
	}
	if initial == "" {
		initial = tabs[0].ID()
	}
	if _, ok := b.index[initial]; !ok {
		return nil, fmt.Errorf("initial tab: %w: %q", ErrUnknownTab, initial)
	}
	b.initial = initial
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Init clicks the initial tab.
func (b *TabBar) Init() tea.Cmd {
	return b.Click(b.initial)
}

// Click selects tab id. The previous tab is torn down before the new one is
// activated; its content reaches the viewport once the load completes.
func (b *TabBar) Click(id string) tea.Cmd {
	tab, ok := b.index[id]
	if !ok {
		events.TabBar.Unknown(id)
		b.observer.OnError(id, "", fmt.Errorf("%w: %q", ErrUnknownTab, id))
		return nil
	}
	events.TabBar.Select(b.selected, id)
	b.viewport.Hide(b.transition)
	if prev, ok := b.index[b.selected]; ok {
		prev.Teardown()
		events.TabBar.Teardown(prev.ID())
	}
	b.selected = id
	return tab.Activate()
}

// Update applies completion messages. Results for tabs other than the
// selected one are dropped.
func (b *TabBar) Update(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(LoadedMsg)
	if !ok {
		return nil
	}
	tab, ok := b.index[loaded.TabID]
	if !ok {
		events.TabBar.Unknown(loaded.TabID)
		return nil
	}
	if loaded.TabID != b.selected {
		events.TabBar.Dropped(loaded.TabID, loaded.Locator)
		return nil
	}

	res := tab.Complete(loaded)
	switch res.Outcome {
	case OutcomeRendered:
		b.viewport.Write(tab.ID(), res.Screen)
		b.observer.OnViewUpdated(tab.ID(), res.Screen.Locator())
		b.viewport.Show(b.transition)
	case OutcomeFailed:
		// the failed screen may have no content; writing it keeps the
		// viewport in step with the tab's current screen
		b.viewport.Write(tab.ID(), res.Screen)
		b.observer.OnError(tab.ID(), res.Locator, res.Err)
		b.viewport.Show(b.transition)
	}
	return nil
}

// Trigger fires region index on the selected tab's current screen.
func (b *TabBar) Trigger(index int, fields []markup.Field) tea.Cmd {
	tab := b.Selected()
	if tab == nil {
		return nil
	}
	return tab.Fire(index, fields)
}

// Navigate dispatches an intent that is not tied to a region.
func (b *TabBar) Navigate(intent Intent) tea.Cmd {
	tab := b.Selected()
	if tab == nil {
		return nil
	}
	return tab.Dispatch(intent)
}

// Next selects the tab after the current one, wrapping around.
func (b *TabBar) Next() tea.Cmd {
	return b.cycle(1)
}

func (b *TabBar) Prev() tea.Cmd {
	return b.cycle(-1)
}

// ClickIndex selects the tab at position i.
func (b *TabBar) ClickIndex(i int) tea.Cmd {
	if i < 0 || i >= len(b.tabs) {
		return nil
	}
	return b.Click(b.tabs[i].ID())
}

func (b *TabBar) cycle(step int) tea.Cmd {
	pos := b.position()
	if pos < 0 {
		return b.Click(b.initial)
	}
	n := len(b.tabs)
	return b.Click(b.tabs[((pos+step)%n+n)%n].ID())
}

func (b *TabBar) position() int {
	for i, tab := range b.tabs {
		if tab.ID() == b.selected {
			return i
		}
	}
	return -1
}

// Selected returns the selected tab, nil before Init.
func (b *TabBar) Selected() *Tab {
	return b.index[b.selected]
}

func (b *TabBar) SelectedID() string { return b.selected }

// IsSelected reports whether id is the selected tab.
func (b *TabBar) IsSelected(id string) bool {
	return id != "" && id == b.selected
}

// Tabs returns the tabs in display order.
func (b *TabBar) Tabs() []*Tab {
	return append([]*Tab(nil), b.tabs...)
}

// Tab looks up a tab by id.
func (b *TabBar) Tab(id string) (*Tab, bool) {
	tab, ok := b.index[id]
	return tab, ok
}
