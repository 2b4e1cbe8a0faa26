package nav

import (
	"context"
	"net/url"
	"strings"

	"github.com/atomicstack/tabnav/internal/logging"
	"github.com/atomicstack/tabnav/internal/logging/events"
	"github.com/atomicstack/tabnav/internal/markup"
	tea "github.com/charmbracelet/bubbletea"
)

// Outcome classifies what a completion message did to a tab.
type Outcome int

const (
	// OutcomeDropped means the message was stale and nothing changed.
	OutcomeDropped Outcome = iota
	OutcomeRendered
	OutcomeFailed
)

// Completion is the result of applying a LoadedMsg to a tab.
type Completion struct {
	Outcome    Outcome
	Screen     *Screen
	Locator    string
	Err        error
	RolledBack bool
}

// Tab is one independent navigation history.
type Tab struct {
	id        string
	title     string
	stack     *Backstack[*Screen]
	fetcher   Fetcher
	selectors markup.Selectors
	ctx       context.Context
}

// TabOption customises a Tab.
type TabOption func(*Tab)

func WithTitle(title string) TabOption {
	return func(t *Tab) { t.title = title }
}

func WithSelectors(sel markup.Selectors) TabOption {
	return func(t *Tab) { t.selectors = sel.WithDefaults() }
}

// WithContext sets the context handed to every fetch the tab issues.
func WithContext(ctx context.Context) TabOption {
	return func(t *Tab) {
		if ctx != nil {
			t.ctx = ctx
		}
	}
}

// NewTab creates a tab whose backstack starts at locator.
func NewTab(id, locator string, f Fetcher, opts ...TabOption) *Tab {
	t := &Tab{
		id:        id,
		title:     id,
		stack:     NewBackstack(NewScreen(locator)),
		fetcher:   f,
		selectors: markup.Selectors{}.WithDefaults(),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tab) ID() string    { return t.id }
func (t *Tab) Title() string { return t.title }
func (t *Tab) Depth() int    { return t.stack.Len() }

// BackVisible reports whether a back affordance should be shown.
func (t *Tab) BackVisible() bool {
	return t.stack.Len() > 1
}

// Screens returns the backstack, root first.
func (t *Tab) Screens() []*Screen {
	return t.stack.Items()
}

// Current returns the top screen, or nil when the stack is empty.
func (t *Tab) Current() *Screen {
	s, err := t.stack.Current()
	if err != nil {
		events.Nav.EmptyStack(t.id)
		return nil
	}
	return s
}

// Activate loads the current screen, serving it from cache when possible.
func (t *Tab) Activate() tea.Cmd {
	cur := t.Current()
	if cur == nil {
		return nil
	}
	return t.route(cur.Load(t.ctx, t.fetcher, true))
}

// Handle applies one transition to the backstack and returns the load it
// starts, if any.
func (t *Tab) Handle(intent Intent) tea.Cmd {
	cur := t.Current()
	if cur == nil {
		return nil
	}
	events.Nav.Intent(t.id, intent.Kind.String(), intent.Destination, t.stack.Len())

	switch intent.Kind {
	case IntentGo:
		cur.Unbind()
		next := NewScreen(t.resolve(cur, intent.Destination))
		t.stack.Push(next)
		return t.route(next.Load(t.ctx, t.fetcher, false))

	case IntentBack:
		popped, ok := t.stack.Pop()
		if !ok {
			events.Nav.BackAtRoot(t.id, cur.Locator())
			t.bind(cur)
			return nil
		}
		popped.Discard()
		return t.route(t.Current().Load(t.ctx, t.fetcher, true))

	case IntentReplace:
		dest := t.resolve(cur, intent.Destination)
		if old, ok := t.stack.PopForced(); ok {
			old.Discard()
		}
		next := NewScreen(dest)
		t.stack.Push(next)
		return t.route(next.Load(t.ctx, t.fetcher, false))

	case IntentSubmit:
		cur.Unbind()
		cur.Invalidate()
		next := NewScreen(t.resolve(cur, intent.Destination))
		t.stack.Push(next)
		return t.route(next.Submit(t.ctx, t.fetcher, intent.Method, intent.Fields))

	case IntentRefresh:
		cur.Unbind()
		return t.route(cur.Load(t.ctx, t.fetcher, false))
	}

	logging.Diagnostic("tab %q: unsupported intent %d", t.id, int(intent.Kind))
	t.bind(cur)
	return nil
}

// Dispatch delivers intent through the current screen's bindings so the
// screen releases itself before the transition runs. A screen without
// bindings because its load failed hands the intent to Handle directly; one
// with a load still in flight drops it.
func (t *Tab) Dispatch(intent Intent) tea.Cmd {
	cur := t.Current()
	if cur == nil {
		return nil
	}
	if cmd, ok := cur.Dispatch(intent); ok {
		return cmd
	}
	if cur.Loading() {
		events.Nav.Busy(t.id, cur.Locator())
		return nil
	}
	return t.Handle(intent)
}

// Fire triggers region index of the current screen.
func (t *Tab) Fire(index int, fields []markup.Field) tea.Cmd {
	cur := t.Current()
	if cur == nil {
		return nil
	}
	cmd, _ := cur.Fire(index, fields)
	return cmd
}

// Complete applies a load result. Only results for the current top screen
// and its live generation are accepted. A failed submission pops the screen
// it pushed and rebinds the one underneath.
func (t *Tab) Complete(msg LoadedMsg) Completion {
	cur := t.Current()
	if cur == nil || cur.ID() != msg.ScreenID {
		events.Screen.StaleDrop(msg.ScreenID, msg.Locator, msg.Generation, 0)
		return Completion{Outcome: OutcomeDropped, Locator: msg.Locator}
	}
	current, err := cur.Accept(msg, t.selectors)
	if !current {
		return Completion{Outcome: OutcomeDropped, Locator: msg.Locator}
	}
	if err != nil {
		res := Completion{Outcome: OutcomeFailed, Screen: cur, Locator: msg.Locator, Err: err}
		if msg.Submitted {
			if popped, ok := t.stack.Pop(); ok {
				popped.Discard()
				res.RolledBack = true
				res.Screen = t.Current()
				events.Nav.Rollback(t.id, msg.Locator, t.stack.Len())
			}
		}
		t.bind(res.Screen)
		return res
	}
	t.bind(cur)
	return Completion{Outcome: OutcomeRendered, Screen: cur, Locator: cur.Locator()}
}

// Teardown releases the current screen's bindings and abandons any load in
// flight for it.
func (t *Tab) Teardown() {
	cur := t.Current()
	if cur == nil {
		return
	}
	cur.Unbind()
	cur.Expire()
}

func (t *Tab) bind(s *Screen) {
	if s == nil {
		return
	}
	s.Bind(t.BackVisible(), t.Handle)
}

// route stamps the tab id onto the message produced by cmd.
func (t *Tab) route(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	id := t.id
	return func() tea.Msg {
		msg := cmd()
		if loaded, ok := msg.(LoadedMsg); ok {
			loaded.TabID = id
			return loaded
		}
		return msg
	}
}

// resolve interprets dest relative to an absolute current locator. Relative
// locators are passed through for the fetcher to resolve.
func (t *Tab) resolve(from *Screen, dest string) string {
	dest = strings.TrimSpace(dest)
	base, err := url.Parse(from.Locator())
	if err != nil || !base.IsAbs() {
		if dest == "" {
			return from.Locator()
		}
		return dest
	}
	ref, err := url.Parse(dest)
	if err != nil {
		return dest
	}
	return base.ResolveReference(ref).String()
}
