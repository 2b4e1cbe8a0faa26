package nav

import (
	"context"
	"fmt"
	"net/url"

	"github.com/atomicstack/tabnav/internal/fetch"
	"github.com/atomicstack/tabnav/internal/logging/events"
	"github.com/atomicstack/tabnav/internal/markup"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Fetcher is the asynchronous content source used by screens. Calls are made
// from tea.Cmd goroutines, never from the update loop.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (*fetch.Response, error)
	Submit(ctx context.Context, action, method string, fields url.Values) (*fetch.Response, error)
}

// Handler receives the intent emitted by a bound screen.
type Handler func(Intent) tea.Cmd

// LoadedMsg reports the completion of a screen load or submission.
type LoadedMsg struct {
	TabID      string
	ScreenID   string
	Locator    string
	Generation uint64
	Cached     bool
	Submitted  bool
	Response   *fetch.Response
	Err        error
}

type binding struct {
	backVisible bool
	handler     Handler
}

// Screen owns one unit of fetched content, its cache state and the bindings
// that let the content trigger navigation.
type Screen struct {
	id          string
	locator     string
	content     []byte
	contentType string
	doc         *markup.Document
	stale       bool
	generation  uint64
	loading     bool
	binding     *binding
}

// NewScreen creates an unloaded screen for locator.
func NewScreen(locator string) *Screen {
	return &Screen{id: uuid.NewString(), locator: locator}
}

func (s *Screen) ID() string                 { return s.id }
func (s *Screen) Locator() string            { return s.locator }
func (s *Screen) Content() []byte            { return s.content }
func (s *Screen) ContentType() string        { return s.contentType }
func (s *Screen) Document() *markup.Document { return s.doc }
func (s *Screen) Stale() bool                { return s.stale }
func (s *Screen) Generation() uint64         { return s.generation }
func (s *Screen) Loading() bool              { return s.loading }
func (s *Screen) Bound() bool                { return s.binding != nil }

// Cached reports whether content can be served without a fetch.
func (s *Screen) Cached() bool {
	return s.content != nil && !s.stale
}

// BackVisible reports the back visibility the screen was last bound with.
func (s *Screen) BackVisible() bool {
	return s.binding != nil && s.binding.backVisible
}

// Load returns a command producing the screen's content. With useCache and
// fresh cached content no fetch is issued; otherwise a new generation starts
// and the fetch result is tagged with it.
func (s *Screen) Load(ctx context.Context, f Fetcher, useCache bool) tea.Cmd {
	s.loading = true
	if useCache && s.Cached() {
		events.Screen.CacheHit(s.id, s.locator)
		msg := LoadedMsg{ScreenID: s.id, Locator: s.locator, Generation: s.generation, Cached: true}
		return func() tea.Msg { return msg }
	}
	s.generation++
	id, locator, gen := s.id, s.locator, s.generation
	events.Screen.Fetch(id, locator, gen)
	return func() tea.Msg {
		resp, err := f.Fetch(ctx, locator)
		return LoadedMsg{ScreenID: id, Locator: locator, Generation: gen, Response: resp, Err: err}
	}
}

// Submit returns a command that posts fields to the screen's locator; the
// response becomes the screen's content.
func (s *Screen) Submit(ctx context.Context, f Fetcher, method string, fields url.Values) tea.Cmd {
	s.loading = true
	s.generation++
	id, locator, gen := s.id, s.locator, s.generation
	events.Screen.Submit(id, locator, method, gen)
	return func() tea.Msg {
		resp, err := f.Submit(ctx, locator, method, fields)
		return LoadedMsg{ScreenID: id, Locator: locator, Generation: gen, Submitted: true, Response: resp, Err: err}
	}
}

// Accept applies a load result. It reports false when the result belongs to
// another screen or an older generation; such results never touch the cache.
func (s *Screen) Accept(msg LoadedMsg, sel markup.Selectors) (bool, error) {
	if msg.ScreenID != s.id || msg.Generation != s.generation {
		events.Screen.StaleDrop(s.id, s.locator, msg.Generation, s.generation)
		return false, nil
	}
	s.loading = false
	if msg.Err != nil {
		return true, msg.Err
	}
	if msg.Cached {
		if s.content == nil {
			return true, fmt.Errorf("load %s: cached content was released", s.locator)
		}
		return true, nil
	}
	if msg.Response == nil {
		return true, fmt.Errorf("load %s: empty response", s.locator)
	}
	doc, err := markup.Parse(msg.Response.ContentType, msg.Response.Body, sel)
	if err != nil {
		return true, fmt.Errorf("load %s: %w", s.locator, err)
	}
	s.content = msg.Response.Body
	s.contentType = msg.Response.ContentType
	s.doc = doc
	s.stale = false
	return true, nil
}

// Bind installs the interceptors for the screen's regions. Screens without
// content cannot be bound.
func (s *Screen) Bind(backVisible bool, h Handler) {
	if s.doc == nil || h == nil {
		return
	}
	s.binding = &binding{backVisible: backVisible, handler: h}
	events.Screen.Bind(s.id, len(s.doc.Regions), backVisible)
}

// Unbind releases every interceptor. Safe to call repeatedly.
func (s *Screen) Unbind() {
	if s.binding == nil {
		return
	}
	s.binding = nil
	events.Screen.Unbind(s.id)
}

// Fire triggers region index. fields, when non-nil, replaces the submit
// region's own values. It reports false when the screen is not bound or the
// index is out of range.
func (s *Screen) Fire(index int, fields []markup.Field) (tea.Cmd, bool) {
	if s.binding == nil || s.doc == nil || index < 0 || index >= len(s.doc.Regions) {
		return nil, false
	}
	return s.Dispatch(IntentFor(s.doc.Regions[index], fields))
}

// Dispatch delivers intent through the bound handler. The screen unbinds
// itself before the handler runs, so a repeated trigger is a no-op.
func (s *Screen) Dispatch(intent Intent) (tea.Cmd, bool) {
	b := s.binding
	if b == nil {
		return nil, false
	}
	s.Unbind()
	return b.handler(intent), true
}

// Invalidate flags cached content as stale.
func (s *Screen) Invalidate() {
	s.stale = true
}

// Expire abandons any in-flight load by starting a new generation.
func (s *Screen) Expire() {
	s.generation++
	s.loading = false
}

// Discard releases bindings and cached content.
func (s *Screen) Discard() {
	s.Unbind()
	s.Expire()
	s.content = nil
	s.contentType = ""
	s.doc = nil
	s.stale = false
	events.Screen.Discard(s.id, s.locator)
}
