package ui

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/atomicstack/tabnav/internal/fetch"
	"github.com/atomicstack/tabnav/internal/logging"
	"github.com/atomicstack/tabnav/internal/logging/events"
	"github.com/atomicstack/tabnav/internal/nav"
	"github.com/atomicstack/tabnav/internal/theme"
	uistate "github.com/atomicstack/tabnav/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type Mode int

const (
	ModeRegions Mode = iota
	ModeForm
)

const (
	headerSeparator   = " → "
	defaultBodyHeight = 10
	infoDuration      = 5 * time.Second
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
	Transition time.Duration
	// Blink enables cursor blinking. The harness leaves it off so commands
	// never wait on blink timers.
	Blink bool
}

// Model implements the Bubble Tea model for the tabbed navigator. It is also
// the viewport and observer of the tab bar it owns.
type Model struct {
	bar       *nav.TabBar
	list      *uistate.List
	body      viewport.Model
	bodyLines []string
	screen    *nav.Screen
	screenTab string
	hidden    bool

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	blink       bool

	mode              Mode
	form              *SubmitForm
	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler
}

// New builds the model and its tab bar. initial may be empty to select the
// first tab.
func New(tabs []*nav.Tab, initial string, opts Options) (*Model, error) {
	m := &Model{
		list:       uistate.NewList(nil),
		body:       viewport.New(opts.Width, defaultBodyHeight),
		showFooter: opts.ShowFooter,
		blink:      opts.Blink,
		hidden:     true,
		mode:       ModeRegions,
	}
	bar, err := nav.NewTabBar(tabs, initial, m, nav.WithObserver(m), nav.WithTransition(opts.Transition))
	if err != nil {
		return nil, err
	}
	m.bar = bar
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	if !m.blink {
		c.SetMode(cursor.CursorStatic)
	}
	m.filterCursor = c
	m.registerHandlers()
	return m, nil
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.bar.Init(), m.filterCursor.Focus())
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handled, cmd := m.handleActiveForm(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(nav.LoadedMsg{}):     m.handleLoadedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleLoadedMsg(msg tea.Msg) tea.Cmd {
	return m.bar.Update(msg)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.refreshBody()
	return nil
}

// Hide covers the content area while a tab switch or load is in progress.
// Transitions are instantaneous in a terminal.
func (m *Model) Hide(time.Duration) {
	m.hidden = true
	events.UI.ViewportVisibility(false)
}

func (m *Model) Show(time.Duration) {
	m.hidden = false
	events.UI.ViewportVisibility(true)
}

// Write replaces the displayed screen.
func (m *Model) Write(tabID string, s *nav.Screen) {
	if s == nil {
		return
	}
	m.screen = s
	m.screenTab = tabID
	m.closeForm()
	doc := s.Document()
	m.list.Reset(doc)
	m.bodyLines = nil
	if doc != nil {
		m.bodyLines = doc.Lines
	}
	m.refreshBody()
	m.body.GotoTop()
	events.UI.ViewportWrite(tabID, s.Locator(), len(s.Content()), s.Generation())
}

func (m *Model) OnViewUpdated(string, string) {
	m.errMsg = ""
}

func (m *Model) OnError(_ string, locator string, err error) {
	logging.Error(err)
	m.errMsg = describeError(locator, err)
}

func describeError(locator string, err error) string {
	if status, reason, ok := fetch.StatusOf(err); ok {
		if status > 0 {
			return fmt.Sprintf("%s: %d %s", locator, status, reason)
		}
		return fmt.Sprintf("%s: %s", locator, reason)
	}
	if locator == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", locator, err)
}

func (m *Model) refreshBody() {
	m.body.Width = m.width
	lines := make([]string, len(m.bodyLines))
	for i, line := range m.bodyLines {
		lines[i] = truncateText(line, m.width)
	}
	m.body.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(infoDuration)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.forceClearInfo()
	}
	return m.infoMsg
}

// TabBar exposes the navigation engine driving the model.
func (m *Model) TabBar() *nav.TabBar {
	return m.bar
}

// displaysCurrent reports whether the screen on display is the selected
// tab's current screen, which is what region indices refer to.
func (m *Model) displaysCurrent() bool {
	tab := m.bar.Selected()
	return tab != nil && m.screen != nil && m.screenTab == tab.ID() && tab.Current() == m.screen
}
