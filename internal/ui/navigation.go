package ui

import (
	"strconv"
	"strings"

	"github.com/atomicstack/tabnav/internal/logging/events"
	"github.com/atomicstack/tabnav/internal/markup"
	"github.com/atomicstack/tabnav/internal/nav"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch s := key.String(); s {
	case "ctrl+c":
		return tea.Quit
	case "up":
		m.moveCursor(m.list.MoveCursorUp)
	case "down":
		m.moveCursor(m.list.MoveCursorDown)
	case "pgup":
		m.moveCursor(func() bool { return m.list.MoveCursorPageUp(m.listHeight()) })
	case "pgdown":
		m.moveCursor(func() bool { return m.list.MoveCursorPageDown(m.listHeight()) })
	case "home":
		m.moveCursor(m.list.MoveCursorHome)
	case "end":
		m.moveCursor(m.list.MoveCursorEnd)
	case "shift+up":
		m.body.ScrollUp(1)
	case "shift+down":
		m.body.ScrollDown(1)
	case "enter":
		return m.handleEnterKey()
	case "esc":
		return m.handleEscapeKey()
	case "ctrl+r":
		return m.handleRefreshKey()
	case "tab":
		return m.switchTab(m.bar.Next)
	case "shift+tab":
		return m.switchTab(m.bar.Prev)
	default:
		if n, ok := altDigit(s); ok {
			return m.switchTab(func() tea.Cmd { return m.bar.ClickIndex(n - 1) })
		}
		m.handleTextInput(key)
	}
	return nil
}

// altDigit parses "alt+1" through "alt+9".
func altDigit(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "alt+")
	if !ok || len(rest) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 9 {
		return 0, false
	}
	return n, true
}

func (m *Model) moveCursor(move func() bool) {
	if move() {
		events.UI.RegionCursor(m.screenTab, m.list.Cursor)
	}
	m.syncList()
}

func (m *Model) syncList() {
	m.list.EnsureCursorVisible(m.listHeight())
}

func (m *Model) handleEnterKey() tea.Cmd {
	if m.hidden || !m.displaysCurrent() {
		return nil
	}
	item, ok := m.list.Current()
	if !ok {
		return nil
	}
	doc := m.screen.Document()
	if doc == nil || item.Index >= len(doc.Regions) {
		return nil
	}
	region := doc.Regions[item.Index]
	events.UI.RegionEnter(m.screenTab, item.Index, item.Kind.String(), item.Label)
	before := m.list.FilterCursorPos()
	m.list.SetFilter("", 0)
	m.noteFilterCursorChange(before)

	if region.Kind == markup.KindSubmit {
		if form := NewSubmitForm(item.Index, region, m.blink); form.Editable() {
			return m.openForm(form)
		}
	}
	m.errMsg = ""
	m.forceClearInfo()
	return m.bar.Trigger(item.Index, nil)
}

func (m *Model) handleEscapeKey() tea.Cmd {
	if m.list.Filter != "" {
		before := m.list.FilterCursorPos()
		m.list.ClearFilter()
		m.noteFilterCursorChange(before)
		events.Filter.Cleared(m.screenTab)
		m.syncList()
		return nil
	}
	tab := m.bar.Selected()
	if tab == nil {
		return nil
	}
	m.errMsg = ""
	m.forceClearInfo()
	if !tab.BackVisible() {
		m.setInfo("Already at the first screen")
	}
	return m.bar.Navigate(nav.Back())
}

func (m *Model) handleRefreshKey() tea.Cmd {
	m.errMsg = ""
	m.forceClearInfo()
	return m.bar.Navigate(nav.Refresh())
}

func (m *Model) switchTab(click func() tea.Cmd) tea.Cmd {
	m.closeForm()
	m.errMsg = ""
	m.forceClearInfo()
	return click()
}
