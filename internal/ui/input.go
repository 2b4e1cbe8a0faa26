package ui

import (
	"unicode"

	"github.com/atomicstack/tabnav/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(before int) {
	if before != m.list.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

// handleTextInput applies filter editing keys to the region list.
func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	if m.hidden {
		return false
	}
	l := m.list
	before := l.FilterCursorPos()
	switch msg.String() {
	case "ctrl+u":
		if !l.ClearFilter() {
			return false
		}
		m.filterEdited(before)
		events.Filter.Cleared(m.screenTab)
		return true
	case "ctrl+w":
		if !l.DeleteFilterWordBackward() {
			return false
		}
		m.filterEdited(before)
		events.Filter.WordBackspace(m.screenTab, l.Filter)
		return true
	case "ctrl+a":
		return m.filterCursorMoved(before, l.MoveFilterCursorStart())
	case "ctrl+e":
		return m.filterCursorMoved(before, l.MoveFilterCursorEnd())
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if !l.DeleteFilterRuneBackward() {
			return false
		}
		m.filterEdited(before)
		events.Filter.Backspace(m.screenTab, l.Filter)
		return true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return m.appendToFilter(string(msg.Runes))
	case tea.KeySpace:
		return m.appendToFilter(" ")
	case tea.KeyLeft:
		return m.filterCursorMoved(before, l.MoveFilterCursorRuneBackward())
	case tea.KeyRight:
		return m.filterCursorMoved(before, l.MoveFilterCursorRuneForward())
	}
	return false
}

func (m *Model) appendToFilter(text string) bool {
	before := m.list.FilterCursorPos()
	if !m.list.InsertFilterText(text) {
		return false
	}
	m.filterEdited(before)
	events.Filter.Append(m.screenTab, m.list.Filter)
	return true
}

func (m *Model) filterEdited(before int) {
	m.noteFilterCursorChange(before)
	m.forceClearInfo()
	m.errMsg = ""
	m.syncList()
}

func (m *Model) filterCursorMoved(before int, moved bool) bool {
	if !moved {
		return false
	}
	m.noteFilterCursorChange(before)
	events.Filter.Cursor(m.screenTab, m.list.FilterCursor)
	return true
}

func (m *Model) filterPrompt() string {
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := render(styles.FilterPrompt, "» ")
	text := m.list.Filter
	if text == "" {
		runes := []rune("(type to filter)")
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		return prompt + m.renderFilterCursor(string(runes[0])) + render(styles.FilterPlaceholder, string(runes[1:]))
	}
	runes := []rune(text)
	pos := m.list.FilterCursorPos()
	caret := " "
	after := ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + render(styles.Filter, string(runes[:pos])) + m.renderFilterCursor(caret) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)
	base := m.filterCursor.TextStyle.Copy().Inline(true)
	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		return base.Inherit(styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
