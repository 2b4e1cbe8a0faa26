package ui

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/atomicstack/tabnav/internal/format/table"
	"github.com/atomicstack/tabnav/internal/markup"
	"github.com/atomicstack/tabnav/internal/nav"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

const footerHints = "↑/↓ move  enter open  esc back  ctrl+r refresh  tab/alt+n switch tab  ctrl+c quit"

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := []styledLine{
		{text: m.tabStrip(), raw: true},
		{text: m.breadcrumb(), style: styles.Breadcrumb},
		m.rule(),
	}
	if m.mode == ModeForm && m.form != nil {
		lines = append(lines, m.form.lines()...)
	} else {
		bodyHeight, listHeight := m.layout()
		lines = append(lines, m.bodyView(bodyHeight)...)
		lines = append(lines, m.rule())
		lines = append(lines, m.regionView(listHeight)...)
	}
	lines = append(lines, m.statusLine())
	if m.mode != ModeForm {
		lines = append(lines, styledLine{text: m.filterPrompt(), raw: true})
	}
	if m.showFooter {
		lines = append(lines, styledLine{text: footerHints, style: styles.Footer})
	}
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) tabStrip() string {
	tabs := m.bar.Tabs()
	parts := make([]string, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.Title())
		style := styles.Tab
		if m.bar.IsSelected(tab.ID()) {
			style = styles.ActiveTab
		}
		parts[i] = style.Render(label)
	}
	return strings.Join(parts, styles.TabGap.Render("│"))
}

// breadcrumb names every screen on the selected tab's backstack.
func (m *Model) breadcrumb() string {
	tab := m.bar.Selected()
	if tab == nil {
		return ""
	}
	screens := tab.Screens()
	names := make([]string, len(screens))
	for i, s := range screens {
		names[i] = screenTitle(s)
	}
	crumb := strings.Join(names, headerSeparator)
	if tab.BackVisible() {
		crumb = "← " + crumb
	}
	return crumb
}

func screenTitle(s *nav.Screen) string {
	if doc := s.Document(); doc != nil && strings.TrimSpace(doc.Title) != "" {
		return strings.TrimSpace(doc.Title)
	}
	loc := s.Locator()
	if u, err := url.Parse(loc); err == nil && u.Path != "" && u.Path != "/" {
		return path.Base(u.Path)
	}
	return loc
}

func (m *Model) rule() styledLine {
	width := m.width
	if width <= 0 {
		width = 40
	}
	return styledLine{text: strings.Repeat("─", width), style: styles.Rule}
}

// layout splits the rows left after the fixed chrome between the body and
// the region list.
func (m *Model) layout() (body, list int) {
	items := len(m.list.Items)
	if items == 0 {
		items = 1
	}
	if m.height <= 0 {
		return defaultBodyHeight, items
	}
	chrome := 6 // tabs, breadcrumb, two rules, status, prompt
	if m.showFooter {
		chrome++
	}
	remain := m.height - chrome
	if remain < 2 {
		return 1, 1
	}
	list = items
	if limit := remain / 2; list > limit {
		list = limit
	}
	if list < 1 {
		list = 1
	}
	return remain - list, list
}

func (m *Model) listHeight() int {
	_, list := m.layout()
	return list
}

func (m *Model) bodyView(height int) []styledLine {
	if m.hidden {
		lines := []styledLine{{text: "Loading…", style: styles.Loading}}
		return padLines(lines, height)
	}
	if m.screen == nil || m.screen.Document() == nil {
		return padLines([]styledLine{{text: "(nothing to show)", style: styles.Info}}, height)
	}
	m.body.Width = m.width
	m.body.Height = height
	view := m.body.View()
	out := make([]styledLine, 0, height)
	for _, line := range strings.Split(view, "\n") {
		out = append(out, styledLine{text: line, raw: true})
	}
	return padLines(out, height)
}

func (m *Model) regionView(height int) []styledLine {
	if m.hidden {
		return padLines(nil, height)
	}
	if len(m.list.Items) == 0 {
		msg := "(no actions)"
		if m.list.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", m.list.Filter)
		}
		return padLines([]styledLine{{text: msg, style: styles.Info}}, height)
	}
	m.list.EnsureCursorVisible(height)
	visible := m.list.Visible(height)
	backVisible := m.screen != nil && m.screen.BackVisible()
	rows := make([][]string, len(visible))
	for i, item := range visible {
		rows[i] = []string{item.Label, regionDetail(item.Kind, item.Target, backVisible)}
	}
	cols := table.Columns(rows, nil)
	lines := make([]styledLine, 0, len(visible))
	for i, item := range visible {
		selected := m.list.ViewportOffset+i == m.list.Cursor
		inactive := item.Kind == markup.KindBack && !backVisible
		lines = append(lines, styledLine{text: regionLine(cols[i][0], cols[i][1], selected, inactive), raw: true})
	}
	return padLines(lines, height)
}

func regionDetail(kind markup.Kind, target string, backVisible bool) string {
	detail := kind.String()
	switch kind {
	case markup.KindGo, markup.KindReplace, markup.KindSubmit:
		if target != "" {
			detail += " " + target
		}
	case markup.KindBack:
		if !backVisible {
			detail += " (at root)"
		}
	}
	return detail
}

// regionLine renders one list row. Inactive rows stay selectable; only their
// presentation changes.
func regionLine(label, detail string, selected, inactive bool) string {
	labelStyle, indicator, indicatorStyle := styles.Region, "│", styles.RegionIndicator
	if inactive {
		labelStyle = styles.RegionInactive
	}
	if selected {
		labelStyle, indicator, indicatorStyle = styles.SelectedRegion, "▌", styles.SelectedIndicator
	}
	return indicatorStyle.Render(indicator) + labelStyle.Render(" "+label) + "  " + styles.RegionKind.Render(detail)
}

func (m *Model) statusLine() styledLine {
	if m.errMsg != "" {
		return styledLine{text: "Error: " + m.errMsg, style: styles.Error}
	}
	if info := m.currentInfo(); info != "" {
		return styledLine{text: info, style: styles.Info}
	}
	if m.hidden || m.screen == nil {
		return styledLine{text: "Loading…", style: styles.Loading}
	}
	parts := []string{m.screen.Locator()}
	if n := len(m.screen.Content()); n > 0 {
		parts = append(parts, humanize.Bytes(uint64(n)))
	}
	if tab := m.bar.Selected(); tab != nil {
		parts = append(parts, fmt.Sprintf("depth %d", tab.Depth()))
	}
	if m.screen.Stale() {
		parts = append(parts, "stale")
	}
	return styledLine{text: strings.Join(parts, " · "), style: styles.Status}
}

func padLines(lines []styledLine, height int) []styledLine {
	if height <= 0 {
		return lines
	}
	if len(lines) > height {
		return lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, styledLine{})
	}
	return lines
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = ansi.Truncate(text, width, "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if !line.raw && line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
