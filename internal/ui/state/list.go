package state

import "github.com/atomicstack/tabnav/internal/markup"

// Item is one interactive region as presented in the region list. Index is
// the region's position in its document, which stays stable under filtering.
type Item struct {
	Index  int
	Kind   markup.Kind
	Label  string
	Target string
}

// List holds the region list for the screen on display: the full item
// set, the filtered view, the cursor and the scroll offset.
type List struct {
	Full           []Item
	Items          []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewList builds a list over the regions of doc. A nil document yields an
// empty list.
func NewList(doc *markup.Document) *List {
	l := &List{LastCursor: -1}
	l.Reset(doc)
	return l
}

// Reset replaces the items with doc's regions and clears filter state.
func (l *List) Reset(doc *markup.Document) {
	l.Full = ItemsOf(doc)
	l.Filter = ""
	l.FilterCursor = 0
	l.Cursor = 0
	l.LastCursor = -1
	l.ViewportOffset = 0
	l.applyFilter()
}

// ItemsOf converts doc's regions into list items.
func ItemsOf(doc *markup.Document) []Item {
	if doc == nil {
		return nil
	}
	items := make([]Item, len(doc.Regions))
	for i, r := range doc.Regions {
		items[i] = Item{Index: i, Kind: r.Kind, Label: r.DisplayLabel(), Target: r.Target}
	}
	return items
}

// Current returns the item under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// Visible returns the items inside the scroll window of height rows.
func (l *List) Visible(height int) []Item {
	if height <= 0 || len(l.Items) == 0 {
		return nil
	}
	start := l.ViewportOffset
	if start < 0 || start >= len(l.Items) {
		start = 0
	}
	end := start + height
	if end > len(l.Items) {
		end = len(l.Items)
	}
	return l.Items[start:end]
}

func cloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
