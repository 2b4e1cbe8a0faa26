package state

// MoveCursorUp moves the cursor one item up, wrapping to the last item.
func (l *List) MoveCursorUp() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	if l.Cursor > 0 {
		l.Cursor--
	} else {
		l.Cursor = n - 1
	}
	return l.Cursor != old
}

// MoveCursorDown moves the cursor one item down, wrapping to the first item.
func (l *List) MoveCursorDown() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	if l.Cursor < n-1 {
		l.Cursor++
	} else {
		l.Cursor = 0
	}
	return l.Cursor != old
}

// MoveCursorHome moves the cursor to the first item.
func (l *List) MoveCursorHome() bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = 0
	return old != l.Cursor
}

// MoveCursorEnd moves the cursor to the last item.
func (l *List) MoveCursorEnd() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = n - 1
	return old != l.Cursor
}

func (l *List) MoveCursorPageUp(page int) bool {
	return l.moveCursorBy(-l.pageSize(page))
}

func (l *List) MoveCursorPageDown(page int) bool {
	return l.moveCursorBy(l.pageSize(page))
}

func (l *List) moveCursorBy(delta int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(l.Cursor+delta, 0, len(l.Items)-1)
	return l.Cursor != old
}

func (l *List) pageSize(page int) int {
	total := len(l.Items)
	if page <= 0 || page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}

// EnsureCursorVisible scrolls so the cursor sits inside a window of height
// rows.
func (l *List) EnsureCursorVisible(height int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if height <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	l.ViewportOffset = clamp(l.ViewportOffset, 0, maxOffset)
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	if l.Cursor > l.ViewportOffset+height-1 {
		l.ViewportOffset = clamp(l.Cursor-height+1, 0, maxOffset)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
