// Package nav tracks which data cell, if any, is held fullscreen, and how
// arrow keys move that focus across the grid.
package nav

// Navigator is the fullscreen state machine. The zero state is browsing.
// Only data cells are focusable: row and column 0 hold headers.
type Navigator struct {
	rows, cols int
	focused    bool
	row, col   int
}

// New returns a browsing navigator over a rows by cols grid.
func New(rows, cols int) *Navigator {
	return &Navigator{rows: rows, cols: cols}
}

// SetGridSize swaps in new grid dimensions. Any focus is dropped, matching a
// wholesale reload.
func (n *Navigator) SetGridSize(rows, cols int) {
	n.rows, n.cols = rows, cols
	n.focused = false
}

// Focused reports the focused cell while in the fullscreen state.
func (n *Navigator) Focused() (row, col int, ok bool) {
	if !n.focused {
		return 0, 0, false
	}
	return n.row, n.col, true
}

// Select toggles fullscreen on a data cell: selecting the focused cell again
// exits, selecting another data cell moves the focus there. Header
// coordinates are ignored. Returns whether the navigator is now focused.
func (n *Navigator) Select(row, col int) bool {
	if row < 1 || row >= n.rows || col < 1 || col >= n.cols {
		return n.focused
	}
	if n.focused && n.row == row && n.col == col {
		n.focused = false
		return false
	}
	n.focused = true
	n.row, n.col = row, col
	return true
}

// Navigate moves the focus by dRow, dCol clamped to the data cells. It
// reports whether the focus actually moved; browsing is always a no-op.
func (n *Navigator) Navigate(dRow, dCol int) bool {
	if !n.focused {
		return false
	}
	row := clampInt(n.row+dRow, 1, n.rows-1)
	col := clampInt(n.col+dCol, 1, n.cols-1)
	if row == n.row && col == n.col {
		return false
	}
	n.row, n.col = row, col
	return true
}

// Escape returns to browsing from anywhere.
func (n *Navigator) Escape() {
	n.focused = false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
