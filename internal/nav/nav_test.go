package nav

import "testing"

func TestSelect_TogglesFocus(t *testing.T) {
	n := New(5, 4)

	if _, _, ok := n.Focused(); ok {
		t.Fatal("A new navigator must start browsing")
	}

	if !n.Select(2, 1) {
		t.Fatal("Selecting a data cell should focus it")
	}
	if row, col, ok := n.Focused(); !ok || row != 2 || col != 1 {
		t.Errorf("Expected focus on (2,1), got (%d,%d,%v)", row, col, ok)
	}

	// Same cell again toggles off
	if n.Select(2, 1) {
		t.Error("Re-selecting the focused cell should exit fullscreen")
	}
	if _, _, ok := n.Focused(); ok {
		t.Error("Navigator should be browsing after the toggle")
	}
}

func TestSelect_MovesFocusBetweenCells(t *testing.T) {
	n := New(5, 4)
	n.Select(1, 1)
	if !n.Select(3, 2) {
		t.Fatal("Selecting another data cell should keep fullscreen")
	}
	if row, col, _ := n.Focused(); row != 3 || col != 2 {
		t.Errorf("Focus should move to (3,2), got (%d,%d)", row, col)
	}
}

func TestSelect_IgnoresHeaders(t *testing.T) {
	n := New(5, 4)

	n.Select(0, 2)
	if _, _, ok := n.Focused(); ok {
		t.Error("Header row cells must not be focusable")
	}
	n.Select(2, 0)
	if _, _, ok := n.Focused(); ok {
		t.Error("Filename column cells must not be focusable")
	}
	n.Select(5, 1)
	if _, _, ok := n.Focused(); ok {
		t.Error("Out-of-range cells must not be focusable")
	}

	// While focused, header selects must not disturb the focus
	n.Select(2, 2)
	n.Select(0, 0)
	if row, col, ok := n.Focused(); !ok || row != 2 || col != 2 {
		t.Errorf("Focus should survive a header select, got (%d,%d,%v)", row, col, ok)
	}
}

func TestNavigate_MovesAndClamps(t *testing.T) {
	n := New(4, 4)
	n.Select(2, 2)

	if !n.Navigate(-1, 0) {
		t.Error("Moving up from (2,2) should succeed")
	}
	if row, col, _ := n.Focused(); row != 1 || col != 2 {
		t.Errorf("Expected (1,2), got (%d,%d)", row, col)
	}

	// Already at the top data row
	if n.Navigate(-1, 0) {
		t.Error("Moving up at the edge should be a no-op")
	}
	if row, _, _ := n.Focused(); row != 1 {
		t.Errorf("Row should stay clamped at 1, got %d", row)
	}

	// Walk right past the edge
	n.Navigate(0, 1)
	if n.Navigate(0, 1) {
		t.Error("Moving right past the last column should be a no-op")
	}
	if _, col, _ := n.Focused(); col != 3 {
		t.Errorf("Column should clamp at 3, got %d", col)
	}
}

func TestNavigate_NoOpWhileBrowsing(t *testing.T) {
	n := New(4, 4)
	if n.Navigate(1, 0) {
		t.Error("Navigate must do nothing while browsing")
	}
	if _, _, ok := n.Focused(); ok {
		t.Error("Navigate must not create focus")
	}
}

func TestEscape_AndReload(t *testing.T) {
	n := New(4, 4)
	n.Select(2, 2)
	n.Escape()
	if _, _, ok := n.Focused(); ok {
		t.Error("Escape should return to browsing")
	}

	n.Select(3, 3)
	n.SetGridSize(2, 2)
	if _, _, ok := n.Focused(); ok {
		t.Error("A grid swap should drop the focus")
	}
}
