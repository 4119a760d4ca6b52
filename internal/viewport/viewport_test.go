package viewport

import (
	"math"
	"testing"
)

func TestZoomAt_ClampedAndIdempotent(t *testing.T) {
	c := New(100, 100, 100)
	c.SetViewportSize(1024, 768)

	// Push far past the ceiling
	for i := 0; i < 100; i++ {
		c.ZoomAt(1, 512, 384)
	}
	if got := c.Zoom(); math.Abs(got-MaxZoom) > 1e-9 {
		t.Fatalf("Zoom should clamp at %v, got %v", MaxZoom, got)
	}

	zoom, cell := c.Zoom(), c.CellSize()
	sx, sy := c.Scroll()
	c.ZoomAt(1, 512, 384)
	if c.Zoom() != zoom || c.CellSize() != cell {
		t.Errorf("Zooming at the ceiling changed the zoom: %v/%d -> %v/%d", zoom, cell, c.Zoom(), c.CellSize())
	}
	if gx, gy := c.Scroll(); gx != sx || gy != sy {
		t.Errorf("Zooming at the ceiling drifted the scroll: (%v,%v) -> (%v,%v)", sx, sy, gx, gy)
	}

	// And past the floor
	for i := 0; i < 200; i++ {
		c.ZoomAt(-1, 512, 384)
	}
	if got := c.Zoom(); math.Abs(got-MinZoom) > 1e-9 {
		t.Errorf("Zoom should clamp at %v, got %v", MinZoom, got)
	}
	if c.CellSize() < 1 {
		t.Errorf("Cell size must never drop below 1px, got %d", c.CellSize())
	}
}

func TestZoomAt_PreservesAnchor(t *testing.T) {
	c := New(50, 50, 100)
	c.SetViewportSize(1000, 800)
	c.ScrollBy(500, 400)

	anchorX, anchorY := 300.0, 200.0
	sx, sy := c.Scroll()
	beforeX := (sx + anchorX) / float64(c.CellSize())
	beforeY := (sy + anchorY) / float64(c.CellSize())

	c.ZoomAt(1, anchorX, anchorY)

	sx, sy = c.Scroll()
	afterX := (sx + anchorX) / float64(c.CellSize())
	afterY := (sy + anchorY) / float64(c.CellSize())

	cell := float64(c.CellSize())
	if dx := math.Abs(afterX-beforeX) * cell; dx >= 1 {
		t.Errorf("Anchor drifted %vpx horizontally", dx)
	}
	if dy := math.Abs(afterY-beforeY) * cell; dy >= 1 {
		t.Errorf("Anchor drifted %vpx vertically", dy)
	}
}

func TestVisibleRange_BufferedEnds(t *testing.T) {
	c := New(100, 100, 100)
	c.SetViewportSize(1024, 768)

	r0, r1, c0, c1 := c.VisibleRange()
	if r0 != 0 || c0 != 0 {
		t.Errorf("At origin the range should start at 0,0, got %d,%d", r0, c0)
	}
	// Strict ends are 8 rows and 11 columns; the buffer adds 2 to each.
	if r1 != 10 {
		t.Errorf("Buffered row end should be 10, got %d", r1)
	}
	if c1 != 13 {
		t.Errorf("Buffered column end should be 13, got %d", c1)
	}
}

func TestVisibleRange_ClampedToGrid(t *testing.T) {
	c := New(5, 4, 100)
	c.SetViewportSize(1024, 768)

	_, r1, _, c1 := c.VisibleRange()
	if r1 != 5 || c1 != 4 {
		t.Errorf("Range must clamp to the grid: got ends %d,%d want 5,4", r1, c1)
	}
}

func TestVisibleRange_Scrolled(t *testing.T) {
	c := New(100, 100, 100)
	c.SetViewportSize(1024, 768)
	c.ScrollBy(250, 430)

	r0, r1, c0, c1 := c.VisibleRange()
	if r0 != 4 || r1 != 14 {
		t.Errorf("Row range after scroll: got [%d,%d) want [4,14)", r0, r1)
	}
	if c0 != 2 || c1 != 15 {
		t.Errorf("Column range after scroll: got [%d,%d) want [2,15)", c0, c1)
	}
}

func TestReset_FitsThreeByThree(t *testing.T) {
	c := New(100, 100, 200)
	c.SetViewportSize(500, 400)
	c.ScrollBy(5000, 5000)

	c.Reset()

	if sx, sy := c.Scroll(); sx != 0 || sy != 0 {
		t.Errorf("Reset should return to the origin, got (%v,%v)", sx, sy)
	}
	cell := c.CellSize()
	if int(500)/cell < 3 || int(400)/cell < 3 {
		t.Errorf("Reset should fit at least 3x3 cells, cell size %d in 500x400", cell)
	}
}

func TestReset_RespectsZoomFloor(t *testing.T) {
	c := New(100, 100, 300)
	c.SetViewportSize(200, 200)

	c.Reset()

	if got := c.Zoom(); math.Abs(got-MinStartZoom) > 1e-9 {
		t.Errorf("Reset zoom should stop at the %v floor, got %v", MinStartZoom, got)
	}
}

func TestReset_KeepsZoomWhenGridFits(t *testing.T) {
	c := New(100, 100, 100)
	c.SetViewportSize(1024, 768)

	c.Reset()

	if got := c.Zoom(); got != 1.0 {
		t.Errorf("Reset should stay at zoom 1.0 when 3x3 already fits, got %v", got)
	}
}

func TestScrollBy_Clamped(t *testing.T) {
	c := New(10, 10, 100)
	c.SetViewportSize(1024, 768)

	c.ScrollBy(-50, -50)
	if sx, sy := c.Scroll(); sx != 0 || sy != 0 {
		t.Errorf("Scroll must not go negative, got (%v,%v)", sx, sy)
	}

	c.ScrollBy(5000, 5000)
	sx, sy := c.Scroll()
	// Content is 100 + 9*100 = 1000px in each direction.
	if sx != 0 {
		t.Errorf("Content narrower than the view must not scroll, got x=%v", sx)
	}
	if want := 1000.0 - 768.0; sy != want {
		t.Errorf("Scroll should clamp at %v, got %v", want, sy)
	}
}

func TestSetViewportSize_Reclamps(t *testing.T) {
	c := New(10, 10, 100)
	c.SetViewportSize(400, 400)
	c.ScrollBy(5000, 5000)

	sx, sy := c.Scroll()
	if sx != 600 || sy != 600 {
		t.Fatalf("Expected scroll (600,600) before the resize, got (%v,%v)", sx, sy)
	}

	c.SetViewportSize(900, 900)
	if sx, sy = c.Scroll(); sx != 100 || sy != 100 {
		t.Errorf("Growing the view should pull the scroll back to (100,100), got (%v,%v)", sx, sy)
	}
}

func TestPinnedPaneBounds(t *testing.T) {
	c := New(10, 10, 1000)
	c.SetViewportSize(1024, 768)

	if w := c.ColWidth(0); w != MaxFilenameColWidth {
		t.Errorf("Filename column should cap at %d, got %d", MaxFilenameColWidth, w)
	}
	if h := c.RowHeight(0); h != MaxHeaderRowHeight {
		t.Errorf("Header row should cap at %d, got %d", MaxHeaderRowHeight, h)
	}
	if w := c.ColWidth(3); w != 1000 {
		t.Errorf("Data columns should track cellSize, got %d", w)
	}

	small := New(10, 10, 50)
	if w := small.ColWidth(0); w != 50 {
		t.Errorf("Panes must never exceed cellSize, got %d for cell 50", w)
	}
}

func TestCellAt_HonorsPinnedPanes(t *testing.T) {
	c := New(20, 20, 100)
	c.SetViewportSize(1000, 800)

	if row, col, ok := c.CellAt(50, 50); !ok || row != 0 || col != 0 {
		t.Errorf("Corner hit: got (%d,%d,%v)", row, col, ok)
	}
	if row, col, ok := c.CellAt(150, 150); !ok || row != 1 || col != 1 {
		t.Errorf("First data cell hit: got (%d,%d,%v)", row, col, ok)
	}

	c.ScrollBy(200, 300)
	// The filename column stays put while data scrolls beneath it.
	if row, col, ok := c.CellAt(50, 150); !ok || col != 0 {
		t.Errorf("Pinned column hit after scroll: got (%d,%d,%v)", row, col, ok)
	}
	if row, _, ok := c.CellAt(50, 150); !ok || row != 1+int((150+300-100)/100) {
		t.Errorf("Scrolled row index wrong: got %d", row)
	}
	if _, col, ok := c.CellAt(150, 150); !ok || col != 1+int((150+200-100)/100) {
		t.Errorf("Scrolled column index wrong: got %d", col)
	}

	if _, _, ok := c.CellAt(-5, 50); ok {
		t.Error("Negative coordinates must miss")
	}
	far := New(2, 2, 100)
	far.SetViewportSize(1000, 800)
	if _, _, ok := far.CellAt(900, 700); ok {
		t.Error("Hits past the content must miss")
	}
}
