// Package viewport owns the grid's view math: zoom, pan, pinned header
// panes, and which cell strips are worth materializing this frame.
package viewport

import "math"

const (
	MinZoom      = 0.05
	MaxZoom      = 3.0
	MinStartZoom = 0.5

	DefaultZoomStep   = 0.05
	DefaultScrollStep = 30

	// Trailing-edge slack so scrolling reveals cells that are already
	// decoded.
	BufferRows = 2
	BufferCols = 2

	// Pinned pane bounds. Interactive panes track cellSize inside the hard
	// bounds and never exceed it, so the strip math below stays exact.
	// HeaderSoftMin is the readability floor used by the exporters.
	MaxHeaderRowHeight  = 200
	MaxFilenameColWidth = 256
	HeaderSoftMin       = 128
)

// Controller tracks one grid view. All coordinates are pixels in the grid
// area's own space; the caller feeds it the area size explicitly.
type Controller struct {
	rows, cols int
	base       int
	zoomStep   float64

	zoom     float64
	cellSize int

	viewW, viewH     float64
	scrollX, scrollY float64
}

// New returns a controller at zoom 1.0 over a rows by cols grid whose cell
// edge at zoom 1.0 is baseCellSize pixels.
func New(rows, cols, baseCellSize int) *Controller {
	if baseCellSize < 1 {
		baseCellSize = 1
	}
	return &Controller{
		rows:     rows,
		cols:     cols,
		base:     baseCellSize,
		zoomStep: DefaultZoomStep,
		zoom:     1.0,
		cellSize: baseCellSize,
	}
}

// SetZoomStep overrides the per-notch zoom increment.
func (c *Controller) SetZoomStep(step float64) {
	if step > 0 {
		c.zoomStep = step
	}
}

// SetGridSize swaps in new grid dimensions (reload) keeping zoom and scroll,
// re-clamped.
func (c *Controller) SetGridSize(rows, cols, baseCellSize int) {
	c.rows, c.cols = rows, cols
	if baseCellSize >= 1 {
		c.base = baseCellSize
		c.cellSize = cellSizeFor(c.base, c.zoom)
	}
	c.clampScroll()
}

// SetViewportSize records the grid area size and re-clamps the scroll so a
// shrinking window cannot leave the view past the content edge.
func (c *Controller) SetViewportSize(w, h float64) {
	c.viewW, c.viewH = w, h
	c.clampScroll()
}

func (c *Controller) Zoom() float64            { return c.zoom }
func (c *Controller) CellSize() int            { return c.cellSize }
func (c *Controller) Scroll() (x, y float64)   { return c.scrollX, c.scrollY }
func (c *Controller) ViewportSize() (w, h float64) { return c.viewW, c.viewH }

// ZoomAt applies direction zoom notches keeping the grid coordinate under
// the anchor pixel fixed. At a zoom bound the call is a no-op, scroll
// included.
func (c *Controller) ZoomAt(direction int, anchorX, anchorY float64) {
	oldCell := float64(c.cellSize)
	c.zoom = clamp(c.zoom+float64(direction)*c.zoomStep, MinZoom, MaxZoom)
	c.cellSize = cellSizeFor(c.base, c.zoom)

	gridX := (c.scrollX + anchorX) / oldCell
	gridY := (c.scrollY + anchorY) / oldCell
	c.scrollX = gridX*float64(c.cellSize) - anchorX
	c.scrollY = gridY*float64(c.cellSize) - anchorY
	c.clampScroll()
}

// ZoomAtCenter zooms anchored at the middle of the view (keyboard zoom).
func (c *Controller) ZoomAtCenter(direction int) {
	c.ZoomAt(direction, c.viewW/2, c.viewH/2)
}

// ScrollBy pans by dx, dy pixels, clamped to the content.
func (c *Controller) ScrollBy(dx, dy float64) {
	c.scrollX += dx
	c.scrollY += dy
	c.clampScroll()
}

// Reset returns to the origin at zoom 1.0, shrinking the zoom when fewer
// than 3 columns or 3 rows would fit, but never below MinStartZoom.
func (c *Controller) Reset() {
	c.zoom = 1.0
	c.cellSize = cellSizeFor(c.base, c.zoom)
	visCols := int(c.viewW) / c.cellSize
	visRows := int(c.viewH) / c.cellSize
	if visCols < 3 || visRows < 3 {
		required := math.Max(MinStartZoom, math.Min(c.viewW/3, c.viewH/3)/float64(c.base))
		c.zoom = clamp(required, MinZoom, MaxZoom)
		c.cellSize = cellSizeFor(c.base, c.zoom)
	}
	c.scrollX, c.scrollY = 0, 0
	c.clampScroll()
}

// VisibleRange returns the half-open row and column index ranges worth
// materializing: the strips intersecting the view plus the trailing buffer.
func (c *Controller) VisibleRange() (rowStart, rowEnd, colStart, colEnd int) {
	cell := float64(c.cellSize)
	rowStart = max(0, int(c.scrollY/cell))
	rowEnd = min(c.rows, int((c.scrollY+c.viewH)/cell)+1+BufferRows)
	colStart = max(0, int(c.scrollX/cell))
	colEnd = min(c.cols, int((c.scrollX+c.viewW)/cell)+1+BufferCols)
	if rowEnd < rowStart {
		rowEnd = rowStart
	}
	if colEnd < colStart {
		colEnd = colStart
	}
	return rowStart, rowEnd, colStart, colEnd
}

// ColWidth returns the width of a column: the pinned filename column tracks
// cellSize inside its bounds, every other column is cellSize.
func (c *Controller) ColWidth(col int) int {
	if col == 0 {
		return clampInt(c.cellSize, 1, MaxFilenameColWidth)
	}
	return c.cellSize
}

// RowHeight returns the height of a row: the pinned header row tracks
// cellSize inside its bounds, every other row is cellSize.
func (c *Controller) RowHeight(row int) int {
	if row == 0 {
		return clampInt(c.cellSize, 1, MaxHeaderRowHeight)
	}
	return c.cellSize
}

// ColX returns the column's left edge in content space.
func (c *Controller) ColX(col int) float64 {
	if col <= 0 {
		return 0
	}
	return float64(c.ColWidth(0) + (col-1)*c.cellSize)
}

// RowY returns the row's top edge in content space.
func (c *Controller) RowY(row int) float64 {
	if row <= 0 {
		return 0
	}
	return float64(c.RowHeight(0) + (row-1)*c.cellSize)
}

// ContentSize is the full extent of the grid in pixels.
func (c *Controller) ContentSize() (w, h float64) {
	if c.cols > 0 {
		w = float64(c.ColWidth(0) + (c.cols-1)*c.cellSize)
	}
	if c.rows > 0 {
		h = float64(c.RowHeight(0) + (c.rows-1)*c.cellSize)
	}
	return w, h
}

// CellAt hit-tests a pixel in the grid area to a cell coordinate, honoring
// the pinned panes: the header row and filename column win over the data
// cells that scroll beneath them. Returns ok=false outside the grid.
func (c *Controller) CellAt(x, y float64) (row, col int, ok bool) {
	if x < 0 || y < 0 || c.rows == 0 || c.cols == 0 {
		return 0, 0, false
	}

	if x < float64(c.ColWidth(0)) {
		col = 0
	} else {
		col = 1 + int((x+c.scrollX-float64(c.ColWidth(0)))/float64(c.cellSize))
	}
	if y < float64(c.RowHeight(0)) {
		row = 0
	} else {
		row = 1 + int((y+c.scrollY-float64(c.RowHeight(0)))/float64(c.cellSize))
	}

	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return 0, 0, false
	}
	return row, col, true
}

func (c *Controller) clampScroll() {
	contentW, contentH := c.ContentSize()
	maxX := math.Max(0, contentW-c.viewW)
	maxY := math.Max(0, contentH-c.viewH)
	c.scrollX = clamp(c.scrollX, 0, maxX)
	c.scrollY = clamp(c.scrollY, 0, maxY)
}

// cellSizeFor rounds the zoomed edge, floored at 1px so strip math never
// divides by zero.
func cellSizeFor(base int, zoom float64) int {
	size := int(math.Round(float64(base) * zoom))
	if size < 1 {
		size = 1
	}
	return size
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
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
