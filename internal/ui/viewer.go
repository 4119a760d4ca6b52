// Package ui hosts the viewer window: one canvas-drawn widget composing the
// info bar, the virtualized grid, the fullscreen inspector and the export
// progress overlay, plus the folder pickers and app wiring around it.
package ui

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/varimat/varimat/internal/cache"
	"github.com/varimat/varimat/internal/config"
	"github.com/varimat/varimat/internal/export"
	"github.com/varimat/varimat/internal/grid"
	"github.com/varimat/varimat/internal/logging"
	"github.com/varimat/varimat/internal/nav"
	"github.com/varimat/varimat/internal/viewport"
)

const (
	infoBarPad        = 5
	exportButtonWidth = 110
	statusDuration    = 4 * time.Second
)

// viewer is the whole window content. It owns the view state and translates
// input into viewport, cache and navigator calls; its renderer recomposes the
// frame from pooled canvas primitives on every refresh.
type viewer struct {
	widget.BaseWidget

	model *grid.Grid
	vp    *viewport.Controller
	cache *cache.Cache
	nav   *nav.Navigator

	pipeline  *export.Pipeline
	job       *export.Job
	exportDir string

	pngBtn  *widget.Button
	htmlBtn *widget.Button

	scrollStep int
	accDY      float32
	laidOut    bool

	status      string
	statusTimer *time.Timer

	exportTicker *time.Ticker
	exportStop   chan struct{}

	onReload func() (*grid.Grid, error)
	onQuit   func()
}

func newViewer(model *grid.Grid, cfg *config.Config, reload func() (*grid.Grid, error), quit func()) *viewer {
	v := &viewer{
		model:      model,
		vp:         viewport.New(model.Rows, model.Cols, model.BaseCellSize),
		cache:      cache.New(nil),
		nav:        nav.New(model.Rows, model.Cols),
		pipeline:   &export.Pipeline{},
		exportDir:  cfg.ExportDir,
		scrollStep: cfg.ScrollStep,
		onReload:   reload,
		onQuit:     quit,
	}
	v.vp.SetZoomStep(cfg.ZoomStep)
	v.pngBtn = widget.NewButton("Export PNG (E)", func() {
		v.startExport(export.PNG)
		v.refocus()
	})
	v.htmlBtn = widget.NewButton("Export HTML (H)", func() {
		v.startExport(export.HTML)
		v.refocus()
	})
	v.ExtendBaseWidget(v)
	return v
}

func (v *viewer) CreateRenderer() fyne.WidgetRenderer {
	return newViewerRenderer(v)
}

// barHeight is the info bar strip in widget coordinates; the grid area starts
// right below it.
func (v *viewer) barHeight() float32 {
	return v.pngBtn.MinSize().Height + 2*infoBarPad
}

// setModel swaps in a freshly built grid: viewport reset, fullscreen dropped,
// decode cache cleared.
func (v *viewer) setModel(m *grid.Grid) {
	v.model = m
	v.vp.SetGridSize(m.Rows, m.Cols, m.BaseCellSize)
	v.nav.SetGridSize(m.Rows, m.Cols)
	v.cache = cache.New(nil)
	v.vp.Reset()
	v.Refresh()
}

// reload swaps in a freshly built grid. The callback reports its own errors;
// on failure the current grid stays up.
func (v *viewer) reload() {
	if v.onReload == nil {
		return
	}
	g, err := v.onReload()
	if err != nil {
		logging.Debug.Printf("reload: %v", err)
		return
	}
	v.setModel(g)
}

func (v *viewer) infoLine() string {
	if v.status != "" {
		return v.status
	}
	return fmt.Sprintf("Base: %s | Zoom: %.1fx | Rows: %d | Columns: %d | Cells: %d",
		filepath.Base(v.model.BaseFolder), v.vp.Zoom(), v.model.Rows, v.model.Cols, v.model.CellCount())
}

// setStatus swaps the info line for a transient message.
func (v *viewer) setStatus(s string) {
	v.status = s
	if v.statusTimer != nil {
		v.statusTimer.Stop()
	}
	v.statusTimer = time.AfterFunc(statusDuration, func() {
		fyne.Do(func() {
			v.status = ""
			v.Refresh()
		})
	})
	v.Refresh()
}

func (v *viewer) startExport(kind export.Kind) {
	snap := export.Snapshot{Grid: v.model, CellSize: v.vp.CellSize(), Dir: v.exportDir}
	job := v.pipeline.Start(kind, snap)
	if job == nil {
		v.setStatus("Export already in progress")
		return
	}
	v.job = job
	v.startExportTicker()
	v.Refresh()
}

func (v *viewer) startExportTicker() {
	if v.exportTicker != nil {
		return
	}
	v.exportTicker = time.NewTicker(50 * time.Millisecond)
	v.exportStop = make(chan struct{})

	stop := v.exportStop
	ticker := v.exportTicker
	go func() {
		for {
			select {
			case <-ticker.C:
				fyne.Do(func() {
					v.exportTick()
				})
			case <-stop:
				return
			}
		}
	}()
}

func (v *viewer) stopExportTicker() {
	if v.exportTicker == nil {
		return
	}
	v.exportTicker.Stop()
	v.exportTicker = nil
	if v.exportStop != nil {
		close(v.exportStop)
		v.exportStop = nil
	}
}

func (v *viewer) exportTick() {
	if v.job == nil {
		v.stopExportTicker()
		return
	}
	select {
	case res := <-v.job.Done():
		v.job = nil
		v.stopExportTicker()
		if res.Err != nil {
			v.setStatus(fmt.Sprintf("Export failed: %v", res.Err))
			return
		}
		v.setStatus(fmt.Sprintf("Exported to %s", res.Path))
	default:
		v.Refresh()
	}
}

// refocus returns keyboard focus after a button click so the shortcuts keep
// working.
func (v *viewer) refocus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(v); c != nil {
		c.Focus(v)
	}
}

// Tapped exits fullscreen from anywhere, or toggles it on the data cell under
// the pointer. The pinned panes win the hit-test over the cells scrolling
// beneath them.
func (v *viewer) Tapped(e *fyne.PointEvent) {
	if _, _, ok := v.nav.Focused(); ok {
		v.nav.Escape()
		v.Refresh()
		return
	}
	row, col, ok := v.vp.CellAt(float64(e.Position.X), float64(e.Position.Y-v.barHeight()))
	if !ok || !v.model.IsData(row, col) {
		return
	}
	v.nav.Select(row, col)
	v.Refresh()
}

func (v *viewer) Dragged(e *fyne.DragEvent) {
	if _, _, ok := v.nav.Focused(); ok {
		return
	}
	v.vp.ScrollBy(float64(-e.Dragged.DX), float64(-e.Dragged.DY))
	v.Refresh()
}

func (v *viewer) DragEnd() {}

func (v *viewer) Scrolled(e *fyne.ScrollEvent) {
	if _, _, ok := v.nav.Focused(); ok {
		return
	}

	// Fyne scroll deltas are scaled; on typical mouse wheels, DY is ~40 per
	// notch. Accumulate so touchpads don't zoom too quickly.
	const notch = float32(40)

	if math.IsNaN(float64(e.Scrolled.DY)) || math.IsInf(float64(e.Scrolled.DY), 0) {
		return
	}

	v.accDY += e.Scrolled.DY

	var steps int
	for v.accDY >= notch {
		steps++
		v.accDY -= notch
	}
	for v.accDY <= -notch {
		steps--
		v.accDY += notch
	}

	if steps == 0 {
		return
	}
	v.vp.ZoomAt(steps, float64(e.Position.X), float64(e.Position.Y-v.barHeight()))
	v.Refresh()
}

// TypedKey drives the two keyboard modes: fullscreen answers only to Escape
// and the arrows, browsing pans with the arrows and quits on Escape.
func (v *viewer) TypedKey(e *fyne.KeyEvent) {
	if _, _, ok := v.nav.Focused(); ok {
		switch e.Name {
		case fyne.KeyEscape:
			v.nav.Escape()
			v.Refresh()
		case fyne.KeyUp:
			if v.nav.Navigate(-1, 0) {
				v.Refresh()
			}
		case fyne.KeyDown:
			if v.nav.Navigate(1, 0) {
				v.Refresh()
			}
		case fyne.KeyLeft:
			if v.nav.Navigate(0, -1) {
				v.Refresh()
			}
		case fyne.KeyRight:
			if v.nav.Navigate(0, 1) {
				v.Refresh()
			}
		}
		return
	}

	step := float64(v.scrollStep)
	switch e.Name {
	case fyne.KeyEscape:
		if v.onQuit != nil {
			v.onQuit()
		}
	case fyne.KeyUp:
		v.vp.ScrollBy(0, -step)
		v.Refresh()
	case fyne.KeyDown:
		v.vp.ScrollBy(0, step)
		v.Refresh()
	case fyne.KeyLeft:
		v.vp.ScrollBy(-step, 0)
		v.Refresh()
	case fyne.KeyRight:
		v.vp.ScrollBy(step, 0)
		v.Refresh()
	}
}

func (v *viewer) TypedRune(r rune) {
	if _, _, ok := v.nav.Focused(); ok {
		return
	}
	switch r {
	case 'r', 'R':
		v.reload()
	case 'e', 'E':
		v.startExport(export.PNG)
	case 'h', 'H':
		v.startExport(export.HTML)
	case '0':
		v.vp.Reset()
		v.Refresh()
	case '+', '=':
		v.vp.ZoomAtCenter(1)
		v.Refresh()
	case '-':
		v.vp.ZoomAtCenter(-1)
		v.Refresh()
	}
}

func (v *viewer) FocusGained() {}

func (v *viewer) FocusLost() {}

var (
	_ fyne.Tappable   = (*viewer)(nil)
	_ fyne.Draggable  = (*viewer)(nil)
	_ fyne.Scrollable = (*viewer)(nil)
	_ fyne.Focusable  = (*viewer)(nil)
)
