package ui

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/varimat/varimat/internal/cache"
	"github.com/varimat/varimat/internal/imaging"
	"github.com/varimat/varimat/internal/palette"
	"github.com/varimat/varimat/internal/textfit"
)

const (
	scrollbarThickness = 10
	captionPad         = 10

	// Reason text on the fullscreen placeholder panel is oversized so it
	// reads from across the room.
	fullscreenTextSize = float32(28)
)

// viewerRenderer rebuilds the draw list from pooled canvas primitives on
// every refresh. Pool slots are claimed by index per frame; slots not claimed
// simply stay out of the draw list, so nothing is freed while panning.
type viewerRenderer struct {
	v *viewer

	bg     *canvas.Rectangle
	rects  []*canvas.Rectangle
	images []*canvas.Image
	texts  []*canvas.Text
	nRect  int
	nImage int
	nText  int

	size    fyne.Size
	objects []fyne.CanvasObject
}

func newViewerRenderer(v *viewer) *viewerRenderer {
	return &viewerRenderer{v: v, bg: canvas.NewRectangle(palette.Background)}
}

func (r *viewerRenderer) Layout(size fyne.Size) {
	v := r.v
	r.size = size
	barH := v.barHeight()
	v.vp.SetViewportSize(float64(size.Width), float64(size.Height-barH))
	if !v.laidOut {
		// First layout is when the window size is finally known, so the
		// startup fit-at-least-3x3 rule applies here.
		v.laidOut = true
		v.vp.Reset()
	}

	btnH := v.pngBtn.MinSize().Height
	v.pngBtn.Resize(fyne.NewSize(exportButtonWidth, btnH))
	v.pngBtn.Move(fyne.NewPos(size.Width-exportButtonWidth, infoBarPad))
	v.htmlBtn.Resize(fyne.NewSize(exportButtonWidth, btnH))
	v.htmlBtn.Move(fyne.NewPos(size.Width-2*exportButtonWidth-10, infoBarPad))

	r.rebuild()
}

func (r *viewerRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *viewerRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.v)
}

func (r *viewerRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *viewerRenderer) Destroy() {}

// rebuild recomposes the frame in the original paint order: data cells, the
// pinned panes over them, the info bar over any bleed at the top, then the
// overlays. Whatever the pass materialized decides what stays cached.
func (r *viewerRenderer) rebuild() {
	r.nRect, r.nImage, r.nText = 0, 0, 0
	r.objects = r.objects[:0]

	r.bg.Resize(r.size)
	r.objects = append(r.objects, r.bg)
	if r.size.Width <= 0 || r.size.Height <= 0 {
		return
	}

	v := r.v
	barH := v.barHeight()
	keep := r.drawGrid(barH)
	r.drawInfoBar(barH)
	r.drawScrollbars(barH)
	fullscreenKey := r.drawFullscreen()
	r.drawProgress()

	v.cache.EvictExcept(keep, fullscreenKey)
}

func (r *viewerRenderer) drawGrid(barH float32) map[string]struct{} {
	v := r.v
	scrollX, scrollY := v.vp.Scroll()
	rowStart, rowEnd, colStart, colEnd := v.vp.VisibleRange()
	col0w := float32(v.vp.ColWidth(0))
	row0h := float32(v.vp.RowHeight(0))

	keep := make(map[string]struct{}, (rowEnd-rowStart)*(colEnd-colStart))

	for row := max(1, rowStart); row < rowEnd; row++ {
		y := float32(v.vp.RowY(row)-scrollY) + barH
		ch := float32(v.vp.RowHeight(row))
		for col := max(1, colStart); col < colEnd; col++ {
			x := float32(v.vp.ColX(col) - scrollX)
			cw := float32(v.vp.ColWidth(col))
			cell := v.model.At(row, col)
			keep[cache.KeyFor(row, col, cell)] = struct{}{}
			r.drawCell(x, y, cw, ch, v.cache.Get(row, col, cell))
		}
	}

	// Pinned filename column, then the header row, then the corner. Later
	// panes cover whatever scrolled beneath them.
	for row := max(1, rowStart); row < rowEnd; row++ {
		y := float32(v.vp.RowY(row)-scrollY) + barH
		ch := float32(v.vp.RowHeight(row))
		r.paintRect(0, y, col0w, ch, palette.Header, palette.Border, palette.BorderWidth)
		r.drawWrapped(v.model.At(row, 0).Text, 0, y, col0w, ch, palette.TextSize, palette.Text)
	}
	for col := max(1, colStart); col < colEnd; col++ {
		x := float32(v.vp.ColX(col) - scrollX)
		cw := float32(v.vp.ColWidth(col))
		r.paintRect(x, barH, cw, row0h, palette.Header, palette.Border, palette.BorderWidth)
		r.drawWrapped(v.model.At(0, col).Text, x, barH, cw, row0h, palette.TextSize, palette.Text)
	}
	r.drawCorner(barH, col0w, row0h)

	return keep
}

func (r *viewerRenderer) drawCell(x, y, w, h float32, entry cache.Entry) {
	switch entry.Kind {
	case cache.EntryBitmap:
		r.paintRect(x, y, w, h, palette.Cell, palette.Border, palette.BorderWidth)
		iw := w - 2*palette.CellPadding
		ih := h - 2*palette.CellPadding
		if iw > 0 && ih > 0 {
			r.paintImage(entry.Image, x+palette.CellPadding, y+palette.CellPadding, iw, ih)
		}
	case cache.EntryPlaceholder:
		r.paintRect(x, y, w, h, palette.Placeholder, palette.Border, palette.BorderWidth)
		r.drawWrapped(entry.Reason, x, y, w, h, palette.ResolutionTextSize, palette.Text)
	case cache.EntryError:
		r.paintRect(x, y, w, h, palette.DecodeError, palette.Border, palette.BorderWidth)
		r.drawWrapped(entry.Reason, x, y, w, h, palette.ResolutionTextSize, palette.Text)
	}
}

// drawCorner pins the top-left cell: the base resolution stacked over the
// live cell edge, centered.
func (r *viewerRenderer) drawCorner(barH, w, h float32) {
	v := r.v
	r.paintRect(0, barH, w, h, palette.Background, palette.Border, palette.BorderWidth)

	lines := []string{v.model.BaseResolution, fmt.Sprintf("%dpx", v.vp.CellSize())}
	lh := lineHeight(palette.ResolutionTextSize)
	top := barH + (h-float32(len(lines))*lh)/2
	for i, line := range lines {
		lw := measureText(line, palette.ResolutionTextSize).Width
		r.paintText(line, (w-lw)/2, top+float32(i)*lh, palette.ResolutionTextSize, palette.DimText)
	}
}

func (r *viewerRenderer) drawInfoBar(barH float32) {
	v := r.v
	r.paintRect(0, 0, r.size.Width, barH, palette.InfoBar, color.Transparent, 0)

	line := v.infoLine()
	th := measureText(line, palette.TextSize).Height
	r.paintText(line, captionPad, (barH-th)/2, palette.TextSize, palette.Text)

	// The export buttons disappear in fullscreen so a click anywhere exits.
	if _, _, ok := v.nav.Focused(); ok {
		v.pngBtn.Hide()
		v.htmlBtn.Hide()
	} else {
		v.pngBtn.Show()
		v.htmlBtn.Show()
	}
	r.objects = append(r.objects, v.htmlBtn, v.pngBtn)
}

func (r *viewerRenderer) drawScrollbars(barH float32) {
	v := r.v
	contentW, contentH := v.vp.ContentSize()
	viewW, viewH := v.vp.ViewportSize()
	scrollX, scrollY := v.vp.Scroll()

	if maxY := contentH - viewH; maxY > 0 {
		frac := float32(scrollY / maxY)
		trackH := float32(viewH)
		handleH := max(float32(scrollbarThickness), trackH*0.1)
		r.paintRect(r.size.Width-scrollbarThickness, barH, scrollbarThickness, trackH,
			palette.ScrollbarTrack, color.Transparent, 0)
		r.paintRect(r.size.Width-scrollbarThickness, barH+frac*(trackH-handleH), scrollbarThickness, handleH,
			palette.ScrollbarHandle, color.Transparent, 0)
	}
	if maxX := contentW - viewW; maxX > 0 {
		frac := float32(scrollX / maxX)
		trackW := r.size.Width
		handleW := max(float32(scrollbarThickness), trackW*0.1)
		r.paintRect(0, r.size.Height-scrollbarThickness, trackW, scrollbarThickness,
			palette.ScrollbarTrack, color.Transparent, 0)
		r.paintRect(frac*(trackW-handleW), r.size.Height-scrollbarThickness, handleW, scrollbarThickness,
			palette.ScrollbarHandle, color.Transparent, 0)
	}
}

// drawFullscreen dims the frame and centers the focused cell's bitmap, fit to
// the window but never cropped. It returns the cache key pinned by the
// overlay so eviction keeps the bitmap while the user pages around.
func (r *viewerRenderer) drawFullscreen() string {
	v := r.v
	row, col, ok := v.nav.Focused()
	if !ok {
		return ""
	}
	w, h := r.size.Width, r.size.Height
	r.paintRect(0, 0, w, h, palette.FullscreenDim, color.Transparent, 0)

	cell := v.model.At(row, col)
	entry := v.cache.Get(row, col, cell)
	if entry.Kind == cache.EntryBitmap {
		b := entry.Image.Bounds()
		fw, fh := imaging.FitInside(b.Dx(), b.Dy(), int(w), int(h))
		r.paintImage(entry.Image, (w-float32(fw))/2, (h-float32(fh))/2, float32(fw), float32(fh))
	} else {
		tint := palette.Placeholder
		if entry.Kind == cache.EntryError {
			tint = palette.DecodeError
		}
		pw, ph := imaging.FitInside(800, 600, int(w), int(h))
		bx := (w - float32(pw)) / 2
		by := (h - float32(ph)) / 2
		r.paintRect(bx, by, float32(pw), float32(ph), tint, color.Transparent, 0)

		lh := lineHeight(fullscreenTextSize)
		measure := func(t string) float32 { return measureText(t, fullscreenTextSize).Width }
		lines := textfit.Fit(entry.Reason, float32(pw)-2*palette.CellPadding, float32(ph)-2*palette.CellPadding, lh, measure)
		top := by + (float32(ph)-float32(len(lines))*lh)/2
		for i, line := range lines {
			r.paintText(line, bx+(float32(pw)-measure(line))/2, top+float32(i)*lh, fullscreenTextSize, palette.BrightText)
		}
	}

	// Caption box, bottom left: where the image sits in the matrix.
	rowLine := "Row: " + v.model.At(row, 0).Text
	colLine := "Column: " + v.model.At(0, col).Text
	lh := lineHeight(palette.TextSize)
	boxW := max(measureText(rowLine, palette.TextSize).Width, measureText(colLine, palette.TextSize).Width) + 2*captionPad
	boxH := 2*lh + 3*captionPad
	boxY := h - boxH - lh - 2*captionPad
	r.paintRect(captionPad, boxY, boxW, boxH, palette.CaptionBG, color.Transparent, 0)
	r.paintText(rowLine, 2*captionPad, boxY+captionPad, palette.TextSize, palette.BrightText)
	r.paintText(colLine, 2*captionPad, boxY+2*captionPad+lh, palette.TextSize, palette.BrightText)

	// Help strip, bottom center.
	helpLine := "Click to exit fullscreen | Arrows: Navigate | ESC: Exit"
	helpBoxW := measureText(helpLine, palette.TextSize).Width + 2*captionPad
	helpBoxH := lh + 2*captionPad
	helpX := (w - helpBoxW) / 2
	r.paintRect(helpX, h-helpBoxH, helpBoxW, helpBoxH, palette.CaptionBG, color.Transparent, 0)
	r.paintText(helpLine, helpX+captionPad, h-helpBoxH+captionPad, palette.TextSize, palette.HelpText)

	return cache.KeyFor(row, col, cell)
}

func (r *viewerRenderer) drawProgress() {
	v := r.v
	if v.job == nil {
		return
	}
	w, h := r.size.Width, r.size.Height
	r.paintRect(0, 0, w, h, palette.ProgressDim, color.Transparent, 0)

	pw, ph := float32(400), float32(30)
	bx := (w - pw) / 2
	by := (h - ph) / 2
	p := float32(v.job.Progress())
	r.paintRect(bx, by, pw, ph, palette.ProgressTrack, color.Transparent, 0)
	r.paintRect(bx, by, pw*p, ph, palette.ProgressFill, color.Transparent, 0)
	r.paintRect(bx, by, pw, ph, color.Transparent, palette.ProgressBorder, 2)

	pct := fmt.Sprintf("%d%%", int(p*100))
	sz := measureText(pct, palette.TextSize)
	r.paintText(pct, bx+(pw-sz.Width)/2, by+(ph-sz.Height)/2, palette.TextSize, palette.BrightText)

	if msg := v.job.Message(); msg != "" {
		msz := measureText(msg, palette.TextSize)
		r.paintText(msg, bx+(pw-msz.Width)/2, by-30-msz.Height/2, palette.TextSize, palette.BrightText)
	}
}

// drawWrapped lays wrapped label lines from the top of the padded cell box,
// the same alignment the export mosaic uses.
func (r *viewerRenderer) drawWrapped(s string, x, y, w, h, size float32, col color.Color) {
	boxW := w - 2*palette.CellPadding
	boxH := h - 2*palette.CellPadding
	if s == "" || boxW <= 0 || boxH <= 0 {
		return
	}
	lh := lineHeight(size)
	lines := textfit.Fit(s, boxW, boxH, lh, func(t string) float32 {
		return measureText(t, size).Width
	})
	for i, line := range lines {
		r.paintText(line, x+palette.CellPadding, y+palette.CellPadding+float32(i)*lh, size, col)
	}
}

func (r *viewerRenderer) paintRect(x, y, w, h float32, fill color.Color, stroke color.Color, strokeW float32) {
	if r.nRect == len(r.rects) {
		r.rects = append(r.rects, canvas.NewRectangle(color.Transparent))
	}
	rect := r.rects[r.nRect]
	r.nRect++
	if rect.FillColor != fill || rect.StrokeColor != stroke || rect.StrokeWidth != strokeW {
		rect.FillColor = fill
		rect.StrokeColor = stroke
		rect.StrokeWidth = strokeW
		rect.Refresh()
	}
	rect.Move(fyne.NewPos(x, y))
	rect.Resize(fyne.NewSize(w, h))
	r.objects = append(r.objects, rect)
}

func (r *viewerRenderer) paintImage(img image.Image, x, y, w, h float32) {
	if r.nImage == len(r.images) {
		ci := canvas.NewImageFromImage(nil)
		ci.FillMode = canvas.ImageFillStretch
		ci.ScaleMode = canvas.ImageScaleFastest
		r.images = append(r.images, ci)
	}
	ci := r.images[r.nImage]
	r.nImage++
	if ci.Image != img {
		ci.Image = img
		ci.Refresh()
	}
	ci.Move(fyne.NewPos(x, y))
	ci.Resize(fyne.NewSize(w, h))
	r.objects = append(r.objects, ci)
}

func (r *viewerRenderer) paintText(s string, x, y, size float32, col color.Color) {
	if r.nText == len(r.texts) {
		r.texts = append(r.texts, canvas.NewText("", color.White))
	}
	t := r.texts[r.nText]
	r.nText++
	if t.Text != s || t.TextSize != size || t.Color != col {
		t.Text = s
		t.TextSize = size
		t.Color = col
		t.Refresh()
	}
	t.Move(fyne.NewPos(x, y))
	t.Resize(t.MinSize())
	r.objects = append(r.objects, t)
}

func measureText(s string, size float32) fyne.Size {
	sz, _ := fyne.CurrentApp().Driver().RenderedTextSize(s, size, fyne.TextStyle{}, nil)
	return sz
}

func lineHeight(size float32) float32 {
	return measureText("A", size).Height
}
