package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"

	"github.com/varimat/varimat/internal/grid"
	"github.com/varimat/varimat/internal/imaging"
	"github.com/varimat/varimat/internal/logging"
	"github.com/varimat/varimat/internal/palette"
	"github.com/varimat/varimat/internal/textfit"
	"github.com/varimat/varimat/internal/viewport"
)

// exportPNG paints the whole grid, headers included, into one mosaic sized by
// the snapshot's cell size. Cells render the way the window renders them:
// images stretched edge to edge inside the padding, placeholders and decode
// failures tinted, labels wrapped.
func exportPNG(snap Snapshot, job *Job) (string, error) {
	g := snap.Grid
	faces, err := newFaceSet()
	if err != nil {
		return "", err
	}
	defer faces.Close()

	labelW := nameColumnWidth(g, faces)
	headerH := headerRowHeight(g, faces, snap.CellSize)

	totalW := labelW + (g.Cols-1)*snap.CellSize
	totalH := headerH + (g.Rows-1)*snap.CellSize
	canvas := image.NewRGBA(image.Rect(0, 0, totalW, totalH))
	fill(canvas, canvas.Bounds(), palette.Background)

	job.total.Store(int64(g.CellCount()))

	y := 0
	for row := 0; row < g.Rows; row++ {
		rowH := snap.CellSize
		if row == 0 {
			rowH = headerH
		}
		x := 0
		for col := 0; col < g.Cols; col++ {
			colW := snap.CellSize
			if col == 0 {
				colW = labelW
			}
			paintCell(canvas, g, row, col, image.Rect(x, y, x+colW, y+rowH), faces, snap.CellSize)
			job.step()
			x += colW
		}
		y += rowH
	}

	name := fmt.Sprintf("grid_export_%s.png", time.Now().Format("20060102_150405"))
	out := filepath.Join(outputDir(snap), name)
	if err := writePNG(out, canvas); err != nil {
		return "", err
	}
	return out, nil
}

// nameColumnWidth sizes column 0 to the widest filename label, within the
// pinned-pane bounds.
func nameColumnWidth(g *grid.Grid, faces *faceSet) int {
	w := viewport.HeaderSoftMin
	for row := 1; row < g.Rows; row++ {
		text := g.At(row, 0).Text
		if text == "" {
			continue
		}
		tw := textWidth(faces.label, text) + 4*palette.CellPadding
		if tw > viewport.MaxFilenameColWidth {
			tw = viewport.MaxFilenameColWidth
		}
		if tw > w {
			w = tw
		}
	}
	return w
}

// headerRowHeight sizes row 0 to the tallest wrapped column header, within
// the pinned-pane bounds.
func headerRowHeight(g *grid.Grid, faces *faceSet, cellW int) int {
	h := viewport.HeaderSoftMin
	lh := lineHeight(faces.label)
	measure := measurer(faces.label)
	boxW := float32(cellW - 2*palette.CellPadding)
	boxH := float32(viewport.MaxHeaderRowHeight - 2*palette.CellPadding)
	for col := 1; col < g.Cols; col++ {
		text := g.At(0, col).Text
		if text == "" {
			continue
		}
		lines := textfit.Fit(text, boxW, boxH, float32(lh), measure)
		th := len(lines)*lh + 2*palette.CellPadding
		if th > viewport.MaxHeaderRowHeight {
			th = viewport.MaxHeaderRowHeight
		}
		if th > h {
			h = th
		}
	}
	return h
}

func paintCell(canvas *image.RGBA, g *grid.Grid, row, col int, box image.Rectangle, faces *faceSet, cellSize int) {
	cell := g.At(row, col)

	bg := palette.Cell
	switch {
	case row == 0 && col == 0:
		bg = palette.Background
	case row == 0 || col == 0:
		bg = palette.Header
	case cell.Kind == grid.KindPlaceholder:
		bg = palette.Placeholder
	}
	fill(canvas, box, bg)

	inset := box.Inset(palette.CellPadding)
	switch {
	case row == 0 && col == 0:
		paintCorner(canvas, g, box, faces, cellSize)
	case row == 0 || col == 0:
		paintLabel(canvas, cell.Text, inset, faces.label)
	case cell.Kind == grid.KindImage:
		img, err := imaging.Load(cell.Path)
		if err != nil {
			logging.Export.Printf("load %s: %v", cell.Path, err)
			fill(canvas, box, palette.DecodeError)
			paintLabel(canvas, imaging.FailureReason(cell.Path, err), inset, faces.small)
		} else {
			scaled := imaging.Stretch(img, inset.Dx(), inset.Dy())
			draw.Draw(canvas, inset, scaled, image.Point{}, draw.Src)
		}
	}
	outline(canvas, box, palette.Border)
}

// paintCorner stacks the base resolution over the live cell edge, centered in
// the corner cell.
func paintCorner(canvas *image.RGBA, g *grid.Grid, box image.Rectangle, faces *faceSet, cellSize int) {
	if g.BaseResolution == "" {
		return
	}
	lines := []string{g.BaseResolution, fmt.Sprintf("%dpx", cellSize)}
	lh := lineHeight(faces.small)
	top := box.Min.Y + (box.Dy()-len(lines)*lh)/2
	for i, line := range lines {
		w := textWidth(faces.small, line)
		drawString(canvas, faces.small, box.Min.X+(box.Dx()-w)/2, top+i*lh, palette.Text, line)
	}
}

func paintLabel(canvas *image.RGBA, text string, inset image.Rectangle, face font.Face) {
	if text == "" {
		return
	}
	lh := lineHeight(face)
	lines := textfit.Fit(text, float32(inset.Dx()), float32(inset.Dy()), float32(lh), measurer(face))
	for i, line := range lines {
		drawString(canvas, face, inset.Min.X, inset.Min.Y+i*lh, palette.Text, line)
	}
}

func fill(dst *image.RGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// outline strokes a border just inside r.
func outline(dst *image.RGBA, r image.Rectangle, c color.NRGBA) {
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+palette.BorderWidth), c)
	fill(dst, image.Rect(r.Min.X, r.Max.Y-palette.BorderWidth, r.Max.X, r.Max.Y), c)
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+palette.BorderWidth, r.Max.Y), c)
	fill(dst, image.Rect(r.Max.X-palette.BorderWidth, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// writePNG writes through a temp file in the destination directory so the
// named artifact only ever appears complete.
func writePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".grid_export_*.png")
	if err != nil {
		return err
	}
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
