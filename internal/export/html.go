package export

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/safehtml"
	"github.com/google/safehtml/template"

	"github.com/varimat/varimat/internal/grid"
	"github.com/varimat/varimat/internal/imaging"
	"github.com/varimat/varimat/internal/logging"
	"github.com/varimat/varimat/internal/palette"
	"github.com/varimat/varimat/internal/viewport"
)

//go:embed templates/gallery.html
var templateFS embed.FS

// galleryPage is the template's root data.
type galleryPage struct {
	BaseFolder string
	Generated  string
	Rows       int
	Cols       int
	CellSize   int
	Header     []galleryCell
	BodyRows   []galleryRow
}

type galleryRow struct {
	Cells []galleryCell
}

// galleryCell feeds one cell of the gallery grid. Label carries text content,
// Src a thumbnail URL when HasImg is set; Style fixes the cell's dimensions.
type galleryCell struct {
	Classes string
	Tooltip string
	Label   string
	HasImg  bool
	Src     safehtml.URL
	Style   safehtml.Style
}

// exportHTML writes a self-contained gallery: html_export/index.html plus one
// lossless WebP thumbnail per image cell under html_export/images/. The
// index is written last, through a temp file, so a finished index always
// references finished thumbnails.
func exportHTML(snap Snapshot, job *Job) (string, error) {
	g := snap.Grid

	outRoot := filepath.Join(outputDir(snap), "html_export")
	imagesDir := filepath.Join(outRoot, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return "", err
	}

	trustedFS := template.TrustedFSFromEmbed(templateFS)
	tmpl, err := template.New("gallery.html").ParseFS(trustedFS, "templates/gallery.html")
	if err != nil {
		return "", err
	}

	encodable := 0
	for row := 1; row < g.Rows; row++ {
		for col := 1; col < g.Cols; col++ {
			if g.At(row, col).Kind == grid.KindImage {
				encodable++
			}
		}
	}
	job.total.Store(int64(g.CellCount() + encodable))

	nameW := snap.CellSize
	if nameW < viewport.HeaderSoftMin {
		nameW = viewport.HeaderSoftMin
	}
	if nameW > viewport.MaxFilenameColWidth {
		nameW = viewport.MaxFilenameColWidth
	}
	nameStyle := safehtml.StyleFromProperties(safehtml.StyleProperties{
		Width: fmt.Sprintf("%dpx", nameW),
	})
	headStyle := safehtml.StyleFromProperties(safehtml.StyleProperties{
		Width: fmt.Sprintf("%dpx", snap.CellSize),
	})
	cellStyle := safehtml.StyleFromProperties(safehtml.StyleProperties{
		Width:  fmt.Sprintf("%dpx", snap.CellSize),
		Height: fmt.Sprintf("%dpx", snap.CellSize),
	})

	page := galleryPage{
		BaseFolder: filepath.Base(g.BaseFolder),
		Generated:  time.Now().Format("2006-01-02 15:04:05"),
		Rows:       g.Rows,
		Cols:       g.Cols,
		CellSize:   snap.CellSize,
	}

	for col := 0; col < g.Cols; col++ {
		job.step()
		gc := galleryCell{
			Classes: "cell header",
			Tooltip: "Column: " + g.At(0, col).Text,
			Label:   g.At(0, col).Text,
			Style:   headStyle,
		}
		if col == 0 {
			gc.Classes = "cell header name"
			gc.Style = nameStyle
		}
		page.Header = append(page.Header, gc)
	}

	imageCounter := 0
	thumbEdge := snap.CellSize - 2*palette.CellPadding
	for row := 1; row < g.Rows; row++ {
		rowName := ""
		if row >= 2 {
			rowName = g.At(row, 0).Text
		}
		cells := make([]galleryCell, 0, g.Cols)
		for col := 0; col < g.Cols; col++ {
			job.step()
			cell := g.At(row, col)
			switch {
			case col == 0:
				cells = append(cells, galleryCell{
					Classes: "cell header name",
					Tooltip: "Filename: " + cell.Text,
					Label:   cell.Text,
					Style:   nameStyle,
				})
			case cell.Kind == grid.KindPlaceholder:
				cells = append(cells, galleryCell{
					Classes: "cell placeholder",
					Tooltip: fmt.Sprintf("Missing Image\nColumn: %s\nRow: %s", g.At(0, col).Text, rowName),
					Style:   cellStyle,
				})
			default:
				tooltip := fmt.Sprintf("Column: %s\nRow: %s", g.At(0, col).Text, rowName)
				name, err := encodeThumb(cell.Path, imagesDir, imageCounter, thumbEdge)
				job.step()
				if err != nil {
					logging.Export.Printf("thumbnail %s: %v", cell.Path, err)
					cells = append(cells, galleryCell{
						Classes: "cell placeholder",
						Tooltip: "Error loading image\n" + tooltip,
						Label:   "Image Error",
						Style:   cellStyle,
					})
					continue
				}
				imageCounter++
				cells = append(cells, galleryCell{
					Classes: "cell",
					Tooltip: tooltip,
					HasImg:  true,
					Src:     safehtml.URLSanitized("images/" + name),
					Style:   cellStyle,
				})
			}
		}
		page.BodyRows = append(page.BodyRows, galleryRow{Cells: cells})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return "", err
	}
	indexPath := filepath.Join(outRoot, "index.html")
	if err := writeFileAtomic(indexPath, buf.Bytes()); err != nil {
		return "", err
	}
	return indexPath, nil
}

// encodeThumb writes one thumbnail whose longest edge fits the current cell
// inset, named by its running index.
func encodeThumb(srcPath, imagesDir string, n, maxEdge int) (string, error) {
	img, err := imaging.Load(srcPath)
	if err != nil {
		return "", err
	}
	thumb := imaging.Thumbnail(img, maxEdge)

	name := fmt.Sprintf("img_%d.webp", n)
	f, err := os.Create(filepath.Join(imagesDir, name))
	if err != nil {
		return "", err
	}
	if err := nativewebp.Encode(f, thumb, nil); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".index_*.html")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
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

func outputDir(snap Snapshot) string {
	if snap.Dir == "" {
		return "."
	}
	return snap.Dir
}
