// Package grid builds the immutable cell matrix backing the viewer: one
// column per base image, one row per distinct variant filename.
package grid

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/varimat/varimat/internal/imaging"
	"github.com/varimat/varimat/internal/logging"
)

// ErrEmptyBaseFolder is returned when the base folder holds no images with a
// supported extension.
var ErrEmptyBaseFolder = errors.New("no images in base folder")

// Kind tags what a Cell holds.
type Kind uint8

const (
	KindHeader Kind = iota
	KindImage
	KindPlaceholder
)

// Cell is one slot of the matrix. Exactly one of Text, Path, Reason is
// meaningful, selected by Kind.
type Cell struct {
	Kind   Kind
	Text   string // KindHeader: display label
	Path   string // KindImage: absolute path to the image file
	Reason string // KindPlaceholder: why there is no image here
}

// Grid is the immutable viewer model. Once built it is never mutated, so it
// may be shared freely with export workers.
type Grid struct {
	BaseFolder   string
	VariantsRoot string

	// Cells is row-major: row 0 headers, row 1 base images, rows >= 2 one
	// per variant filename. Column 0 holds the filename labels.
	Cells [][]Cell

	Rows, Cols int

	// BaseCellSize is the largest dimension over all base images, the cell
	// edge at zoom 1.0.
	BaseCellSize int

	// BaseResolution is the "WxH" of the first readable base image, for the
	// corner cell.
	BaseResolution string
}

// BaseImagesLabel is the row-1 filename-column header.
const BaseImagesLabel = "Base Images"

const defaultBaseCellSize = 256

// At returns the cell at row, col. Out-of-range coordinates yield an empty
// header cell.
func (g *Grid) At(row, col int) Cell {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return Cell{Kind: KindHeader}
	}
	return g.Cells[row][col]
}

// IsData reports whether row, col addresses a data cell (not row 0's headers
// and not the filename column).
func (g *Grid) IsData(row, col int) bool {
	return row >= 1 && row < g.Rows && col >= 1 && col < g.Cols
}

// CellCount is the number of cells including headers, as shown in the info
// bar and used for export progress totals.
func (g *Grid) CellCount() int {
	return g.Rows * g.Cols
}

// Build scans baseFolder and variantsRoot and assembles the matrix.
//
// Every base image contributes a column whose variant folder is
// variantsRoot/<stem>. Folders that do not exist still produce a column of
// placeholders. Row order is the case-insensitive sort of the union of
// variant filenames across all folders.
func Build(baseFolder, variantsRoot string) (*Grid, error) {
	baseImages, err := listImages(baseFolder)
	if err != nil {
		return nil, fmt.Errorf("scan base folder: %w", err)
	}
	if len(baseImages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBaseFolder, baseFolder)
	}
	sortFolded(baseImages)

	stems := make([]string, len(baseImages))
	for i, name := range baseImages {
		stems[i] = strings.TrimSuffix(name, filepath.Ext(name))
	}

	variants, err := scanVariants(variantsRoot, stems)
	if err != nil {
		// A missing variants root is the all-placeholder grid, not an error.
		logging.Debug.Printf("variants root %s: %v", variantsRoot, err)
	}

	union := make(map[string]struct{})
	for _, files := range variants {
		for name := range files {
			union[name] = struct{}{}
		}
	}
	filenames := make([]string, 0, len(union))
	for name := range union {
		filenames = append(filenames, name)
	}
	sortFolded(filenames)

	rows := 2 + len(filenames)
	cols := 1 + len(baseImages)
	cells := make([][]Cell, rows)

	header := make([]Cell, cols)
	header[0] = Cell{Kind: KindHeader}
	for i, stem := range stems {
		header[i+1] = Cell{Kind: KindHeader, Text: stem}
	}
	cells[0] = header

	baseRow := make([]Cell, cols)
	baseRow[0] = Cell{Kind: KindHeader, Text: BaseImagesLabel}
	for i, name := range baseImages {
		baseRow[i+1] = Cell{Kind: KindImage, Path: filepath.Join(baseFolder, name)}
	}
	cells[1] = baseRow

	for r, filename := range filenames {
		row := make([]Cell, cols)
		row[0] = Cell{Kind: KindHeader, Text: filename}
		for i, stem := range stems {
			if _, ok := variants[stem][filename]; ok {
				row[i+1] = Cell{Kind: KindImage, Path: filepath.Join(variantsRoot, stem, filename)}
			} else {
				row[i+1] = Cell{Kind: KindPlaceholder, Reason: "Missing"}
			}
		}
		cells[r+2] = row
	}

	g := &Grid{
		BaseFolder:   baseFolder,
		VariantsRoot: variantsRoot,
		Cells:        cells,
		Rows:         rows,
		Cols:         cols,
	}
	g.BaseCellSize, g.BaseResolution = probeBase(baseFolder, baseImages)

	logging.Debug.Printf("grid built: %dx%d cells, base cell %dpx", g.Rows, g.Cols, g.BaseCellSize)
	return g, nil
}

func listImages(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !imaging.IsSupported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// scanVariants walks the variants root in parallel and reports, for each
// expected stem, the set of image filenames directly inside that folder.
// Anything nested deeper is skipped.
func scanVariants(root string, stems []string) (map[string]map[string]struct{}, error) {
	expected := make(map[string]bool, len(stems))
	found := make(map[string]map[string]struct{}, len(stems))
	for _, stem := range stems {
		expected[stem] = true
		found[stem] = make(map[string]struct{})
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return found, err
	}

	var mu sync.Mutex
	conf := &fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(conf, absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == absRoot {
			return nil
		}
		rel, rerr := filepath.Rel(absRoot, path)
		if rerr != nil {
			return nil
		}
		if d.IsDir() {
			// Only the stem folders themselves get descended into.
			if strings.ContainsRune(rel, filepath.Separator) || !expected[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		dir, name := filepath.Split(rel)
		stem := filepath.Clean(dir)
		if !expected[stem] || !imaging.IsSupported(name) {
			return nil
		}
		mu.Lock()
		found[stem][name] = struct{}{}
		mu.Unlock()
		return nil
	})
	return found, walkErr
}

// probeBase reads image headers only: the max dimension sets the zoom-1.0
// cell edge, the first readable size becomes the corner label.
func probeBase(folder string, names []string) (int, string) {
	maxDim := 0
	resolution := "Unknown"
	for _, name := range names {
		w, h, err := imaging.ProbeSize(filepath.Join(folder, name))
		if err != nil {
			logging.Debug.Printf("probe %s: %v", name, err)
			continue
		}
		if resolution == "Unknown" {
			resolution = fmt.Sprintf("%d×%d", w, h)
		}
		if w > maxDim {
			maxDim = w
		}
		if h > maxDim {
			maxDim = h
		}
	}
	if maxDim == 0 {
		maxDim = defaultBaseCellSize
	}
	return maxDim, resolution
}

// sortFolded orders names case-insensitively, raw bytes breaking ties so the
// order stays deterministic.
func sortFolded(names []string) {
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
}
