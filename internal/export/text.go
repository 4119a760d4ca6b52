package export

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/varimat/varimat/internal/palette"
	"github.com/varimat/varimat/internal/textfit"
)

// faceSet holds the worker's own font faces. The interactive renderer
// measures text through the Fyne driver, which must never be touched off the
// UI goroutine, so export jobs rasterize labels themselves from the
// toolkit's bundled font.
type faceSet struct {
	label font.Face // filename labels and column headers
	small font.Face // corner resolution lines and error reasons
}

func newFaceSet() (*faceSet, error) {
	parsed, err := opentype.Parse(theme.DefaultTextFont().Content())
	if err != nil {
		return nil, fmt.Errorf("parse bundled font: %w", err)
	}
	label, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(palette.TextSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	small, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(palette.ResolutionTextSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		label.Close()
		return nil, err
	}
	return &faceSet{label: label, small: small}, nil
}

func (f *faceSet) Close() {
	f.label.Close()
	f.small.Close()
}

// measurer adapts a face to textfit's measurement contract.
func measurer(face font.Face) textfit.MeasureFunc {
	return func(s string) float32 {
		return float32(font.MeasureString(face, s).Ceil())
	}
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}

// drawString rasterizes s with its left edge at x and its top at y.
func drawString(dst *image.RGBA, face font.Face, x, y int, col color.Color, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
