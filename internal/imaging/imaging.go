// Package imaging wraps image decoding and scaling for the grid. Importing it
// registers decoders for every format the grid admits.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var supportedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

// IsSupported reports whether name has one of the grid's image extensions.
func IsSupported(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// Load decodes the image at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// ProbeSize reads just enough of the file to report its pixel dimensions.
func ProbeSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// FailureReason renders a short display reason for a failed decode. When the
// file turns out not to be an image at all, the sniffed type is more useful
// than the decoder's error.
func FailureReason(path string, err error) string {
	if mt, merr := mimetype.DetectFile(path); merr == nil && !strings.HasPrefix(mt.String(), "image/") {
		return fmt.Sprintf("Not an image (%s)", mt.String())
	}
	return fmt.Sprintf("Decode failed: %v", err)
}

// FitInside returns src dimensions scaled to fit inside box, preserving
// aspect ratio. Results are floored at 1px for non-empty sources.
func FitInside(srcW, srcH, boxW, boxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(boxW)/float64(srcW), float64(boxH)/float64(srcH))
	w := int(float64(srcW) * scale)
	h := int(float64(srcH) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Thumbnail scales img so its longest edge is maxEdge, preserving aspect.
// ApproxBiLinear keeps batch thumbnailing fast.
func Thumbnail(img image.Image, maxEdge int) *image.RGBA {
	b := img.Bounds()
	w, h := FitInside(b.Dx(), b.Dy(), maxEdge, maxEdge)
	if w == 0 || h == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Stretch scales img to exactly w by h, ignoring aspect ratio. The mosaic
// export fills each cell box edge to edge, so quality matters more than
// speed here.
func Stretch(img image.Image, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
