// Package palette holds the colors and cell metrics shared by the interactive
// grid renderer and the export pipeline, so the PNG mosaic matches what the
// window shows.
package palette

import "image/color"

const (
	// CellPadding is the inset in pixels between a cell border and its content.
	CellPadding = 5
	// BorderWidth is the stroke width of cell borders.
	BorderWidth = 1

	TextSize           float32 = 14
	ResolutionTextSize float32 = 12
)

var (
	Background  = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	Cell        = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	Header      = color.NRGBA{R: 50, G: 50, B: 70, A: 255}
	Placeholder = color.NRGBA{R: 80, G: 40, B: 40, A: 255}
	DecodeError = color.NRGBA{R: 120, G: 40, B: 40, A: 255}
	Border      = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	Text        = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
	BrightText  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	DimText     = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
	HelpText    = color.NRGBA{R: 200, G: 200, B: 200, A: 255}

	InfoBar         = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	FullscreenDim   = color.NRGBA{R: 0, G: 0, B: 0, A: 200}
	CaptionBG       = color.NRGBA{R: 0, G: 0, B: 0, A: 100}
	ProgressDim     = color.NRGBA{R: 0, G: 0, B: 0, A: 180}
	ProgressTrack   = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	ProgressFill    = color.NRGBA{R: 100, G: 200, B: 100, A: 255}
	ProgressBorder  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	ScrollbarTrack  = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	ScrollbarHandle = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)
