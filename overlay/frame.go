package overlay

import (
	"fmt"

	"github.com/phroun/camterm"
)

// GlyphFrame is one rendered camera image: a row-major grid of glyphs with
// an optional parallel slice of per-cell colors. Frames are immutable once
// built; the layout swaps in a new one each tick.
type GlyphFrame struct {
	Glyphs []rune
	Colors []camterm.Color
	Width  int
	Height int
}

// NewGlyphFrame builds a monochrome frame. The glyphs are copied.
func NewGlyphFrame(glyphs []rune, width, height int) (*GlyphFrame, error) {
	return NewColoredGlyphFrame(glyphs, nil, width, height)
}

// NewColoredGlyphFrame builds a frame with per-cell colors. A nil colors
// slice yields a monochrome frame. Both slices are copied so callers may
// keep reusing their buffers.
func NewColoredGlyphFrame(glyphs []rune, colors []camterm.Color, width, height int) (*GlyphFrame, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(glyphs) != width*height {
		return nil, fmt.Errorf("frame has %d glyphs, want %d for %dx%d", len(glyphs), width*height, width, height)
	}
	if colors != nil && len(colors) != len(glyphs) {
		return nil, fmt.Errorf("frame has %d colors for %d glyphs", len(colors), len(glyphs))
	}

	f := &GlyphFrame{
		Glyphs: append([]rune(nil), glyphs...),
		Width:  width,
		Height: height,
	}
	if colors != nil {
		f.Colors = append([]camterm.Color(nil), colors...)
	}
	return f, nil
}

// HasColors reports whether the frame carries per-cell colors.
func (f *GlyphFrame) HasColors() bool {
	return f.Colors != nil
}

// Row returns the glyphs of row y.
func (f *GlyphFrame) Row(y int) []rune {
	return f.Glyphs[y*f.Width : (y+1)*f.Width]
}
