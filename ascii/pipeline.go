package ascii

import (
	"strings"

	"github.com/phroun/camterm"
)

// Mode selects the brightness to glyph algorithm for ramp charsets.
type Mode int

const (
	ModeFlat      Mode = iota // plain ramp lookup
	ModeGamma                 // ramp lookup after gamma correction
	ModeDithered              // Floyd-Steinberg error diffusion
	ModeOrdered               // 4x4 Bayer ordered dither
	ModeStructure             // edge-direction-aware glyphs
	ModeEdges                 // Sobel magnitude instead of brightness
)

var modeNames = [...]string{
	ModeFlat:      "flat",
	ModeGamma:     "gamma",
	ModeDithered:  "dither",
	ModeOrdered:   "ordered",
	ModeStructure: "structure",
	ModeEdges:     "edges",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode parses a mode name case-insensitively.
func ParseMode(name string) (Mode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return ModeFlat, false
}

// DefaultBrailleThreshold is the brightness at which a braille dot is raised.
const DefaultBrailleThreshold = 128

// Pipeline turns RGB frames into glyph and color grids. It owns its scratch
// buffers and reuses them across calls, so the slices returned by Render are
// only valid until the next call. A Pipeline is not safe for concurrent use.
type Pipeline struct {
	Mode             Mode
	Invert           bool
	BrailleThreshold byte

	// Contrast stretches cell brightness around mid gray after
	// downsampling. Zero and 1 disable it.
	Contrast float64

	// EdgePreserve, in (0, 1], pulls each cell toward its most extreme
	// sample so thin features survive downsampling. Zero disables it.
	EdgePreserve float64

	// KeepAspect fits the frame into the grid at its own aspect ratio and
	// pads the rest with blank cells.
	KeepAspect bool

	gray       []byte
	edges      []byte
	brightness []byte
	work       []int
	gx, gy     []int
	cells      []CellStructure
	glyphs     []rune
	colors     []camterm.Color

	boxGlyphs []rune
	boxColors []camterm.Color
}

// NewPipeline creates a pipeline using mode.
func NewPipeline(mode Mode, invert bool) *Pipeline {
	return &Pipeline{
		Mode:             mode,
		Invert:           invert,
		BrailleThreshold: DefaultBrailleThreshold,
	}
}

// Render converts an imgW x imgH RGB frame into a w x h grid using charset.
// Colors are averaged independently of glyph selection. Braille always takes
// the braille path whatever the Mode.
func (p *Pipeline) Render(rgb []byte, imgW, imgH, w, h int, charset Charset) (glyphs []rune, colors []camterm.Color) {
	if !p.KeepAspect {
		p.render(rgb, imgW, imgH, w, h, charset)
		return p.glyphs, p.colors
	}
	fw, fh := CalculateDimensions(imgW, imgH, w, h)
	p.render(rgb, imgW, imgH, fw, fh, charset)
	return p.letterbox(fw, fh, w, h)
}

func (p *Pipeline) render(rgb []byte, imgW, imgH, w, h int, charset Charset) {
	p.colors = DownsampleColorsInto(p.colors, rgb, imgW, imgH, w, h)
	p.gray = ToGrayscaleInto(p.gray, rgb)

	ramp, ok := charset.StaticRamp()
	if !ok {
		p.glyphs = RenderBrailleInto(p.glyphs, p.gray, imgW, imgH, w, h, p.BrailleThreshold, p.Invert)
		return
	}

	src := p.gray
	if p.Mode == ModeEdges {
		p.edges = ApplyEdgeDetectionInto(p.edges, p.gray, imgW, imgH)
		src = p.edges
	}
	p.downsample(src, imgW, imgH, w, h)

	switch p.Mode {
	case ModeGamma:
		p.glyphs = MapToCharsGammaInto(p.glyphs, p.brightness, ramp, p.Invert, true)
	case ModeDithered:
		p.glyphs, p.work = MapDitheredInto(p.glyphs, p.work, p.brightness, w, h, ramp, p.Invert, false)
	case ModeOrdered:
		p.glyphs = MapOrderedDitherInto(p.glyphs, p.brightness, w, ramp, p.Invert, false)
	case ModeStructure:
		set := &StructureASCII
		if charset == CharsetBlocks {
			set = &StructureUnicode
		}
		p.gx, p.gy = GradientsInto(p.gx, p.gy, p.gray, imgW, imgH)
		p.cells = AnalyzeStructureInto(p.cells, p.gx, p.gy, imgW, imgH, w, h)
		p.glyphs = MapStructureAwareInto(p.glyphs, p.brightness, p.cells, set, p.Invert, false)
	default:
		p.glyphs = MapToCharsInto(p.glyphs, p.brightness, ramp, p.Invert)
	}
}

// downsample fills p.brightness from src with the configured reducer.
func (p *Pipeline) downsample(src []byte, imgW, imgH, w, h int) {
	switch {
	case p.EdgePreserve > 0:
		p.brightness = DownsampleEdgePreserveInto(p.brightness, src, imgW, imgH, w, h, p.EdgePreserve)
		if p.Contrast > 0 {
			stretchContrast(p.brightness, p.Contrast)
		}
	case p.Contrast > 0:
		p.brightness = DownsampleContrastInto(p.brightness, src, imgW, imgH, w, h, p.Contrast)
	default:
		p.brightness = DownsampleInto(p.brightness, src, imgW, imgH, w, h)
	}
}

// letterbox centers the fw x fh render in a w x h grid of blank black cells.
func (p *Pipeline) letterbox(fw, fh, w, h int) ([]rune, []camterm.Color) {
	n := fw * fh
	if n == 0 || len(p.glyphs) != n || len(p.colors) != n {
		return p.glyphs, p.colors
	}
	p.boxGlyphs = resize(p.boxGlyphs, w*h)
	p.boxColors = resize(p.boxColors, w*h)
	for i := range p.boxGlyphs {
		p.boxGlyphs[i] = ' '
	}
	clear(p.boxColors)

	x0, y0 := (w-fw)/2, (h-fh)/2
	for y := 0; y < fh; y++ {
		at := (y0+y)*w + x0
		copy(p.boxGlyphs[at:at+fw], p.glyphs[y*fw:(y+1)*fw])
		copy(p.boxColors[at:at+fw], p.colors[y*fw:(y+1)*fw])
	}
	return p.boxGlyphs, p.boxColors
}
