package ascii

// StructureSet holds one 5-level ramp per edge direction, darkest first.
type StructureSet struct {
	Smooth       [5]rune
	Horizontal   [5]rune
	Vertical     [5]rune
	DiagonalDown [5]rune
	DiagonalUp   [5]rune
}

// Structure glyph sets. The ASCII set is safe for any terminal font.
var (
	StructureASCII = StructureSet{
		Smooth:       [5]rune{' ', '.', ':', '*', '#'},
		Horizontal:   [5]rune{' ', '_', '-', '=', '#'},
		Vertical:     [5]rune{' ', '\'', '!', '|', '#'},
		DiagonalDown: [5]rune{' ', '.', '`', '\\', '#'},
		DiagonalUp:   [5]rune{' ', '.', ',', '/', '#'},
	}
	StructureUnicode = StructureSet{
		Smooth:       [5]rune{' ', '░', '▒', '▓', '█'},
		Horizontal:   [5]rune{' ', '─', '━', '═', '█'},
		Vertical:     [5]rune{' ', '│', '┃', '║', '█'},
		DiagonalDown: [5]rune{' ', '·', '╲', '╲', '█'},
		DiagonalUp:   [5]rune{' ', '·', '╱', '╱', '█'},
	}
)

// structureBlend is the cell edge magnitude below which the smooth ramp is
// used whatever the direction.
const structureBlend = 50

func (s *StructureSet) ramp(cell CellStructure) *[5]rune {
	if cell.Magnitude < structureBlend {
		return &s.Smooth
	}
	switch cell.Direction {
	case DirectionHorizontal:
		return &s.Horizontal
	case DirectionVertical:
		return &s.Vertical
	case DirectionDiagonalDown:
		return &s.DiagonalDown
	case DirectionDiagonalUp:
		return &s.DiagonalUp
	default:
		return &s.Smooth
	}
}

// MapStructureAware renders gray (imgW x imgH) into an outW x outH glyph grid
// whose glyph shapes follow local edge direction. Brightness picks one of
// five levels (b*4/255) from the cell average after optional inversion and
// gamma correction; the cell's edge strength and direction pick which ramp
// supplies the glyph.
func MapStructureAware(gray []byte, imgW, imgH, outW, outH int, set *StructureSet, invert, gamma bool) []rune {
	brightness := Downsample(gray, imgW, imgH, outW, outH)
	if len(brightness) == 0 {
		return nil
	}
	return MapStructureAwareInto(nil, brightness, AnalyzeStructure(gray, imgW, imgH, outW, outH), set, invert, gamma)
}

// MapStructureAwareInto maps per-cell brightness and structure, as produced
// by Downsample and AnalyzeStructure for the same grid, into dst. Cells
// without a structure entry use the smooth ramp.
func MapStructureAwareInto(dst []rune, brightness []byte, cells []CellStructure, set *StructureSet, invert, gamma bool) []rune {
	out := resize(dst, len(brightness))
	for i, b := range brightness {
		var cell CellStructure
		if i < len(cells) {
			cell = cells[i]
		}
		b = adjust(b, invert, gamma)
		out[i] = set.ramp(cell)[int(b)*4/255]
	}
	return out
}
