// Package overlay owns the camera window's layout state and paints it on
// top of the host terminal with cursor-addressed escape sequences.
//
// The compositor never reads back what the shell has drawn. It saves the
// cursor, draws into a rectangle, and restores the cursor, so the shell's
// own cursor position and attributes survive every pass.
package overlay

import (
	"fmt"
	"strings"

	"github.com/phroun/camterm/ascii"
)

// Position is one of the five placements of the camera window.
type Position int

const (
	TopLeft Position = iota
	TopRight
	BottomRight
	BottomLeft
	Center
)

var positionNames = [...]string{
	TopLeft:     "top-left",
	TopRight:    "top-right",
	BottomRight: "bottom-right",
	BottomLeft:  "bottom-left",
	Center:      "center",
}

func (p Position) String() string {
	if p < 0 || int(p) >= len(positionNames) {
		return fmt.Sprintf("position(%d)", int(p))
	}
	return positionNames[p]
}

// Next returns the following position in cycle order.
func (p Position) Next() Position {
	return (p + 1) % Position(len(positionNames))
}

// ParsePosition looks a position up by name.
func ParsePosition(name string) (Position, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range positionNames {
		if n == name {
			return Position(i), true
		}
	}
	return BottomRight, false
}

// Size is one of the fixed window size presets.
type Size int

const (
	Small Size = iota
	Medium
	Large
	XLarge
	Huge
)

var sizeNames = [...]string{
	Small:  "small",
	Medium: "medium",
	Large:  "large",
	XLarge: "xlarge",
	Huge:   "huge",
}

var sizeDims = [...][2]int{
	Small:  {20, 10},
	Medium: {40, 20},
	Large:  {60, 30},
	XLarge: {80, 40},
	Huge:   {120, 60},
}

func (s Size) String() string {
	if s < 0 || int(s) >= len(sizeNames) {
		return fmt.Sprintf("size(%d)", int(s))
	}
	return sizeNames[s]
}

// Next returns the following size in cycle order.
func (s Size) Next() Size {
	return (s + 1) % Size(len(sizeNames))
}

// InnerDimensions returns the content area in character cells.
func (s Size) InnerDimensions() (cols, rows int) {
	if s < 0 || int(s) >= len(sizeDims) {
		s = Small
	}
	d := sizeDims[s]
	return d[0], d[1]
}

// Dimensions returns the outer window size, which grows by one cell on
// every side when a border is drawn.
func (s Size) Dimensions(bordered bool) (cols, rows int) {
	cols, rows = s.InnerDimensions()
	if bordered {
		cols += 2
		rows += 2
	}
	return cols, rows
}

// ParseSize looks a size preset up by name.
func ParseSize(name string) (Size, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range sizeNames {
		if n == name {
			return Size(i), true
		}
	}
	return Small, false
}

// Margin is the gap kept between a corner-placed window and the terminal edge.
const Margin = 1

// Rect is a zero-based cell rectangle on the host terminal.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Inner returns the area left for content once a border is drawn.
func (r Rect) Inner(bordered bool) Rect {
	if !bordered {
		return r
	}
	return Rect{
		X:      r.X + 1,
		Y:      r.Y + 1,
		Width:  satSub(r.Width, 2),
		Height: satSub(r.Height, 2),
	}
}

func satSub(a, b int) int {
	if a < b {
		return 0
	}
	return a - b
}

// Place computes the window rectangle for the given placement inside a
// terminal of termW by termH cells. The window is clamped so it always
// leaves the margin free on both sides.
func Place(pos Position, size Size, bordered bool, termW, termH int) Rect {
	w, h := size.Dimensions(bordered)
	if maxW := satSub(termW, 2*Margin); w > maxW {
		w = maxW
	}
	if maxH := satSub(termH, 2*Margin); h > maxH {
		h = maxH
	}

	r := Rect{Width: w, Height: h}
	switch pos {
	case TopLeft:
		r.X, r.Y = Margin, Margin
	case TopRight:
		r.X, r.Y = satSub(termW, w+Margin), Margin
	case BottomLeft:
		r.X, r.Y = Margin, satSub(termH, h+Margin)
	case BottomRight:
		r.X, r.Y = satSub(termW, w+Margin), satSub(termH, h+Margin)
	case Center:
		r.X, r.Y = satSub(termW, w)/2, satSub(termH, h)/2
	}
	return r
}

// DefaultTransparency is the startup transparency percentage.
const DefaultTransparency = 80

// Layout is the mutable UI state of the camera window. It is owned by the
// session loop and read by the compositor.
type Layout struct {
	Visible      bool
	Position     Position
	Size         Size
	Border       bool
	Transparency int
	Charset      ascii.Charset
	ShowStatus   bool

	Frame *GlyphFrame
}

// NewLayout returns the startup layout: hidden, bottom-right, small,
// standard charset, transparency 80, no border.
func NewLayout() *Layout {
	return &Layout{
		Position:     BottomRight,
		Size:         Small,
		Transparency: DefaultTransparency,
		Charset:      ascii.CharsetStandard,
	}
}

// Toggle flips visibility and returns the new state.
func (l *Layout) Toggle() bool {
	l.Visible = !l.Visible
	return l.Visible
}

func (l *Layout) CyclePosition() { l.Position = l.Position.Next() }

func (l *Layout) CycleSize() { l.Size = l.Size.Next() }

func (l *Layout) CycleCharset() { l.Charset = l.Charset.Next() }

// CycleTransparency steps transparency by 10, wrapping to 0 at 100.
func (l *Layout) CycleTransparency() {
	l.Transparency += 10
	if l.Transparency >= 100 {
		l.Transparency = 0
	}
}

// SetFrame replaces the current frame wholesale.
func (l *Layout) SetFrame(f *GlyphFrame) {
	l.Frame = f
}

// Rect returns the window rectangle for the current placement.
func (l *Layout) Rect(termW, termH int) Rect {
	return Place(l.Position, l.Size, l.Border, termW, termH)
}

// ContentSize returns the glyph grid size a new frame should be rendered at.
func (l *Layout) ContentSize() (cols, rows int) {
	return l.Size.InnerDimensions()
}

// StatusLine formats the one-line status summary.
func StatusLine(l *Layout) string {
	cam := "off"
	if l.Visible {
		cam = "on"
	}
	return fmt.Sprintf(" cam:%s | %s | %s | %s ", cam, l.Position, l.Size, l.Charset)
}
