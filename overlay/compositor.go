package overlay

import (
	"fmt"
	"io"
	"strings"
)

const (
	saveCursor    = "\x1b7"
	restoreCursor = "\x1b8"
	hideCursor    = "\x1b[?25l"
	showCursor    = "\x1b[?25h"
	resetAttrs    = "\x1b[0m"

	// maxBrightness is the channel sum of a white cell.
	maxBrightness = 255 * 3
)

// borderCharSet contains the characters for drawing the window frame.
type borderCharSet struct {
	topLeft     rune
	topRight    rune
	bottomLeft  rune
	bottomRight rune
	horizontal  rune
	vertical    rune
	titleLeft   rune
	titleRight  rune
}

var singleBorder = borderCharSet{
	topLeft: '┌', topRight: '┐', bottomLeft: '└', bottomRight: '┘',
	horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
}

// Compositor paints the camera window onto an output sink. Each pass is
// assembled in memory and written with a single Write call so the terminal
// never sees a half-drawn window.
type Compositor struct {
	out    io.Writer
	output strings.Builder

	borderChars borderCharSet
}

// NewCompositor creates a compositor writing to out.
func NewCompositor(out io.Writer) *Compositor {
	return &Compositor{out: out, borderChars: singleBorder}
}

// Clear blanks every cell of r with spaces, leaving the cursor where it was.
func (c *Compositor) Clear(r Rect) error {
	c.output.Reset()
	writeClearPass(&c.output, r)
	return c.flush()
}

// Render draws the layout's current frame. Nothing is written when the
// layout holds no frame.
func (c *Compositor) Render(l *Layout, termW, termH int) error {
	if l.Frame == nil {
		return nil
	}
	c.output.Reset()
	c.writeRenderPass(l, termW, termH)
	return c.flush()
}

func (c *Compositor) flush() error {
	if _, err := io.WriteString(c.out, c.output.String()); err != nil {
		return fmt.Errorf("write overlay: %w", err)
	}
	return nil
}

// ClearPass returns the escape sequence that blanks r.
func ClearPass(r Rect) string {
	var b strings.Builder
	writeClearPass(&b, r)
	return b.String()
}

// RenderPass returns the escape sequence that draws the layout's frame, or
// an empty string when there is no frame.
func RenderPass(l *Layout, termW, termH int) string {
	if l.Frame == nil {
		return ""
	}
	c := Compositor{borderChars: singleBorder}
	c.writeRenderPass(l, termW, termH)
	return c.output.String()
}

func writeClearPass(b *strings.Builder, r Rect) {
	b.WriteString(saveCursor)
	b.WriteString(hideCursor)
	blank := strings.Repeat(" ", max(r.Width, 0))
	for row := 0; row < r.Height; row++ {
		moveTo(b, r.Y+row, r.X)
		b.WriteString(blank)
	}
	b.WriteString(showCursor)
	b.WriteString(restoreCursor)
}

// moveTo positions the cursor at a zero-based cell.
func moveTo(b *strings.Builder, y, x int) {
	fmt.Fprintf(b, "\x1b[%d;%dH", y+1, x+1)
}

func (c *Compositor) writeRenderPass(l *Layout, termW, termH int) {
	rect := l.Rect(termW, termH)
	inner := rect.Inner(l.Border)

	c.output.WriteString(saveCursor)
	c.output.WriteString(hideCursor)

	if l.Border && !rect.Empty() {
		title := ""
		if l.ShowStatus {
			title = strings.TrimSpace(StatusLine(l))
		}
		c.renderBorder(rect, inner, title)
	}
	c.renderContent(l.Frame, l.Transparency, inner)

	c.output.WriteString(resetAttrs)
	c.output.WriteString(showCursor)
	c.output.WriteString(restoreCursor)
}

func (c *Compositor) renderBorder(rect, inner Rect, title string) {
	bc := c.borderChars
	innerCols := inner.Width

	// Top border
	moveTo(&c.output, rect.Y, rect.X)
	c.output.WriteRune(bc.topLeft)
	if title != "" && len(title) < innerCols-4 {
		padding := (innerCols - len(title) - 2) / 2
		writeRepeat(&c.output, bc.horizontal, padding)
		c.output.WriteRune(bc.titleRight)
		c.output.WriteString(" ")
		c.output.WriteString(title)
		c.output.WriteString(" ")
		c.output.WriteRune(bc.titleLeft)
		writeRepeat(&c.output, bc.horizontal, innerCols-padding-len(title)-4)
	} else {
		writeRepeat(&c.output, bc.horizontal, innerCols)
	}
	c.output.WriteRune(bc.topRight)

	// Bottom border
	moveTo(&c.output, rect.Y+rect.Height-1, rect.X)
	c.output.WriteRune(bc.bottomLeft)
	writeRepeat(&c.output, bc.horizontal, innerCols)
	c.output.WriteRune(bc.bottomRight)

	// Side borders
	for row := 0; row < inner.Height; row++ {
		moveTo(&c.output, inner.Y+row, rect.X)
		c.output.WriteRune(bc.vertical)
		moveTo(&c.output, inner.Y+row, rect.X+rect.Width-1)
		c.output.WriteRune(bc.vertical)
	}
}

func writeRepeat(b *strings.Builder, r rune, n int) {
	for i := 0; i < n; i++ {
		b.WriteRune(r)
	}
}

// renderContent writes the frame into the inner area. Cells whose color sum
// falls below the transparency threshold are skipped so the shell output
// underneath stays visible; the cursor is only repositioned after a skip.
func (c *Compositor) renderContent(f *GlyphFrame, transparency int, inner Rect) {
	if f.Width <= 0 {
		return
	}
	transparency = min(max(transparency, 0), 100)
	threshold := maxBrightness * (100 - transparency) / 100

	rows := min(f.Height, inner.Height)
	cols := min(f.Width, inner.Width)
	for row := 0; row < rows; row++ {
		line := f.Row(row)
		needReposition := true
		for col := 0; col < cols; col++ {
			if f.HasColors() {
				color := f.Colors[row*f.Width+col]
				if color.Sum() < threshold {
					needReposition = true
					continue
				}
				if needReposition {
					moveTo(&c.output, inner.Y+row, inner.X+col)
					needReposition = false
				}
				c.output.WriteString("\x1b[")
				c.output.WriteString(color.FgSGR())
				c.output.WriteString("m")
			} else if needReposition {
				moveTo(&c.output, inner.Y+row, inner.X+col)
				needReposition = false
			}
			c.output.WriteRune(line[col])
		}
	}
}
