package game

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// SurfaceSide is the fixed square pixel dimension every card image is
// scaled to. Rendered with half-block characters a surface occupies
// SurfaceSide columns by SurfaceSide/2 rows.
const SurfaceSide = 10

// Surface is an immutable card image: a fixed square grid of pixels
// plus cached terminal renders. Surfaces are loaded once at startup and
// shared read-only by both cards that reference the same identifier.
type Surface struct {
	ID   string
	side int

	pixels [][]colorful.Color

	full    []string // cached full-scale render
	matched []string // cached fully blended matched render
}

// NewImageSurface scales img to side x side pixels with Lanczos
// resampling and samples it into a surface.
func NewImageSurface(id string, img image.Image, side int) *Surface {
	s := newSurface(id, side)
	side = s.side
	resized := resize.Resize(uint(side), uint(side), img, resize.Lanczos3)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			s.pixels[y][x] = colorAt(resized, x, y)
		}
	}
	return s
}

// NewColorSurface builds a flat placeholder surface of a single color.
func NewColorSurface(id string, c color.Color, side int) *Surface {
	fill, ok := colorful.MakeColor(c)
	if !ok {
		fill = colorful.Color{}
	}
	s := newSurface(id, side)
	for y := 0; y < s.side; y++ {
		for x := 0; x < s.side; x++ {
			s.pixels[y][x] = fill
		}
	}
	return s
}

func newSurface(id string, side int) *Surface {
	if side < 2 {
		side = 2
	}
	if side%2 != 0 {
		side++
	}
	px := make([][]colorful.Color, side)
	for y := range px {
		px[y] = make([]colorful.Color, side)
	}
	return &Surface{ID: id, side: side, pixels: px}
}

// Side returns the pixel dimension of the surface.
func (s *Surface) Side() int {
	return s.side
}

// Rows returns the number of terminal rows a render occupies.
func (s *Surface) Rows() int {
	return s.side / 2
}

// Render returns the full-scale half-block render, one string per
// terminal row. The result is cached and must not be modified.
func (s *Surface) Render() []string {
	if s.full == nil {
		s.full = s.renderLines(s.side, 0)
	}
	return s.full
}

// RenderScaled returns a horizontally compressed render for the flip
// animation: a centered column subset padded with blanks. scale is
// clamped to [0,1].
func (s *Surface) RenderScaled(scale float64) []string {
	if scale >= 1.0 {
		return s.Render()
	}
	if scale < 0 {
		scale = 0
	}
	visible := int(float64(s.side)*scale + 0.5)
	return s.renderLines(visible, 0)
}

// RenderMatched returns the render blended toward white by the given
// animation progress in [0,1]. The fully blended render is cached.
func (s *Surface) RenderMatched(progress float64) []string {
	if progress >= 1.0 {
		if s.matched == nil {
			s.matched = s.renderLines(s.side, matchedBlend)
		}
		return s.matched
	}
	if progress < 0 {
		progress = 0
	}
	return s.renderLines(s.side, matchedBlend*progress)
}

// matchedBlend is how far matched card pixels shift toward white, the
// terminal analogue of a subtle white overlay.
const matchedBlend = 0.25

var blendWhite = colorful.Color{R: 1, G: 1, B: 1}

func (s *Surface) renderLines(visible int, blend float64) []string {
	if visible > s.side {
		visible = s.side
	}
	if visible < 0 {
		visible = 0
	}
	start := (s.side - visible) / 2
	padLeft := start
	padRight := s.side - visible - padLeft

	lines := make([]string, 0, s.side/2)
	var b strings.Builder
	for y := 0; y < s.side; y += 2 {
		b.Reset()
		b.WriteString(strings.Repeat(" ", padLeft))
		for x := start; x < start+visible; x++ {
			fg := s.pixels[y][x]
			bg := s.pixels[y+1][x]
			if blend > 0 {
				fg = fg.BlendLab(blendWhite, blend)
				bg = bg.BlendLab(blendWhite, blend)
			}
			b.WriteString(halfBlock(fg, bg))
		}
		if visible > 0 {
			b.WriteString("\x1b[0m")
		}
		b.WriteString(strings.Repeat(" ", padRight))
		lines = append(lines, b.String())
	}
	return lines
}

// halfBlock renders one character cell as an upper half block with
// truecolor foreground (top pixel) and background (bottom pixel).
func halfBlock(fg, bg colorful.Color) string {
	fr, fgg, fb := fg.RGB255()
	br, bgg, bb := bg.RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", fr, fgg, fb, br, bgg, bb)
}

// colorAt samples a pixel, falling back to black outside the bounds or
// for colors that cannot be converted.
func colorAt(img image.Image, x, y int) colorful.Color {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return colorful.Color{}
	}
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return colorful.Color{}
	}
	return c
}
