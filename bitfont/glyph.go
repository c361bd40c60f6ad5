package bitfont

import "fmt"

// Background is the pixel value of unpainted cells.
const Background = 0

// Glyph is the raster of a single character. Pixels are palette indices
// stored row by row. A glyph of width 0 has no raster at all.
type Glyph struct {
	CodePoint int
	Comment   string

	width, height int
	pix           []uint8
}

func NewGlyph(width, height int) *Glyph {
	g := &Glyph{}
	g.alloc(width, height)
	return g
}

func (g *Glyph) alloc(width, height int) {
	g.width = max(width, 0)
	g.height = max(height, 0)
	if g.width == 0 {
		g.pix = nil
		return
	}
	g.pix = make([]uint8, g.width*g.height)
}

func (g *Glyph) Width() int  { return g.width }
func (g *Glyph) Height() int { return g.height }

// Empty reports whether the glyph has nothing to draw, either because it
// was erased to width 0 or because its height is 0.
func (g *Glyph) Empty() bool {
	return g.width == 0 || g.height == 0 || g.pix == nil
}

func (g *Glyph) inside(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Glyph) SetPixel(x, y int, v uint8) error {
	if !g.inside(x, y) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d glyph", ErrOutOfBounds, x, y, g.width, g.height)
	}
	g.pix[y*g.width+x] = v
	return nil
}

func (g *Glyph) Pixel(x, y int) (uint8, error) {
	if !g.inside(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d glyph", ErrOutOfBounds, x, y, g.width, g.height)
	}
	return g.pix[y*g.width+x], nil
}

// at is Pixel without the bounds error; cells outside the raster read as
// background.
func (g *Glyph) at(x, y int) uint8 {
	if !g.inside(x, y) {
		return Background
	}
	return g.pix[y*g.width+x]
}

// ColumnEmpty reports whether every pixel of column col is background.
func (g *Glyph) ColumnEmpty(col int) bool {
	for y := 0; y < g.height; y++ {
		if g.at(col, y) != Background {
			return false
		}
	}
	return true
}

// RowEmpty reports whether every pixel of row row is background.
func (g *Glyph) RowEmpty(row int) bool {
	for x := 0; x < g.width; x++ {
		if g.at(x, row) != Background {
			return false
		}
	}
	return true
}

// Resize grows or shrinks the glyph on each side. Positive values add
// background rows/columns, negative values crop. The old top-left corner
// ends up at (left, top) in the new raster.
func (g *Glyph) Resize(top, bottom, left, right int) {
	oldW, oldH, oldPix := g.width, g.height, g.pix

	g.alloc(oldW+left+right, oldH+top+bottom)
	if g.pix == nil || oldPix == nil {
		return
	}

	for y := 0; y < oldH; y++ {
		ny := y + top
		if ny < 0 || ny >= g.height {
			continue
		}
		for x := 0; x < oldW; x++ {
			nx := x + left
			if nx < 0 || nx >= g.width {
				continue
			}
			g.pix[ny*g.width+nx] = oldPix[y*oldW+x]
		}
	}
}

func (g *Glyph) Clone() *Glyph {
	c := *g
	if g.pix != nil {
		c.pix = append([]uint8(nil), g.pix...)
	}
	return &c
}
