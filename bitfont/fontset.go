package bitfont

import "fmt"

// Params describes a new font.
type Params struct {
	Name       string
	Depth      int // bits per pixel
	Width      int
	Height     int
	Start      int // code point of the first glyph
	Count      int
	Spacing    int // horizontal gap between glyphs
	VSpacing   int // vertical gap between lines
	CropTop    int
	CropBottom int

	// InitWidth is the width the glyphs are created with. Zero means Width.
	InitWidth int
}

// FontSet is an ordered run of glyphs with contiguous code points that
// share depth and metrics.
type FontSet struct {
	Name           string
	BaseWidth      int
	BaseHeight     int
	StartCodePoint int
	Spacing        int
	VSpacing       int

	palette    Palette
	cropTop    int
	cropBottom int
	glyphs     []*Glyph
}

func New(p Params) (*FontSet, error) {
	palette, err := NewPalette(p.Depth)
	if err != nil {
		return nil, err
	}

	if p.Width < 0 || p.Height < 0 || p.Count < 0 || p.InitWidth < 0 {
		return nil, fmt.Errorf("%w: negative size (width=%d, height=%d, count=%d)", ErrInvalidMetrics, p.Width, p.Height, p.Count)
	}

	fs := &FontSet{
		Name:           p.Name,
		BaseWidth:      p.Width,
		BaseHeight:     p.Height,
		StartCodePoint: p.Start,
		Spacing:        p.Spacing,
		VSpacing:       p.VSpacing,
		palette:        palette,
	}

	if err := fs.SetCrop(p.CropTop, p.CropBottom); err != nil {
		return nil, err
	}

	initWidth := p.InitWidth
	if initWidth == 0 {
		initWidth = p.Width
	}

	fs.glyphs = make([]*Glyph, p.Count)
	for i := range fs.glyphs {
		g := NewGlyph(initWidth, p.Height)
		g.CodePoint = p.Start + i
		fs.glyphs[i] = g
	}

	return fs, nil
}

func (fs *FontSet) Depth() int         { return fs.palette.depth }
func (fs *FontSet) Palette() Palette   { return fs.palette }
func (fs *FontSet) Len() int           { return len(fs.glyphs) }
func (fs *FontSet) CropTop() int       { return fs.cropTop }
func (fs *FontSet) CropBottom() int    { return fs.cropBottom }
func (fs *FontSet) LastCodePoint() int { return fs.StartCodePoint + len(fs.glyphs) - 1 }

// Glyphs returns the glyphs in code point order. The slice is shared with
// the font; glyphs may be edited in place.
func (fs *FontSet) Glyphs() []*Glyph {
	return fs.glyphs
}

func (fs *FontSet) GlyphAt(index int) (*Glyph, error) {
	if index < 0 || index >= len(fs.glyphs) {
		return nil, fmt.Errorf("%w: glyph %d of %d", ErrIndexOutOfRange, index, len(fs.glyphs))
	}
	return fs.glyphs[index], nil
}

// ReplaceGlyph swaps in g at index. The code point of g is set to match
// its position; the crop window is left alone.
func (fs *FontSet) ReplaceGlyph(index int, g *Glyph) error {
	if index < 0 || index >= len(fs.glyphs) {
		return fmt.Errorf("%w: glyph %d of %d", ErrIndexOutOfRange, index, len(fs.glyphs))
	}
	if g == nil {
		g = NewGlyph(0, fs.BaseHeight)
	}
	g.CodePoint = fs.StartCodePoint + index
	fs.glyphs[index] = g
	return nil
}

// SetCrop changes the global vertical trim applied on export.
func (fs *FontSet) SetCrop(top, bottom int) error {
	if top < 0 || bottom < 0 || top+bottom > fs.BaseHeight {
		return fmt.Errorf("%w: crop %d+%d exceeds height %d", ErrInvalidMetrics, top, bottom, fs.BaseHeight)
	}
	fs.cropTop, fs.cropBottom = top, bottom
	return nil
}

// EffectiveHeight is the height left after cropping.
func (fs *FontSet) EffectiveHeight() int {
	return fs.BaseHeight - fs.cropTop - fs.cropBottom
}

// Pages is the number of 8-row bands needed for the effective height.
func (fs *FontSet) Pages() int {
	return (fs.EffectiveHeight() + 7) / 8
}

// FootprintBytes is the size of the packed pixel data of all glyphs.
func (fs *FontSet) FootprintBytes() int {
	pages := fs.Pages()
	size := 0
	for _, g := range fs.glyphs {
		if g.Empty() {
			continue
		}
		size += g.width * pages * fs.Depth()
	}
	return size
}

// BlankRows counts the rows at the top and at the bottom of the font that
// are background in every glyph. A font without any foreground pixel
// reports all rows as blank at the top.
func (fs *FontSet) BlankRows() (top, bottom int) {
	rowEmpty := func(row int) bool {
		for _, g := range fs.glyphs {
			if !g.RowEmpty(row) {
				return false
			}
		}
		return true
	}

	for top < fs.BaseHeight && rowEmpty(top) {
		top++
	}
	if top == fs.BaseHeight {
		return top, 0
	}
	for bottom < fs.BaseHeight-top && rowEmpty(fs.BaseHeight-1-bottom) {
		bottom++
	}
	return top, bottom
}

// Validate checks that every pixel is a valid palette index.
func (fs *FontSet) Validate() error {
	size := fs.palette.Size()
	for i, g := range fs.glyphs {
		for j, v := range g.pix {
			if int(v) >= size {
				return fmt.Errorf("%w: glyph %d (code point %d) pixel (%d,%d) = %d, palette size %d",
					ErrIndexOutOfRange, i, g.CodePoint, j%g.width, j/g.width, v, size)
			}
		}
	}
	return nil
}

// WithDepth returns a copy of fs using depth bits per pixel. Pixel values
// are kept; Validate reports the ones the new palette lacks.
func (fs *FontSet) WithDepth(depth int) (*FontSet, error) {
	palette, err := NewPalette(depth)
	if err != nil {
		return nil, err
	}

	c := *fs
	c.palette = palette
	c.glyphs = make([]*Glyph, len(fs.glyphs))
	for i, g := range fs.glyphs {
		c.glyphs[i] = g.Clone()
	}
	return &c, nil
}
