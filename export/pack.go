package export

import (
	"fmt"

	"petbots.fbbdev.it/fontcreator/bitfont"
)

// MaxGlyphWidth is the largest width the signed width table slot holds.
const MaxGlyphWidth = 127

// WidthTable returns one width byte per glyph.
func WidthTable(fs *bitfont.FontSet) ([]byte, error) {
	widths := make([]byte, fs.Len())
	for i, g := range fs.Glyphs() {
		if g.Width() > MaxGlyphWidth {
			return nil, fmt.Errorf("%w: glyph %d is %d pixels wide, limit is %d",
				bitfont.ErrValueTooLarge, fs.StartCodePoint+i, g.Width(), MaxGlyphWidth)
		}
		widths[i] = byte(g.Width())
	}
	return widths, nil
}

// PackGlyph packs the cropped raster of g into pages of 8 rows. Each byte
// holds one column of a page, top row in bit 0. Pages follow each other
// left to right, top to bottom; fonts deeper than 1 bit repeat this layout
// once per bit plane, least significant plane first. Glyphs without a
// raster pack to nothing.
func PackGlyph(fs *bitfont.FontSet, g *bitfont.Glyph) []byte {
	if g.Empty() {
		return nil
	}

	height := fs.EffectiveHeight()
	pages := fs.Pages()
	width := g.Width()

	data := make([]byte, 0, width*pages*fs.Depth())
	for plane := 0; plane < fs.Depth(); plane++ {
		for page := 0; page < pages; page++ {
			for col := 0; col < width; col++ {
				var b byte
				for bit := 0; bit < 8; bit++ {
					row := page*8 + bit
					if row >= height {
						break
					}
					v, err := g.Pixel(col, fs.CropTop()+row)
					if err == nil && (v>>plane)&1 != 0 {
						b |= 1 << bit
					}
				}
				data = append(data, b)
			}
		}
	}
	return data
}

// PackFont packs every glyph of fs in code point order.
func PackFont(fs *bitfont.FontSet) [][]byte {
	data := make([][]byte, fs.Len())
	for i, g := range fs.Glyphs() {
		data[i] = PackGlyph(fs, g)
	}
	return data
}

// preferredWidth is the most common glyph width; on ties the width that
// reached the count first wins.
func preferredWidth(fs *bitfont.FontSet) int {
	histogram := make(map[int]int)
	preferred, count := fs.BaseWidth, 0
	for _, g := range fs.Glyphs() {
		if g.Empty() {
			continue
		}
		histogram[g.Width()]++
		if n := histogram[g.Width()]; n > count {
			preferred, count = g.Width(), n
		}
	}
	return preferred
}
