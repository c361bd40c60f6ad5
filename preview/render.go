// Package preview draws text with a font, either as a plain indexed image
// or as a zoomed dot matrix display.
package preview

import (
	"image"
	"unicode/utf8"

	"petbots.fbbdev.it/fontcreator/bitfont"
)

// Render draws text one glyph after the other, separated by the font's
// spacing. Only the rows inside the crop window are drawn. Characters the
// font has no glyph for are drawn as blank cells of the base width.
func Render(fs *bitfont.FontSet, text string) (*image.Paletted, error) {
	if err := fs.Validate(); err != nil {
		return nil, err
	}

	spacing := max(fs.Spacing, 0)
	glyphs := make([]*bitfont.Glyph, 0, utf8.RuneCountInString(text))
	width := 0
	for _, r := range text {
		var g *bitfont.Glyph
		if i := int(r) - fs.StartCodePoint; i >= 0 && i < fs.Len() {
			g = fs.Glyphs()[i]
			width += g.Width()
		} else {
			width += fs.BaseWidth
		}
		glyphs = append(glyphs, g)
	}
	if len(glyphs) > 1 {
		width += spacing * (len(glyphs) - 1)
	}

	if width > MaxWidth/DotSize {
		return nil, ErrTooLarge
	}

	height := fs.EffectiveHeight()
	img := image.NewPaletted(image.Rect(0, 0, width, height), fs.Palette().Colors())

	x0 := 0
	for _, g := range glyphs {
		if g == nil {
			x0 += fs.BaseWidth + spacing
			continue
		}

		for y := 0; y < height; y++ {
			row := img.Pix[y*img.Stride:]
			for x := 0; x < g.Width(); x++ {
				if v, err := g.Pixel(x, fs.CropTop()+y); err == nil {
					row[x0+x] = v
				}
			}
		}
		x0 += g.Width() + spacing
	}

	return img, nil
}

// paintDot fills the dot at col, row of a dot matrix image with v.
func paintDot(img *image.Paletted, col, row int, v uint8) {
	x0 := 2*DotPadding + col*DotSize
	y0 := 2*DotPadding + row*DotSize
	for dy := 0; dy < DotInnerSize; dy++ {
		line := img.Pix[(y0+dy)*img.Stride+x0:]
		for dx := 0; dx < DotInnerSize; dx++ {
			line[dx] = v
		}
	}
}

func fill(img *image.Paletted, v uint8) {
	for i := range img.Pix {
		img.Pix[i] = v
	}
}

// DotMatrix renders text and zooms every pixel into a dot.
func DotMatrix(fs *bitfont.FontSet, text string) (*image.Paletted, error) {
	src, err := Render(fs, text)
	if err != nil {
		return nil, err
	}

	colors, frame := dotPalette(fs)
	cols, rows := src.Rect.Dx(), src.Rect.Dy()

	img := image.NewPaletted(
		image.Rect(0, 0, cols*DotSize+2*DotPadding, rows*DotSize+2*DotPadding),
		colors,
	)
	fill(img, frame)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			paintDot(img, x, y, src.Pix[y*src.Stride+x])
		}
	}

	return img, nil
}
