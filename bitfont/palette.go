package bitfont

import (
	"fmt"
	"image/color"
)

// Supported pixel depths, in bits per pixel.
var Depths = [...]int{1, 2, 3, 8}

var (
	white   = color.RGBA{255, 255, 255, 255}
	black   = color.RGBA{0, 0, 0, 255}
	red     = color.RGBA{255, 0, 0, 255}
	green   = color.RGBA{0, 255, 0, 255}
	blue    = color.RGBA{0, 0, 255, 255}
	yellow  = color.RGBA{255, 255, 0, 255}
	magenta = color.RGBA{255, 0, 255, 255}
	cyan    = color.RGBA{0, 255, 255, 255}
)

var palette1 = [...]color.RGBA{white, black}
var palette2 = [...]color.RGBA{white, black, red, blue}
var palette3 = [...]color.RGBA{white, black, red, green, blue, yellow, magenta, cyan}

// Palette maps pixel values of a given depth to colors. Index 0 is the
// background. The zero value is not usable; call NewPalette.
type Palette struct {
	depth int
}

func NewPalette(depth int) (Palette, error) {
	switch depth {
	case 1, 2, 3, 8:
		return Palette{depth: depth}, nil
	}
	return Palette{}, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedDepth, depth)
}

func (p Palette) Depth() int {
	return p.depth
}

func (p Palette) Size() int {
	return 1 << p.depth
}

// Color returns the color for pixel value index.
func (p Palette) Color(index int) (color.RGBA, error) {
	if index < 0 || index >= p.Size() || p.depth == 0 {
		return color.RGBA{}, fmt.Errorf("%w: palette index %d (size %d)", ErrIndexOutOfRange, index, p.Size())
	}

	switch p.depth {
	case 1:
		return palette1[index], nil
	case 2:
		return palette2[index], nil
	case 3:
		return palette3[index], nil
	}

	// 8 bit: rrrgggbb
	r := (index >> 5) & 0x07
	g := (index >> 2) & 0x07
	b := index & 0x03
	return color.RGBA{uint8(r * 255 / 7), uint8(g * 255 / 7), uint8(b * 255 / 3), 255}, nil
}

// Colors returns the whole table, suitable for image.Paletted.
func (p Palette) Colors() color.Palette {
	colors := make(color.Palette, p.Size())
	for i := range colors {
		colors[i], _ = p.Color(i)
	}
	return colors
}

// Index returns the pixel value whose color is closest to c.
func (p Palette) Index(c color.Color) int {
	return p.Colors().Index(c)
}
