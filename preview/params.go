package preview

import (
	"errors"
	"image/color"
	"net/url"
	"strconv"

	"petbots.fbbdev.it/fontcreator/bitfont"
)

const (
	DotInnerSize = 6
	DotPadding   = 1
	DotSize      = DotInnerSize + 2*DotPadding
)

// Resource limits
const (
	MaxChars = 100
	MaxWidth = 10922
)

var ErrTooLarge = errors.New("maximum width exceeded")

// Params control the dot matrix animation.
type Params struct {
	// Speed is the number of characters scrolling out of the window in one
	// second. Negative values scroll to the right, zero gives a still image.
	Speed float64

	// Width is the window width as a multiple of the text width.
	Width float64

	// Blank is the blank space after the text as a multiple of the text
	// width.
	Blank float64
}

var DefaultParams = Params{Speed: 0, Width: 1, Blank: 0}

// ParseParams reads speed, width and blank from q. Missing values keep
// their default.
func ParseParams(q url.Values) (Params, bool) {
	p := DefaultParams

	fields := []struct {
		key string
		dst *float64
	}{
		{"speed", &p.Speed},
		{"width", &p.Width},
		{"blank", &p.Blank},
	}
	for _, f := range fields {
		s := q.Get(f.key)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return p, false
		}
		*f.dst = v
	}

	return p, p.Width > 0 && p.Blank >= 0
}

var frameColor = color.Gray{50}

// dotPalette extends the font palette with the color drawn between dots.
func dotPalette(fs *bitfont.FontSet) (color.Palette, uint8) {
	colors := fs.Palette().Colors()
	if len(colors) < 256 {
		return append(colors, frameColor), uint8(len(colors))
	}
	return colors, uint8(colors.Index(frameColor))
}
