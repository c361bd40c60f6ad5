// Package importer builds editable fonts from existing bitmap faces.
package importer

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/runenames"

	"github.com/zachomedia/go-bdf"

	"petbots.fbbdev.it/fontcreator/bitfont"
	"petbots.fbbdev.it/fontcreator/log"
)

// Pixels with at least this coverage are set.
const coverageThreshold = 0x80

var ErrNoHeight = errors.New("face has no height")

type Options struct {
	Name    string
	Start   int
	Count   int
	Spacing int

	// Width is given to code points the face has no glyph for. Zero means
	// the widest advance found in the face.
	Width int
}

// Builtin returns the 7x13 face shipped with golang.org/x/image.
func Builtin() font.Face {
	return basicfont.Face7x13
}

// FromBDF parses a BDF document and rasterizes it with FromFace.
func FromBDF(data []byte, opts Options) (*bitfont.FontSet, error) {
	bdfFont, err := bdf.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("bdf: %w", err)
	}
	return FromFace(bdfFont.NewFace(), opts)
}

// FromFace rasterizes the code points opts.Start to opts.Start+opts.Count-1
// into a 1 bit font. Every glyph is as tall as the face and as wide as its
// advance. Rows that are blank in every glyph are set as the crop window.
func FromFace(face font.Face, opts Options) (*bitfont.FontSet, error) {
	metrics := face.Metrics()
	height := metrics.Height.Ceil()
	if height <= 0 {
		return nil, ErrNoHeight
	}

	widths := make([]int, max(opts.Count, 0))
	widest := 0
	for i := range widths {
		advance, ok := face.GlyphAdvance(rune(opts.Start + i))
		if !ok {
			widths[i] = -1
			continue
		}
		widths[i] = advance.Ceil()
		widest = max(widest, widths[i])
	}

	width := opts.Width
	if width == 0 {
		width = widest
	}

	fs, err := bitfont.New(bitfont.Params{
		Name:    opts.Name,
		Depth:   1,
		Width:   width,
		Height:  height,
		Start:   opts.Start,
		Count:   opts.Count,
		Spacing: opts.Spacing,
	})
	if err != nil {
		return nil, err
	}

	for i, w := range widths {
		r := rune(opts.Start + i)

		var g *bitfont.Glyph
		if w < 0 {
			log.DebugLogger.Printf("importer: no glyph for code point %d", r)
			g = bitfont.NewGlyph(width, height)
		} else {
			g = rasterize(face, r, w, height, metrics.Ascent)
		}

		if name := runenames.Name(r); name != "" && name != "<control>" {
			g.Comment = name
		}

		if err := fs.ReplaceGlyph(i, g); err != nil {
			return nil, err
		}
	}

	top, bottom := fs.BlankRows()
	if top == fs.BaseHeight {
		// nothing drawn, keep every row
		top, bottom = 0, 0
	}
	if err := fs.SetCrop(top, bottom); err != nil {
		return nil, err
	}

	return fs, nil
}

func rasterize(face font.Face, r rune, width, height int, ascent fixed.Int26_6) *bitfont.Glyph {
	g := bitfont.NewGlyph(width, height)
	if g.Empty() {
		return g
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	drawer := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(0), Y: ascent},
	}
	drawer.DrawString(string(r))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.AlphaAt(x, y).A >= coverageThreshold {
				g.SetPixel(x, y, 1)
			}
		}
	}
	return g
}
