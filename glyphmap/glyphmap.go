// Package glyphmap reads and writes fonts in the editable glyph-map text
// format:
//
//	#font   : Tiny
//	#width  : 3
//	#height : 2
//	#hspace : 1
//	#vspace : 0
//
//	#char : 65 'A' LATIN CAPITAL LETTER A
//	[ # ]
//	[# #]
//
// Only background and foreground are distinguished, so decoded fonts always
// have a depth of 1 bit per pixel. Glyphs share the declared width. Text
// after the quoted character is the glyph comment.
package glyphmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"petbots.fbbdev.it/fontcreator/bitfont"
	"petbots.fbbdev.it/fontcreator/internal/atomic"
)

const (
	pixelOn  = '#'
	pixelOff = ' '
)

var ErrFormat = errors.New("malformed glyph map")

// FormatError reports the first malformed line of a glyph map.
type FormatError struct {
	Line int // 1-based
	Msg  string
	Err  error
}

func (err *FormatError) Error() string {
	msg := fmt.Sprintf("line %d: %s", err.Line, err.Msg)
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *FormatError) Unwrap() []error {
	if err.Err != nil {
		return []error{ErrFormat, err.Err}
	}
	return []error{ErrFormat}
}

// Encode writes fs as a glyph map. Any non-background pixel is written as
// foreground. Every glyph is written with the font's base size: narrower
// or shorter glyphs are padded with background, larger ones are cut.
func Encode(w io.Writer, fs *bitfont.FontSet) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "#font   : %s\n", fs.Name)
	fmt.Fprintf(bw, "#width  : %d\n", fs.BaseWidth)
	fmt.Fprintf(bw, "#height : %d\n", fs.BaseHeight)
	fmt.Fprintf(bw, "#hspace : %d\n", fs.Spacing)
	fmt.Fprintf(bw, "#vspace : %d\n", fs.VSpacing)

	row := make([]byte, 0, fs.BaseWidth+2)
	for i, g := range fs.Glyphs() {
		cp := fs.StartCodePoint + i
		fmt.Fprintf(bw, "\n#char : %d", cp)
		if cp >= 32 && cp <= 126 {
			fmt.Fprintf(bw, " '%c'", rune(cp))
		}
		if comment := strings.Join(strings.Fields(g.Comment), " "); comment != "" {
			bw.WriteString(" " + comment)
		}
		bw.WriteByte('\n')

		for y := 0; y < fs.BaseHeight; y++ {
			row = append(row[:0], '[')
			for x := 0; x < fs.BaseWidth; x++ {
				if v, _ := g.Pixel(x, y); v != bitfont.Background {
					row = append(row, pixelOn)
				} else {
					row = append(row, pixelOff)
				}
			}
			row = append(row, ']', '\n')
			bw.Write(row)
		}
	}

	return bw.Flush()
}

// ReadFile decodes the glyph map stored at path.
func ReadFile(path string) (*bitfont.FontSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// WriteFile replaces the file at path with the glyph map of fs.
func WriteFile(path string, fs *bitfont.FontSet) error {
	return atomic.WriteFile(path, 0644, func(w io.Writer) error {
		return Encode(w, fs)
	})
}
