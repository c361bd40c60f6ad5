package glyphmap

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"petbots.fbbdev.it/fontcreator/bitfont"
)

var (
	keyValueRE = regexp.MustCompile(`^#(\w+)[ \t]*:[ \t]*(.*)$`)
	charRE     = regexp.MustCompile(`^(\d+)(?:[ \t]+'(.)')?(?:[ \t]+(.*))?$`)
)

var metadataKeys = [...]string{"font", "width", "height", "hspace", "vspace"}

type decoder struct {
	line int

	meta    map[string]string
	params  bitfont.Params
	started bool

	glyphs  []*bitfont.Glyph
	current *bitfont.Glyph
	row     int // next row of current
}

func (d *decoder) errorf(format string, args ...any) error {
	return &FormatError{Line: d.line, Msg: fmt.Sprintf(format, args...)}
}

// Decode parses a glyph map. The whole input must be well formed; the
// first malformed line aborts decoding.
func Decode(r io.Reader) (*bitfont.FontSet, error) {
	d := &decoder{meta: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		d.line++
		if err := d.parseLine(strings.TrimSuffix(scanner.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Line: d.line + 1, Msg: "read error", Err: err}
	}

	if d.current != nil {
		return nil, d.errorf("char %d has %d of %d rows", d.current.CodePoint, d.row, d.params.Height)
	}
	if !d.started {
		if err := d.finishMetadata(); err != nil {
			return nil, err
		}
	}

	d.params.Count = len(d.glyphs)
	fs, err := bitfont.New(d.params)
	if err != nil {
		return nil, &FormatError{Line: d.line, Msg: "invalid metrics", Err: err}
	}
	for i, g := range d.glyphs {
		fs.ReplaceGlyph(i, g)
	}

	return fs, nil
}

func (d *decoder) parseLine(line string) error {
	if d.current != nil {
		return d.parseRow(line)
	}

	switch {
	case line == "" || line[0] == ' ' || line[0] == '\t':
		return nil
	case line[0] == '#':
		return d.parseKey(line)
	case line[0] == '[':
		return d.errorf("glyph row outside of a char block")
	}
	return d.errorf("unrecognized line %q", line)
}

func (d *decoder) parseKey(line string) error {
	match := keyValueRE.FindStringSubmatch(line)
	if match == nil {
		return d.errorf("malformed key line %q", line)
	}
	key, value := match[1], strings.TrimSpace(match[2])

	if key == "char" {
		return d.startChar(value)
	}

	known := false
	for _, k := range metadataKeys {
		known = known || k == key
	}
	if !known {
		return d.errorf("unknown key %q", key)
	}
	if d.started {
		return d.errorf("key %q after the first char", key)
	}
	if _, dup := d.meta[key]; dup {
		return d.errorf("duplicate key %q", key)
	}
	d.meta[key] = value
	return nil
}

// finishMetadata checks and converts the metadata block.
func (d *decoder) finishMetadata() error {
	for _, key := range metadataKeys {
		if _, ok := d.meta[key]; !ok {
			return d.errorf("missing key %q", key)
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"width", &d.params.Width},
		{"height", &d.params.Height},
		{"hspace", &d.params.Spacing},
		{"vspace", &d.params.VSpacing},
	}
	for _, v := range ints {
		n, err := strconv.Atoi(d.meta[v.key])
		if err != nil || n < 0 {
			return &FormatError{Line: d.line, Msg: "invalid value for key " + strconv.Quote(v.key), Err: err}
		}
		*v.dst = n
	}

	d.params.Name = d.meta["font"]
	d.params.Depth = 1
	d.started = true
	return nil
}

func (d *decoder) startChar(value string) error {
	if !d.started {
		if err := d.finishMetadata(); err != nil {
			return err
		}
	}

	match := charRE.FindStringSubmatch(value)
	if match == nil {
		return d.errorf("malformed char header %q", value)
	}
	cp, err := strconv.Atoi(match[1])
	if err != nil {
		return &FormatError{Line: d.line, Msg: "invalid code point", Err: err}
	}

	if len(d.glyphs) == 0 {
		d.params.Start = cp
	} else if want := d.params.Start + len(d.glyphs); cp != want {
		return d.errorf("unexpected code point %d, expected %d", cp, want)
	}

	d.current = bitfont.NewGlyph(d.params.Width, d.params.Height)
	d.current.CodePoint = cp
	d.current.Comment = strings.TrimSpace(match[3])
	d.row = 0
	d.glyphs = append(d.glyphs, d.current)
	if d.params.Height == 0 {
		d.current = nil
	}
	return nil
}

func (d *decoder) parseRow(line string) error {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return d.errorf("char %d has %d of %d rows", d.current.CodePoint, d.row, d.params.Height)
	}

	pixels := line[1 : len(line)-1]
	if len(pixels) != d.params.Width {
		return d.errorf("row of char %d is %d pixels wide, expected %d", d.current.CodePoint, len(pixels), d.params.Width)
	}

	for x := 0; x < len(pixels); x++ {
		switch pixels[x] {
		case pixelOff:
		case pixelOn:
			d.current.SetPixel(x, d.row, 1)
		default:
			return d.errorf("illegal pixel %q in char %d", pixels[x], d.current.CodePoint)
		}
	}

	d.row++
	if d.row == d.params.Height {
		d.current = nil
	}
	return nil
}
