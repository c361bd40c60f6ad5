// Package export turns a font into packed firmware data embedded in
// generated source text.
//
// A template is plain text with %placeholders. Lines starting with '?' are
// directives that only affect the computed header size and are removed
// from the output:
//
//	?headerSize=8;     adds 8 bytes
//	?widthTable=true;  adds one byte per glyph
//
// Placeholders that are not recognized are copied unchanged.
package export

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"petbots.fbbdev.it/fontcreator/bitfont"
	"petbots.fbbdev.it/fontcreator/internal/atomic"
	"petbots.fbbdev.it/fontcreator/log"
)

//go:embed templates/font.hpp.tmpl
var defaultTemplate []byte

// DefaultTemplate returns the built-in C++ header template.
func DefaultTemplate() []byte {
	return append([]byte(nil), defaultTemplate...)
}

const (
	bytesPerLine  = 10
	lineSeparator = "\n    "
	dateLayout    = "02.01.2006"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplate         = errors.New("malformed template")
	ErrIO               = errors.New("export i/o failure")
)

// TemplateError reports a malformed directive.
type TemplateError struct {
	Line int
	Msg  string
}

func (err *TemplateError) Error() string {
	return fmt.Sprintf("template line %d: %s", err.Line, err.Msg)
}

func (err *TemplateError) Unwrap() error {
	return ErrTemplate
}

// IOError reports a failure to write the export destination.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (err *IOError) Error() string {
	return "export: " + err.Op + " " + err.Path + ": " + err.Err.Error()
}

func (err *IOError) Unwrap() []error {
	return []error{ErrIO, err.Err}
}

type Options struct {
	// FileName is substituted for %fileName.
	FileName string

	// Now is substituted for %date. The zero value means the current time.
	Now time.Time
}

var directiveRE = regexp.MustCompile(`^\?(\w+)=([^;]*);\s*$`)

// directives strips directive lines from tmpl and returns the remaining
// text and the header size they declare.
func directives(tmpl string, charCount int) (string, int, error) {
	var out strings.Builder
	headerSize := 0

	for i, line := range strings.SplitAfter(tmpl, "\n") {
		if !strings.HasPrefix(line, "?") {
			out.WriteString(line)
			continue
		}

		match := directiveRE.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
		if match == nil {
			return "", 0, &TemplateError{Line: i + 1, Msg: fmt.Sprintf("malformed directive %q", strings.TrimSpace(line))}
		}

		key, value := match[1], strings.TrimSpace(match[2])
		switch key {
		case "headerSize":
			n, err := strconv.Atoi(value)
			if err != nil {
				return "", 0, &TemplateError{Line: i + 1, Msg: fmt.Sprintf("invalid header size %q", value)}
			}
			headerSize += n
		case "widthTable":
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return "", 0, &TemplateError{Line: i + 1, Msg: fmt.Sprintf("invalid width table flag %q", value)}
			}
			if enabled {
				headerSize += charCount
			}
		default:
			log.DebugLogger.Printf("export: ignoring unknown directive %q on template line %d", key, i+1)
		}
	}

	return out.String(), headerSize, nil
}

func hexByte(v int) string {
	return fmt.Sprintf("0x%02X", v)
}

func binByte(name string, v int) (string, error) {
	if v < 0 || v > 0xff {
		return "", fmt.Errorf("%w: %s = %d does not fit in a byte", bitfont.ErrValueTooLarge, name, v)
	}
	return hexByte(v), nil
}

// widthData formats the width table, ten entries per line.
func widthData(widths []byte) string {
	var lines []string
	for i := 0; i < len(widths); i += bytesPerLine {
		end := min(i+bytesPerLine, len(widths))
		entries := make([]string, 0, end-i)
		for _, w := range widths[i:end] {
			entries = append(entries, hexByte(int(w))+",")
		}
		lines = append(lines, strings.Join(entries, " "))
	}
	return strings.Join(lines, lineSeparator)
}

// fontData formats the packed glyphs, one line per glyph followed by its
// code point and comment. The final byte has no trailing comma.
func fontData(fs *bitfont.FontSet, packed [][]byte) string {
	last := -1
	for i, data := range packed {
		if len(data) > 0 {
			last = i
		}
	}

	var lines []string
	for i, data := range packed {
		if len(data) == 0 {
			continue
		}

		var b strings.Builder
		for j, v := range data {
			b.WriteString(hexByte(int(v)))
			if i != last || j != len(data)-1 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
		}

		g := fs.Glyphs()[i]
		fmt.Fprintf(&b, "// %d", fs.StartCodePoint+i)
		if comment := strings.Join(strings.Fields(g.Comment), " "); comment != "" {
			b.WriteString(" " + comment)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, lineSeparator)
}

func words(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// identifier joins the words of name in CamelCase.
func identifier(name string) string {
	var b strings.Builder
	for _, w := range words(name) {
		r := []rune(w)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}

// defName joins the words of name in UPPER_SNAKE_CASE.
func defName(name string) string {
	return cases.Upper(language.Und).String(strings.Join(words(name), "_"))
}

// Export renders tmpl for fs.
func Export(fs *bitfont.FontSet, tmpl []byte, opts Options) ([]byte, error) {
	if err := fs.Validate(); err != nil {
		return nil, err
	}

	widths, err := WidthTable(fs)
	if err != nil {
		return nil, err
	}

	text, headerSize, err := directives(string(tmpl), fs.Len())
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	size := headerSize + fs.FootprintBytes()
	width := preferredWidth(fs)

	values := map[string]string{
		"%fontName":  fs.Name,
		"%fileName":  opts.FileName,
		"%date":      now.Format(dateLayout),
		"%size":      strconv.Itoa(size),
		"%width":     strconv.Itoa(width),
		"%height":    strconv.Itoa(fs.EffectiveHeight()),
		"%bits":      strconv.Itoa(fs.Depth()),
		"%firstChar": strconv.Itoa(fs.StartCodePoint),
		"%lastChar":  strconv.Itoa(fs.LastCodePoint()),
		"%charCount": strconv.Itoa(fs.Len()),
		"%hspace":    strconv.Itoa(fs.Spacing),
		"%vspace":    strconv.Itoa(fs.VSpacing),
		"%defName":   defName(fs.Name),
		"%name":      identifier(fs.Name),
	}

	// The binary header fields only have to fit when they are used.
	binValues := []struct {
		key   string
		value int
	}{
		{"%binWidth", width},
		{"%binHeight", fs.EffectiveHeight()},
		{"%binFirstChar", fs.StartCodePoint},
		{"%binCharCount", fs.Len()},
	}
	for _, bv := range binValues {
		if !strings.Contains(text, bv.key) {
			continue
		}
		if values[bv.key], err = binByte(bv.key[1:], bv.value); err != nil {
			return nil, err
		}
	}
	if strings.Contains(text, "%binSize") {
		if size > 0xffff {
			return nil, fmt.Errorf("%w: size %d does not fit in 16 bits", bitfont.ErrValueTooLarge, size)
		}
		values["%binSize"] = hexByte(size&0xff) + ", " + hexByte(size>>8)
	}

	if strings.Contains(text, "%fontWidthData") {
		values["%fontWidthData"] = widthData(widths)
	}
	if strings.Contains(text, "%fontData") {
		values["%fontData"] = fontData(fs, PackFont(fs))
	}

	// Longer placeholders first, so none is shadowed by a prefix.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, values[k])
	}

	return []byte(strings.NewReplacer(pairs...).Replace(text)), nil
}

// ExportFile renders the template at templatePath for fs and writes the
// result to destPath. An empty templatePath selects the built-in template.
// The destination is only replaced when the whole output was written.
func ExportFile(fs *bitfont.FontSet, templatePath, destPath string, opts Options) error {
	tmpl := defaultTemplate
	if templatePath != "" {
		var err error
		tmpl, err = os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrTemplateNotFound, err)
		}
	}

	if opts.FileName == "" {
		opts.FileName = filepath.Base(destPath)
	}

	out, err := Export(fs, tmpl, opts)
	if err != nil {
		return err
	}

	err = atomic.WriteFile(destPath, 0644, func(w io.Writer) error {
		_, err := w.Write(out)
		return err
	})
	if err != nil {
		return &IOError{Op: "write", Path: destPath, Err: err}
	}
	return nil
}
