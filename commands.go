package main

import (
	"errors"
	"flag"
	"fmt"
	"image/gif"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"petbots.fbbdev.it/fontcreator/bitfont"
	"petbots.fbbdev.it/fontcreator/export"
	"petbots.fbbdev.it/fontcreator/glyphmap"
	"petbots.fbbdev.it/fontcreator/importer"
	"petbots.fbbdev.it/fontcreator/internal/atomic"
	"petbots.fbbdev.it/fontcreator/log"
	"petbots.fbbdev.it/fontcreator/preview"
)

var errNoOutput = errors.New("missing output file (-o)")
var errNoInput = errors.New("expected exactly one font file")
var errNoSource = errors.New("expected exactly one of -bdf and -builtin")

func newFlagSet(name, operands string) *flag.FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.Usage = func() {
		fmt.Fprintf(f.Output(), "usage: fontcreator %s [flags] %s\n", name, operands)
		f.PrintDefaults()
	}
	return f
}

// loadFont reads the single font file operand left after flag parsing.
func loadFont(f *flag.FlagSet) (*bitfont.FontSet, error) {
	if f.NArg() != 1 {
		return nil, errNoInput
	}
	return glyphmap.ReadFile(f.Arg(0))
}

func runNew(args []string) error {
	f := newFlagSet("new", "")

	p := bitfont.Params{Depth: 1}
	f.StringVar(&p.Name, "name", "font", "font name")
	f.IntVar(&p.Width, "width", 8, "glyph width")
	f.IntVar(&p.Height, "height", 8, "glyph height")
	f.IntVar(&p.Start, "start", 32, "first code point")
	f.IntVar(&p.Count, "count", 96, "number of glyphs")
	f.IntVar(&p.Spacing, "spacing", 1, "horizontal gap between glyphs")
	f.IntVar(&p.VSpacing, "vspacing", 0, "vertical gap between lines")
	out := f.String("o", "", "output glyph map")

	if err := f.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errNoOutput
	}

	fs, err := bitfont.New(p)
	if err != nil {
		return err
	}
	if err := glyphmap.WriteFile(*out, fs); err != nil {
		return err
	}

	log.InfoLogger.Printf("created %s with %d glyphs", *out, fs.Len())
	return nil
}

func runImport(args []string) error {
	f := newFlagSet("import", "")

	var opts importer.Options
	bdfPath := f.String("bdf", "", "BDF font to import")
	builtin := f.Bool("builtin", false, "import the built-in 7x13 face")
	f.StringVar(&opts.Name, "name", "", "font name (default: file name)")
	f.IntVar(&opts.Start, "start", 32, "first code point")
	f.IntVar(&opts.Count, "count", 95, "number of glyphs")
	f.IntVar(&opts.Spacing, "spacing", 1, "horizontal gap between glyphs")
	f.IntVar(&opts.Width, "width", 0, "width of missing glyphs (default: widest glyph)")
	out := f.String("o", "", "output glyph map")

	if err := f.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errNoOutput
	}
	if (*bdfPath == "") == !*builtin {
		return errNoSource
	}

	var fs *bitfont.FontSet
	var err error
	if *builtin {
		if opts.Name == "" {
			opts.Name = "basic 7x13"
		}
		fs, err = importer.FromFace(importer.Builtin(), opts)
	} else {
		if opts.Name == "" {
			opts.Name = strings.TrimSuffix(filepath.Base(*bdfPath), filepath.Ext(*bdfPath))
		}
		var data []byte
		data, err = os.ReadFile(*bdfPath)
		if err == nil {
			fs, err = importer.FromBDF(data, opts)
		}
	}
	if err != nil {
		return err
	}

	if err := glyphmap.WriteFile(*out, fs); err != nil {
		return err
	}

	log.InfoLogger.Printf("imported %d glyphs into %s, crop %d/%d", fs.Len(), *out, fs.CropTop(), fs.CropBottom())
	return nil
}

func runExport(args []string) error {
	f := newFlagSet("export", "font")

	tmpl := f.String("template", templatePath, "export template (default: built-in)")
	depth := f.Int("depth", 1, "bits per pixel of the exported data")
	cropTop := f.Int("croptop", 0, "rows to drop at the top")
	cropBottom := f.Int("cropbottom", 0, "rows to drop at the bottom")
	autoCrop := f.Bool("autocrop", false, "drop the rows that are blank in every glyph")
	out := f.String("o", "", "output file")

	if err := f.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errNoOutput
	}

	fs, err := loadFont(f)
	if err != nil {
		return err
	}
	if fs, err = fs.WithDepth(*depth); err != nil {
		return err
	}
	if *autoCrop {
		*cropTop, *cropBottom = fs.BlankRows()
		if *cropTop == fs.BaseHeight {
			*cropTop, *cropBottom = 0, 0
		}
	}
	if err := fs.SetCrop(*cropTop, *cropBottom); err != nil {
		return err
	}

	if err := export.ExportFile(fs, *tmpl, *out, export.Options{}); err != nil {
		return err
	}

	log.InfoLogger.Printf("exported %s: %d bytes of glyph data", *out, fs.FootprintBytes())
	return nil
}

func runInfo(args []string) error {
	f := newFlagSet("info", "font")
	if err := f.Parse(args); err != nil {
		return err
	}

	fs, err := loadFont(f)
	if err != nil {
		return err
	}

	widths, err := export.WidthTable(fs)
	if err != nil {
		log.WarningLogger.Print("info: ", err)
	}

	top, bottom := fs.BlankRows()

	fmt.Fprintf(stdout, "name:        %s\n", fs.Name)
	fmt.Fprintf(stdout, "size:        %dx%d, %d bit\n", fs.BaseWidth, fs.BaseHeight, fs.Depth())
	fmt.Fprintf(stdout, "spacing:     %d/%d\n", fs.Spacing, fs.VSpacing)
	fmt.Fprintf(stdout, "code points: %d-%d (%d glyphs)\n", fs.StartCodePoint, fs.LastCodePoint(), fs.Len())
	fmt.Fprintf(stdout, "blank rows:  %d top, %d bottom\n", top, bottom)
	fmt.Fprintf(stdout, "footprint:   %d bytes", fs.FootprintBytes())
	if widths != nil {
		fmt.Fprintf(stdout, " + %d width bytes", len(widths))
	}
	fmt.Fprintln(stdout)
	return nil
}

func runPreview(args []string) error {
	f := newFlagSet("preview", "font")

	p := preview.DefaultParams
	text := f.String("text", "", "text to draw")
	format := f.String("format", "png", "image format: gif, png or bmp")
	f.Float64Var(&p.Speed, "speed", p.Speed, "gif scrolling speed in characters per second")
	f.Float64Var(&p.Width, "width", p.Width, "gif window width relative to the text")
	f.Float64Var(&p.Blank, "blank", p.Blank, "gif blank space relative to the text")
	out := f.String("o", "", "output image")

	if err := f.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errNoOutput
	}
	if _, ok := preview.Formats[*format]; !ok {
		return fmt.Errorf("%w: %q", preview.ErrUnknownFormat, *format)
	}

	fs, err := loadFont(f)
	if err != nil {
		return err
	}

	return atomic.WriteFile(*out, 0644, func(w io.Writer) error {
		if *format == "gif" {
			anim, err := preview.MakeGif(fs, *text, p)
			if err != nil {
				return err
			}
			return gif.EncodeAll(w, anim)
		}

		img, err := preview.DotMatrix(fs, *text)
		if err != nil {
			return err
		}
		return preview.Encode(w, img, *format)
	})
}

func runServe(args []string) error {
	f := newFlagSet("serve", "font")
	addr := f.String("addr", listenAddr, "listen address")
	if err := f.Parse(args); err != nil {
		return err
	}

	fs, err := loadFont(f)
	if err != nil {
		return err
	}

	http.HandleFunc(previewPath, preview.Handler(fs))

	log.InfoLogger.Printf("serving %s on http://%s%s", fs.Name, *addr, previewPath)
	err = http.ListenAndServe(*addr, nil)
	if err != http.ErrServerClosed {
		log.ErrorLogger.Print("http: ", err)
		log.WarningLogger.Print("http server stopped")
		return err
	}
	return nil
}
