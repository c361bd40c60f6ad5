package preview

import (
	"bytes"
	"errors"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"

	"petbots.fbbdev.it/fontcreator/bitfont"
	"petbots.fbbdev.it/fontcreator/log"
)

// dotFont is a 5x8 font with a single glyph 'A' that has one pixel set
// at (2,3).
func dotFont(t *testing.T, p bitfont.Params) *bitfont.FontSet {
	t.Helper()
	fs, err := bitfont.New(p)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := fs.GlyphAt(0)
	if err := g.SetPixel(2, 3, 1); err != nil {
		t.Fatal(err)
	}
	return fs
}

var letterA = bitfont.Params{Name: "a", Depth: 1, Width: 5, Height: 8, Start: 'A', Count: 1, Spacing: 1}

func setPixels(pix []uint8) []int {
	var set []int
	for i, v := range pix {
		if v != 0 {
			set = append(set, i)
		}
	}
	return set
}

func TestRender(t *testing.T) {
	fs := dotFont(t, letterA)

	tests := []struct {
		text   string
		width  int
		pixels []int
	}{
		{"", 0, nil},
		{"A", 5, []int{3*5 + 2}},
		{"AA", 11, []int{3*11 + 2, 3*11 + 8}},
		{"?A", 11, []int{3*11 + 8}},
	}

	for _, tt := range tests {
		img, err := Render(fs, tt.text)
		if err != nil {
			t.Fatal(err)
		}
		if img.Rect.Dx() != tt.width || img.Rect.Dy() != 8 {
			t.Errorf("%q: unexpected size %v", tt.text, img.Rect.Size())
			continue
		}
		if diff := cmp.Diff(tt.pixels, setPixels(img.Pix)); diff != "" {
			t.Errorf("%q: unexpected pixels (-want +got):\n%s", tt.text, diff)
		}
	}
}

func TestRenderCropWindow(t *testing.T) {
	p := letterA
	p.CropTop, p.CropBottom = 2, 1
	fs := dotFont(t, p)

	img, err := Render(fs, "A")
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Dy() != 5 {
		t.Fatal("unexpected height", img.Rect.Dy())
	}
	if diff := cmp.Diff([]int{1*5 + 2}, setPixels(img.Pix)); diff != "" {
		t.Errorf("unexpected pixels (-want +got):\n%s", diff)
	}
}

func TestRenderErrors(t *testing.T) {
	wide, err := bitfont.New(bitfont.Params{Depth: 1, Width: 100, Height: 8, Start: 'A', Count: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Render(wide, strings.Repeat("A", 20)); !errors.Is(err, ErrTooLarge) {
		t.Error("expected ErrTooLarge, got", err)
	}

	fs := dotFont(t, letterA)
	g, _ := fs.GlyphAt(0)
	g.SetPixel(0, 0, 7)
	if _, err := Render(fs, "A"); !errors.Is(err, bitfont.ErrIndexOutOfRange) {
		t.Error("expected ErrIndexOutOfRange, got", err)
	}
}

func TestDotMatrix(t *testing.T) {
	fs := dotFont(t, letterA)

	img, err := DotMatrix(fs, "A")
	if err != nil {
		t.Fatal(err)
	}

	if img.Rect.Dx() != 5*DotSize+2*DotPadding || img.Rect.Dy() != 8*DotSize+2*DotPadding {
		t.Fatal("unexpected size", img.Rect.Size())
	}
	if len(img.Palette) != 3 {
		t.Fatal("unexpected palette size", len(img.Palette))
	}

	frame := uint8(2)
	lit := func(col, row int) (int, int) {
		return 2*DotPadding + col*DotSize, 2*DotPadding + row*DotSize
	}

	if v := img.ColorIndexAt(0, 0); v != frame {
		t.Error("corner is not frame colored:", v)
	}
	if x, y := lit(0, 0); img.ColorIndexAt(x, y) != bitfont.Background {
		t.Error("unlit dot is not background")
	}
	if x, y := lit(2, 3); img.ColorIndexAt(x, y) != 1 || img.ColorIndexAt(x+DotInnerSize-1, y+DotInnerSize-1) != 1 {
		t.Error("lit dot is not foreground")
	}
	if x, y := lit(2, 3); img.ColorIndexAt(x+DotInnerSize, y) != frame {
		t.Error("gap after lit dot is not frame colored")
	}
}

func TestDotPaletteFull(t *testing.T) {
	fs, err := bitfont.New(bitfont.Params{Depth: 8, Width: 1, Height: 1, Count: 1})
	if err != nil {
		t.Fatal(err)
	}
	colors, frame := dotPalette(fs)
	if len(colors) != 256 {
		t.Error("unexpected palette size", len(colors))
	}
	if int(frame) >= len(colors) {
		t.Error("frame index out of the palette", frame)
	}
}

func TestMakeGifStill(t *testing.T) {
	fs := dotFont(t, letterA)

	anim, err := MakeGif(fs, "AA", DefaultParams)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 1 || anim.Delay[0] != 0 {
		t.Fatalf("expected a single frame, got %d", len(anim.Image))
	}
	if anim.Config.Width != 11*DotSize+2*DotPadding || anim.Config.Height != 8*DotSize+2*DotPadding {
		t.Error("unexpected size", anim.Config.Width, anim.Config.Height)
	}

	anim, err = MakeGif(fs, "", Params{Speed: 4, Width: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 1 {
		t.Error("empty text must give a single frame, got", len(anim.Image))
	}
}

func TestMakeGifScrolling(t *testing.T) {
	fs := dotFont(t, letterA)

	tests := []struct {
		name      string
		params    Params
		frames    int
		delay     int
		lastDelay int
	}{
		{"no blank", Params{Speed: 4, Width: 1, Blank: 1}, 22, 4, 4},
		{"blank frames merged", Params{Speed: 4, Width: 1, Blank: 2}, 23, 4, 44},
		{"reverse", Params{Speed: -4, Width: 1, Blank: 1}, 22, 4, 4},
		{"minimum delay", Params{Speed: 100, Width: 1, Blank: 1}, 22, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim, err := MakeGif(fs, "AA", tt.params)
			if err != nil {
				t.Fatal(err)
			}
			if len(anim.Image) != tt.frames {
				t.Fatalf("expected %d frames, got %d", tt.frames, len(anim.Image))
			}
			if anim.Delay[0] != tt.delay || anim.Delay[tt.frames-1] != tt.lastDelay {
				t.Errorf("unexpected delays %d/%d", anim.Delay[0], anim.Delay[tt.frames-1])
			}
			for i, frame := range anim.Image {
				if frame.Rect.Dx() != anim.Config.Width || frame.Rect.Dy() != anim.Config.Height {
					t.Fatalf("frame %d has size %v", i, frame.Rect.Size())
				}
			}
		})
	}
}

func TestMakeGifTooLarge(t *testing.T) {
	fs := dotFont(t, letterA)
	if _, err := MakeGif(fs, strings.Repeat("A", 100), Params{Speed: 1, Width: 1, Blank: 1}); !errors.Is(err, ErrTooLarge) {
		t.Error("expected ErrTooLarge, got", err)
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		query string
		want  Params
		ok    bool
	}{
		{"", DefaultParams, true},
		{"speed=-2.5&width=0.5&blank=1", Params{Speed: -2.5, Width: 0.5, Blank: 1}, true},
		{"speed=fast", DefaultParams, false},
		{"width=0", Params{Width: 0}, false},
		{"blank=-1", Params{Width: 1, Blank: -1}, false},
	}

	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		if err != nil {
			t.Fatal(err)
		}
		p, ok := ParseParams(q)
		if ok != tt.ok {
			t.Errorf("%q: ok = %v", tt.query, ok)
			continue
		}
		if ok {
			if diff := cmp.Diff(tt.want, p); diff != "" {
				t.Errorf("%q: unexpected params (-want +got):\n%s", tt.query, diff)
			}
		}
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	img, err := DotMatrix(dotFont(t, letterA), "A")
	if err != nil {
		t.Fatal(err)
	}
	if err := Encode(new(bytes.Buffer), img, "jpeg"); !errors.Is(err, ErrUnknownFormat) {
		t.Error("expected ErrUnknownFormat, got", err)
	}
}

func get(t *testing.T, h http.Handler, query string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview?"+query, nil))
	return rec
}

func TestHandler(t *testing.T) {
	h := Handler(dotFont(t, letterA))

	rec := get(t, h, "text=AA&speed=4&width=1&blank=1")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/gif" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	anim, err := gif.DecodeAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 22 {
		t.Error("unexpected frame count", len(anim.Image))
	}

	rec = get(t, h, "text=A&format=png")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 5*DotSize+2*DotPadding {
		t.Error("unexpected png width", img.Bounds().Dx())
	}

	rec = get(t, h, "text=A&format=bmp")
	if rec.Code != http.StatusOK {
		t.Fatal("unexpected status", rec.Code)
	}
	if _, err := bmp.Decode(rec.Body); err != nil {
		t.Error(err)
	}
}

func TestHandlerBadRequests(t *testing.T) {
	h := Handler(dotFont(t, letterA))

	for _, query := range []string{
		"text=A&speed=fast",
		"text=A&width=0",
		"text=A&blank=-1",
		"text=A&format=jpeg",
		"text=" + strings.Repeat("A", MaxChars+1),
	} {
		if rec := get(t, h, query); rec.Code != http.StatusNotFound {
			t.Errorf("%q: expected 404, got %d", query, rec.Code)
		}
	}
}

func TestHandlerMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(dotFont(t, letterA)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/preview?text=A", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Error("expected 405, got", rec.Code)
	}
}

func TestHandlerFailure(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	wide, err := bitfont.New(bitfont.Params{Depth: 1, Width: 100, Height: 8, Start: 'A', Count: 1})
	if err != nil {
		t.Fatal(err)
	}

	rec := get(t, Handler(wide), "text="+strings.Repeat("A", 20))
	if rec.Code != http.StatusInternalServerError {
		t.Error("expected 500, got", rec.Code)
	}
	if !strings.Contains(buf.String(), "ERROR: preview: maximum width exceeded") {
		t.Errorf("missing error log:\n%s", buf.String())
	}
}
