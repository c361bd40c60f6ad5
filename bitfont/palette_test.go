package bitfont

import (
	"errors"
	"image/color"
	"testing"
)

func TestPaletteSize(t *testing.T) {
	for _, depth := range Depths {
		p, err := NewPalette(depth)
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		if p.Size() != 1<<depth {
			t.Errorf("depth %d: unexpected size %d", depth, p.Size())
		}
		if len(p.Colors()) != p.Size() {
			t.Errorf("depth %d: %d colors in table", depth, len(p.Colors()))
		}
	}
}

func TestPaletteUnsupportedDepth(t *testing.T) {
	for _, depth := range []int{0, 4, 5, 16, -1} {
		if _, err := NewPalette(depth); !errors.Is(err, ErrUnsupportedDepth) {
			t.Errorf("depth %d: expected ErrUnsupportedDepth, got %v", depth, err)
		}
	}
}

func TestPaletteColor(t *testing.T) {
	tests := []struct {
		depth, index int
		want         color.RGBA
	}{
		{1, 0, color.RGBA{255, 255, 255, 255}},
		{1, 1, color.RGBA{0, 0, 0, 255}},
		{2, 2, color.RGBA{255, 0, 0, 255}},
		{2, 3, color.RGBA{0, 0, 255, 255}},
		{3, 5, color.RGBA{255, 255, 0, 255}},
		{8, 0, color.RGBA{0, 0, 0, 255}},
		{8, 0xff, color.RGBA{255, 255, 255, 255}},
		{8, 7 << 5, color.RGBA{255, 0, 0, 255}},
		{8, 7 << 2, color.RGBA{0, 255, 0, 255}},
		{8, 0x03, color.RGBA{0, 0, 255, 255}},
		{8, 1<<5 | 1, color.RGBA{36, 0, 85, 255}},
	}

	for _, tt := range tests {
		p, _ := NewPalette(tt.depth)
		got, err := p.Color(tt.index)
		if err != nil {
			t.Errorf("depth %d index %d: %v", tt.depth, tt.index, err)
			continue
		}
		if got != tt.want {
			t.Errorf("depth %d index %d: expected %v got %v", tt.depth, tt.index, tt.want, got)
		}
		if back := p.Index(got); back != tt.index {
			t.Errorf("depth %d: color %v maps back to %d, expected %d", tt.depth, got, back, tt.index)
		}
	}
}

func TestPaletteIndexOutOfRange(t *testing.T) {
	p, _ := NewPalette(2)
	for _, index := range []int{4, 255, -1} {
		if _, err := p.Color(index); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("index %d: expected ErrIndexOutOfRange, got %v", index, err)
		}
	}

	var zero Palette
	if _, err := zero.Color(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("zero palette: expected ErrIndexOutOfRange, got %v", err)
	}
}
