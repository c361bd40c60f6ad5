package preview

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"math"

	"petbots.fbbdev.it/fontcreator/bitfont"
)

var errUnexpectedSubImageFormat = errors.New("unexpected sub-image format")

// MakeGif renders text as a dot matrix display. A window of p.Width times
// the text width shows the text followed by p.Blank times its width of
// unlit dots; when p.Speed is not zero the content scrolls through the
// window in a loop.
func MakeGif(fs *bitfont.FontSet, text string, p Params) (*gif.GIF, error) {
	speed, width, blank := p.Speed, p.Width, p.Blank

	width = math.Min(width, 1+blank)
	if speed == 0 {
		blank = math.Max(0, width-1)
	}

	dotMatrix, err := Render(fs, text)
	if err != nil {
		return nil, err
	}

	colors, frame := dotPalette(fs)

	dotMatrixWidth := dotMatrix.Rect.Dx()
	dotMatrixHeight := dotMatrix.Rect.Dy()

	windowColumns := math.Ceil(width * float64(dotMatrixWidth))
	windowWidth := windowColumns*DotSize + 2*DotPadding

	backingImageColumns := math.Ceil((1 + blank) * float64(dotMatrixWidth))
	backingImageWidth := (backingImageColumns+windowColumns)*DotSize + 2*DotPadding
	backingImageHeight := dotMatrixHeight*DotSize + 2*DotPadding

	// windowWidth never exceeds backingImageWidth as width <= 1+blank
	if math.IsNaN(backingImageWidth) || math.IsInf(backingImageWidth, 0) || backingImageWidth < 0 || backingImageWidth > MaxWidth {
		return nil, ErrTooLarge
	}

	frameCount := int(backingImageColumns)

	reverse := speed < 0
	if reverse {
		speed = -speed
	}

	// one character is the base width plus the gap
	charWidthInDots := max(fs.BaseWidth+fs.Spacing, 1)
	delay := 100 / (speed * float64(charWidthInDots))
	if speed == 0 || frameCount == 0 {
		delay = 0
	}

	if math.IsNaN(delay) || math.IsInf(delay, 0) || delay < 0 || delay > math.MaxUint16 {
		delay = 0
	}

	if delay > 0 {
		// delay must be at least 2 otherwise some players won't work
		delay = math.Max(2, math.Round(delay))
	}

	backingImage := image.NewPaletted(
		image.Rect(0, 0, int(backingImageWidth), backingImageHeight),
		colors,
	)
	fill(backingImage, frame)

	// text dots, repeated after the blank so the window can wrap around
	for y := 0; y < dotMatrixHeight; y++ {
		for x := 0; x < dotMatrixWidth; x++ {
			dotState := dotMatrix.Pix[y*dotMatrix.Stride+x]

			paintDot(backingImage, x, y, dotState)
			if x < int(windowColumns) {
				paintDot(backingImage, x+int(backingImageColumns), y, dotState)
			}
		}
	}

	dotMatrix = nil

	// blank dots
	blankWidth := math.Floor(blank * float64(dotMatrixWidth))
	for y := 0; y < dotMatrixHeight; y++ {
		for x := dotMatrixWidth; x < dotMatrixWidth+int(blankWidth); x++ {
			paintDot(backingImage, x, y, bitfont.Background)
			if x < int(windowColumns) {
				paintDot(backingImage, x+int(backingImageColumns), y, bitfont.Background)
			}
		}
	}

	if delay == 0 {
		subImage := backingImage.SubImage(image.Rect(0, 0, int(windowWidth), backingImageHeight))
		palettedSubImage, ok := subImage.(*image.Paletted)
		if !ok {
			return nil, errUnexpectedSubImageFormat
		}
		return &gif.GIF{
			Image:     []*image.Paletted{palettedSubImage},
			Delay:     []int{0},
			LoopCount: 0,
			Disposal:  []byte{0},
			Config: image.Config{
				ColorModel: color.Palette(colors),
				Width:      palettedSubImage.Rect.Dx(),
				Height:     palettedSubImage.Rect.Dy(),
			},
			BackgroundIndex: frame,
		}, nil
	}

	// determine starting point of animation and blank range
	var column, step, blankRangeStart, blankRangeEnd int

	if reverse {
		column = int(math.Min(backingImageColumns, float64(dotMatrixWidth)+windowColumns) - windowColumns)
		step = -1
		blankRangeStart = column + 1
		blankRangeEnd = int(backingImageColumns-windowColumns) + 1
	} else {
		column = max(dotMatrixWidth, int(backingImageColumns-windowColumns))
		step = 1
		blankRangeStart = dotMatrixWidth
		blankRangeEnd = column
	}

	blankCount := max(blankRangeEnd-blankRangeStart, 0)

	// compress blank frames into one
	if blankCount > 0 {
		frameCount -= (blankCount - 1)
	}

	// the last (possibly blank) frame lasts for every frame it replaces
	lastDelay := int(delay)
	if blankCount > 0 {
		lastDelay *= blankCount
	}

	anim := gif.GIF{
		Image:     make([]*image.Paletted, frameCount),
		Delay:     make([]int, frameCount),
		LoopCount: 0,
		Disposal:  make([]byte, frameCount),
		Config: image.Config{
			ColorModel: color.Palette(colors),
			Width:      int(windowWidth),
			Height:     backingImageHeight,
		},
		BackgroundIndex: frame,
	}

	for i := range anim.Image {
		x := column * DotSize

		subImage, ok := backingImage.SubImage(image.Rect(x, 0, x+int(windowWidth), backingImageHeight)).(*image.Paletted)
		if !ok {
			return nil, errUnexpectedSubImageFormat
		}

		subImage.Rect = image.Rect(0, 0, int(windowWidth), backingImageHeight)

		anim.Image[i] = subImage
		anim.Delay[i] = int(delay)
		anim.Disposal[i] = 0

		column += step
		if column >= int(backingImageColumns) {
			column -= int(backingImageColumns)
		} else if column < 0 {
			column += int(backingImageColumns)
		}
	}

	anim.Delay[frameCount-1] = lastDelay

	return &anim, nil
}
