package preview

import (
	"errors"
	"image"
	"image/gif"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
)

var ErrUnknownFormat = errors.New("unknown image format")

// Formats lists the accepted image formats with their content type.
var Formats = map[string]string{
	"gif": "image/gif",
	"png": "image/png",
	"bmp": "image/bmp",
}

// Encode writes a single image in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "gif":
		return gif.Encode(w, img, nil)
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	}
	return ErrUnknownFormat
}
