package bitfont

import "errors"

var (
	ErrUnsupportedDepth = errors.New("unsupported pixel depth")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrOutOfBounds      = errors.New("pixel coordinates out of bounds")
	ErrValueTooLarge    = errors.New("value too large")
	ErrInvalidMetrics   = errors.New("invalid font metrics")
)
