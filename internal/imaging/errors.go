package imaging

import (
	"errors"
	"fmt"
	"image"
)

// Error kinds returned by this package. Callers classify failures with
// errors.Is; the wrapped message carries the detail.
var (
	// ErrNotFound reports a missing input or overlay file.
	ErrNotFound = errors.New("file not found")

	// ErrDecode reports bytes that are not a supported raster format.
	ErrDecode = errors.New("cannot decode image")

	// ErrWrite reports a failure to persist an encoded image.
	ErrWrite = errors.New("cannot write image")

	// ErrRange reports a numeric parameter outside [-1, 1].
	ErrRange = errors.New("value out of range")

	// ErrParse reports a parameter that is not a number.
	ErrParse = errors.New("value is not a number")

	// ErrInvariant reports a malformed pixel buffer. It indicates a bug in
	// the caller, not bad user input.
	ErrInvariant = errors.New("buffer invariant violated")
)

// checkBuffer verifies the pixel buffer contract: origin-anchored, non-empty,
// tightly packed RGBA with len(Pix) == width*height*4.
func checkBuffer(b *image.NRGBA) error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvariant)
	}
	r := b.Rect
	w, h := r.Dx(), r.Dy()
	if r.Min != (image.Point{}) {
		return fmt.Errorf("%w: buffer origin at %v", ErrInvariant, r.Min)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: empty buffer %dx%d", ErrInvariant, w, h)
	}
	if b.Stride != w*4 || len(b.Pix) != w*h*4 {
		return fmt.Errorf("%w: %dx%d buffer has stride %d and %d bytes",
			ErrInvariant, w, h, b.Stride, len(b.Pix))
	}
	return nil
}
